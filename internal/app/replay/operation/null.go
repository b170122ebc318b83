// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package operation

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/app/replay/challenge"
	"github.com/insolar/settlement-replay/internal/pkg/bn"
)

type NullSettlementChallengeByPayment struct {
	log *logrus.Logger
	rc  *ReplayContext
}

func NewNullSettlementChallengeByPayment(log *logrus.Logger, rc *ReplayContext) *NullSettlementChallengeByPayment {
	return &NullSettlementChallengeByPayment{log: log, rc: rc}
}

// StartChallenge opens a null settlement proposal. An open driip proposal of the
// same wallet and currency carries its transfer and stage into the target balance.
func (o *NullSettlementChallengeByPayment) StartChallenge(step *replay.StartNullChallenge) error {
	wallet := step.Wallet
	currency := step.Currency

	var nonce uint64
	cumulativeTransfer, stage := bn.Zero(), bn.Zero()
	if dsc := o.rc.DriipSettlementChallengeState; dsc.HasProposal(wallet, currency) {
		proposal, err := dsc.GetProposal(wallet, currency)
		if err != nil {
			return err
		}
		nonce = proposal.Nonce
		if !proposal.Terminated {
			cumulativeTransfer = proposal.Amounts.CumulativeTransfer
			stage = proposal.Amounts.Stage
		}
	}
	if nsc := o.rc.NullSettlementChallengeState; nsc.HasProposal(wallet, currency) {
		proposal, err := nsc.GetProposal(wallet, currency)
		if err != nil {
			return err
		}
		if proposal.Nonce > nonce {
			nonce = proposal.Nonce
		}
	}

	active := o.rc.ClientFund.ActiveBalance(wallet, currency)
	targetBalance := active.Value.Add(cumulativeTransfer).Sub(stage).Sub(step.StageAmount)

	err := o.rc.NullSettlementChallengeState.InitiateProposal(challenge.NullInitiation{
		Wallet:                wallet,
		Nonce:                 nonce,
		StageAmount:           step.StageAmount,
		TargetBalanceAmount:   targetBalance,
		Currency:              currency,
		ReferenceBlockNumber:  active.BlockNumber,
		DefinitionBlockNumber: step.BlockNumber,
		DefinitionTimestamp:   step.BlockTimestamp,
		WalletInitiated:       true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to initiate null settlement proposal")
	}

	o.log.WithFields(logrus.Fields{
		"wallet":         replay.WalletKey(wallet),
		"nonce":          nonce,
		"currency":       currency.String(),
		"target_balance": targetBalance.String(),
	}).Debug("null settlement challenge started")
	return nil
}

type NullSettlement struct {
	log *logrus.Logger
	rc  *ReplayContext
}

func NewNullSettlement(log *logrus.Logger, rc *ReplayContext) *NullSettlement {
	return &NullSettlement{log: log, rc: rc}
}

func (o *NullSettlement) SettleNull(step *replay.SettleNull) error {
	wallet := step.Wallet
	currency := step.Currency
	logger := o.log.WithFields(logrus.Fields{
		"wallet":   replay.WalletKey(wallet),
		"currency": currency.String(),
	})

	nsc := o.rc.NullSettlementChallengeState
	proposal, err := nsc.GetProposal(wallet, currency)
	if err != nil {
		return err
	}
	if proposal.Terminated {
		return errors.Wrapf(replay.ErrProposalTerminated, "null proposal of wallet %s nonce %d", replay.WalletKey(wallet), proposal.Nonce)
	}
	if !proposal.HasExpired(step.BlockTimestamp) {
		logger.WithField("expiration_time", proposal.ExpirationTime).Warn("settling non-expired proposal")
	}

	o.rc.NullSettlementState.SetMaxNonceByWalletAndCurrency(wallet, currency, proposal.Nonce)
	if err := o.rc.ClientFund.Stage(wallet, proposal.Amounts.Stage, currency, step.BlockNumber); err != nil {
		return errors.Wrap(err, "failed to stage")
	}
	if err := nsc.TerminateProposal(wallet, currency); err != nil {
		return errors.Wrap(err, "failed to terminate null settlement proposal")
	}

	logger.WithField("nonce", proposal.Nonce).Debug("null settled")
	return nil
}
