// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package operation

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/app/replay/settlement"
	"github.com/insolar/settlement-replay/internal/pkg/bn"
)

type DriipSettlementByPayment struct {
	log       *logrus.Logger
	rc        *ReplayContext
	validator PaymentValidator
}

func NewDriipSettlementByPayment(log *logrus.Logger, rc *ReplayContext, validator PaymentValidator) *DriipSettlementByPayment {
	return &DriipSettlementByPayment{
		log:       log,
		rc:        rc,
		validator: validator,
	}
}

// SettlePayment settles the step wallet's side of the payment against its
// driip settlement proposal. Sub-steps run in a fixed order, later ones read
// what earlier ones wrote.
func (o *DriipSettlementByPayment) SettlePayment(step *replay.SettlePayment) error {
	payment := &step.Payment
	wallet := step.Wallet
	currency := payment.Currency
	logger := o.log.WithFields(logrus.Fields{
		"wallet":   replay.WalletKey(wallet),
		"nonce":    payment.Nonce,
		"currency": currency.String(),
	})

	p, role, err := party(o.validator, payment, wallet)
	if err != nil {
		return err
	}

	proposal, err := o.rc.DriipSettlementChallengeState.GetProposal(wallet, currency)
	if err != nil {
		return err
	}
	if proposal.Terminated {
		return errors.Wrapf(replay.ErrProposalTerminated, "driip proposal of wallet %s nonce %d", replay.WalletKey(wallet), proposal.Nonce)
	}
	if proposal.Nonce != payment.Nonce {
		logger.WithField("proposal_nonce", proposal.Nonce).Warn("settling payment against proposal of another nonce")
	}
	if !proposal.HasExpired(step.BlockTimestamp) {
		logger.WithField("expiration_time", proposal.ExpirationTime).Warn("settling non-expired proposal")
	}

	dss := o.rc.DriipSettlementState
	fund := o.rc.ClientFund

	done, err := dss.IsSettlementPartyDone(wallet, p.Nonce, role)
	if err != nil && errors.Cause(err) != replay.ErrSettlementNotFound {
		return err
	}
	if done {
		return errors.Wrapf(replay.ErrSettlementPartyDone, "%s wallet %s nonce %d", role, replay.WalletKey(wallet), p.Nonce)
	}

	currentActive := fund.ActiveBalance(wallet, currency)
	deltaActive := currentActive.Value.Sub(fund.ActiveBalanceByBlockNumber(wallet, currency, payment.BlockNumber).Value)
	corrected := p.Balances.Current.Add(deltaActive).Sub(settledSincePayment(o.rc, wallet, payment))
	if corrected.IsNegative() {
		return errors.Wrapf(replay.ErrNegativeAmount, "corrected balance %s", corrected)
	}
	settleAmount := corrected.Sub(currentActive.Value)

	for _, last := range []uint64{fund.LastBlockNumber(wallet, currency), dss.LastSettledBlockNumber(wallet, currency)} {
		if last > step.BlockNumber {
			return errors.Wrapf(replay.ErrBlockNumberRegression, "settlement at block %d after block %d", step.BlockNumber, last)
		}
	}

	dss.InitSettlement(
		replay.PaymentKind,
		payment.Seals.Operator.Hash,
		payment.Sender.Wallet,
		payment.Sender.Nonce,
		payment.Recipient.Wallet,
		payment.Recipient.Nonce,
	)
	if err := fund.UpdateSettledBalance(wallet, corrected, currency, step.BlockNumber); err != nil {
		return errors.Wrap(err, "failed to update settled balance")
	}
	if err := dss.AddSettledAmountByBlockNumber(wallet, settleAmount, currency, step.BlockNumber); err != nil {
		return errors.Wrap(err, "failed to add settled amount")
	}
	if err := fund.Stage(wallet, proposal.Amounts.Stage, currency, step.BlockNumber); err != nil {
		return errors.Wrap(err, "failed to stage")
	}
	for _, fee := range p.Fees.Total {
		dss.SetTotalFee(wallet, fee.Currency, settlement.NoncedAmount{Nonce: p.Nonce, Amount: fee.Amount})
	}
	if err := dss.CompleteSettlementParty(wallet, p.Nonce, role, true, step.BlockNumber); err != nil {
		return errors.Wrap(err, "failed to complete settlement party")
	}
	if payment.Nonce > dss.MaxNonceByWalletAndCurrency(wallet, currency) {
		dss.SetMaxNonceByWalletAndCurrency(wallet, currency, payment.Nonce)
	}
	if err := o.rc.DriipSettlementChallengeState.TerminateProposal(wallet, currency); err != nil {
		return errors.Wrap(err, "failed to terminate driip settlement proposal")
	}

	logger.WithFields(logrus.Fields{
		"role":          role.String(),
		"settle_amount": settleAmount.String(),
	}).Debug("payment settled")
	return nil
}

// settledSincePayment is the part of the settled amount recorded after the
// payment's block. The payment's balances already include it, the active balance
// as of the payment's block does not.
func settledSincePayment(rc *ReplayContext, wallet common.Address, payment *replay.Payment) bn.Int {
	dss := rc.DriipSettlementState
	currency := payment.Currency
	return dss.SettledAmount(wallet, currency).Sub(dss.SettledAmountByBlockNumber(wallet, currency, payment.BlockNumber))
}
