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
)

type DriipSettlementChallengeByPayment struct {
	log       *logrus.Logger
	rc        *ReplayContext
	validator PaymentValidator
}

func NewDriipSettlementChallengeByPayment(log *logrus.Logger, rc *ReplayContext, validator PaymentValidator) *DriipSettlementChallengeByPayment {
	return &DriipSettlementChallengeByPayment{
		log:       log,
		rc:        rc,
		validator: validator,
	}
}

// StartChallenge opens a driip settlement proposal for the step wallet from the
// payment it refers to.
func (o *DriipSettlementChallengeByPayment) StartChallenge(step *replay.StartPaymentChallenge) error {
	payment := &step.Payment
	wallet := step.Wallet
	currency := payment.Currency

	p, _, err := party(o.validator, payment, wallet)
	if err != nil {
		return err
	}

	fund := o.rc.ClientFund
	paymentActive := fund.ActiveBalanceByBlockNumber(wallet, currency, payment.BlockNumber)
	cumulativeTransfer := p.Balances.Current.Sub(paymentActive.Value)
	correctedCumulativeTransfer := cumulativeTransfer.Sub(settledSincePayment(o.rc, wallet, payment))

	currentActive := fund.ActiveBalance(wallet, currency)
	targetBalance := currentActive.Value.Add(correctedCumulativeTransfer).Sub(step.StageAmount)

	err = o.rc.DriipSettlementChallengeState.InitiateProposal(challenge.DriipInitiation{
		Wallet:                   wallet,
		Nonce:                    payment.Nonce,
		CumulativeTransferAmount: correctedCumulativeTransfer,
		StageAmount:              step.StageAmount,
		TargetBalanceAmount:      targetBalance,
		Currency:                 currency,
		ReferenceBlockNumber:     payment.BlockNumber,
		ChallengedKind:           replay.PaymentKind,
		ChallengedHash:           payment.Seals.Operator.Hash,
		DefinitionBlockNumber:    step.BlockNumber,
		DefinitionTimestamp:      step.BlockTimestamp,
		WalletInitiated:          true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to initiate driip settlement proposal")
	}

	o.log.WithFields(logrus.Fields{
		"wallet":         replay.WalletKey(wallet),
		"nonce":          payment.Nonce,
		"currency":       currency.String(),
		"target_balance": targetBalance.String(),
	}).Debug("driip settlement challenge started")
	return nil
}
