// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package operation

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/insolar/settlement-replay/internal/app/replay"
)

// Executor applies steps to a ReplayContext.
type Executor struct {
	log *logrus.Logger
	rc  *ReplayContext

	driipChallenge  *DriipSettlementChallengeByPayment
	driipSettlement *DriipSettlementByPayment
	nullChallenge   *NullSettlementChallengeByPayment
	nullSettlement  *NullSettlement
}

func NewExecutor(log *logrus.Logger, rc *ReplayContext, validator PaymentValidator) *Executor {
	return &Executor{
		log:             log,
		rc:              rc,
		driipChallenge:  NewDriipSettlementChallengeByPayment(log, rc, validator),
		driipSettlement: NewDriipSettlementByPayment(log, rc, validator),
		nullChallenge:   NewNullSettlementChallengeByPayment(log, rc),
		nullSettlement:  NewNullSettlement(log, rc),
	}
}

func (e *Executor) Context() *ReplayContext {
	return e.rc
}

func (e *Executor) Execute(ctx context.Context, step replay.Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h := step.Head()
	e.log.WithFields(logrus.Fields{
		"action":       step.Action(),
		"wallet":       replay.WalletKey(h.Wallet),
		"block_number": h.BlockNumber,
	}).Debug("applying step")

	var err error
	switch s := step.(type) {
	case *replay.Receive:
		err = e.rc.ClientFund.Receive(s.Wallet, s.Amount, s.Currency, s.BlockNumber)
	case *replay.Withdraw:
		err = e.rc.ClientFund.Withdraw(s.Wallet, s.Amount, s.Currency, s.BlockNumber)
	case *replay.StartPaymentChallenge:
		err = e.driipChallenge.StartChallenge(s)
	case *replay.SettlePayment:
		err = e.driipSettlement.SettlePayment(s)
	case *replay.StartNullChallenge:
		err = e.nullChallenge.StartChallenge(s)
	case *replay.SettleNull:
		err = e.nullSettlement.SettleNull(s)
	default:
		return errors.Wrapf(replay.ErrUnknownAction, "%T", step)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to apply %s", step.Action())
	}
	return nil
}

// ExecuteAll applies steps in order and stops at the first failure.
func (e *Executor) ExecuteAll(ctx context.Context, steps []replay.Step) error {
	for i, step := range steps {
		if err := e.Execute(ctx, step); err != nil {
			return errors.Wrapf(err, "step #%d", i)
		}
	}
	return nil
}
