// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package replay

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/insolar/settlement-replay/internal/pkg/bn"
)

type Action string

const (
	ActionReceive               Action = "receive"
	ActionWithdraw              Action = "withdraw"
	ActionStartPaymentChallenge Action = "start-payment-challenge"
	ActionSettlePayment         Action = "settle-payment"
	ActionStartNullChallenge    Action = "start-null-challenge"
	ActionSettleNull            Action = "settle-null"
)

var Actions = []Action{
	ActionReceive,
	ActionWithdraw,
	ActionStartPaymentChallenge,
	ActionSettlePayment,
	ActionStartNullChallenge,
	ActionSettleNull,
}

// Header carries what every step has in common.
type Header struct {
	Wallet         common.Address
	BlockNumber    uint64
	BlockTimestamp uint64
}

// Step is one chain action. The set of implementations is closed.
type Step interface {
	Action() Action
	Head() Header
	isStep()
}

type Receive struct {
	Header
	Amount   bn.Int
	Currency Currency
}

type Withdraw struct {
	Header
	Amount   bn.Int
	Currency Currency
}

type StartPaymentChallenge struct {
	Header
	Payment     Payment
	StageAmount bn.Int
}

type SettlePayment struct {
	Header
	Payment Payment
}

type StartNullChallenge struct {
	Header
	Currency    Currency
	StageAmount bn.Int
}

type SettleNull struct {
	Header
	Currency Currency
}

func (s *Receive) Action() Action               { return ActionReceive }
func (s *Withdraw) Action() Action              { return ActionWithdraw }
func (s *StartPaymentChallenge) Action() Action { return ActionStartPaymentChallenge }
func (s *SettlePayment) Action() Action         { return ActionSettlePayment }
func (s *StartNullChallenge) Action() Action    { return ActionStartNullChallenge }
func (s *SettleNull) Action() Action            { return ActionSettleNull }

func (h Header) Head() Header { return h }

func (*Receive) isStep()               {}
func (*Withdraw) isStep()              {}
func (*StartPaymentChallenge) isStep() {}
func (*SettlePayment) isStep()         {}
func (*StartNullChallenge) isStep()    {}
func (*SettleNull) isStep()            {}

type rawStep struct {
	Action         Action          `json:"action"`
	Wallet         common.Address  `json:"wallet"`
	BlockNumber    uint64          `json:"blockNumber"`
	BlockTimestamp uint64          `json:"blockTimestamp"`
	Data           json.RawMessage `json:"data"`
	Ref            json.RawMessage `json:"ref"`
}

type amountData struct {
	Amount   *bn.Int  `json:"amount"`
	Currency Currency `json:"currency"`
}

type challengeData struct {
	StageAmount *bn.Int  `json:"stageAmount"`
	Currency    Currency `json:"currency"`
	Payment     *Payment `json:"payment"`
}

// DecodeSteps parses an ordered JSON array of steps.
func DecodeSteps(data []byte) ([]Step, error) {
	var raws []rawStep
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal steps")
	}
	steps := make([]Step, 0, len(raws))
	for i, raw := range raws {
		s, err := decodeStep(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "step #%d", i)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func decodeStep(raw rawStep) (Step, error) {
	h := Header{
		Wallet:         raw.Wallet,
		BlockNumber:    raw.BlockNumber,
		BlockTimestamp: raw.BlockTimestamp,
	}
	switch raw.Action {
	case ActionReceive, ActionWithdraw:
		var d amountData
		if err := unmarshalData(raw.Data, &d); err != nil {
			return nil, err
		}
		if d.Amount == nil {
			return nil, errors.Wrapf(ErrInvalidStep, "%s without amount", raw.Action)
		}
		if raw.Action == ActionReceive {
			return &Receive{Header: h, Amount: *d.Amount, Currency: d.Currency}, nil
		}
		return &Withdraw{Header: h, Amount: *d.Amount, Currency: d.Currency}, nil

	case ActionStartPaymentChallenge, ActionSettlePayment:
		var d challengeData
		if err := unmarshalData(raw.Data, &d); err != nil {
			return nil, err
		}
		payment, err := paymentOf(raw, d)
		if err != nil {
			return nil, err
		}
		if raw.Action == ActionSettlePayment {
			return &SettlePayment{Header: h, Payment: *payment}, nil
		}
		if d.StageAmount == nil {
			return nil, errors.Wrapf(ErrInvalidStep, "%s without stageAmount", raw.Action)
		}
		return &StartPaymentChallenge{Header: h, Payment: *payment, StageAmount: *d.StageAmount}, nil

	case ActionStartNullChallenge:
		var d challengeData
		if err := unmarshalData(raw.Data, &d); err != nil {
			return nil, err
		}
		if d.StageAmount == nil {
			return nil, errors.Wrapf(ErrInvalidStep, "%s without stageAmount", raw.Action)
		}
		return &StartNullChallenge{Header: h, Currency: d.Currency, StageAmount: *d.StageAmount}, nil

	case ActionSettleNull:
		var d challengeData
		if err := unmarshalData(raw.Data, &d); err != nil {
			return nil, err
		}
		return &SettleNull{Header: h, Currency: d.Currency}, nil
	}
	return nil, errors.Wrapf(ErrUnknownAction, "%q", raw.Action)
}

// paymentOf takes the payment from "ref", falling back to "data.payment".
func paymentOf(raw rawStep, d challengeData) (*Payment, error) {
	if len(raw.Ref) > 0 && string(raw.Ref) != "null" {
		var p Payment
		if err := json.Unmarshal(raw.Ref, &p); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal payment ref")
		}
		return &p, nil
	}
	if d.Payment == nil {
		return nil, errors.Wrapf(ErrInvalidStep, "%s without payment", raw.Action)
	}
	return d.Payment, nil
}

func unmarshalData(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return errors.Wrap(ErrInvalidStep, "missing data")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "failed to unmarshal step data")
	}
	return nil
}
