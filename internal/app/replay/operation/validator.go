// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package operation

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/insolar/settlement-replay/internal/app/replay"
)

//go:generate minimock -i github.com/insolar/settlement-replay/internal/app/replay/operation.PaymentValidator -o ./payment_validator_mock.go -n PaymentValidatorMock
type PaymentValidator interface {
	// IsPaymentSender fails if wallet is neither sender nor recipient of payment.
	IsPaymentSender(payment *replay.Payment, wallet common.Address) (bool, error)
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) IsPaymentSender(payment *replay.Payment, wallet common.Address) (bool, error) {
	switch wallet {
	case payment.Sender.Wallet:
		return true, nil
	case payment.Recipient.Wallet:
		return false, nil
	}
	return false, errors.Wrapf(replay.ErrUnknownPaymentParty, "wallet %s payment %d", replay.WalletKey(wallet), payment.Nonce)
}

// party returns the side of payment that wallet is on.
func party(v PaymentValidator, payment *replay.Payment, wallet common.Address) (*replay.PaymentParty, replay.SettlementRole, error) {
	isSender, err := v.IsPaymentSender(payment, wallet)
	if err != nil {
		return nil, 0, err
	}
	if isSender {
		return &payment.Sender, replay.RoleOrigin, nil
	}
	return &payment.Recipient, replay.RoleTarget, nil
}
