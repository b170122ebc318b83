// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package replay

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/insolar/settlement-replay/internal/pkg/bn"
)

const PaymentKind = "payment"

// SettlementRole tells which side of a settlement a wallet is on.
type SettlementRole int

const (
	RoleOrigin SettlementRole = iota
	RoleTarget
)

func (r SettlementRole) String() string {
	if r == RoleOrigin {
		return "origin"
	}
	return "target"
}

type Figure struct {
	Amount   bn.Int   `json:"amount"`
	Currency Currency `json:"currency"`
}

type Balances struct {
	Current  bn.Int `json:"current"`
	Previous bn.Int `json:"previous"`
}

type PartyFees struct {
	Single Figure   `json:"single"`
	Total  []Figure `json:"total"`
}

// PaymentParty is one side of a payment as seen right after it was made.
type PaymentParty struct {
	Wallet   common.Address `json:"wallet"`
	Nonce    uint64         `json:"nonce"`
	Balances Balances       `json:"balances"`
	Fees     PartyFees      `json:"fees"`
}

type Transfers struct {
	Single bn.Int `json:"single"`
	Total  bn.Int `json:"total"`
}

type Seal struct {
	Hash common.Hash `json:"hash"`
}

type Seals struct {
	Wallet   Seal `json:"wallet"`
	Operator Seal `json:"operator"`
}

// Payment is an operator-sealed transfer between two wallets.
type Payment struct {
	Nonce       uint64       `json:"nonce"`
	BlockNumber uint64       `json:"blockNumber"`
	Amount      bn.Int       `json:"amount"`
	Currency    Currency     `json:"currency"`
	Sender      PaymentParty `json:"sender"`
	Recipient   PaymentParty `json:"recipient"`
	Transfers   Transfers    `json:"transfers"`
	Seals       Seals        `json:"seals"`
}
