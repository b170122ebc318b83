// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package replay

import "github.com/pkg/errors"

// Every error below is an invariant violation between the replay and the
// on-chain contracts. A run stops on the first one.
var (
	ErrBlockNumberRegression = errors.New("block number is lower than the last recorded one")
	ErrNegativeAmount        = errors.New("amount is negative")
	ErrInsufficientDeposited = errors.New("deposited balance is insufficient")
	ErrInsufficientStaged    = errors.New("staged balance is insufficient")
	ErrUnknownPaymentParty   = errors.New("wallet is neither sender nor recipient of payment")
	ErrProposalNotFound      = errors.New("proposal not found")
	ErrProposalTerminated    = errors.New("proposal is already terminated")
	ErrSettlementNotFound    = errors.New("settlement not found")
	ErrSettlementPartyDone   = errors.New("settlement party is already done")
	ErrUnknownAction         = errors.New("unknown step action")
	ErrInvalidStep           = errors.New("invalid step")
)
