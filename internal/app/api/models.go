// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package api

import (
	"github.com/insolar/settlement-replay/internal/app/replay/challenge"
	"github.com/insolar/settlement-replay/internal/app/replay/clientfund"
	"github.com/insolar/settlement-replay/internal/app/replay/settlement"
)

type BalancesResponse struct {
	Wallet   string                       `json:"wallet"`
	Balances []clientfund.CurrencyBalance `json:"balances"`
}

type ProposalsResponse struct {
	Wallet    string               `json:"wallet"`
	Kind      string               `json:"kind"`
	Proposals []challenge.Proposal `json:"proposals"`
}

type SettlementsResponse struct {
	Wallet      string                  `json:"wallet"`
	Settlements []settlement.Settlement `json:"settlements"`
}

type FeesResponse struct {
	Wallet string                   `json:"wallet"`
	Fees   []settlement.CurrencyFee `json:"fees"`
}
