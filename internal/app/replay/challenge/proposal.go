// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package challenge

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/pkg/bn"
)

type Status string

const (
	StatusQualified    Status = "Qualified"
	StatusDisqualified Status = "Disqualified"
)

type Candidate struct {
	Kind string      `json:"kind"`
	Hash common.Hash `json:"hash"`
}

type Disqualification struct {
	Challenger  common.Address `json:"challenger"`
	Nonce       uint64         `json:"nonce"`
	BlockNumber uint64         `json:"blockNumber"`
	Candidate   Candidate      `json:"candidate"`
}

type Amounts struct {
	CumulativeTransfer bn.Int `json:"cumulativeTransfer"`
	Stage              bn.Int `json:"stage"`
	TargetBalance      bn.Int `json:"targetBalance"`
}

// Proposal is a settlement declaration open to challenge until ExpirationTime.
// Null proposals leave CumulativeTransfer and Challenged empty.
type Proposal struct {
	Wallet                common.Address   `json:"wallet"`
	Nonce                 uint64           `json:"nonce"`
	ReferenceBlockNumber  uint64           `json:"referenceBlockNumber"`
	DefinitionBlockNumber uint64           `json:"definitionBlockNumber"`
	ExpirationTime        uint64           `json:"expirationTime"`
	Status                Status           `json:"status"`
	Amounts               Amounts          `json:"amounts"`
	Currency              replay.Currency  `json:"currency"`
	Challenged            Candidate        `json:"challenged"`
	WalletInitiated       bool             `json:"walletInitiated"`
	Terminated            bool             `json:"terminated"`
	Disqualification      Disqualification `json:"disqualification"`
}

// HasExpired reports whether the challenge period is over at timestamp.
func (p Proposal) HasExpired(timestamp uint64) bool {
	return timestamp >= p.ExpirationTime
}

// registry holds the current proposal of each wallet/currency pair. A new
// proposal for a pair replaces the previous one in place.
type registry struct {
	proposals map[string]*Proposal
	order     []string
	// wallet/nonce/currency key -> wallet/currency key
	nonceIndex map[string]string
}

func newRegistry() registry {
	return registry{
		proposals:  make(map[string]*Proposal),
		nonceIndex: make(map[string]string),
	}
}

func (r *registry) put(p *Proposal) {
	key := replay.WalletCurrencyKey(p.Wallet, p.Currency)
	if _, ok := r.proposals[key]; !ok {
		r.order = append(r.order, key)
	}
	r.proposals[key] = p
	r.nonceIndex[replay.WalletNonceCurrencyKey(p.Wallet, p.Nonce, p.Currency)] = key
}

func (r *registry) has(wallet common.Address, currency replay.Currency) bool {
	_, ok := r.proposals[replay.WalletCurrencyKey(wallet, currency)]
	return ok
}

func (r *registry) get(wallet common.Address, currency replay.Currency) (*Proposal, error) {
	p, ok := r.proposals[replay.WalletCurrencyKey(wallet, currency)]
	if !ok {
		return nil, errors.Wrapf(replay.ErrProposalNotFound, "wallet %s currency %s", replay.WalletKey(wallet), currency)
	}
	return p, nil
}

func (r *registry) byNonce(wallet common.Address, nonce uint64, currency replay.Currency) (*Proposal, bool) {
	key, ok := r.nonceIndex[replay.WalletNonceCurrencyKey(wallet, nonce, currency)]
	if !ok {
		return nil, false
	}
	return r.proposals[key], true
}

func (r *registry) terminate(wallet common.Address, currency replay.Currency) error {
	p, err := r.get(wallet, currency)
	if err != nil {
		return err
	}
	p.Terminated = true
	return nil
}

func (r *registry) list() []Proposal {
	out := make([]Proposal, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.proposals[key])
	}
	return out
}

// indexByWalletCurrency numbers proposals from 1 in creation order.
func (r *registry) indexByWalletCurrency() map[string]int {
	out := make(map[string]int, len(r.order))
	for i, key := range r.order {
		out[key] = i + 1
	}
	return out
}

func (r *registry) indexByWalletNonceCurrency() map[string]int {
	byWalletCurrency := r.indexByWalletCurrency()
	out := make(map[string]int, len(r.nonceIndex))
	for nonceKey, key := range r.nonceIndex {
		out[nonceKey] = byWalletCurrency[key]
	}
	return out
}

func checkAmounts(stage, targetBalance bn.Int) error {
	if stage.IsNegative() {
		return errors.Wrapf(replay.ErrNegativeAmount, "stage amount %s", stage)
	}
	if targetBalance.IsNegative() {
		return errors.Wrapf(replay.ErrNegativeAmount, "target balance amount %s", targetBalance)
	}
	return nil
}
