// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package ledger

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/insolar/settlement-replay/internal/app/replay"
)

// CurrenciesSet keeps distinct currencies in the order they were first added.
type CurrenciesSet struct {
	index map[replay.Currency]struct{}
	list  []replay.Currency
}

func NewCurrenciesSet() *CurrenciesSet {
	return &CurrenciesSet{index: make(map[replay.Currency]struct{})}
}

// Add reports whether c was not in the set yet.
func (s *CurrenciesSet) Add(c replay.Currency) bool {
	if _, ok := s.index[c]; ok {
		return false
	}
	s.index[c] = struct{}{}
	s.list = append(s.list, c)
	return true
}

func (s *CurrenciesSet) Has(c replay.Currency) bool {
	_, ok := s.index[c]
	return ok
}

func (s *CurrenciesSet) List() []replay.Currency {
	out := make([]replay.Currency, len(s.list))
	copy(out, s.list)
	return out
}

func (s *CurrenciesSet) Len() int {
	return len(s.list)
}

// AllocatedCurrency tracks the currencies each wallet has touched.
type AllocatedCurrency struct {
	sets    map[common.Address]*CurrenciesSet
	wallets []common.Address
}

func NewAllocatedCurrency() *AllocatedCurrency {
	return &AllocatedCurrency{sets: make(map[common.Address]*CurrenciesSet)}
}

func (a *AllocatedCurrency) Add(wallet common.Address, c replay.Currency) bool {
	s, ok := a.sets[wallet]
	if !ok {
		s = NewCurrenciesSet()
		a.sets[wallet] = s
		a.wallets = append(a.wallets, wallet)
	}
	return s.Add(c)
}

func (a *AllocatedCurrency) Has(wallet common.Address, c replay.Currency) bool {
	s, ok := a.sets[wallet]
	return ok && s.Has(c)
}

// Wallets lists wallets in the order they were first seen.
func (a *AllocatedCurrency) Wallets() []common.Address {
	out := make([]common.Address, len(a.wallets))
	copy(out, a.wallets)
	return out
}

func (a *AllocatedCurrency) Currencies(wallet common.Address) []replay.Currency {
	s, ok := a.sets[wallet]
	if !ok {
		return nil
	}
	return s.List()
}
