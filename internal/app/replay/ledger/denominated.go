// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package ledger

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/pkg/bn"
)

// Denominated keys cumulative series by currency. Series are created on first write.
type Denominated struct {
	series map[replay.Currency]*BlockNumberedCumulative
}

func NewDenominated() *Denominated {
	return &Denominated{series: make(map[replay.Currency]*BlockNumberedCumulative)}
}

func (d *Denominated) HasDenomination(c replay.Currency) bool {
	_, ok := d.series[c]
	return ok
}

// Denomination returns the series for c, creating it if needed.
func (d *Denominated) Denomination(c replay.Currency) *BlockNumberedCumulative {
	s, ok := d.series[c]
	if !ok {
		s = NewBlockNumberedCumulative()
		d.series[c] = s
	}
	return s
}

func (d *Denominated) GetCurrentRecord(c replay.Currency) Record {
	if s, ok := d.series[c]; ok {
		return s.GetCurrentRecord()
	}
	return Record{}
}

func (d *Denominated) GetRecordByBlockNumber(c replay.Currency, blockNumber uint64) Record {
	if s, ok := d.series[c]; ok {
		return s.GetRecordByBlockNumber(blockNumber)
	}
	return Record{}
}

// Allocated keys denominated series by wallet.
type Allocated struct {
	wallets map[common.Address]*Denominated
}

func NewAllocated() *Allocated {
	return &Allocated{wallets: make(map[common.Address]*Denominated)}
}

func (a *Allocated) HasAllocation(wallet common.Address) bool {
	_, ok := a.wallets[wallet]
	return ok
}

func (a *Allocated) HasDenomination(wallet common.Address, c replay.Currency) bool {
	d, ok := a.wallets[wallet]
	return ok && d.HasDenomination(c)
}

// Allocation returns the denominated series of wallet, creating it if needed.
func (a *Allocated) Allocation(wallet common.Address) *Denominated {
	d, ok := a.wallets[wallet]
	if !ok {
		d = NewDenominated()
		a.wallets[wallet] = d
	}
	return d
}

func (a *Allocated) Series(wallet common.Address, c replay.Currency) *BlockNumberedCumulative {
	return a.Allocation(wallet).Denomination(c)
}

func (a *Allocated) GetCurrentRecord(wallet common.Address, c replay.Currency) Record {
	if d, ok := a.wallets[wallet]; ok {
		return d.GetCurrentRecord(c)
	}
	return Record{}
}

func (a *Allocated) GetRecordByBlockNumber(wallet common.Address, c replay.Currency, blockNumber uint64) Record {
	if d, ok := a.wallets[wallet]; ok {
		return d.GetRecordByBlockNumber(c, blockNumber)
	}
	return Record{}
}

func (a *Allocated) GetCurrentValue(wallet common.Address, c replay.Currency) bn.Int {
	return a.GetCurrentRecord(wallet, c).Value
}

func (a *Allocated) GetValueByBlockNumber(wallet common.Address, c replay.Currency, blockNumber uint64) bn.Int {
	return a.GetRecordByBlockNumber(wallet, c, blockNumber).Value
}
