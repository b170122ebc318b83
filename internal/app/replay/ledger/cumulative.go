// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

// Package ledger holds the block-numbered balance series the replay is built on.
package ledger

import (
	"github.com/pkg/errors"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/pkg/bn"
)

// Record is a cumulative value effective from BlockNumber on.
type Record struct {
	BlockNumber uint64
	Value       bn.Int
}

// BlockNumberedCumulative is a series of cumulative values keyed by block number.
// Block numbers must be supplied in non-decreasing order.
type BlockNumberedCumulative struct {
	blockNumbers []uint64
	values       map[uint64]bn.Int
}

func NewBlockNumberedCumulative() *BlockNumberedCumulative {
	return &BlockNumberedCumulative{values: make(map[uint64]bn.Int)}
}

// SetByBlockNumber records value as effective at blockNumber. A block number lower
// than the last recorded one is rejected and leaves the series unchanged.
func (c *BlockNumberedCumulative) SetByBlockNumber(value bn.Int, blockNumber uint64) error {
	if n := len(c.blockNumbers); n > 0 {
		last := c.blockNumbers[n-1]
		if blockNumber < last {
			return errors.Wrapf(replay.ErrBlockNumberRegression, "block %d after block %d", blockNumber, last)
		}
		if blockNumber == last {
			c.values[blockNumber] = value
			return nil
		}
	}
	c.blockNumbers = append(c.blockNumbers, blockNumber)
	c.values[blockNumber] = value
	return nil
}

func (c *BlockNumberedCumulative) AddByBlockNumber(value bn.Int, blockNumber uint64) error {
	return c.SetByBlockNumber(c.GetCurrentValue().Add(value), blockNumber)
}

func (c *BlockNumberedCumulative) SubByBlockNumber(value bn.Int, blockNumber uint64) error {
	return c.SetByBlockNumber(c.GetCurrentValue().Sub(value), blockNumber)
}

// GetValueByBlockNumber returns the value of the greatest recorded block not above
// blockNumber, or zero.
func (c *BlockNumberedCumulative) GetValueByBlockNumber(blockNumber uint64) bn.Int {
	return c.GetRecordByBlockNumber(blockNumber).Value
}

func (c *BlockNumberedCumulative) GetRecordByBlockNumber(blockNumber uint64) Record {
	for i := len(c.blockNumbers) - 1; i >= 0; i-- {
		b := c.blockNumbers[i]
		if b <= blockNumber {
			return Record{BlockNumber: b, Value: c.values[b]}
		}
	}
	return Record{}
}

func (c *BlockNumberedCumulative) GetCurrentValue() bn.Int {
	return c.GetCurrentRecord().Value
}

func (c *BlockNumberedCumulative) GetCurrentRecord() Record {
	n := len(c.blockNumbers)
	if n == 0 {
		return Record{}
	}
	b := c.blockNumbers[n-1]
	return Record{BlockNumber: b, Value: c.values[b]}
}

func (c *BlockNumberedCumulative) MaxBlockNumber() uint64 {
	return c.GetCurrentRecord().BlockNumber
}

func (c *BlockNumberedCumulative) Len() int {
	return len(c.blockNumbers)
}

// Records lists the series oldest first.
func (c *BlockNumberedCumulative) Records() []Record {
	out := make([]Record, 0, len(c.blockNumbers))
	for _, b := range c.blockNumbers {
		out = append(out, Record{BlockNumber: b, Value: c.values[b]})
	}
	return out
}
