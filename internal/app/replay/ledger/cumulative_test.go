// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package ledger

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/pkg/bn"
)

func TestBlockNumberedCumulative_GetValueByBlockNumber(t *testing.T) {
	c := NewBlockNumberedCumulative()
	require.NoError(t, c.SetByBlockNumber(bn.New(600), 3))
	require.NoError(t, c.SetByBlockNumber(bn.New(400), 7))
	require.NoError(t, c.SetByBlockNumber(bn.New(1000), 10))

	cases := []struct {
		block    uint64
		expected string
	}{
		{2, "0"},
		{3, "600"},
		{5, "600"},
		{7, "400"},
		{9, "400"},
		{10, "1000"},
		{1000, "1000"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.expected, c.GetValueByBlockNumber(tc.block).String(), "block %d", tc.block)
	}
}

func TestBlockNumberedCumulative_Empty(t *testing.T) {
	c := NewBlockNumberedCumulative()
	require.True(t, c.GetCurrentValue().IsZero())
	require.Equal(t, uint64(0), c.GetCurrentRecord().BlockNumber)
	require.True(t, c.GetValueByBlockNumber(100).IsZero())
	require.Empty(t, c.Records())
}

func TestBlockNumberedCumulative_Monotonic(t *testing.T) {
	c := NewBlockNumberedCumulative()
	for i := uint64(1); i <= 50; i++ {
		v := bn.New(int64(i * i))
		require.NoError(t, c.SetByBlockNumber(v, i*2))
		require.Equal(t, v.String(), c.GetCurrentValue().String())
		require.Equal(t, v.String(), c.GetValueByBlockNumber(i*2).String())
		require.Equal(t, v.String(), c.GetValueByBlockNumber(i*2+1000).String())
	}
	require.Equal(t, uint64(100), c.MaxBlockNumber())
}

func TestBlockNumberedCumulative_Regression(t *testing.T) {
	c := NewBlockNumberedCumulative()
	require.NoError(t, c.SetByBlockNumber(bn.New(5), 10))

	err := c.SetByBlockNumber(bn.New(7), 9)
	require.Error(t, err)
	require.Equal(t, replay.ErrBlockNumberRegression, errors.Cause(err))
	require.Equal(t, "5", c.GetCurrentValue().String(), "rejected write leaves series unchanged")

	err = c.AddByBlockNumber(bn.New(1), 3)
	require.Equal(t, replay.ErrBlockNumberRegression, errors.Cause(err))
}

func TestBlockNumberedCumulative_AddSub(t *testing.T) {
	c := NewBlockNumberedCumulative()
	require.NoError(t, c.AddByBlockNumber(bn.New(1000), 10))
	require.NoError(t, c.SubByBlockNumber(bn.New(400), 15))
	require.NoError(t, c.AddByBlockNumber(bn.New(1), 15))

	require.Equal(t, "601", c.GetCurrentValue().String())
	require.Equal(t, "1000", c.GetValueByBlockNumber(14).String())
	require.Equal(t, 2, c.Len(), "same block overwrites in place")

	records := c.Records()
	require.Equal(t, uint64(10), records[0].BlockNumber)
	require.Equal(t, uint64(15), records[1].BlockNumber)
}
