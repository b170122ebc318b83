// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package keys

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	wallet := common.HexToAddress("0xAbCdEf0123456789aBcDeF0123456789AbCdEf01")

	t.Run("round_trip", func(t *testing.T) {
		key := Encode(Address(wallet), Address(common.Address{}), Uint(0), Uint(42))
		parts, err := Decode(key)
		require.NoError(t, err)
		require.Equal(t, []string{
			"0xabcdef0123456789abcdef0123456789abcdef01",
			"0x0000000000000000000000000000000000000000",
			"0",
			"42",
		}, parts)

		addr, err := ParseAddress(parts[0])
		require.NoError(t, err)
		require.Equal(t, wallet, addr)
		n, err := ParseUint(parts[3])
		require.NoError(t, err)
		require.Equal(t, uint64(42), n)
	})

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, Encode("a", "b"), Encode("a", "b"))
		require.NotEqual(t, Encode("a", "b"), Encode("b", "a"))
		require.NotEqual(t, Encode("a|b"), Encode("a", "b"))
	})

	t.Run("empty", func(t *testing.T) {
		parts, err := Decode(Encode())
		require.NoError(t, err)
		require.Empty(t, parts)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Decode("not a key")
		require.Error(t, err)
		_, err = ParseAddress("0x12")
		require.Error(t, err)
		_, err = ParseUint("-1")
		require.Error(t, err)
	})
}

func TestCachedDecoder(t *testing.T) {
	d, err := NewCachedDecoder(2)
	require.NoError(t, err)

	key := Encode("x", "1")
	first, err := d.Decode(key)
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := d.Decode(key)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "1"}, second, "cached value must not be shared with callers")

	_, _ = d.Decode(Encode("y"))
	_, _ = d.Decode(Encode("z"))
	assert.Equal(t, 2, d.Len(), "cache is bounded")

	_, err = d.Decode("{")
	require.Error(t, err)
}
