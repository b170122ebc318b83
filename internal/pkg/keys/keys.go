// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

// Package keys encodes tuples of identifiers into single string keys.
package keys

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Encode joins parts into a deterministic key. Decode reverses it.
func Encode(parts ...string) string {
	if parts == nil {
		parts = []string{}
	}
	out, err := json.Marshal(parts)
	if err != nil {
		// marshalling a string slice can not fail
		panic(err)
	}
	return string(out)
}

func Decode(key string) ([]string, error) {
	var parts []string
	if err := json.Unmarshal([]byte(key), &parts); err != nil {
		return nil, errors.Wrapf(err, "failed to decode key %q", key)
	}
	return parts, nil
}

// Address renders an address the way it is used in keys: lowercase 0x-hex.
func Address(a common.Address) string {
	return strings.ToLower(a.Hex())
}

func Uint(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func ParseUint(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", s)
	}
	return n, nil
}
