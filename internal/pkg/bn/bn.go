// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

// Package bn provides the arbitrary-precision integer used for every money amount.
package bn

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Int is an immutable arbitrary-precision integer. The zero value is 0.
type Int struct {
	v *big.Int
}

func New(x int64) Int {
	return Int{v: big.NewInt(x)}
}

func Zero() Int {
	return Int{}
}

// FromBig copies x.
func FromBig(x *big.Int) Int {
	if x == nil {
		return Int{}
	}
	return Int{v: new(big.Int).Set(x)}
}

// Parse reads a base 10 integer, optionally signed.
func Parse(s string) (Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Int{}, errors.New("empty amount")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, errors.Errorf("invalid decimal amount %q", s)
	}
	return Int{v: v}, nil
}

func MustParse(s string) Int {
	i, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return i
}

func (i Int) raw() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return i.v
}

// Big returns a copy of the underlying value.
func (i Int) Big() *big.Int {
	return new(big.Int).Set(i.raw())
}

func (i Int) Add(o Int) Int {
	return Int{v: new(big.Int).Add(i.raw(), o.raw())}
}

func (i Int) Sub(o Int) Int {
	return Int{v: new(big.Int).Sub(i.raw(), o.raw())}
}

func (i Int) Neg() Int {
	return Int{v: new(big.Int).Neg(i.raw())}
}

func (i Int) Cmp(o Int) int {
	return i.raw().Cmp(o.raw())
}

func (i Int) Equal(o Int) bool {
	return i.Cmp(o) == 0
}

func (i Int) Sign() int {
	return i.raw().Sign()
}

// IsPositive reports whether i is strictly greater than zero.
func (i Int) IsPositive() bool {
	return i.Sign() > 0
}

func (i Int) IsNegative() bool {
	return i.Sign() < 0
}

func (i Int) IsZero() bool {
	return i.Sign() == 0
}

// ClampMax returns the smaller of i and max.
func (i Int) ClampMax(max Int) Int {
	if i.Cmp(max) > 0 {
		return max
	}
	return i
}

func Min(a, b Int) Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func Max(a, b Int) Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func (i Int) String() string {
	return i.raw().String()
}

// MarshalJSON encodes the amount as a decimal string.
func (i Int) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON accepts both a decimal string and a bare JSON number.
func (i *Int) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*i = Int{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "failed to decode amount")
		}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
