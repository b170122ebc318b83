// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package replay

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/insolar/settlement-replay/internal/pkg/keys"
)

// Currency is compared structurally. The zero value is the native asset (ETH).
type Currency struct {
	CT common.Address
	ID uint64
}

type currencyJSON struct {
	CT common.Address `json:"ct"`
	ID json.Number    `json:"id"`
}

func (c Currency) IsNative() bool {
	return c == Currency{}
}

func (c Currency) String() string {
	return fmt.Sprintf("%s/%d", keys.Address(c.CT), c.ID)
}

func (c Currency) MarshalJSON() ([]byte, error) {
	return json.Marshal(currencyJSON{CT: c.CT, ID: json.Number(strconv.FormatUint(c.ID, 10))})
}

// UnmarshalJSON accepts the id both as a number and as a decimal string.
func (c *Currency) UnmarshalJSON(data []byte) error {
	var raw struct {
		CT common.Address  `json:"ct"`
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "failed to decode currency")
	}
	id := string(raw.ID)
	if len(id) >= 2 && id[0] == '"' {
		id = id[1 : len(id)-1]
	}
	if id == "" || id == "null" {
		id = "0"
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid currency id %s", string(raw.ID))
	}
	c.CT = raw.CT
	c.ID = n
	return nil
}
