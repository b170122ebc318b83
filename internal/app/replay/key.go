// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package replay

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/insolar/settlement-replay/internal/pkg/keys"
)

func WalletKey(wallet common.Address) string {
	return keys.Address(wallet)
}

func WalletCurrencyKey(wallet common.Address, c Currency) string {
	return keys.Encode(keys.Address(wallet), keys.Address(c.CT), keys.Uint(c.ID))
}

func WalletNonceKey(wallet common.Address, nonce uint64) string {
	return keys.Encode(keys.Address(wallet), keys.Uint(nonce))
}

func WalletNonceCurrencyKey(wallet common.Address, nonce uint64, c Currency) string {
	return keys.Encode(keys.Address(wallet), keys.Uint(nonce), keys.Address(c.CT), keys.Uint(c.ID))
}

func WalletCurrencyBlockKey(wallet common.Address, c Currency, blockNumber uint64) string {
	return keys.Encode(keys.Address(wallet), keys.Address(c.CT), keys.Uint(c.ID), keys.Uint(blockNumber))
}

// DecodeWalletCurrencyKey reverses WalletCurrencyKey.
func DecodeWalletCurrencyKey(d keys.Decoder, key string) (common.Address, Currency, error) {
	parts, err := d.Decode(key)
	if err != nil {
		return common.Address{}, Currency{}, err
	}
	if len(parts) != 3 {
		return common.Address{}, Currency{}, errors.Errorf("key %s is not a wallet/currency key", key)
	}
	wallet, err := keys.ParseAddress(parts[0])
	if err != nil {
		return common.Address{}, Currency{}, err
	}
	c, err := decodeCurrency(parts[1], parts[2])
	if err != nil {
		return common.Address{}, Currency{}, err
	}
	return wallet, c, nil
}

// DecodeWalletCurrencyBlockKey reverses WalletCurrencyBlockKey.
func DecodeWalletCurrencyBlockKey(d keys.Decoder, key string) (common.Address, Currency, uint64, error) {
	parts, err := d.Decode(key)
	if err != nil {
		return common.Address{}, Currency{}, 0, err
	}
	if len(parts) != 4 {
		return common.Address{}, Currency{}, 0, errors.Errorf("key %s is not a wallet/currency/block key", key)
	}
	wallet, err := keys.ParseAddress(parts[0])
	if err != nil {
		return common.Address{}, Currency{}, 0, err
	}
	c, err := decodeCurrency(parts[1], parts[2])
	if err != nil {
		return common.Address{}, Currency{}, 0, err
	}
	block, err := keys.ParseUint(parts[3])
	if err != nil {
		return common.Address{}, Currency{}, 0, err
	}
	return wallet, c, block, nil
}

func decodeCurrency(ct, id string) (Currency, error) {
	addr, err := keys.ParseAddress(ct)
	if err != nil {
		return Currency{}, err
	}
	n, err := keys.ParseUint(id)
	if err != nil {
		return Currency{}, err
	}
	return Currency{CT: addr, ID: n}, nil
}
