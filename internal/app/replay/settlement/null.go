// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package settlement

import (
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/pkg/jsonfile"
)

// NullSettlementState records the highest null-settled nonce per wallet and currency.
type NullSettlementState struct {
	walletCurrencyMaxNonce map[string]uint64
}

func NewNullSettlementState() *NullSettlementState {
	return &NullSettlementState{walletCurrencyMaxNonce: make(map[string]uint64)}
}

func (s *NullSettlementState) MaxNonceByWalletAndCurrency(wallet common.Address, currency replay.Currency) uint64 {
	return s.walletCurrencyMaxNonce[replay.WalletCurrencyKey(wallet, currency)]
}

func (s *NullSettlementState) SetMaxNonceByWalletAndCurrency(wallet common.Address, currency replay.Currency, nonce uint64) {
	s.walletCurrencyMaxNonce[replay.WalletCurrencyKey(wallet, currency)] = nonce
}

func (s *NullSettlementState) ExportState(dir string) error {
	return jsonfile.Write(filepath.Join(dir, WalletCurrencyMaxNonceFile), s.walletCurrencyMaxNonce)
}
