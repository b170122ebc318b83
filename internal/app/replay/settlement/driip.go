// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package settlement

import (
	"path/filepath"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/pkg/bn"
	"github.com/insolar/settlement-replay/internal/pkg/jsonfile"
	"github.com/insolar/settlement-replay/internal/pkg/keys"
)

const (
	SettlementsFile                            = "settlements.json"
	WalletSettlementIndicesFile                = "walletSettlementIndices.json"
	WalletNonceSettlementIndexFile             = "walletNonceSettlementIndex.json"
	WalletCurrencyMaxNonceFile                 = "walletCurrencyMaxNonce.json"
	WalletCurrencyBlockNumberSettledAmountFile = "walletCurrencyBlockNumberSettledAmount.json"
	WalletCurrencySettledBlockNumbersFile      = "walletCurrencySettledBlockNumbers.json"
	TotalFeesMapFile                           = "totalFeesMap.json"
)

// Party is one side of a settlement. DoneBlockNumber is 0 until the party settles.
type Party struct {
	Wallet          common.Address `json:"wallet"`
	Nonce           uint64         `json:"nonce"`
	DoneBlockNumber uint64         `json:"doneBlockNumber"`
}

func (p Party) Done() bool {
	return p.DoneBlockNumber > 0
}

type Settlement struct {
	SettledKind string      `json:"settledKind"`
	SettledHash common.Hash `json:"settledHash"`
	Origin      Party       `json:"origin"`
	Target      Party       `json:"target"`
}

type NoncedAmount struct {
	Nonce  uint64 `json:"nonce"`
	Amount bn.Int `json:"amount"`
}

// DriipSettlementState records completed driip settlements and what they settled.
type DriipSettlementState struct {
	settlements []*Settlement

	// settlement indices are 1-based
	walletSettlementIndices    map[string][]int
	walletNonceSettlementIndex map[string]int

	walletCurrencyMaxNonce                 map[string]uint64
	walletCurrencyBlockNumberSettledAmount map[string]bn.Int
	walletCurrencySettledBlockNumbers      map[string][]uint64
	totalFees                              map[string]NoncedAmount
}

func NewDriipSettlementState() *DriipSettlementState {
	return &DriipSettlementState{
		walletSettlementIndices:                make(map[string][]int),
		walletNonceSettlementIndex:             make(map[string]int),
		walletCurrencyMaxNonce:                 make(map[string]uint64),
		walletCurrencyBlockNumberSettledAmount: make(map[string]bn.Int),
		walletCurrencySettledBlockNumbers:      make(map[string][]uint64),
		totalFees:                              make(map[string]NoncedAmount),
	}
}

// InitSettlement registers the settlement of a driip between origin and target.
// It is a no-op returning false if either party already has a settlement at its nonce.
func (s *DriipSettlementState) InitSettlement(
	kind string,
	hash common.Hash,
	originWallet common.Address,
	originNonce uint64,
	targetWallet common.Address,
	targetNonce uint64,
) bool {
	originKey := replay.WalletNonceKey(originWallet, originNonce)
	targetKey := replay.WalletNonceKey(targetWallet, targetNonce)
	if _, ok := s.walletNonceSettlementIndex[originKey]; ok {
		return false
	}
	if _, ok := s.walletNonceSettlementIndex[targetKey]; ok {
		return false
	}

	s.settlements = append(s.settlements, &Settlement{
		SettledKind: kind,
		SettledHash: hash,
		Origin:      Party{Wallet: originWallet, Nonce: originNonce},
		Target:      Party{Wallet: targetWallet, Nonce: targetNonce},
	})
	index := len(s.settlements)

	originWalletKey := replay.WalletKey(originWallet)
	targetWalletKey := replay.WalletKey(targetWallet)
	s.walletSettlementIndices[originWalletKey] = append(s.walletSettlementIndices[originWalletKey], index)
	if targetWalletKey != originWalletKey {
		s.walletSettlementIndices[targetWalletKey] = append(s.walletSettlementIndices[targetWalletKey], index)
	}
	s.walletNonceSettlementIndex[originKey] = index
	s.walletNonceSettlementIndex[targetKey] = index
	return true
}

func (s *DriipSettlementState) SettlementsCount() int {
	return len(s.settlements)
}

func (s *DriipSettlementState) settlement(wallet common.Address, nonce uint64) (*Settlement, error) {
	index, ok := s.walletNonceSettlementIndex[replay.WalletNonceKey(wallet, nonce)]
	if !ok {
		return nil, errors.Wrapf(replay.ErrSettlementNotFound, "wallet %s nonce %d", replay.WalletKey(wallet), nonce)
	}
	return s.settlements[index-1], nil
}

func (s *DriipSettlementState) SettlementByWalletAndNonce(wallet common.Address, nonce uint64) (Settlement, error) {
	st, err := s.settlement(wallet, nonce)
	if err != nil {
		return Settlement{}, err
	}
	return *st, nil
}

func (s *DriipSettlementState) SettlementsByWallet(wallet common.Address) []Settlement {
	indices := s.walletSettlementIndices[replay.WalletKey(wallet)]
	out := make([]Settlement, 0, len(indices))
	for _, i := range indices {
		out = append(out, *s.settlements[i-1])
	}
	return out
}

func (s *DriipSettlementState) Settlements() []Settlement {
	out := make([]Settlement, 0, len(s.settlements))
	for _, st := range s.settlements {
		out = append(out, *st)
	}
	return out
}

func (s *DriipSettlementState) IsSettlementPartyDone(wallet common.Address, nonce uint64, role replay.SettlementRole) (bool, error) {
	st, err := s.settlement(wallet, nonce)
	if err != nil {
		return false, err
	}
	if role == replay.RoleOrigin {
		return st.Origin.Done(), nil
	}
	return st.Target.Done(), nil
}

// CompleteSettlementParty marks the party done at blockNumber, or undone.
func (s *DriipSettlementState) CompleteSettlementParty(wallet common.Address, nonce uint64, role replay.SettlementRole, done bool, blockNumber uint64) error {
	st, err := s.settlement(wallet, nonce)
	if err != nil {
		return err
	}
	party := &st.Target
	if role == replay.RoleOrigin {
		party = &st.Origin
	}
	if done {
		party.DoneBlockNumber = blockNumber
	} else {
		party.DoneBlockNumber = 0
	}
	return nil
}

func (s *DriipSettlementState) MaxNonceByWalletAndCurrency(wallet common.Address, currency replay.Currency) uint64 {
	return s.walletCurrencyMaxNonce[replay.WalletCurrencyKey(wallet, currency)]
}

func (s *DriipSettlementState) SetMaxNonceByWalletAndCurrency(wallet common.Address, currency replay.Currency, nonce uint64) {
	s.walletCurrencyMaxNonce[replay.WalletCurrencyKey(wallet, currency)] = nonce
}

// settledBlockNumber returns the greatest settled block not above blockNumber.
func (s *DriipSettlementState) settledBlockNumber(wallet common.Address, currency replay.Currency, blockNumber uint64) (uint64, bool) {
	blocks := s.walletCurrencySettledBlockNumbers[replay.WalletCurrencyKey(wallet, currency)]
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i] <= blockNumber {
			return blocks[i], true
		}
	}
	return 0, false
}

// SettledAmountByBlockNumber returns the cumulative settled amount as of blockNumber.
func (s *DriipSettlementState) SettledAmountByBlockNumber(wallet common.Address, currency replay.Currency, blockNumber uint64) bn.Int {
	settled, ok := s.settledBlockNumber(wallet, currency, blockNumber)
	if !ok {
		return bn.Zero()
	}
	return s.walletCurrencyBlockNumberSettledAmount[replay.WalletCurrencyBlockKey(wallet, currency, settled)]
}

// SettledAmount returns the cumulative settled amount as of the last recorded block.
func (s *DriipSettlementState) SettledAmount(wallet common.Address, currency replay.Currency) bn.Int {
	blocks := s.walletCurrencySettledBlockNumbers[replay.WalletCurrencyKey(wallet, currency)]
	if len(blocks) == 0 {
		return bn.Zero()
	}
	return s.walletCurrencyBlockNumberSettledAmount[replay.WalletCurrencyBlockKey(wallet, currency, blocks[len(blocks)-1])]
}

// LastSettledBlockNumber returns the last block a settled amount was recorded at, 0 if none.
func (s *DriipSettlementState) LastSettledBlockNumber(wallet common.Address, currency replay.Currency) uint64 {
	blocks := s.walletCurrencySettledBlockNumbers[replay.WalletCurrencyKey(wallet, currency)]
	if len(blocks) == 0 {
		return 0
	}
	return blocks[len(blocks)-1]
}

// AddSettledAmountByBlockNumber adds amount to the cumulative settled amount and
// records the sum at blockNumber.
func (s *DriipSettlementState) AddSettledAmountByBlockNumber(
	wallet common.Address,
	amount bn.Int,
	currency replay.Currency,
	blockNumber uint64,
) error {
	key := replay.WalletCurrencyKey(wallet, currency)
	blocks := s.walletCurrencySettledBlockNumbers[key]
	if n := len(blocks); n > 0 && blocks[n-1] > blockNumber {
		return errors.Wrapf(replay.ErrBlockNumberRegression, "settled amount at block %d after block %d", blockNumber, blocks[n-1])
	}

	total := s.SettledAmount(wallet, currency).Add(amount)
	s.walletCurrencyBlockNumberSettledAmount[replay.WalletCurrencyBlockKey(wallet, currency, blockNumber)] = total
	if n := len(blocks); n == 0 || blocks[n-1] != blockNumber {
		s.walletCurrencySettledBlockNumbers[key] = append(blocks, blockNumber)
	}
	return nil
}

func (s *DriipSettlementState) TotalFee(wallet common.Address, currency replay.Currency) (NoncedAmount, bool) {
	fee, ok := s.totalFees[replay.WalletCurrencyKey(wallet, currency)]
	return fee, ok
}

func (s *DriipSettlementState) SetTotalFee(wallet common.Address, currency replay.Currency, fee NoncedAmount) {
	s.totalFees[replay.WalletCurrencyKey(wallet, currency)] = fee
}

type CurrencyFee struct {
	Currency replay.Currency `json:"currency"`
	Fee      NoncedAmount    `json:"fee"`
}

// TotalFeesByWallet lists the accumulated fees of wallet ordered by currency.
func (s *DriipSettlementState) TotalFeesByWallet(d keys.Decoder, wallet common.Address) ([]CurrencyFee, error) {
	var fees []CurrencyFee
	for key, fee := range s.totalFees {
		w, currency, err := replay.DecodeWalletCurrencyKey(d, key)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode fee key %s", key)
		}
		if w != wallet {
			continue
		}
		fees = append(fees, CurrencyFee{Currency: currency, Fee: fee})
	}
	sort.Slice(fees, func(i, j int) bool {
		return fees[i].Currency.String() < fees[j].Currency.String()
	})
	return fees, nil
}

func (s *DriipSettlementState) ExportState(dir string) error {
	files := []struct {
		name string
		v    interface{}
	}{
		{SettlementsFile, s.Settlements()},
		{WalletSettlementIndicesFile, s.walletSettlementIndices},
		{WalletNonceSettlementIndexFile, s.walletNonceSettlementIndex},
		{WalletCurrencyMaxNonceFile, s.walletCurrencyMaxNonce},
		{WalletCurrencyBlockNumberSettledAmountFile, s.walletCurrencyBlockNumberSettledAmount},
		{WalletCurrencySettledBlockNumbersFile, s.walletCurrencySettledBlockNumbers},
		{TotalFeesMapFile, s.totalFees},
	}
	for _, f := range files {
		if err := jsonfile.Write(filepath.Join(dir, f.name), f.v); err != nil {
			return err
		}
	}
	return nil
}
