// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package clientfund

import (
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/app/replay/ledger"
	"github.com/insolar/settlement-replay/internal/pkg/bn"
	"github.com/insolar/settlement-replay/internal/pkg/jsonfile"
)

const StateFile = "state.json"

// ClientFund keeps deposited, settled and staged balances per wallet and currency.
// Active balance is deposited + settled; settled is stored as a delta against
// deposits.
type ClientFund struct {
	log              *logrus.Logger
	strictWithdrawal bool

	deposited  *ledger.Allocated
	settled    *ledger.Allocated
	staged     *ledger.Allocated
	currencies *ledger.AllocatedCurrency
}

// New creates an empty fund. With strictWithdrawal off, withdrawing more than the
// staged balance is let through with a warning.
func New(log *logrus.Logger, strictWithdrawal bool) *ClientFund {
	return &ClientFund{
		log:              log,
		strictWithdrawal: strictWithdrawal,
		deposited:        ledger.NewAllocated(),
		settled:          ledger.NewAllocated(),
		staged:           ledger.NewAllocated(),
		currencies:       ledger.NewAllocatedCurrency(),
	}
}

func (f *ClientFund) Receive(wallet common.Address, amount bn.Int, currency replay.Currency, blockNumber uint64) error {
	if amount.IsNegative() {
		return errors.Wrapf(replay.ErrNegativeAmount, "receive %s", amount)
	}
	if err := f.deposited.Series(wallet, currency).AddByBlockNumber(amount, blockNumber); err != nil {
		return errors.Wrap(err, "failed to add deposited balance")
	}
	f.currencies.Add(wallet, currency)
	return nil
}

func (f *ClientFund) Withdraw(wallet common.Address, amount bn.Int, currency replay.Currency, blockNumber uint64) error {
	if amount.IsNegative() {
		return errors.Wrapf(replay.ErrNegativeAmount, "withdraw %s", amount)
	}
	staged := f.staged.GetCurrentValue(wallet, currency)
	if staged.Cmp(amount) < 0 {
		if f.strictWithdrawal {
			return errors.Wrapf(replay.ErrInsufficientStaged, "withdraw %s of staged %s", amount, staged)
		}
		f.log.WithFields(logrus.Fields{
			"wallet":   replay.WalletKey(wallet),
			"currency": currency.String(),
			"amount":   amount.String(),
			"staged":   staged.String(),
		}).Warn("withdrawal exceeds staged balance")
	}
	if err := f.staged.Series(wallet, currency).SubByBlockNumber(amount, blockNumber); err != nil {
		return errors.Wrap(err, "failed to sub staged balance")
	}
	return nil
}

// UpdateSettledBalance makes the active balance equal amount as of blockNumber.
func (f *ClientFund) UpdateSettledBalance(wallet common.Address, amount bn.Int, currency replay.Currency, blockNumber uint64) error {
	if amount.IsNegative() {
		return errors.Wrapf(replay.ErrNegativeAmount, "settled balance %s", amount)
	}
	deposited := f.deposited.GetValueByBlockNumber(wallet, currency, blockNumber)
	if err := f.settled.Series(wallet, currency).SetByBlockNumber(amount.Sub(deposited), blockNumber); err != nil {
		return errors.Wrap(err, "failed to set settled balance")
	}
	f.currencies.Add(wallet, currency)
	return nil
}

// Stage moves amount from the active balance to the staged one, draining the
// settled balance first. Amounts above the active balance are clamped to it.
func (f *ClientFund) Stage(wallet common.Address, amount bn.Int, currency replay.Currency, blockNumber uint64) error {
	if amount.IsNegative() {
		return errors.Wrapf(replay.ErrNegativeAmount, "stage %s", amount)
	}

	deposited := f.deposited.GetCurrentRecord(wallet, currency)
	settled := f.settled.GetCurrentRecord(wallet, currency)
	staged := f.staged.GetCurrentRecord(wallet, currency)

	amount = amount.ClampMax(deposited.Value.Add(settled.Value))
	if !amount.IsPositive() {
		return nil
	}

	fromSettled := bn.Zero()
	if settled.Value.IsPositive() {
		fromSettled = bn.Min(settled.Value, amount)
	}
	fromDeposited := amount.Sub(fromSettled)
	if deposited.Value.Cmp(fromDeposited) < 0 {
		return errors.Wrapf(replay.ErrInsufficientDeposited, "stage %s from deposited %s", fromDeposited, deposited.Value)
	}

	for _, r := range []ledger.Record{deposited, settled, staged} {
		if r.BlockNumber > blockNumber {
			return errors.Wrapf(replay.ErrBlockNumberRegression, "stage at block %d after block %d", blockNumber, r.BlockNumber)
		}
	}

	if fromSettled.IsPositive() {
		if err := f.settled.Series(wallet, currency).SubByBlockNumber(fromSettled, blockNumber); err != nil {
			return errors.Wrap(err, "failed to sub settled balance")
		}
	}
	if fromDeposited.IsPositive() {
		if err := f.deposited.Series(wallet, currency).SubByBlockNumber(fromDeposited, blockNumber); err != nil {
			return errors.Wrap(err, "failed to sub deposited balance")
		}
	}
	if err := f.staged.Series(wallet, currency).AddByBlockNumber(amount, blockNumber); err != nil {
		return errors.Wrap(err, "failed to add staged balance")
	}
	f.currencies.Add(wallet, currency)
	return nil
}

// ActiveBalance returns deposited + settled with the later of the two blocks.
func (f *ClientFund) ActiveBalance(wallet common.Address, currency replay.Currency) ledger.Record {
	return merge(
		f.deposited.GetCurrentRecord(wallet, currency),
		f.settled.GetCurrentRecord(wallet, currency),
	)
}

func (f *ClientFund) ActiveBalanceByBlockNumber(wallet common.Address, currency replay.Currency, blockNumber uint64) ledger.Record {
	return merge(
		f.deposited.GetRecordByBlockNumber(wallet, currency, blockNumber),
		f.settled.GetRecordByBlockNumber(wallet, currency, blockNumber),
	)
}

// LastBlockNumber returns the latest block any of the wallet's balances of currency
// was recorded at.
func (f *ClientFund) LastBlockNumber(wallet common.Address, currency replay.Currency) uint64 {
	var block uint64
	for _, a := range []*ledger.Allocated{f.deposited, f.settled, f.staged} {
		if r := a.GetCurrentRecord(wallet, currency); r.BlockNumber > block {
			block = r.BlockNumber
		}
	}
	return block
}

func merge(deposited, settled ledger.Record) ledger.Record {
	block := deposited.BlockNumber
	if settled.BlockNumber > block {
		block = settled.BlockNumber
	}
	return ledger.Record{BlockNumber: block, Value: deposited.Value.Add(settled.Value)}
}

func (f *ClientFund) DepositedBalance(wallet common.Address, currency replay.Currency) bn.Int {
	return f.deposited.GetCurrentValue(wallet, currency)
}

func (f *ClientFund) SettledBalance(wallet common.Address, currency replay.Currency) bn.Int {
	return f.settled.GetCurrentValue(wallet, currency)
}

func (f *ClientFund) StagedBalance(wallet common.Address, currency replay.Currency) bn.Int {
	return f.staged.GetCurrentValue(wallet, currency)
}

type BalanceAmounts struct {
	Deposited bn.Int `json:"deposited"`
	Settled   bn.Int `json:"settled"`
	Staged    bn.Int `json:"staged"`
}

type CurrencyBalance struct {
	Currency       replay.Currency `json:"currency"`
	BalanceAmounts BalanceAmounts  `json:"balanceAmounts"`
}

// WalletBalances returns the current balances of every currency wallet touched.
func (f *ClientFund) WalletBalances(wallet common.Address) []CurrencyBalance {
	currencies := f.currencies.Currencies(wallet)
	out := make([]CurrencyBalance, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, CurrencyBalance{
			Currency: c,
			BalanceAmounts: BalanceAmounts{
				Deposited: f.DepositedBalance(wallet, c),
				Settled:   f.SettledBalance(wallet, c),
				Staged:    f.StagedBalance(wallet, c),
			},
		})
	}
	return out
}

func (f *ClientFund) Wallets() []common.Address {
	return f.currencies.Wallets()
}

// State is the exported form, keyed by wallet.
type State map[string][]CurrencyBalance

func (f *ClientFund) State() State {
	state := make(State)
	for _, w := range f.Wallets() {
		state[replay.WalletKey(w)] = f.WalletBalances(w)
	}
	return state
}

func (f *ClientFund) ExportState(dir string) error {
	return jsonfile.Write(filepath.Join(dir, StateFile), f.State())
}

func ReadState(dir string) (State, error) {
	state := State{}
	if err := jsonfile.Read(filepath.Join(dir, StateFile), &state); err != nil {
		return nil, err
	}
	return state, nil
}
