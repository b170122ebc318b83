// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package models

// Amounts are decimal strings stored in numeric columns. Addresses and hashes are
// lowercase 0x-hex.

type Balance struct {
	tableName struct{} `sql:"balances"` //nolint: unused,structcheck

	Wallet     string `sql:"wallet,pk"`
	CurrencyCT string `sql:"currency_ct,pk"`
	CurrencyID uint64 `sql:"currency_id,pk"`
	Deposited  string `sql:"deposited,notnull"`
	Settled    string `sql:"settled,notnull"`
	Staged     string `sql:"staged,notnull"`
}

type Proposal struct {
	tableName struct{} `sql:"proposals"` //nolint: unused,structcheck

	Kind                  string `sql:"kind,pk"`
	Wallet                string `sql:"wallet,pk"`
	CurrencyCT            string `sql:"currency_ct,pk"`
	CurrencyID            uint64 `sql:"currency_id,pk"`
	Nonce                 uint64 `sql:"nonce,notnull"`
	ReferenceBlockNumber  uint64 `sql:"reference_block_number,notnull"`
	DefinitionBlockNumber uint64 `sql:"definition_block_number,notnull"`
	ExpirationTime        uint64 `sql:"expiration_time,notnull"`
	Status                string `sql:"status,notnull"`
	CumulativeTransfer    string `sql:"cumulative_transfer,notnull"`
	Stage                 string `sql:"stage,notnull"`
	TargetBalance         string `sql:"target_balance,notnull"`
	ChallengedKind        string `sql:"challenged_kind"`
	ChallengedHash        string `sql:"challenged_hash"`
	WalletInitiated       bool   `sql:"wallet_initiated,notnull"`
	Terminated            bool   `sql:"terminated,notnull"`
}

type Settlement struct {
	tableName struct{} `sql:"settlements"` //nolint: unused,structcheck

	OriginWallet          string `sql:"origin_wallet,pk"`
	OriginNonce           uint64 `sql:"origin_nonce,pk"`
	SettledKind           string `sql:"settled_kind,notnull"`
	SettledHash           string `sql:"settled_hash,notnull"`
	OriginDoneBlockNumber uint64 `sql:"origin_done_block_number,notnull"`
	TargetWallet          string `sql:"target_wallet,notnull"`
	TargetNonce           uint64 `sql:"target_nonce,notnull"`
	TargetDoneBlockNumber uint64 `sql:"target_done_block_number,notnull"`
}
