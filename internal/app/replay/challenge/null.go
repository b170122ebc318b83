// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package challenge

import (
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/pkg/bn"
	"github.com/insolar/settlement-replay/internal/pkg/jsonfile"
)

type NullInitiation struct {
	Wallet                common.Address
	Nonce                 uint64
	StageAmount           bn.Int
	TargetBalanceAmount   bn.Int
	Currency              replay.Currency
	ReferenceBlockNumber  uint64
	DefinitionBlockNumber uint64
	DefinitionTimestamp   uint64
	WalletInitiated       bool
}

// NullSettlementChallengeState keeps settlement proposals not driven by any driip.
type NullSettlementChallengeState struct {
	timeout uint64
	registry
}

func NewNullSettlementChallengeState(timeout uint64) *NullSettlementChallengeState {
	return &NullSettlementChallengeState{
		timeout:  timeout,
		registry: newRegistry(),
	}
}

func (s *NullSettlementChallengeState) InitiateProposal(in NullInitiation) error {
	if err := checkAmounts(in.StageAmount, in.TargetBalanceAmount); err != nil {
		return err
	}
	s.put(&Proposal{
		Wallet:                in.Wallet,
		Nonce:                 in.Nonce,
		ReferenceBlockNumber:  in.ReferenceBlockNumber,
		DefinitionBlockNumber: in.DefinitionBlockNumber,
		ExpirationTime:        in.DefinitionTimestamp + s.timeout,
		Status:                StatusQualified,
		Amounts: Amounts{
			Stage:         in.StageAmount,
			TargetBalance: in.TargetBalanceAmount,
		},
		Currency:        in.Currency,
		WalletInitiated: in.WalletInitiated,
	})
	return nil
}

func (s *NullSettlementChallengeState) TerminateProposal(wallet common.Address, currency replay.Currency) error {
	return s.terminate(wallet, currency)
}

func (s *NullSettlementChallengeState) HasProposal(wallet common.Address, currency replay.Currency) bool {
	return s.has(wallet, currency)
}

func (s *NullSettlementChallengeState) GetProposal(wallet common.Address, currency replay.Currency) (Proposal, error) {
	p, err := s.get(wallet, currency)
	if err != nil {
		return Proposal{}, err
	}
	return *p, nil
}

func (s *NullSettlementChallengeState) Proposals() []Proposal {
	return s.list()
}

func (s *NullSettlementChallengeState) ExportState(dir string) error {
	if err := jsonfile.Write(filepath.Join(dir, ProposalsFile), s.list()); err != nil {
		return err
	}
	return jsonfile.Write(filepath.Join(dir, ProposalIndexByWalletCurrencyFile), s.indexByWalletCurrency())
}
