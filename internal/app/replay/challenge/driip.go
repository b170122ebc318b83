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

const (
	ProposalsFile                          = "proposals.json"
	ProposalIndexByWalletCurrencyFile      = "proposalIndexByWalletCurrency.json"
	ProposalIndexByWalletNonceCurrencyFile = "proposalIndexByWalletNonceCurrency.json"
)

type DriipInitiation struct {
	Wallet                   common.Address
	Nonce                    uint64
	CumulativeTransferAmount bn.Int
	StageAmount              bn.Int
	TargetBalanceAmount      bn.Int
	Currency                 replay.Currency
	ReferenceBlockNumber     uint64
	ChallengedKind           string
	ChallengedHash           common.Hash
	DefinitionBlockNumber    uint64
	DefinitionTimestamp      uint64
	WalletInitiated          bool
}

// DriipSettlementChallengeState keeps settlement proposals started from driips.
type DriipSettlementChallengeState struct {
	timeout uint64
	registry
}

// NewDriipSettlementChallengeState takes the challenge timeout in seconds.
func NewDriipSettlementChallengeState(timeout uint64) *DriipSettlementChallengeState {
	return &DriipSettlementChallengeState{
		timeout:  timeout,
		registry: newRegistry(),
	}
}

func (s *DriipSettlementChallengeState) InitiateProposal(in DriipInitiation) error {
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
			CumulativeTransfer: in.CumulativeTransferAmount,
			Stage:              in.StageAmount,
			TargetBalance:      in.TargetBalanceAmount,
		},
		Currency: in.Currency,
		Challenged: Candidate{
			Kind: in.ChallengedKind,
			Hash: in.ChallengedHash,
		},
		WalletInitiated: in.WalletInitiated,
	})
	return nil
}

func (s *DriipSettlementChallengeState) TerminateProposal(wallet common.Address, currency replay.Currency) error {
	return s.terminate(wallet, currency)
}

func (s *DriipSettlementChallengeState) HasProposal(wallet common.Address, currency replay.Currency) bool {
	return s.has(wallet, currency)
}

func (s *DriipSettlementChallengeState) GetProposal(wallet common.Address, currency replay.Currency) (Proposal, error) {
	p, err := s.get(wallet, currency)
	if err != nil {
		return Proposal{}, err
	}
	return *p, nil
}

// ProposalByNonce finds the proposal last initiated with nonce.
func (s *DriipSettlementChallengeState) ProposalByNonce(wallet common.Address, nonce uint64, currency replay.Currency) (Proposal, bool) {
	p, ok := s.byNonce(wallet, nonce, currency)
	if !ok {
		return Proposal{}, false
	}
	return *p, true
}

func (s *DriipSettlementChallengeState) Proposals() []Proposal {
	return s.list()
}

func (s *DriipSettlementChallengeState) ExportState(dir string) error {
	if err := jsonfile.Write(filepath.Join(dir, ProposalsFile), s.list()); err != nil {
		return err
	}
	if err := jsonfile.Write(filepath.Join(dir, ProposalIndexByWalletCurrencyFile), s.indexByWalletCurrency()); err != nil {
		return err
	}
	return jsonfile.Write(filepath.Join(dir, ProposalIndexByWalletNonceCurrencyFile), s.indexByWalletNonceCurrency())
}
