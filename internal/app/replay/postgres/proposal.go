// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package postgres

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-pg/pg/orm"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/insolar/settlement-replay/internal/app/replay/challenge"
	"github.com/insolar/settlement-replay/internal/models"
	"github.com/insolar/settlement-replay/internal/pkg/keys"
	"github.com/insolar/settlement-replay/observability"
)

const (
	ProposalKindDriip = "driip"
	ProposalKindNull  = "null"
)

type ProposalStorage struct {
	log          *logrus.Logger
	errorCounter prometheus.Counter
	db           orm.DB
}

func NewProposalStorage(obs *observability.Observability, db orm.DB) *ProposalStorage {
	errorCounter := obs.Counter(prometheus.CounterOpts{
		Name: "replay_proposal_storage_error_counter",
		Help: "",
	})
	return &ProposalStorage{
		log:          obs.Log(),
		errorCounter: errorCounter,
		db:           db,
	}
}

func (s *ProposalStorage) Insert(kind string, proposal challenge.Proposal) error {
	row := proposalSchema(kind, proposal)
	res, err := s.db.Query(row, `
		insert into proposals (
			kind,
			wallet,
			currency_ct,
			currency_id,
			nonce,
			reference_block_number,
			definition_block_number,
			expiration_time,
			status,
			cumulative_transfer,
			stage,
			target_balance,
			challenged_kind,
			challenged_hash,
			wallet_initiated,
			terminated
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		on conflict (kind, wallet, currency_ct, currency_id) do update set
			nonce = excluded.nonce,
			reference_block_number = excluded.reference_block_number,
			definition_block_number = excluded.definition_block_number,
			expiration_time = excluded.expiration_time,
			status = excluded.status,
			cumulative_transfer = excluded.cumulative_transfer,
			stage = excluded.stage,
			target_balance = excluded.target_balance,
			challenged_kind = excluded.challenged_kind,
			challenged_hash = excluded.challenged_hash,
			wallet_initiated = excluded.wallet_initiated,
			terminated = excluded.terminated`,
		row.Kind,
		row.Wallet,
		row.CurrencyCT,
		row.CurrencyID,
		row.Nonce,
		row.ReferenceBlockNumber,
		row.DefinitionBlockNumber,
		row.ExpirationTime,
		row.Status,
		row.CumulativeTransfer,
		row.Stage,
		row.TargetBalance,
		row.ChallengedKind,
		row.ChallengedHash,
		row.WalletInitiated,
		row.Terminated,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to insert proposal %v", row)
	}

	if res.RowsAffected() == 0 {
		s.errorCounter.Inc()
		s.log.WithField("proposal_row", row).Errorf("failed to insert proposal")
		return errors.New("failed to insert, affected is 0")
	}
	return nil
}

func (s *ProposalStorage) Proposals(kind string, wallet common.Address) ([]models.Proposal, error) {
	var rows []models.Proposal
	_, err := s.db.Query(&rows, `
		select * from proposals
		where kind = ? and wallet = ?
		order by currency_ct, currency_id`, kind, keys.Address(wallet))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select %s proposals of %s", kind, keys.Address(wallet))
	}
	return rows, nil
}

func proposalSchema(kind string, p challenge.Proposal) *models.Proposal {
	row := &models.Proposal{
		Kind:                  kind,
		Wallet:                keys.Address(p.Wallet),
		CurrencyCT:            keys.Address(p.Currency.CT),
		CurrencyID:            p.Currency.ID,
		Nonce:                 p.Nonce,
		ReferenceBlockNumber:  p.ReferenceBlockNumber,
		DefinitionBlockNumber: p.DefinitionBlockNumber,
		ExpirationTime:        p.ExpirationTime,
		Status:                string(p.Status),
		CumulativeTransfer:    p.Amounts.CumulativeTransfer.String(),
		Stage:                 p.Amounts.Stage.String(),
		TargetBalance:         p.Amounts.TargetBalance.String(),
		ChallengedKind:        p.Challenged.Kind,
		WalletInitiated:       p.WalletInitiated,
		Terminated:            p.Terminated,
	}
	if p.Challenged.Kind != "" {
		row.ChallengedHash = p.Challenged.Hash.Hex()
	}
	return row
}
