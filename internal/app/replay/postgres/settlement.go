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

	"github.com/insolar/settlement-replay/internal/app/replay/settlement"
	"github.com/insolar/settlement-replay/internal/models"
	"github.com/insolar/settlement-replay/internal/pkg/keys"
	"github.com/insolar/settlement-replay/observability"
)

type SettlementStorage struct {
	log          *logrus.Logger
	errorCounter prometheus.Counter
	db           orm.DB
}

func NewSettlementStorage(obs *observability.Observability, db orm.DB) *SettlementStorage {
	errorCounter := obs.Counter(prometheus.CounterOpts{
		Name: "replay_settlement_storage_error_counter",
		Help: "",
	})
	return &SettlementStorage{
		log:          obs.Log(),
		errorCounter: errorCounter,
		db:           db,
	}
}

func (s *SettlementStorage) Insert(st settlement.Settlement) error {
	row := settlementSchema(st)
	res, err := s.db.Query(row, `
		insert into settlements (
			origin_wallet,
			origin_nonce,
			settled_kind,
			settled_hash,
			origin_done_block_number,
			target_wallet,
			target_nonce,
			target_done_block_number
		) values (?, ?, ?, ?, ?, ?, ?, ?)
		on conflict (origin_wallet, origin_nonce) do update set
			origin_done_block_number = excluded.origin_done_block_number,
			target_done_block_number = excluded.target_done_block_number`,
		row.OriginWallet,
		row.OriginNonce,
		row.SettledKind,
		row.SettledHash,
		row.OriginDoneBlockNumber,
		row.TargetWallet,
		row.TargetNonce,
		row.TargetDoneBlockNumber,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to insert settlement %v", row)
	}

	if res.RowsAffected() == 0 {
		s.errorCounter.Inc()
		s.log.WithField("settlement_row", row).Errorf("failed to insert settlement")
		return errors.New("failed to insert, affected is 0")
	}
	return nil
}

func (s *SettlementStorage) Settlements(wallet common.Address) ([]models.Settlement, error) {
	var rows []models.Settlement
	addr := keys.Address(wallet)
	_, err := s.db.Query(&rows, `
		select * from settlements
		where origin_wallet = ? or target_wallet = ?
		order by origin_wallet, origin_nonce`, addr, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select settlements of %s", addr)
	}
	return rows, nil
}

func settlementSchema(st settlement.Settlement) *models.Settlement {
	return &models.Settlement{
		OriginWallet:          keys.Address(st.Origin.Wallet),
		OriginNonce:           st.Origin.Nonce,
		SettledKind:           st.SettledKind,
		SettledHash:           st.SettledHash.Hex(),
		OriginDoneBlockNumber: st.Origin.DoneBlockNumber,
		TargetWallet:          keys.Address(st.Target.Wallet),
		TargetNonce:           st.Target.Nonce,
		TargetDoneBlockNumber: st.Target.DoneBlockNumber,
	}
}
