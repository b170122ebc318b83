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

	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/app/replay/clientfund"
	"github.com/insolar/settlement-replay/internal/models"
	"github.com/insolar/settlement-replay/internal/pkg/keys"
	"github.com/insolar/settlement-replay/observability"
)

type BalanceStorage struct {
	log          *logrus.Logger
	errorCounter prometheus.Counter
	db           orm.DB
}

func NewBalanceStorage(obs *observability.Observability, db orm.DB) *BalanceStorage {
	errorCounter := obs.Counter(prometheus.CounterOpts{
		Name: "replay_balance_storage_error_counter",
		Help: "",
	})
	return &BalanceStorage{
		log:          obs.Log(),
		errorCounter: errorCounter,
		db:           db,
	}
}

func (s *BalanceStorage) Insert(wallet common.Address, balances []clientfund.CurrencyBalance) error {
	for _, b := range balances {
		row := balanceSchema(wallet, b)
		if err := s.insertBalance(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *BalanceStorage) insertBalance(row *models.Balance) error {
	res, err := s.db.Query(row, `
		insert into balances (
			wallet,
			currency_ct,
			currency_id,
			deposited,
			settled,
			staged
		) values (?, ?, ?, ?, ?, ?)
		on conflict (wallet, currency_ct, currency_id) do update set
			deposited = excluded.deposited,
			settled = excluded.settled,
			staged = excluded.staged`,
		row.Wallet,
		row.CurrencyCT,
		row.CurrencyID,
		row.Deposited,
		row.Settled,
		row.Staged,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to insert balance %v", row)
	}

	if res.RowsAffected() == 0 {
		s.errorCounter.Inc()
		s.log.WithField("balance_row", row).Errorf("failed to insert balance")
		return errors.New("failed to insert, affected is 0")
	}
	return nil
}

func (s *BalanceStorage) Balances(wallet common.Address) ([]models.Balance, error) {
	var rows []models.Balance
	_, err := s.db.Query(&rows, `
		select * from balances
		where wallet = ?
		order by currency_ct, currency_id`, keys.Address(wallet))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select balances of %s", keys.Address(wallet))
	}
	return rows, nil
}

func balanceSchema(wallet common.Address, b clientfund.CurrencyBalance) *models.Balance {
	return &models.Balance{
		Wallet:     replay.WalletKey(wallet),
		CurrencyCT: keys.Address(b.Currency.CT),
		CurrencyID: b.Currency.ID,
		Deposited:  b.BalanceAmounts.Deposited.String(),
		Settled:    b.BalanceAmounts.Settled.String(),
		Staged:     b.BalanceAmounts.Staged.String(),
	}
}
