// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package component

import (
	"context"

	"github.com/go-pg/pg"
	"github.com/go-pg/pg/orm"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/insolar/settlement-replay/configuration"
	"github.com/insolar/settlement-replay/internal/app/replay/operation"
	"github.com/insolar/settlement-replay/internal/app/replay/postgres"
	"github.com/insolar/settlement-replay/internal/pkg/cycle"
	"github.com/insolar/settlement-replay/observability"
)

type PGer interface {
	PG() *pg.DB
}

// makeStorer upserts the replayed state in a single transaction. Without a db it does nothing.
func makeStorer(
	cfg *configuration.Configuration,
	obs *observability.Observability,
	conn PGer,
) func(context.Context, *operation.ReplayContext) error {
	log := obs.Log()
	db := conn.PG()
	storedRows := obs.Gauge(prometheus.GaugeOpts{
		Name: "replay_stored_rows",
		Help: "Number of rows stored by the last replay.",
	})

	return func(ctx context.Context, rc *operation.ReplayContext) error {
		if db == nil {
			log.Debug("db sink disabled, state is not stored")
			return nil
		}

		var rows int
		err := cycle.UntilConnectionError(ctx, func() error {
			return db.RunInTransaction(func(tx *pg.Tx) error {
				var err error
				rows, err = storeState(obs, tx, rc)
				return err
			})
		}, cfg.DB.AttemptInterval, cfg.DB.Attempts, log)
		if err != nil {
			return err
		}

		storedRows.Set(float64(rows))
		log.WithField("rows", rows).Info("items successfully stored")
		return nil
	}
}

func storeState(obs *observability.Observability, db orm.DB, rc *operation.ReplayContext) (int, error) {
	var rows int

	balances := postgres.NewBalanceStorage(obs, db)
	for _, wallet := range rc.ClientFund.Wallets() {
		b := rc.ClientFund.WalletBalances(wallet)
		if err := balances.Insert(wallet, b); err != nil {
			return 0, err
		}
		rows += len(b)
	}

	proposals := postgres.NewProposalStorage(obs, db)
	for _, p := range rc.DriipSettlementChallengeState.Proposals() {
		if err := proposals.Insert(postgres.ProposalKindDriip, p); err != nil {
			return 0, err
		}
		rows++
	}
	for _, p := range rc.NullSettlementChallengeState.Proposals() {
		if err := proposals.Insert(postgres.ProposalKindNull, p); err != nil {
			return 0, err
		}
		rows++
	}

	settlements := postgres.NewSettlementStorage(obs, db)
	for _, st := range rc.DriipSettlementState.Settlements() {
		if err := settlements.Insert(st); err != nil {
			return 0, err
		}
		rows++
	}
	return rows, nil
}
