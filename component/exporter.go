// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package component

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/insolar/settlement-replay/configuration"
	"github.com/insolar/settlement-replay/internal/app/replay/operation"
	"github.com/insolar/settlement-replay/observability"
)

const (
	ClientFundDir                    = "ClientFund"
	DriipSettlementChallengeStateDir = "DriipSettlementChallengeState"
	DriipSettlementStateDir          = "DriipSettlementState"
	NullSettlementChallengeStateDir  = "NullSettlementChallengeState"
	NullSettlementStateDir           = "NullSettlementState"
)

type exportable interface {
	ExportState(dir string) error
}

// makeExporter writes the five ledgers concurrently, each into its own directory.
func makeExporter(cfg *configuration.Configuration, obs *observability.Observability) func(*operation.ReplayContext) error {
	log := obs.Log()
	metric := observability.MakeCommonMetrics(obs)

	return func(rc *operation.ReplayContext) error {
		start := time.Now()
		ledgers := map[string]exportable{
			ClientFundDir:                    rc.ClientFund,
			DriipSettlementChallengeStateDir: rc.DriipSettlementChallengeState,
			DriipSettlementStateDir:          rc.DriipSettlementState,
			NullSettlementChallengeStateDir:  rc.NullSettlementChallengeState,
			NullSettlementStateDir:           rc.NullSettlementState,
		}

		var g errgroup.Group
		for name, ledger := range ledgers {
			dir := filepath.Join(cfg.Replay.OutputDir, name)
			ledger := ledger
			g.Go(func() error {
				return errors.Wrapf(ledger.ExportState(dir), "failed to export %s", dir)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		spent := time.Since(start)
		metric.ExportTime.Set(spent.Seconds())
		log.WithField("output_dir", cfg.Replay.OutputDir).
			WithField("spent", spent).
			Info("state exported")
		return nil
	}
}
