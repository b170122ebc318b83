// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package component

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/insolar/settlement-replay/configuration"
	"github.com/insolar/settlement-replay/internal/app/replay/operation"
	"github.com/insolar/settlement-replay/observability"
)

// makeReplayer applies wallets one after another. The first failing step aborts the run.
func makeReplayer(
	cfg *configuration.Configuration,
	obs *observability.Observability,
	validator operation.PaymentValidator,
) func(context.Context, []*walletSteps) (*operation.ReplayContext, error) {
	log := obs.Log()
	stepMetrics := observability.MakeStepMetrics(obs)
	common := observability.MakeCommonMetrics(obs)

	return func(ctx context.Context, wallets []*walletSteps) (*operation.ReplayContext, error) {
		rc := operation.NewReplayContext(log, cfg.Replay.SettlementChallengeTimeout, cfg.Replay.StrictWithdrawal)
		executor := operation.NewExecutor(log, rc, validator)

		for _, w := range wallets {
			for i, step := range w.steps {
				if err := executor.Execute(ctx, step); err != nil {
					log.WithFields(logrus.Fields{
						"file":         w.file,
						"step":         i,
						"action":       step.Action(),
						"block_number": step.Head().BlockNumber,
					}).Error(err)
					return nil, errors.Wrapf(err, "%s: step #%d", w.file, i)
				}
				stepMetrics.Applied(step.Action())
				common.Steps.Inc()
			}
			common.Wallets.Inc()
		}

		log.WithField("settlements", rc.DriipSettlementState.SettlementsCount()).
			Info("replay finished")
		return rc, nil
	}
}
