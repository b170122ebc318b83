// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package component

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/insolar/settlement-replay/configuration"
	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/observability"
)

// makeLoader reads one step file per wallet from the input directory in file name order.
func makeLoader(cfg *configuration.Configuration, obs *observability.Observability) func(context.Context) ([]*walletSteps, error) {
	log := obs.Log()
	loadedSteps := obs.Gauge(prometheus.GaugeOpts{
		Name: "replay_loaded_steps",
		Help: "Number of steps loaded from the input directory.",
	})

	return func(ctx context.Context) ([]*walletSteps, error) {
		dir := cfg.Replay.InputDir
		infos, err := ioutil.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read input directory %s", dir)
		}

		var (
			out   []*walletSteps
			total int
		)
		for _, info := range infos {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
				continue
			}
			path := filepath.Join(dir, info.Name())
			data, err := ioutil.ReadFile(path)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read %s", path)
			}
			steps, err := replay.DecodeSteps(data)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to decode %s", path)
			}
			log.WithField("file", info.Name()).
				WithField("steps", len(steps)).
				Debug("loaded wallet steps")
			out = append(out, &walletSteps{file: info.Name(), steps: steps})
			total += len(steps)
		}

		loadedSteps.Set(float64(total))
		log.WithField("wallets", len(out)).
			WithField("steps", total).
			Infof("loaded steps")
		return out, nil
	}
}
