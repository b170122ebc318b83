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
	"github.com/insolar/settlement-replay/connectivity"
	"github.com/insolar/settlement-replay/internal/app/api"
	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/app/replay/operation"
	"github.com/insolar/settlement-replay/internal/pkg/keys"
	"github.com/insolar/settlement-replay/observability"
)

type Manager struct {
	cfg *configuration.Configuration
	log *logrus.Logger

	load   func(context.Context) ([]*walletSteps, error)
	replay func(context.Context, []*walletSteps) (*operation.ReplayContext, error)
	export func(*operation.ReplayContext) error
	store  func(context.Context, *operation.ReplayContext) error
	stop   func()

	decoder keys.Decoder
	router  *Router
}

func Prepare(cfg *configuration.Configuration, obs *observability.Observability) (*Manager, error) {
	decoder, err := keys.NewCachedDecoder(cfg.Cache.KeySize)
	if err != nil {
		return nil, err
	}
	conn := connectivity.Make(cfg, obs)
	router := NewRouter(cfg, obs)
	return &Manager{
		cfg:     cfg,
		log:     obs.Log(),
		load:    makeLoader(cfg, obs),
		replay:  makeReplayer(cfg, obs, operation.NewValidator()),
		export:  makeExporter(cfg, obs),
		store:   makeStorer(cfg, obs, conn),
		stop:    makeStopper(obs, conn, router),
		decoder: decoder,
		router:  router,
	}, nil
}

// Run replays every wallet file from the input directory, exports the ledgers and
// stores them in the db when it is enabled. Connections are kept open.
func (m *Manager) Run(ctx context.Context) (*operation.ReplayContext, error) {
	steps, err := m.load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load steps")
	}
	rc, err := m.replay(ctx, steps)
	if err != nil {
		return nil, err
	}
	if err := m.export(rc); err != nil {
		return nil, errors.Wrap(err, "failed to export state")
	}
	if err := m.store(ctx, rc); err != nil {
		return nil, errors.Wrap(err, "failed to store state")
	}
	return rc, nil
}

// Execute runs the replay once and releases connections.
func (m *Manager) Execute(ctx context.Context) (*operation.ReplayContext, error) {
	defer m.stop()
	return m.Run(ctx)
}

// Serve runs the replay and then serves its result until ctx is done.
func (m *Manager) Serve(ctx context.Context) error {
	defer m.stop()

	rc, err := m.Run(ctx)
	if err != nil {
		return err
	}
	m.router.Start(api.NewReplayServer(m.log, rc, m.decoder))
	m.log.WithField("listen", m.cfg.API.Listen).Info("serving replayed state")

	<-ctx.Done()
	return nil
}

type walletSteps struct {
	file  string
	steps []replay.Step
}
