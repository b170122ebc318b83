// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package component

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insolar/settlement-replay/configuration"
	"github.com/insolar/settlement-replay/internal/app/api"
	"github.com/insolar/settlement-replay/observability"
)

const shutdownTimeout = 5 * time.Second

func NewRouter(cfg *configuration.Configuration, obs *observability.Observability) *Router {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	r := &Router{
		e:    e,
		addr: cfg.API.Listen,
		obs:  obs,
	}
	e.GET("/healthcheck", r.healthCheck)
	e.GET("/metrics", r.metrics)
	return r
}

type Router struct {
	e    *echo.Echo
	addr string
	obs  *observability.Observability

	mu      sync.Mutex
	started bool
}

// Start registers the replay handlers and serves them in background.
func (r *Router) Start(server *api.ReplayServer) {
	log := r.obs.Log()
	api.RegisterHandlers(r.e, server)

	r.mu.Lock()
	r.started = true
	r.mu.Unlock()

	go func() {
		err := r.e.Start(r.addr)
		if err != http.ErrServerClosed {
			log.Error(errors.Wrapf(err, "http server Start"))
		}
	}()
}

func (r *Router) Stop() {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if !started {
		return
	}

	log := r.obs.Log()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := r.e.Shutdown(ctx); err != nil {
		log.Error(errors.Wrapf(err, "http server shutdown"))
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.e.ServeHTTP(w, req)
}

func (r *Router) healthCheck(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "OK")
}

func (r *Router) metrics(ctx echo.Context) error {
	ops := promhttp.HandlerOpts{
		ErrorLog: r.obs.Log(),
	}
	handler := promhttp.HandlerFor(r.obs.Metrics(), ops)
	handler.ServeHTTP(ctx.Response(), ctx.Request())
	return nil
}
