// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package observability

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/insolar/settlement-replay/configuration"
	"github.com/insolar/settlement-replay/internal/app/replay"
)

func Make(cfg configuration.Log) *Observability {
	return &Observability{
		log:      makeLogger(cfg),
		metrics:  prometheus.NewRegistry(),
		counters: make(map[string]prometheus.Counter),
		gauges:   make(map[string]prometheus.Gauge),
	}
}

func makeLogger(cfg configuration.Log) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("unknown log level, info is used")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

type Observability struct {
	log      *logrus.Logger
	metrics  *prometheus.Registry
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
}

func (o *Observability) Log() *logrus.Logger {
	return o.log
}

func (o *Observability) Metrics() *prometheus.Registry {
	return o.metrics
}

func (o *Observability) Counter(opts prometheus.CounterOpts) prometheus.Counter {
	c, ok := o.counters[opts.Name]
	if ok {
		return c
	}
	c = prometheus.NewCounter(opts)
	err := o.metrics.Register(c)
	if err != nil {
		o.log.WithField("metric_collector", opts.Name).
			Errorf("failed to register metric")
		return c
	}
	o.counters[opts.Name] = c
	return c
}

func (o *Observability) Gauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	g, ok := o.gauges[opts.Name]
	if ok {
		return g
	}
	g = prometheus.NewGauge(opts)
	err := o.metrics.Register(g)
	if err != nil {
		o.log.WithField("metric_collector", opts.Name).
			Errorf("failed to register metric")
		return g
	}
	o.gauges[opts.Name] = g
	return g
}

// StepMetrics counts applied steps per action. Field names match the actions.
type StepMetrics struct {
	Receive               prometheus.Counter
	Withdraw              prometheus.Counter
	StartPaymentChallenge prometheus.Counter
	SettlePayment         prometheus.Counter
	StartNullChallenge    prometheus.Counter
	SettleNull            prometheus.Counter
}

func MakeStepMetrics(obs *Observability) *StepMetrics {
	counters := &StepMetrics{}
	v := reflect.ValueOf(counters).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := snake(t.Field(i).Name)
		name := fmt.Sprintf("replay_%s_total", field)
		help := fmt.Sprintf("Number of %s steps successfully applied.", strings.Replace(field, "_", "-", -1))
		opts := prometheus.CounterOpts{
			Name: name,
			Help: help,
		}
		collector := obs.Counter(opts)
		v.Field(i).Set(reflect.ValueOf(collector))
	}
	return counters
}

func (m *StepMetrics) Applied(action replay.Action) {
	switch action {
	case replay.ActionReceive:
		m.Receive.Inc()
	case replay.ActionWithdraw:
		m.Withdraw.Inc()
	case replay.ActionStartPaymentChallenge:
		m.StartPaymentChallenge.Inc()
	case replay.ActionSettlePayment:
		m.SettlePayment.Inc()
	case replay.ActionStartNullChallenge:
		m.StartNullChallenge.Inc()
	case replay.ActionSettleNull:
		m.SettleNull.Inc()
	}
}

func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

type CommonReplayMetrics struct {
	Steps      prometheus.Counter
	Wallets    prometheus.Counter
	ExportTime prometheus.Gauge
}

func MakeCommonMetrics(obs *Observability) *CommonReplayMetrics {
	m := CommonReplayMetrics{
		Steps: obs.Counter(prometheus.CounterOpts{
			Name: "replay_steps_total",
			Help: "Number of steps successfully applied.",
		}),
		Wallets: obs.Counter(prometheus.CounterOpts{
			Name: "replay_wallets_total",
			Help: "Number of wallet step files replayed.",
		}),
		ExportTime: obs.Gauge(prometheus.GaugeOpts{
			Name: "replay_export_seconds",
			Help: "Seconds spent on exporting replayed state",
		}),
	}

	return &m
}
