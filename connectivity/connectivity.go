// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package connectivity

import (
	"github.com/go-pg/pg"

	"github.com/insolar/settlement-replay/configuration"
	"github.com/insolar/settlement-replay/internal/dbconn"
	"github.com/insolar/settlement-replay/observability"
)

// Make opens the postgres pool when the db sink is enabled. PG returns nil otherwise.
func Make(cfg *configuration.Configuration, obs *observability.Observability) *Connectivity {
	log := obs.Log()
	return &Connectivity{
		pg: func() *pg.DB {
			if !cfg.DB.Enabled {
				log.Debug("db sink disabled, skipping postgres connection")
				return nil
			}
			db, err := dbconn.Connect(cfg.DB)
			if err != nil {
				log.Fatal(err.Error())
			}
			return db
		}(),
	}
}

type Connectivity struct {
	pg *pg.DB
}

func (c *Connectivity) PG() *pg.DB {
	return c.pg
}

func (c *Connectivity) Close() error {
	if c.pg == nil {
		return nil
	}
	return c.pg.Close()
}
