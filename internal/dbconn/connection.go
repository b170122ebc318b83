// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package dbconn

import (
	"github.com/go-pg/migrations"
	"github.com/go-pg/pg"
	"github.com/pkg/errors"

	"github.com/insolar/settlement-replay/configuration"
)

func Connect(cfg configuration.DB) (*pg.DB, error) {
	opt, err := pg.ParseURL(cfg.URL)
	if err != nil {
		// pg.ParseURL uses standard url.Parse
		// witch fills url-string with password into error.
		// So we can't use errors.Wrap here and print error above in code.
		return nil, errors.New("failed to parse cfg.DB.URL")
	}
	opt.PoolSize = cfg.PoolSize
	return pg.Connect(opt), nil
}

// Migrate applies the sql migrations found in dir. With doInit the migrations
// table is created first.
func Migrate(db migrations.DB, dir string, doInit bool) (oldVersion, newVersion int64, err error) {
	collection := migrations.NewCollection()
	if doInit {
		if _, _, err := collection.Run(db, "init"); err != nil {
			return 0, 0, errors.Wrap(err, "could not init migrations")
		}
	}
	if err := collection.DiscoverSQLMigrations(dir); err != nil {
		return 0, 0, errors.Wrap(err, "failed to read migrations")
	}
	oldVersion, newVersion, err = collection.Run(db, "up")
	if err != nil {
		return 0, 0, errors.Wrap(err, "could not migrate")
	}
	return oldVersion, newVersion, nil
}
