// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package configuration

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/insolar/settlement-replay/internal/pkg/cycle"
)

// DefaultSettlementChallengeTimeout is 5 days in seconds.
const DefaultSettlementChallengeTimeout = 5 * 24 * 60 * 60

type Configuration struct {
	Log    Log
	Replay Replay
	DB     DB
	API    API
	Cache  Cache
}

type Log struct {
	Level string
	// text or json
	Format string
}

type Replay struct {
	// One JSON file of steps per wallet
	InputDir  string
	OutputDir string
	// Seconds a settlement proposal stays open to challenge
	SettlementChallengeTimeout uint64
	// Fail withdrawals exceeding the staged balance
	StrictWithdrawal bool
}

type DB struct {
	// Store replayed state in postgres after export
	Enabled  bool
	URL      string
	PoolSize int
	Attempts cycle.Limit
	// Interval between store in db failed attempts
	AttemptInterval time.Duration
}

type API struct {
	Listen string
}

type Cache struct {
	// Decoded composite keys kept in memory
	KeySize int
}

func Default() *Configuration {
	return &Configuration{
		Log: Log{
			Level:  logrus.InfoLevel.String(),
			Format: "text",
		},
		Replay: Replay{
			InputDir:                   "steps",
			OutputDir:                  "state",
			SettlementChallengeTimeout: DefaultSettlementChallengeTimeout,
			StrictWithdrawal:           true,
		},
		DB: DB{
			Enabled:         false,
			URL:             "postgres://postgres@localhost/postgres?sslmode=disable",
			PoolSize:        10,
			Attempts:        5,
			AttemptInterval: 3 * time.Second,
		},
		API: API{
			Listen: ":8080",
		},
		Cache: Cache{
			KeySize: 10000,
		},
	}
}
