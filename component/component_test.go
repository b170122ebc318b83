// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package component

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-pg/pg/orm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insolar/settlement-replay/configuration"
	"github.com/insolar/settlement-replay/internal/app/replay"
	"github.com/insolar/settlement-replay/internal/app/replay/challenge"
	"github.com/insolar/settlement-replay/internal/app/replay/clientfund"
	"github.com/insolar/settlement-replay/internal/app/replay/postgres"
	"github.com/insolar/settlement-replay/internal/app/replay/settlement"
	"github.com/insolar/settlement-replay/observability"
)

const senderSteps = `[
	{"action":"receive","wallet":"0x00000000000000000000000000000000000000aa","blockNumber":10,"blockTimestamp":100,
	 "data":{"amount":"1000","currency":{"ct":"0x0000000000000000000000000000000000000000","id":"0"}}},
	{"action":"start-null-challenge","wallet":"0x00000000000000000000000000000000000000aa","blockNumber":20,"blockTimestamp":200,
	 "data":{"stageAmount":"300","currency":{"ct":"0x0000000000000000000000000000000000000000","id":"0"}}},
	{"action":"settle-null","wallet":"0x00000000000000000000000000000000000000aa","blockNumber":30,"blockTimestamp":432200,
	 "data":{"currency":{"ct":"0x0000000000000000000000000000000000000000","id":"0"}}},
	{"action":"withdraw","wallet":"0x00000000000000000000000000000000000000aa","blockNumber":40,"blockTimestamp":432300,
	 "data":{"amount":"300","currency":{"ct":"0x0000000000000000000000000000000000000000","id":"0"}}}
]`

const regressingSteps = `[
	{"action":"receive","wallet":"0x00000000000000000000000000000000000000bb","blockNumber":10,"blockTimestamp":100,
	 "data":{"amount":"1","currency":{"ct":"0x0000000000000000000000000000000000000000","id":"0"}}},
	{"action":"receive","wallet":"0x00000000000000000000000000000000000000bb","blockNumber":9,"blockTimestamp":90,
	 "data":{"amount":"1","currency":{"ct":"0x0000000000000000000000000000000000000000","id":"0"}}}
]`

var wallet = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func testConfig(t *testing.T, files map[string]string) (*configuration.Configuration, func()) {
	root, err := ioutil.TempDir("", "replay")
	require.NoError(t, err)

	cfg := configuration.Default()
	cfg.Log.Level = "error"
	cfg.Replay.InputDir = filepath.Join(root, "steps")
	cfg.Replay.OutputDir = filepath.Join(root, "state")
	require.NoError(t, os.MkdirAll(cfg.Replay.InputDir, 0755))
	for name, content := range files {
		require.NoError(t, ioutil.WriteFile(filepath.Join(cfg.Replay.InputDir, name), []byte(content), 0644))
	}
	return cfg, func() {
		_ = os.RemoveAll(root)
	}
}

func TestManager_Execute(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		cfg, cleaner := testConfig(t, map[string]string{
			"aa.json":   senderSteps,
			"README.md": "not steps",
		})
		defer cleaner()

		m, err := Prepare(cfg, observability.Make(cfg.Log))
		require.NoError(t, err)
		rc, err := m.Execute(context.Background())
		require.NoError(t, err)

		eth := replay.Currency{}
		assert.Equal(t, "700", rc.ClientFund.DepositedBalance(wallet, eth).String())
		assert.Equal(t, "0", rc.ClientFund.StagedBalance(wallet, eth).String())

		state, err := clientfund.ReadState(filepath.Join(cfg.Replay.OutputDir, ClientFundDir))
		require.NoError(t, err)
		require.Len(t, state[replay.WalletKey(wallet)], 1)
		assert.Equal(t, "700", state[replay.WalletKey(wallet)][0].BalanceAmounts.Deposited.String())

		for _, path := range []string{
			filepath.Join(DriipSettlementChallengeStateDir, challenge.ProposalsFile),
			filepath.Join(DriipSettlementStateDir, settlement.SettlementsFile),
			filepath.Join(DriipSettlementStateDir, settlement.TotalFeesMapFile),
			filepath.Join(NullSettlementChallengeStateDir, challenge.ProposalsFile),
			filepath.Join(NullSettlementStateDir, settlement.WalletCurrencyMaxNonceFile),
		} {
			_, err := os.Stat(filepath.Join(cfg.Replay.OutputDir, path))
			assert.NoError(t, err, path)
		}
	})

	t.Run("invariant_violation", func(t *testing.T) {
		cfg, cleaner := testConfig(t, map[string]string{
			"aa.json": senderSteps,
			"bb.json": regressingSteps,
		})
		defer cleaner()

		m, err := Prepare(cfg, observability.Make(cfg.Log))
		require.NoError(t, err)
		_, err = m.Execute(context.Background())
		require.Error(t, err)
		require.Equal(t, replay.ErrBlockNumberRegression, errors.Cause(err))
		require.Contains(t, err.Error(), "bb.json: step #1")

		_, err = os.Stat(filepath.Join(cfg.Replay.OutputDir, ClientFundDir))
		require.True(t, os.IsNotExist(err))
	})

	t.Run("bad_input", func(t *testing.T) {
		cfg, cleaner := testConfig(t, map[string]string{"aa.json": "{"})
		defer cleaner()

		m, err := Prepare(cfg, observability.Make(cfg.Log))
		require.NoError(t, err)
		_, err = m.Execute(context.Background())
		require.Error(t, err)
		require.Contains(t, err.Error(), "aa.json")
	})

	t.Run("missing_input_dir", func(t *testing.T) {
		cfg, cleaner := testConfig(t, nil)
		defer cleaner()
		cfg.Replay.InputDir = filepath.Join(cfg.Replay.InputDir, "absent")

		m, err := Prepare(cfg, observability.Make(cfg.Log))
		require.NoError(t, err)
		_, err = m.Execute(context.Background())
		require.Error(t, err)
	})
}

func TestStoreState(t *testing.T) {
	cfg, cleaner := testConfig(t, map[string]string{"aa.json": senderSteps})
	defer cleaner()
	obs := observability.Make(cfg.Log)

	wallets, err := makeLoader(cfg, obs)(context.Background())
	require.NoError(t, err)
	rc, err := makeReplayer(cfg, obs, nil)(context.Background(), wallets)
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		var tables []string
		db := postgres.NewDBMock(func(model, query interface{}, params ...interface{}) (orm.Result, error) {
			q := query.(string)
			tables = append(tables, strings.Fields(q)[2])
			return postgres.MakeResult(obs.Log(), 1), nil
		})

		rows, err := storeState(obs, db, rc)
		require.NoError(t, err)
		require.Equal(t, 2, rows)
		require.Equal(t, []string{"balances", "proposals"}, tables)
	})

	t.Run("failed", func(t *testing.T) {
		db := postgres.NewDBMock(func(model, query interface{}, params ...interface{}) (orm.Result, error) {
			return nil, errors.New("connection refused")
		})

		_, err := storeState(obs, db, rc)
		require.Error(t, err)
	})
}

func TestRouter(t *testing.T) {
	cfg := configuration.Default()
	obs := observability.Make(cfg.Log)
	observability.MakeCommonMetrics(obs).Steps.Inc()
	router := NewRouter(cfg, obs)

	t.Run("healthcheck", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "replay_steps_total")
	})

	// stopping a router that never started is a no-op
	router.Stop()
}
