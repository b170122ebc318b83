// Copyright 2020 Insolar Network Ltd.
// All rights reserved.
// This material is licensed under the Insolar License version 1.0,
// available at https://github.com/insolar/settlement-replay/blob/master/LICENSE.md.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/insolar/settlement-replay/component"
	"github.com/insolar/settlement-replay/configuration"
	"github.com/insolar/settlement-replay/internal/dbconn"
	"github.com/insolar/settlement-replay/observability"
)

var (
	configPath   string
	inputDir     string
	outputDir    string
	listen       string
	migrationDir string
	doInit       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replays wallet step logs into settlement ledgers",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to replay.yaml")

	executeCmd := &cobra.Command{
		Use:   "execute",
		Short: "Replay steps and export the ledgers state",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, obs := setup()
			manager, err := component.Prepare(cfg, obs)
			if err != nil {
				obs.Log().Fatal(err)
			}
			if _, err := manager.Execute(context.Background()); err != nil {
				obs.Log().Fatal(err)
			}
		},
	}
	addReplayFlags(executeCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Replay steps, export them and serve the result over http",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, obs := setup()
			if listen != "" {
				cfg.API.Listen = listen
			}
			manager, err := component.Prepare(cfg, obs)
			if err != nil {
				obs.Log().Fatal(err)
			}
			ctx, cancel := context.WithCancel(context.Background())
			go graceful(obs.Log(), cancel)
			if err := manager.Serve(ctx); err != nil {
				obs.Log().Fatal(err)
			}
		},
	}
	addReplayFlags(serveCmd)
	serveCmd.Flags().StringVarP(&listen, "listen", "l", "", "http listen address")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply db migrations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, obs := setup()
			log := obs.Log()
			db, err := dbconn.Connect(cfg.DB)
			if err != nil {
				log.Fatal(err.Error())
			}
			defer db.Close()

			oldVersion, newVersion, err := dbconn.Migrate(db, migrationDir, doInit)
			if err != nil {
				log.Fatal(err)
			}
			log.WithField("old_version", oldVersion).
				WithField("new_version", newVersion).
				Info("migrated successfully!")
		},
	}
	migrateCmd.Flags().StringVar(&migrationDir, "dir", "scripts/migrations", "directory with migrations")
	migrateCmd.Flags().BoolVar(&doInit, "init", false, "perform db init (for empty db)")

	rootCmd.AddCommand(executeCmd, serveCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addReplayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory with one steps file per wallet")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for exported state")
}

func setup() (*configuration.Configuration, *observability.Observability) {
	cfg := configuration.Load(logrus.StandardLogger(), configPath)
	if inputDir != "" {
		cfg.Replay.InputDir = inputDir
	}
	if outputDir != "" {
		cfg.Replay.OutputDir = outputDir
	}
	return cfg, observability.Make(cfg.Log)
}

func graceful(log *logrus.Logger, that func()) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("gracefully stopping...")
	that()
}
