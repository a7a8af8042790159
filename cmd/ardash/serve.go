package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/ardash/internal/db"
	"github.com/gyeh/ardash/internal/exitcode"
	"github.com/gyeh/ardash/internal/logging"
	"github.com/gyeh/ardash/internal/report"
	"github.com/gyeh/ardash/internal/score"
	"github.com/gyeh/ardash/internal/server"
	"github.com/gyeh/ardash/internal/source"
	"github.com/gyeh/ardash/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&cfg.ListenAddr, "listen", ":8080", "HTTP listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	resolveConfig(cmd, log)
	ctx := context.Background()

	params := report.DefaultParams()
	params.MinScore = cfg.MinScore

	srvCfg := server.Config{
		Source:     source.ForConfig(&cfg, logging.Component(log, "source")),
		SourceKind: sourceKind(),
		ScoreTable: score.NewTable(cfg.PayerRiskOverrides),
		Params:     params,
		Log:        logging.Component(log, "server"),
	}

	// Snapshot archiving is optional: no DSN, no archive. The Archive
	// field stays untyped-nil when unset so the server skips it.
	if cfg.DSN != "" {
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
		srvCfg.Archive = store.New(pool, logging.Component(log, "store"))
	}

	srv := server.New(srvCfg)

	log.Info().
		Str("addr", cfg.ListenAddr).
		Str("source", sourceKind()).
		Bool("archive", srvCfg.Archive != nil).
		Msg("listening")
	if err := srv.Router().Run(cfg.ListenAddr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(exitcode.ServeError)
	}
	return nil
}
