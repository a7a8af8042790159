package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/ardash/internal/db"
	"github.com/gyeh/ardash/internal/exitcode"
	"github.com/gyeh/ardash/internal/logging"
	"github.com/gyeh/ardash/internal/store"
)

var snapshotsLimit int

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List archived report snapshots, newest first",
	RunE:  runSnapshots,
}

func init() {
	snapshotsCmd.Flags().IntVar(&snapshotsLimit, "limit", 20, "Maximum snapshots to list")
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	snaps, err := store.New(pool, log).List(ctx, snapshotsLimit)
	if err != nil {
		log.Error().Err(err).Msg("list snapshots failed")
		os.Exit(exitcode.DBConnError)
	}
	if len(snaps) == 0 {
		fmt.Println("No snapshots archived yet.")
		return nil
	}

	fmt.Printf("%-36s  %-6s  %-10s  %-10s  %8s  %6s  %12s  %s\n",
		"ID", "SOURCE", "START", "END", "MIN", "COUNT", "TOTAL AR", "GENERATED")
	for _, s := range snaps {
		total := fmt.Sprintf("%.2f", s.Summary.TotalAR)
		if s.NoData {
			total = "no data"
		}
		fmt.Printf("%-36s  %-6s  %-10s  %-10s  %8.2f  %6d  %12s  %s\n",
			s.ID, s.SourceKind,
			s.StartDate.Format(time.DateOnly), s.EndDate.Format(time.DateOnly),
			s.MinScore, s.RecordCount, total,
			s.GeneratedAt.Format(time.RFC3339))
	}
	return nil
}
