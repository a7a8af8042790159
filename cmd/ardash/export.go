package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/ardash/internal/derive"
	"github.com/gyeh/ardash/internal/exitcode"
	"github.com/gyeh/ardash/internal/export"
	"github.com/gyeh/ardash/internal/logging"
	"github.com/gyeh/ardash/internal/report"
	"github.com/gyeh/ardash/internal/score"
	"github.com/gyeh/ardash/internal/source"
)

var (
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered AR table to a file",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOut, "out", "", "Output path (required)")
	f.StringVar(&exportFormat, "format", "csv", "Output format: csv or parquet")
	f.StringVar(&cfg.StartDate, "start", "", "Range start, YYYY-MM-DD (default: 90 days before end)")
	f.StringVar(&cfg.EndDate, "end", "", "Range end, YYYY-MM-DD (default: today)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	resolveConfig(cmd, log)
	if exportFormat != "csv" && exportFormat != "parquet" {
		log.Error().Str("format", exportFormat).Msg("format must be csv or parquet")
		os.Exit(exitcode.UsageError)
	}
	ctx := context.Background()

	now := time.Now()
	start, end, err := cfg.DateRange(now)
	if err != nil {
		log.Error().Err(err).Msg("invalid date range")
		os.Exit(exitcode.UsageError)
	}

	src := source.ForConfig(&cfg, logging.Component(log, "source"))
	invoices, err := src.Fetch(ctx, start, end)
	if err != nil {
		log.Error().Err(err).Msg("fetch failed")
		os.Exit(exitcode.FetchError)
	}
	derive.Apply(now, invoices, score.NewTable(cfg.PayerRiskOverrides))

	params := report.DefaultParams()
	params.MinScore = cfg.MinScore
	filtered := report.Filter(invoices, params)

	f, err := os.Create(exportOut)
	if err != nil {
		log.Error().Err(err).Msg("create output file failed")
		os.Exit(exitcode.ExportError)
	}

	switch exportFormat {
	case "csv":
		err = export.WriteCSV(f, filtered)
	case "parquet":
		err = export.WriteParquet(f, filtered)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		os.Exit(exitcode.ExportError)
	}

	fmt.Printf("Exported %d rows to %s (%s)\n", len(filtered), exportOut, exportFormat)
	return nil
}
