package main

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/gyeh/ardash/internal/derive"
	"github.com/gyeh/ardash/internal/exitcode"
	"github.com/gyeh/ardash/internal/logging"
	"github.com/gyeh/ardash/internal/model"
	"github.com/gyeh/ardash/internal/report"
	"github.com/gyeh/ardash/internal/score"
	"github.com/gyeh/ardash/internal/source"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render one report to stdout (no server)",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&cfg.StartDate, "start", "", "Range start, YYYY-MM-DD (default: 90 days before end)")
	f.StringVar(&cfg.EndDate, "end", "", "Range end, YYYY-MM-DD (default: today)")
	f.BoolVar(&reportJSON, "json", false, "Emit the report as JSON instead of text")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	resolveConfig(cmd, log)
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
	rep := report.Build(now, start, end, invoices, params)

	if reportJSON {
		out, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("encode report failed")
			os.Exit(exitcode.ExportError)
		}
		fmt.Println(string(out))
		return nil
	}

	printReport(rep)
	return nil
}

func printReport(rep *model.Report) {
	fmt.Println("=== ardash report ===")
	fmt.Printf("Range:   %s to %s\n", rep.StartDate, rep.EndDate)
	fmt.Printf("Source:  %s\n", sourceKind())

	if rep.NoData {
		fmt.Println("\nNo accounts matched the current filters.")
		return
	}

	fmt.Println()
	fmt.Printf("Total AR outstanding:  $%.2f\n", rep.Summary.TotalAR)
	fmt.Printf("Open accounts:         %d\n", rep.Summary.OpenAccounts)
	fmt.Printf("Avg aging:             %.1f days\n", rep.Summary.AvgAgingDays)
	fmt.Printf("Recovery potential:    $%.2f\n", rep.Summary.RecoveryPotential)

	fmt.Println("\nTop priority accounts:")
	for _, acct := range rep.TopAccounts {
		fmt.Printf("  %-10s %-22s $%10.2f  %4dd  score %3d%%  %s\n",
			acct.InvoiceID, acct.PayerName, acct.Outstanding, acct.AgingDays,
			acct.PriorityScorePct, acct.NextAction)
	}

	fmt.Println("\nAging breakdown:")
	for _, slice := range rep.AgingBreakdown {
		fmt.Printf("  %-6s $%12.2f\n", slice.Bucket, slice.Outstanding)
	}

	fmt.Println("\nPriority tiers:")
	for _, tier := range rep.PriorityTiers {
		fmt.Printf("  %-4s %d\n", tier.Tier, tier.Count)
	}

	if len(rep.Alerts) > 0 {
		fmt.Println("\nAlerts:")
		for _, a := range rep.Alerts {
			fmt.Printf("  %-10s %-22s $%10.2f  %4dd  %s\n",
				a.InvoiceID, a.PayerName, a.Outstanding, a.AgingDays, a.DenialReason)
		}
	}
}
