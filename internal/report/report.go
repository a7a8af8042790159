// Package report turns a derived invoice table into the dashboard
// report: headline metrics, the top-priority table, the two aggregate
// breakdowns, and the alert list. Everything here is a pure function of
// its inputs.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/gyeh/ardash/internal/model"
)

// Params are the aggregation thresholds. DefaultParams matches the
// dashboard's shipped configuration.
type Params struct {
	MinScore          float64
	TopN              int
	AlertLimit        int
	AlertMinScore     float64
	AlertMinAging     int
	RecoveryRate      float64
	EscalateAgingDays int
}

// DefaultParams returns the standard thresholds.
func DefaultParams() Params {
	return Params{
		MinScore:          0.3,
		TopN:              10,
		AlertLimit:        5,
		AlertMinScore:     0.7,
		AlertMinAging:     45,
		RecoveryRate:      0.8,
		EscalateAgingDays: 60,
	}
}

// Next-action labels for the top-priority table.
const (
	ActionEscalate = "Escalate to Collector"
	ActionFollowup = "Auto-Followup Email"
)

// Filter keeps invoices at or above the priority threshold with a
// positive outstanding balance. Order is preserved. Inputs must already
// carry derived fields.
func Filter(invoices []model.Invoice, p Params) []model.Invoice {
	kept := make([]model.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.PriorityScore >= p.MinScore && inv.Outstanding > 0 {
			kept = append(kept, inv)
		}
	}
	return kept
}

// Build produces the full report for one render. An empty filtered
// table short-circuits to the no-data terminal state: no metric is
// computed and no division runs.
func Build(now, start, end time.Time, invoices []model.Invoice, p Params) *model.Report {
	rep := &model.Report{
		GeneratedAt: now,
		StartDate:   start.Format(time.DateOnly),
		EndDate:     end.Format(time.DateOnly),
	}

	filtered := Filter(invoices, p)
	if len(filtered) == 0 {
		rep.NoData = true
		return rep
	}

	rep.Summary = summarize(filtered, p)
	rep.TopAccounts = topAccounts(filtered, p)
	rep.AgingBreakdown = agingBreakdown(filtered)
	rep.PriorityTiers = priorityTiers(filtered)
	rep.Alerts = alerts(filtered, p)
	return rep
}

func summarize(filtered []model.Invoice, p Params) model.Summary {
	var totalAR, agingSum float64
	for _, inv := range filtered {
		totalAR += inv.Outstanding
		agingSum += float64(inv.AgingDays)
	}
	return model.Summary{
		TotalAR:           totalAR,
		OpenAccounts:      len(filtered),
		AvgAgingDays:      agingSum / float64(len(filtered)),
		RecoveryPotential: p.RecoveryRate * totalAR,
	}
}

// topAccounts sorts descending by score with a stable tie-break on
// original order, takes the first TopN, and attaches display fields.
func topAccounts(filtered []model.Invoice, p Params) []model.PriorityAccount {
	ranked := make([]model.Invoice, len(filtered))
	copy(ranked, filtered)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})

	n := p.TopN
	if n > len(ranked) {
		n = len(ranked)
	}
	top := make([]model.PriorityAccount, 0, n)
	for _, inv := range ranked[:n] {
		action := ActionFollowup
		if inv.AgingDays > p.EscalateAgingDays {
			action = ActionEscalate
		}
		top = append(top, model.PriorityAccount{
			InvoiceID:        inv.InvoiceID,
			PatientID:        inv.PatientID,
			PayerName:        inv.PayerName,
			Outstanding:      inv.Outstanding,
			AgingDays:        inv.AgingDays,
			PriorityScorePct: int(math.Round(inv.PriorityScore * 100)),
			AgingBucket:      inv.AgingBucket,
			NextAction:       action,
			DenialReason:     derefOr(inv.DenialReason, ""),
		})
	}
	return top
}

// agingBreakdown sums outstanding per aging bucket. All four buckets
// appear, zero-filled, and the slice totals partition the filtered sum
// exactly.
func agingBreakdown(filtered []model.Invoice) []model.AgingSlice {
	sums := make(map[string]float64, len(model.AllAgingBuckets))
	for _, inv := range filtered {
		sums[inv.AgingBucket] += inv.Outstanding
	}
	out := make([]model.AgingSlice, 0, len(model.AllAgingBuckets))
	for _, bucket := range model.AllAgingBuckets {
		out = append(out, model.AgingSlice{Bucket: bucket, Outstanding: sums[bucket]})
	}
	return out
}

// priorityTiers counts records in 3 equal-width bins over the observed
// score range. Bin edges come from the data's own min/max, not a fixed
// [0,1] span; a zero-width range puts everything in the middle tier.
func priorityTiers(filtered []model.Invoice) []model.TierSlice {
	lo, hi := filtered[0].PriorityScore, filtered[0].PriorityScore
	for _, inv := range filtered[1:] {
		if inv.PriorityScore < lo {
			lo = inv.PriorityScore
		}
		if inv.PriorityScore > hi {
			hi = inv.PriorityScore
		}
	}

	counts := make([]int, len(model.AllTiers))
	width := (hi - lo) / float64(len(model.AllTiers))
	for _, inv := range filtered {
		idx := 1 // zero-width range: everything is "Med"
		if width > 0 {
			idx = int((inv.PriorityScore - lo) / width)
			if idx >= len(model.AllTiers) {
				idx = len(model.AllTiers) - 1
			}
		}
		counts[idx]++
	}

	out := make([]model.TierSlice, 0, len(model.AllTiers))
	for i, tier := range model.AllTiers {
		out = append(out, model.TierSlice{Tier: tier, Count: counts[i]})
	}
	return out
}

// alerts selects high-risk aging invoices in original order, capped at
// AlertLimit. No re-sorting.
func alerts(filtered []model.Invoice, p Params) []model.Alert {
	out := make([]model.Alert, 0, p.AlertLimit)
	for _, inv := range filtered {
		if inv.PriorityScore <= p.AlertMinScore || inv.AgingDays <= p.AlertMinAging {
			continue
		}
		out = append(out, model.Alert{
			InvoiceID:     inv.InvoiceID,
			PayerName:     inv.PayerName,
			PriorityScore: inv.PriorityScore,
			Outstanding:   inv.Outstanding,
			AgingDays:     inv.AgingDays,
			DenialReason:  derefOr(inv.DenialReason, "Low"),
			Recommended:   "Send portal check + email",
		})
		if len(out) == p.AlertLimit {
			break
		}
	}
	return out
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
