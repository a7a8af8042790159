// Package derive fills the computed per-invoice fields from the raw
// ones. Every function is pure; Apply runs once per fetched table and
// nothing mutates the fields afterward.
package derive

import (
	"math"
	"time"

	"github.com/gyeh/ardash/internal/model"
	"github.com/gyeh/ardash/internal/score"
)

// AgingDays returns whole days elapsed from due to now, rounded down.
// A due date even an hour in the future counts as -1, not 0. The value
// is a snapshot relative to now, not stable across renders.
func AgingDays(now, due time.Time) int {
	return int(math.Floor(now.Sub(due).Hours() / 24))
}

// Outstanding is the unpaid balance. Negative on overpayment; such
// records are excluded downstream, not here.
func Outstanding(amountDue, amountPaid float64) float64 {
	return amountDue - amountPaid
}

// AgingBucket assigns the display bucket for an aging value using
// boundaries (…,30], (30,60], (60,90], (90,∞). Zero and negative aging
// land in "0-30" so the buckets partition every record.
func AgingBucket(agingDays int) string {
	switch {
	case agingDays <= 30:
		return "0-30"
	case agingDays <= 60:
		return "31-60"
	case agingDays <= 90:
		return "61-90"
	default:
		return "90+"
	}
}

// Apply computes aging, outstanding balance, payer risk, priority
// score, and aging bucket for every invoice in place.
func Apply(now time.Time, invoices []model.Invoice, table *score.Table) {
	for i := range invoices {
		inv := &invoices[i]
		inv.AgingDays = AgingDays(now, inv.DueDate)
		inv.Outstanding = Outstanding(inv.AmountDue, inv.AmountPaid)
		inv.PayerRisk = table.PayerRisk(inv.PayerName)
		inv.PriorityScore = table.Priority(inv.AgingDays, inv.PayerName, inv.Status)
		inv.AgingBucket = AgingBucket(inv.AgingDays)
	}
}
