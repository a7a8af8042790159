// Package score computes the collection priority of an invoice from
// its aging, payer, and status. Scores land in [0,1]; higher means
// work it sooner.
package score

import "github.com/gyeh/ardash/internal/model"

// Formula weights. Aging saturates the first term at agingHorizon days,
// but the term itself is left unclamped so the final clamp is the only
// boundary applied.
const (
	agingWeight  = 0.4
	payerWeight  = 0.3
	statusWeight = 0.3
	agingHorizon = 90.0

	// DefaultPayerRisk applies to any payer without a calibrated entry.
	DefaultPayerRisk = 0.3
)

var defaultPayerRisk = map[string]float64{
	"Medicare":         0.2,
	"Blue Cross":       0.4,
	"Aetna":            0.6,
	"UnitedHealthcare": 0.5,
}

// Table resolves payer risk coefficients. The zero value is not
// usable; construct with NewTable.
type Table struct {
	payerRisk map[string]float64
}

// NewTable returns a scoring table with the built-in payer risks,
// optionally overridden per payer. Override values are clamped to
// [0,1].
func NewTable(overrides map[string]float64) *Table {
	risks := make(map[string]float64, len(defaultPayerRisk)+len(overrides))
	for payer, risk := range defaultPayerRisk {
		risks[payer] = risk
	}
	for payer, risk := range overrides {
		risks[payer] = Clamp01(risk)
	}
	return &Table{payerRisk: risks}
}

// Default is the table used when no overrides are configured.
var Default = NewTable(nil)

// PayerRisk returns the risk coefficient for a payer, falling back to
// DefaultPayerRisk for unknown payers.
func (t *Table) PayerRisk(payer string) float64 {
	if risk, ok := t.payerRisk[payer]; ok {
		return risk
	}
	return DefaultPayerRisk
}

// Priority computes the priority score for one invoice.
//
//	score = 0.4*(aging/90) + 0.3*payerRisk + 0.3*boost
//
// where boost is 1.0 for denied invoices and 0.5 otherwise. Only the
// final sum is clamped to [0,1]; aging beyond 90 days contributes more
// than 0.4 to the pre-clamp sum, matching the behavior the payer risk
// weights were tuned against.
func (t *Table) Priority(agingDays int, payer string, status model.Status) float64 {
	agingTerm := float64(agingDays) / agingHorizon
	boost := 0.5
	if status == model.StatusDenied {
		boost = 1.0
	}
	raw := agingWeight*agingTerm + payerWeight*t.PayerRisk(payer) + statusWeight*boost
	return Clamp01(raw)
}

// Clamp01 clamps v to the closed interval [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
