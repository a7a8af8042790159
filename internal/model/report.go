package model

import "time"

// AllAgingBuckets lists the aging buckets in canonical order, used to
// zero-fill the aging breakdown.
var AllAgingBuckets = []string{"0-30", "31-60", "61-90", "90+"}

// AllTiers lists the priority tier labels in canonical order.
var AllTiers = []string{"Low", "Med", "High"}

// Summary holds the four headline metrics over the filtered AR table.
type Summary struct {
	TotalAR           float64 `json:"total_ar"`
	OpenAccounts      int     `json:"open_accounts"`
	AvgAgingDays      float64 `json:"avg_aging_days"`
	RecoveryPotential float64 `json:"recovery_potential"`
}

// PriorityAccount is one row of the top-priority table, with
// display-only derived fields.
type PriorityAccount struct {
	InvoiceID        string  `json:"invoice_id"`
	PatientID        string  `json:"patient_id"`
	PayerName        string  `json:"payer_name"`
	Outstanding      float64 `json:"outstanding"`
	AgingDays        int     `json:"aging_days"`
	PriorityScorePct int     `json:"priority_score_pct"`
	AgingBucket      string  `json:"aging_bucket"`
	NextAction       string  `json:"next_action"`
	DenialReason     string  `json:"denial_reason,omitempty"`
}

// AgingSlice is the summed outstanding balance for one aging bucket.
type AgingSlice struct {
	Bucket      string  `json:"bucket"`
	Outstanding float64 `json:"outstanding"`
}

// TierSlice is the record count for one priority tier.
type TierSlice struct {
	Tier  string `json:"tier"`
	Count int    `json:"count"`
}

// Alert flags a high-risk aging invoice for follow-up.
type Alert struct {
	InvoiceID     string  `json:"invoice_id"`
	PayerName     string  `json:"payer_name"`
	PriorityScore float64 `json:"priority_score"`
	Outstanding   float64 `json:"outstanding"`
	AgingDays     int     `json:"aging_days"`
	DenialReason  string  `json:"denial_reason,omitempty"`
	Recommended   string  `json:"recommended"`
}

// Report is everything the presentation layer consumes for one render.
// When NoData is true the remaining fields are zero values and must not
// be interpreted.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	NoData      bool      `json:"no_data"`

	Summary        Summary           `json:"summary"`
	TopAccounts    []PriorityAccount `json:"top_accounts"`
	AgingBreakdown []AgingSlice      `json:"aging_breakdown"`
	PriorityTiers  []TierSlice       `json:"priority_tiers"`
	Alerts         []Alert           `json:"alerts"`
}
