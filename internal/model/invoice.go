package model

import "time"

// Status is the lifecycle state of an invoice as reported by billing.
type Status string

const (
	StatusOpen    Status = "open"
	StatusPartial Status = "partial"
	StatusDenied  Status = "denied"
	StatusPaid    Status = "paid"
)

// AllStatuses lists the invoice statuses in canonical order.
var AllStatuses = []Status{StatusOpen, StatusPartial, StatusDenied, StatusPaid}

// Valid reports whether s is a known invoice status.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// KnownPayers lists the insurance payers with a calibrated risk
// coefficient, in canonical order. Any other payer falls back to the
// default risk.
var KnownPayers = []string{"Medicare", "Blue Cross", "Aetna", "UnitedHealthcare"}

// DenialReasons lists the CARC-style denial reason codes emitted by the
// mock generator.
var DenialReasons = []string{
	"CO-45: Charge exceeds fee",
	"PR-96: Non-covered",
	"CO-97: Duplicate",
	"CO-16: Missing info",
}

// Invoice is one accounts-receivable row. The raw fields come from the
// data source; the derived fields are filled once per fetch by
// derive.Apply and never mutated afterward.
type Invoice struct {
	InvoiceID    string    `json:"invoice_id"`
	PatientID    string    `json:"patient_id"`
	PayerName    string    `json:"payer_name"`
	AmountDue    float64   `json:"amount_due"`
	AmountPaid   float64   `json:"amount_paid"`
	Status       Status    `json:"status"`
	DueDate      time.Time `json:"due_date"`
	LastFollowup time.Time `json:"last_followup"`
	DenialReason *string   `json:"denial_reason,omitempty"`
	Notes        string    `json:"notes,omitempty"`

	// Derived fields. AgingDays is a snapshot relative to the render
	// time, not a stable fact across refreshes.
	AgingDays     int     `json:"aging_days"`
	Outstanding   float64 `json:"outstanding"`
	PayerRisk     float64 `json:"payer_risk"`
	DenialRisk    float64 `json:"denial_risk,omitempty"`
	PriorityScore float64 `json:"priority_score"`
	AgingBucket   string  `json:"aging_bucket"`
}
