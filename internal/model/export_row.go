package model

import (
	"strconv"
	"time"
)

// ExportRow is the flat, export-ready representation of a filtered
// invoice. Field order mirrors the dashboard table column order; dates
// are ISO strings so the same row serves both CSV and Parquet.
type ExportRow struct {
	InvoiceID     string  `parquet:"invoice_id"`
	PatientID     string  `parquet:"patient_id"`
	PayerName     string  `parquet:"payer_name"`
	AmountDue     float64 `parquet:"amount_due"`
	AmountPaid    float64 `parquet:"amount_paid"`
	Status        string  `parquet:"status"`
	DueDate       string  `parquet:"due_date"`
	LastFollowup  string  `parquet:"last_followup"`
	DenialReason  *string `parquet:"denial_reason,optional"`
	Notes         *string `parquet:"notes,optional"`
	AgingDays     int64   `parquet:"aging_days"`
	Outstanding   float64 `parquet:"outstanding"`
	PayerRisk     float64 `parquet:"payer_risk"`
	PriorityScore float64 `parquet:"priority_score"`
}

// ExportColumns returns the ordered column names for CSV and Parquet
// output.
func ExportColumns() []string {
	return []string{
		"invoice_id",
		"patient_id",
		"payer_name",
		"amount_due",
		"amount_paid",
		"status",
		"due_date",
		"last_followup",
		"denial_reason",
		"notes",
		"aging_days",
		"outstanding",
		"payer_risk",
		"priority_score",
	}
}

// ToExportRow flattens an invoice into its export representation.
func ToExportRow(inv *Invoice) ExportRow {
	var notes *string
	if inv.Notes != "" {
		n := inv.Notes
		notes = &n
	}
	return ExportRow{
		InvoiceID:     inv.InvoiceID,
		PatientID:     inv.PatientID,
		PayerName:     inv.PayerName,
		AmountDue:     inv.AmountDue,
		AmountPaid:    inv.AmountPaid,
		Status:        string(inv.Status),
		DueDate:       inv.DueDate.Format(time.DateOnly),
		LastFollowup:  inv.LastFollowup.Format(time.DateOnly),
		DenialReason:  inv.DenialReason,
		Notes:         notes,
		AgingDays:     int64(inv.AgingDays),
		Outstanding:   inv.Outstanding,
		PayerRisk:     inv.PayerRisk,
		PriorityScore: inv.PriorityScore,
	}
}

// CSVValues returns the row values as strings in ExportColumns order.
func (r *ExportRow) CSVValues() []string {
	return []string{
		r.InvoiceID,
		r.PatientID,
		r.PayerName,
		formatMoney(r.AmountDue),
		formatMoney(r.AmountPaid),
		r.Status,
		r.DueDate,
		r.LastFollowup,
		derefStr(r.DenialReason),
		derefStr(r.Notes),
		strconv.FormatInt(r.AgingDays, 10),
		formatMoney(r.Outstanding),
		strconv.FormatFloat(r.PayerRisk, 'f', -1, 64),
		strconv.FormatFloat(r.PriorityScore, 'f', -1, 64),
	}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
