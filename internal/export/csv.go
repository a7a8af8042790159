// Package export renders the filtered AR table as downloadable
// artifacts: CSV for spreadsheets, Parquet for the analytics side.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gyeh/ardash/internal/model"
)

// WriteCSV writes the invoices as UTF-8 CSV with a header row, columns
// in dashboard table order.
func WriteCSV(w io.Writer, invoices []model.Invoice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.ExportColumns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range invoices {
		row := model.ToExportRow(&invoices[i])
		if err := cw.Write(row.CSVValues()); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.InvoiceID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
