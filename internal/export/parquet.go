package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/ardash/internal/model"
)

// WriteParquet writes the invoices as a Parquet file with the same
// columns as the CSV export.
func WriteParquet(w io.Writer, invoices []model.Invoice) error {
	pw := parquet.NewGenericWriter[model.ExportRow](w)
	rows := make([]model.ExportRow, len(invoices))
	for i := range invoices {
		rows[i] = model.ToExportRow(&invoices[i])
	}
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			pw.Close()
			return fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// ReadParquet streams ExportRows back from a Parquet file, mostly for
// verification of exported artifacts.
func ReadParquet(r io.ReaderAt, size int64) ([]model.ExportRow, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	pr := parquet.NewGenericReader[model.ExportRow](pf)
	defer pr.Close()

	out := make([]model.ExportRow, 0, pr.NumRows())
	buf := make([]model.ExportRow, 256)
	for {
		n, err := pr.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}
}
