package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/ardash/internal/model"
	"github.com/gyeh/ardash/internal/source"
	"github.com/gyeh/ardash/internal/store"
)

var testNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type stubSource struct {
	invoices []model.Invoice
}

func (s *stubSource) Fetch(_ context.Context, _, _ time.Time) ([]model.Invoice, error) {
	return s.invoices, nil
}

// stubArchiver records snapshots instead of writing to Postgres.
type stubArchiver struct {
	saves []store.Snapshot
}

func (a *stubArchiver) Save(_ context.Context, snap store.Snapshot) error {
	a.saves = append(a.saves, snap)
	return nil
}

func newTestServer(src source.Source) *Server {
	return New(Config{
		Source: src,
		Log:    zerolog.Nop(),
		Now:    fixedClock,
	})
}

func mockServer(t *testing.T) *Server {
	t.Helper()
	return newTestServer(source.NewMock(42, fixedClock, zerolog.Nop()))
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := doRequest(t, mockServer(t), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestReport(t *testing.T) {
	w := doRequest(t, mockServer(t), http.MethodGet, "/api/report", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var rep model.Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.NoData {
		t.Fatal("unexpected no-data state from the mock source")
	}
	if rep.Summary.TotalAR <= 0 || rep.Summary.OpenAccounts <= 0 {
		t.Errorf("summary = %+v", rep.Summary)
	}
	if len(rep.TopAccounts) == 0 || len(rep.TopAccounts) > 10 {
		t.Errorf("top accounts = %d, want 1..10", len(rep.TopAccounts))
	}
	if len(rep.AgingBreakdown) != 4 {
		t.Errorf("aging buckets = %d, want 4", len(rep.AgingBreakdown))
	}
	tierTotal := 0
	for _, tier := range rep.PriorityTiers {
		tierTotal += tier.Count
	}
	if tierTotal != rep.Summary.OpenAccounts {
		t.Errorf("tier counts sum to %d, want %d", tierTotal, rep.Summary.OpenAccounts)
	}
	if len(rep.Alerts) > 5 {
		t.Errorf("alerts = %d, want at most 5", len(rep.Alerts))
	}
	if rep.EndDate != testNow.Format(time.DateOnly) {
		t.Errorf("end date = %q, want %q", rep.EndDate, testNow.Format(time.DateOnly))
	}
	// Scores sorted descending in the table.
	for i := 1; i < len(rep.TopAccounts); i++ {
		if rep.TopAccounts[i].PriorityScorePct > rep.TopAccounts[i-1].PriorityScorePct {
			t.Errorf("top accounts not sorted at %d", i)
		}
	}
}

func TestReport_BadParams(t *testing.T) {
	cases := []string{
		"/api/report?start_date=06/01/2025",
		"/api/report?end_date=yesterday",
		"/api/report?start_date=2025-06-01&end_date=2025-05-01",
		"/api/report?min_score=1.5",
		"/api/report?min_score=abc",
	}
	s := mockServer(t)
	for _, target := range cases {
		if w := doRequest(t, s, http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, w.Code)
		}
	}
}

func TestReport_NoDataFromEmptySource(t *testing.T) {
	s := newTestServer(&stubSource{})
	w := doRequest(t, s, http.MethodGet, "/api/report", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (no-data is not an error)", w.Code)
	}
	var rep model.Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !rep.NoData {
		t.Error("expected no_data=true for an empty source")
	}
}

func TestReport_HighThresholdYieldsNoData(t *testing.T) {
	inv := model.Invoice{
		InvoiceID: "INV-1", PayerName: "Aetna",
		AmountDue: 900, Status: model.StatusDenied,
		DueDate: testNow.AddDate(0, 0, -100),
	}
	s := newTestServer(&stubSource{invoices: []model.Invoice{inv}})
	w := doRequest(t, s, http.MethodGet, "/api/report?min_score=0.95", "")
	var rep model.Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !rep.NoData {
		t.Error("expected no_data=true when nothing clears min_score=0.95")
	}
}

func TestReport_ArchivesOnlyFreshFetches(t *testing.T) {
	current := testNow
	clock := func() time.Time { return current }
	arch := &stubArchiver{}
	cached := source.NewCached(source.NewMock(42, clock, zerolog.Nop()), source.DefaultTTL, clock)
	s := New(Config{Source: cached, Archive: arch, Log: zerolog.Nop(), Now: clock})

	// Fixed range so the cache key stays constant across requests.
	target := "/api/report?start_date=2025-03-17&end_date=2025-06-15"
	for i := 0; i < 3; i++ {
		if w := doRequest(t, s, http.MethodGet, target, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
	if len(arch.saves) != 1 {
		t.Fatalf("archived %d snapshots for 1 fresh fetch + 2 cache hits, want 1", len(arch.saves))
	}
	if arch.saves[0].SourceKind != "mock" || arch.saves[0].RecordCount == 0 {
		t.Errorf("snapshot = %+v", arch.saves[0])
	}

	current = current.Add(11 * time.Minute)
	if w := doRequest(t, s, http.MethodGet, target, ""); w.Code != http.StatusOK {
		t.Fatalf("post-expiry request: status = %d, want 200", w.Code)
	}
	if len(arch.saves) != 2 {
		t.Errorf("archived %d snapshots after cache expiry, want 2", len(arch.saves))
	}
}

func TestReport_UncachedSourceArchivesEachRender(t *testing.T) {
	arch := &stubArchiver{}
	src := &stubSource{invoices: []model.Invoice{{
		InvoiceID: "INV-1", PayerName: "Aetna",
		AmountDue: 900, Status: model.StatusDenied,
		DueDate: testNow.AddDate(0, 0, -100),
	}}}
	s := newTestServer(src)
	s.archive = arch

	for i := 0; i < 2; i++ {
		if w := doRequest(t, s, http.MethodGet, "/api/report", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
	if len(arch.saves) != 2 {
		t.Errorf("archived %d snapshots for 2 uncached renders, want 2", len(arch.saves))
	}
}

func TestExportCSV(t *testing.T) {
	w := doRequest(t, mockServer(t), http.MethodGet, "/api/export.csv", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "ar_report.csv") {
		t.Errorf("content disposition = %q", cd)
	}

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("got %d csv records, want header plus data", len(records))
	}
	if records[0][0] != "invoice_id" {
		t.Errorf("header = %v", records[0])
	}
}

func TestExportParquet(t *testing.T) {
	w := doRequest(t, mockServer(t), http.MethodGet, "/api/export.parquet", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "ar_report.parquet") {
		t.Errorf("content disposition = %q", cd)
	}
	// PAR1 magic header.
	if body := w.Body.Bytes(); len(body) < 4 || string(body[:4]) != "PAR1" {
		t.Error("response is not a parquet file")
	}
}

func TestFollowup(t *testing.T) {
	s := mockServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/followups", `{"invoice_id":"INV-1007"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Logged    bool   `json:"logged"`
		InvoiceID string `json:"invoice_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Logged || resp.InvoiceID != "INV-1007" {
		t.Errorf("response = %+v", resp)
	}

	if w := doRequest(t, s, http.MethodPost, "/api/followups", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing invoice_id: status = %d, want 400", w.Code)
	}
	if w := doRequest(t, s, http.MethodPost, "/api/followups", `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("garbage body: status = %d, want 400", w.Code)
	}
}
