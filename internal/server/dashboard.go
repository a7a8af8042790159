package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gyeh/ardash/internal/derive"
	"github.com/gyeh/ardash/internal/export"
	"github.com/gyeh/ardash/internal/model"
	"github.com/gyeh/ardash/internal/report"
	"github.com/gyeh/ardash/internal/store"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderQuery is the parsed, validated request state for one render.
type renderQuery struct {
	start, end time.Time
	params     report.Params
}

func (s *Server) parseQuery(c *gin.Context) (renderQuery, bool) {
	now := s.now()
	q := renderQuery{end: now, start: now.AddDate(0, 0, -defaultRangeDays), params: s.params}

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			badRequest(c, "start_date must be YYYY-MM-DD")
			return renderQuery{}, false
		}
		q.start = t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			badRequest(c, "end_date must be YYYY-MM-DD")
			return renderQuery{}, false
		}
		q.end = t
	}
	if q.end.Before(q.start) {
		badRequest(c, "end_date before start_date")
		return renderQuery{}, false
	}
	if raw := c.Query("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			badRequest(c, "min_score must be a number in [0,1]")
			return renderQuery{}, false
		}
		q.params.MinScore = v
	}
	return q, true
}

// hitSource is the optional cache-awareness of a Source. *source.Cached
// implements it; a bare source never reports a hit.
type hitSource interface {
	FetchWithHit(ctx context.Context, start, end time.Time) ([]model.Invoice, bool, error)
}

// fetchDerived pulls the raw table and fills derived fields, reporting
// whether the table came from cache. A remote failure already surfaced
// as an empty table upstream, so this cannot fail; the empty case
// becomes the no-data state downstream.
func (s *Server) fetchDerived(c *gin.Context, q renderQuery) ([]model.Invoice, bool, error) {
	var (
		invoices []model.Invoice
		hit      bool
		err      error
	)
	if hs, ok := s.src.(hitSource); ok {
		invoices, hit, err = hs.FetchWithHit(c.Request.Context(), q.start, q.end)
	} else {
		invoices, err = s.src.Fetch(c.Request.Context(), q.start, q.end)
	}
	if err != nil {
		return nil, false, err
	}
	derive.Apply(s.now(), invoices, s.table)
	return invoices, hit, nil
}

func (s *Server) handleReport(c *gin.Context) {
	q, ok := s.parseQuery(c)
	if !ok {
		return
	}
	invoices, hit, err := s.fetchDerived(c, q)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "data source unavailable"})
		return
	}

	rep := report.Build(s.now(), q.start, q.end, invoices, q.params)
	if !hit {
		s.archiveReport(c, rep, q, len(report.Filter(invoices, q.params)))
	}
	c.JSON(http.StatusOK, rep)
}

// archiveReport saves a snapshot when an archive is configured. Only
// fresh fetches archive; a cache-hit render would duplicate the row
// written when the entry was populated. Best-effort: a failed insert is
// logged, never surfaced to the render.
func (s *Server) archiveReport(c *gin.Context, rep *model.Report, q renderQuery, recordCount int) {
	if s.archive == nil {
		return
	}
	snap, err := store.FromReport(rep, s.sourceKind, q.params.MinScore, recordCount)
	if err != nil {
		s.log.Warn().Err(err).Msg("snapshot build failed")
		return
	}
	if err := s.archive.Save(c.Request.Context(), snap); err != nil {
		s.log.Warn().Err(err).Msg("snapshot save failed")
	}
}

func (s *Server) handleExportCSV(c *gin.Context) {
	q, ok := s.parseQuery(c)
	if !ok {
		return
	}
	invoices, _, err := s.fetchDerived(c, q)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "data source unavailable"})
		return
	}
	filtered := report.Filter(invoices, q.params)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="ar_report.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, filtered); err != nil {
		s.log.Error().Err(err).Msg("csv export failed")
	}
}

func (s *Server) handleExportParquet(c *gin.Context) {
	q, ok := s.parseQuery(c)
	if !ok {
		return
	}
	invoices, _, err := s.fetchDerived(c, q)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "data source unavailable"})
		return
	}
	filtered := report.Filter(invoices, q.params)

	c.Header("Content-Type", "application/vnd.apache.parquet")
	c.Header("Content-Disposition", `attachment; filename="ar_report.parquet"`)
	c.Status(http.StatusOK)
	if err := export.WriteParquet(c.Writer, filtered); err != nil {
		s.log.Error().Err(err).Msg("parquet export failed")
	}
}

type followupRequest struct {
	InvoiceID string `json:"invoice_id"`
	Note      string `json:"note"`
}

// handleFollowup acknowledges a follow-up action. Nothing is persisted;
// follow-up history is out of scope for this dashboard.
func (s *Server) handleFollowup(c *gin.Context) {
	var req followupRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InvoiceID == "" {
		badRequest(c, "invoice_id is required")
		return
	}
	s.log.Info().Str("invoice_id", req.InvoiceID).Msg("follow-up logged")
	c.JSON(http.StatusOK, gin.H{"logged": true, "invoice_id": req.InvoiceID})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
