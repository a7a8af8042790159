// Package server exposes the AR dashboard over HTTP: the report JSON
// the UI renders, CSV/Parquet downloads of the filtered table, and the
// follow-up acknowledgment endpoint.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gyeh/ardash/internal/report"
	"github.com/gyeh/ardash/internal/score"
	"github.com/gyeh/ardash/internal/source"
	"github.com/gyeh/ardash/internal/store"
)

// Archiver persists report snapshots. *store.Store is the production
// implementation.
type Archiver interface {
	Save(ctx context.Context, snap store.Snapshot) error
}

// defaultRangeDays is the trailing window served when the request
// carries no explicit range.
const defaultRangeDays = 90

// Config wires a Server. Source and Log are required; everything else
// has a sensible default.
type Config struct {
	Source     source.Source
	SourceKind string // "mock" or "remote", recorded on snapshots
	ScoreTable *score.Table
	Params     report.Params
	Archive    Archiver // optional snapshot archive
	Log        zerolog.Logger
	Now        source.Clock
}

// Server handles dashboard requests. One instance serves all users;
// per-render state lives on the stack.
type Server struct {
	src        source.Source
	sourceKind string
	table      *score.Table
	params     report.Params
	archive    Archiver
	log        zerolog.Logger
	now        source.Clock
}

// New builds a Server from cfg, filling defaults.
func New(cfg Config) *Server {
	s := &Server{
		src:        cfg.Source,
		sourceKind: cfg.SourceKind,
		table:      cfg.ScoreTable,
		params:     cfg.Params,
		archive:    cfg.Archive,
		log:        cfg.Log,
		now:        cfg.Now,
	}
	if s.table == nil {
		s.table = score.Default
	}
	if s.params == (report.Params{}) {
		s.params = report.DefaultParams()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.sourceKind == "" {
		s.sourceKind = "mock"
	}
	return s
}

// Router returns the configured gin engine.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.GET("/report", s.handleReport)
	api.GET("/export.csv", s.handleExportCSV)
	api.GET("/export.parquet", s.handleExportParquet)
	api.POST("/followups", s.handleFollowup)

	return r
}
