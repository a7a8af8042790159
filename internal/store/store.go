// Package store archives computed report summaries to Postgres. The
// dashboard never reads from it; it exists so report history survives
// the in-memory cache.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/ardash/internal/model"
	embedsql "github.com/gyeh/ardash/internal/sql"
)

// Snapshot is one archived report summary.
type Snapshot struct {
	ID          uuid.UUID
	SourceKind  string // "mock" or "remote"
	StartDate   time.Time
	EndDate     time.Time
	MinScore    float64
	RecordCount int64
	Summary     model.Summary
	NoData      bool
	GeneratedAt time.Time
}

// Store wraps the snapshot archive table.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// New returns a Store over an existing pool.
func New(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, log: log}
}

// FromReport builds a Snapshot from a rendered report.
func FromReport(rep *model.Report, sourceKind string, minScore float64, recordCount int) (Snapshot, error) {
	start, err := time.Parse(time.DateOnly, rep.StartDate)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse report start date: %w", err)
	}
	end, err := time.Parse(time.DateOnly, rep.EndDate)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse report end date: %w", err)
	}
	return Snapshot{
		ID:          uuid.New(),
		SourceKind:  sourceKind,
		StartDate:   start,
		EndDate:     end,
		MinScore:    minScore,
		RecordCount: int64(recordCount),
		Summary:     rep.Summary,
		NoData:      rep.NoData,
		GeneratedAt: rep.GeneratedAt,
	}, nil
}

// Save inserts one snapshot.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	_, err := s.pool.Exec(ctx, embedsql.InsertSnapshot,
		snap.ID,
		snap.SourceKind,
		snap.StartDate,
		snap.EndDate,
		snap.MinScore,
		snap.RecordCount,
		snap.Summary.TotalAR,
		int64(snap.Summary.OpenAccounts),
		snap.Summary.AvgAgingDays,
		snap.Summary.RecoveryPotential,
		snap.NoData,
		snap.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	s.log.Debug().
		Str("snapshot_id", snap.ID.String()).
		Str("source", snap.SourceKind).
		Int64("records", snap.RecordCount).
		Msg("snapshot archived")
	return nil
}

// List returns the most recent snapshots, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	rows, err := s.pool.Query(ctx, embedsql.ListSnapshots, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var openAccounts int64
		if err := rows.Scan(
			&snap.ID,
			&snap.SourceKind,
			&snap.StartDate,
			&snap.EndDate,
			&snap.MinScore,
			&snap.RecordCount,
			&snap.Summary.TotalAR,
			&openAccounts,
			&snap.Summary.AvgAgingDays,
			&snap.Summary.RecoveryPotential,
			&snap.NoData,
			&snap.GeneratedAt,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Summary.OpenAccounts = int(openAccounts)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}
