package store_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/ardash/internal/db"
	"github.com/gyeh/ardash/internal/model"
	"github.com/gyeh/ardash/internal/store"
)

const (
	testPort     = 15433
	testDB       = "ardashtest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testPool *pgxpool.Pool
	pg       *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	testDSN := fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, testDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		pg.Stop()
		os.Exit(1)
	}
	if err := db.ApplyMigrations(ctx, pool, zerolog.Nop()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		pool.Close()
		pg.Stop()
		os.Exit(1)
	}
	testPool = pool

	code := m.Run()

	pool.Close()
	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}
	os.Exit(code)
}

func truncate(t *testing.T) {
	t.Helper()
	if _, err := testPool.Exec(context.Background(), "TRUNCATE ardash.report_snapshots"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func sampleReport(generatedAt time.Time) *model.Report {
	return &model.Report{
		GeneratedAt: generatedAt,
		StartDate:   "2025-03-17",
		EndDate:     "2025-06-15",
		Summary: model.Summary{
			TotalAR:           12345.67,
			OpenAccounts:      42,
			AvgAgingDays:      48.5,
			RecoveryPotential: 9876.54,
		},
	}
}

func TestSaveAndList(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	s := store.New(testPool, zerolog.Nop())

	generatedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	snap, err := store.FromReport(sampleReport(generatedAt), "mock", 0.3, 42)
	if err != nil {
		t.Fatalf("FromReport: %v", err)
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(got))
	}

	first := got[0]
	if first.ID != snap.ID {
		t.Errorf("ID = %s, want %s", first.ID, snap.ID)
	}
	if first.SourceKind != "mock" || first.MinScore != 0.3 || first.RecordCount != 42 {
		t.Errorf("fields = %+v", first)
	}
	if first.Summary.TotalAR != 12345.67 || first.Summary.OpenAccounts != 42 {
		t.Errorf("summary = %+v", first.Summary)
	}
	if first.StartDate.Format(time.DateOnly) != "2025-03-17" {
		t.Errorf("start date = %s", first.StartDate)
	}
	if !first.GeneratedAt.Equal(generatedAt) {
		t.Errorf("generated at = %s, want %s", first.GeneratedAt, generatedAt)
	}
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	s := store.New(testPool, zerolog.Nop())

	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		snap, err := store.FromReport(sampleReport(base.Add(time.Duration(i)*time.Hour)), "remote", 0.3, i)
		if err != nil {
			t.Fatalf("FromReport: %v", err)
		}
		if err := s.Save(ctx, snap); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	got, err := s.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].GeneratedAt.After(got[i-1].GeneratedAt) {
			t.Errorf("snapshots not newest-first at index %d", i)
		}
	}
	if got[0].RecordCount != 4 {
		t.Errorf("newest snapshot record count = %d, want 4", got[0].RecordCount)
	}
}

func TestFromReport_BadDates(t *testing.T) {
	rep := sampleReport(time.Now())
	rep.StartDate = "03/17/2025"
	if _, err := store.FromReport(rep, "mock", 0.3, 0); err == nil {
		t.Error("expected error for non-ISO start date")
	}
}

func TestSave_NoDataSnapshot(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	s := store.New(testPool, zerolog.Nop())

	rep := sampleReport(time.Now().UTC())
	rep.NoData = true
	rep.Summary = model.Summary{}
	snap, err := store.FromReport(rep, "remote", 0.9, 0)
	if err != nil {
		t.Fatalf("FromReport: %v", err)
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || !got[0].NoData {
		t.Errorf("no-data flag not preserved: %+v", got)
	}
}
