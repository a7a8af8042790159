// Package source produces the raw AR invoice table, either by
// synthesizing sample records or by querying the remote payments API.
// Exactly one strategy is active per run, selected by credential
// presence, and results are memoized per date range.
package source

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/ardash/internal/config"
	"github.com/gyeh/ardash/internal/model"
)

// Source fetches invoice records whose due dates fall in [start, end].
type Source interface {
	Fetch(ctx context.Context, start, end time.Time) ([]model.Invoice, error)
}

// Clock supplies the current time; injectable for tests.
type Clock func() time.Time

// ForConfig selects the active source: remote when an API key is
// configured, mock otherwise. The result is wrapped in the standard
// 10-minute cache.
func ForConfig(cfg *config.Config, log zerolog.Logger) Source {
	var inner Source
	if cfg.RemoteEnabled() {
		base := cfg.APIBase
		if base == "" {
			base = config.DefaultAPIBase
		}
		inner = NewRemote(base, cfg.APIKey, log)
	} else {
		log.Info().Msg("no API key configured, using sample data source")
		inner = NewMock(time.Now().UnixNano(), time.Now, log)
	}
	return NewCached(inner, DefaultTTL, time.Now)
}
