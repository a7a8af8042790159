package source

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/ardash/internal/model"
)

// mockWindowDays is the trailing window the mock source synthesizes,
// one invoice per calendar day. The requested range is deliberately
// ignored to match the behavior the dashboard was built against; see
// DESIGN.md.
const mockWindowDays = 90

// statusWeights is the discrete status distribution for generated
// invoices. Probabilities must sum to 1.0; checked at init.
var statusWeights = []struct {
	status model.Status
	p      float64
}{
	{model.StatusOpen, 0.4},
	{model.StatusPartial, 0.2},
	{model.StatusDenied, 0.3},
	{model.StatusPaid, 0.1},
}

func init() {
	var sum float64
	for _, w := range statusWeights {
		sum += w.p
	}
	if sum < 0.999999 || sum > 1.000001 {
		panic(fmt.Sprintf("status weights sum to %v, want 1.0", sum))
	}
}

// Mock synthesizes a plausible AR table. It never fails, and with a
// fixed seed and clock it is fully deterministic.
type Mock struct {
	mu  sync.Mutex
	rng *rand.Rand
	now Clock
	log zerolog.Logger
}

// NewMock returns a mock source seeded with seed.
func NewMock(seed int64, now Clock, log zerolog.Logger) *Mock {
	return &Mock{
		rng: rand.New(rand.NewSource(seed)),
		now: now,
		log: log,
	}
}

// Fetch synthesizes one invoice per day over the trailing 90-day
// window ending at the current clock time, regardless of the requested
// range.
func (m *Mock) Fetch(_ context.Context, start, end time.Time) ([]model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	windowEnd := m.now()
	windowStart := windowEnd.AddDate(0, 0, -mockWindowDays)
	if !sameDay(start, windowStart) || !sameDay(end, windowEnd) {
		m.log.Debug().
			Str("requested_start", start.Format(time.DateOnly)).
			Str("requested_end", end.Format(time.DateOnly)).
			Str("window_start", windowStart.Format(time.DateOnly)).
			Msg("mock source ignores requested range, using trailing window")
	}

	invoices := make([]model.Invoice, 0, mockWindowDays+1)
	i := 0
	for due := windowStart; !due.After(windowEnd); due = due.AddDate(0, 0, 1) {
		inv := model.Invoice{
			InvoiceID:    fmt.Sprintf("INV-%d", 1000+i),
			PatientID:    fmt.Sprintf("PT-%d", 1000+m.rng.Intn(1000)),
			PayerName:    model.KnownPayers[m.rng.Intn(len(model.KnownPayers))],
			AmountDue:    uniform(m.rng, 100, 2000),
			AmountPaid:   m.rng.Float64() * uniform(m.rng, 100, 2000),
			Status:       drawStatus(m.rng),
			DueDate:      due,
			LastFollowup: due.AddDate(0, 0, -m.rng.Intn(30)),
		}
		if m.rng.Float64() > 0.7 {
			reason := model.DenialReasons[m.rng.Intn(len(model.DenialReasons))]
			inv.DenialReason = &reason
		}
		if m.rng.Float64() > 0.6 {
			inv.Notes = "Follow-up pending"
		}
		invoices = append(invoices, inv)
		i++
	}
	return invoices, nil
}

// drawStatus samples from the weighted categorical distribution.
func drawStatus(rng *rand.Rand) model.Status {
	r := rng.Float64()
	var cum float64
	for _, w := range statusWeights {
		cum += w.p
		if r < cum {
			return w.status
		}
	}
	return statusWeights[len(statusWeights)-1].status
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func sameDay(a, b time.Time) bool {
	return a.Format(time.DateOnly) == b.Format(time.DateOnly)
}
