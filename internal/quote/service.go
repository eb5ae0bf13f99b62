package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-telecom/backend-quote/internal/catalog"
	"github.com/meridian-telecom/backend-quote/internal/obs"
	"github.com/meridian-telecom/backend-quote/internal/rating"
)

// ErrPlanNotResolved signals that the configuration does not name a known
// plan, so no totals can be produced. This is an incomplete input, not a
// server fault.
var ErrPlanNotResolved = errors.New("plan not resolved")

// Service runs rating passes against the current catalog snapshot and
// persists quotes a rep chooses to save.
type Service struct {
	catalogs *catalog.Service
	store    Store
	now      func() time.Time
	newID    func() string
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Catalogs *catalog.Service
	Store    Store
	// Now and NewID default to time.Now and uuid.NewString; tests override them.
	Now   func() time.Time
	NewID func() string
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{catalogs: cfg.Catalogs, store: cfg.Store, now: now, newID: newID}
}

// Calculate runs one rating pass. It returns ErrPlanNotResolved when the
// configuration does not reference a plan the catalog knows about.
func (s *Service) Calculate(ctx context.Context, cfg *rating.QuoteConfig) (*rating.CalculatedTotals, error) {
	snap, err := s.catalogs.Snapshot(ctx)
	if err != nil {
		observeCalculation("snapshot_error", 0)
		return nil, fmt.Errorf("catalog snapshot: %w", err)
	}

	start := time.Now()
	totals, err := rating.CalculateTotals(cfg, snap)
	elapsed := time.Since(start)
	if err != nil {
		observeCalculation("error", elapsed)
		return nil, err
	}
	if totals == nil {
		observeCalculation("plan_not_resolved", elapsed)
		return nil, ErrPlanNotResolved
	}
	observeCalculation("ok", elapsed)
	if totals.RequiredDownPaymentCents > 0 && obs.FinancingOverageTotal != nil {
		obs.FinancingOverageTotal.Inc()
	}
	return totals, nil
}

// Save calculates and persists a quote, returning the stored record.
func (s *Service) Save(ctx context.Context, cfg *rating.QuoteConfig) (Record, error) {
	totals, err := s.Calculate(ctx, cfg)
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		ID:        s.newID(),
		CreatedAt: s.now().UTC(),
		Config:    *cfg,
		Totals:    *totals,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Get loads a previously saved quote.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.store.Get(ctx, id)
}

func observeCalculation(result string, elapsed time.Duration) {
	if obs.QuoteCalculationsTotal != nil {
		obs.QuoteCalculationsTotal.WithLabelValues(result).Inc()
	}
	if elapsed > 0 && obs.QuoteEngineDuration != nil {
		obs.QuoteEngineDuration.Observe(obs.DurationMillis(elapsed))
	}
}
