package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/meridian-telecom/backend-quote/internal/lock"
)

const snapshotLockKey = "lock:catalog:snapshot"

// Service assembles catalog snapshots and serves individual catalogs to the
// read endpoints. Snapshots are cached in Redis so the hot quoting path does
// not fan out six queries per request.
type Service struct {
	store  Store
	cache  *Cache
	locker *lock.Locker
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store Store
	Cache *Cache
	// Locker, when set, serialises snapshot rebuilds across instances so a
	// cache expiry does not stampede the catalog tables.
	Locker *lock.Locker
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{store: cfg.Store, cache: cfg.Cache, locker: cfg.Locker}
}

// Snapshot returns a consistent read of every catalog plus discount settings.
// The cached copy is used when present; otherwise all catalogs are loaded in
// one pass and the assembled snapshot is cached with the configured TTL.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	var cached Snapshot
	if ok, err := s.cache.GetJSON(ctx, SnapshotCacheKey, &cached); err == nil && ok {
		return &cached, nil
	}

	if s.locker != nil {
		var snap *Snapshot
		err := s.locker.WithLock(ctx, snapshotLockKey, 10*time.Second, func(ctx context.Context) error {
			// Another instance may have rebuilt while we waited.
			var rebuilt Snapshot
			if ok, err := s.cache.GetJSON(ctx, SnapshotCacheKey, &rebuilt); err == nil && ok {
				snap = &rebuilt
				return nil
			}
			loaded, err := s.load(ctx)
			if err != nil {
				return err
			}
			_ = s.cache.SetJSON(ctx, SnapshotCacheKey, loaded)
			snap = loaded
			return nil
		})
		if err == nil {
			return snap, nil
		}
		// Lock contention is not fatal; fall through to a direct load.
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	// Cache failures are not fatal; the snapshot is already assembled.
	_ = s.cache.SetJSON(ctx, SnapshotCacheKey, snap)
	return snap, nil
}

// Invalidate drops the cached snapshot so the next quote sees fresh catalogs.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, SnapshotCacheKey)
}

func (s *Service) load(ctx context.Context) (*Snapshot, error) {
	plans, err := s.store.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("load plans: %w", err)
	}
	insurance, err := s.store.ListInsurancePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("load insurance plans: %w", err)
	}
	servicePlans, err := s.store.ListServicePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("load service plans: %w", err)
	}
	devices, err := s.store.ListDeviceModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load device models: %w", err)
	}
	promos, err := s.store.ListPromotions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load promotions: %w", err)
	}
	discounts, err := s.store.GetDiscountSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load discount settings: %w", err)
	}

	snap := &Snapshot{
		Plans:        make(map[string]Plan, len(plans)),
		Insurance:    make(map[string]InsurancePlan, len(insurance)),
		ServicePlans: make(map[string]ServicePlan, len(servicePlans)),
		Devices:      make(map[string]DeviceModel, len(devices)),
		Promotions:   promos,
		Discounts:    discounts,
	}
	for _, p := range plans {
		snap.Plans[p.ID] = p
	}
	for _, p := range insurance {
		snap.Insurance[p.ID] = p
	}
	for _, p := range servicePlans {
		snap.ServicePlans[p.ID] = p
	}
	for _, d := range devices {
		snap.Devices[d.ID] = d
	}
	return snap, nil
}

// Plans returns plans from the current snapshot in id order.
func (s *Service) Plans(ctx context.Context) ([]Plan, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Plan, 0, len(snap.Plans))
	for _, p := range snap.Plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// InsurancePlans returns insurance tiers from the current snapshot in price order.
func (s *Service) InsurancePlans(ctx context.Context) ([]InsurancePlan, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]InsurancePlan, 0, len(snap.Insurance))
	for _, p := range snap.Insurance {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ServicePlans returns connected-device service plans in id order.
func (s *Service) ServicePlans(ctx context.Context) ([]ServicePlan, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ServicePlan, 0, len(snap.ServicePlans))
	for _, p := range snap.ServicePlans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeviceModels returns device models in id order.
func (s *Service) DeviceModels(ctx context.Context) ([]DeviceModel, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DeviceModel, 0, len(snap.Devices))
	for _, d := range snap.Devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Promotions returns promotions in catalog priority order. Inactive entries
// are included so tooling can inspect the full catalog.
func (s *Service) Promotions(ctx context.Context) ([]Promotion, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Promotions, nil
}
