package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridian-telecom/backend-quote/internal/catalog"
	"github.com/meridian-telecom/backend-quote/internal/money"
)

type fakeStore struct {
	calls int
}

func (f *fakeStore) ListPlans(ctx context.Context) ([]catalog.Plan, error) {
	f.calls++
	return []catalog.Plan{
		{
			ID:            "essentials",
			Name:          "Essentials",
			PricingModel:  catalog.PricingTiered,
			TierPrices:    []money.Cents{10500, 18000, 23000},
			MaxLines:      8,
			TaxesIncluded: true,
		},
		{
			ID:             "flex",
			Name:           "Flex",
			PricingModel:   catalog.PricingFlat,
			FirstLine:      5000,
			AdditionalLine: 3000,
			MaxLines:       10,
		},
	}, nil
}

func (f *fakeStore) ListInsurancePlans(ctx context.Context) ([]catalog.InsurancePlan, error) {
	return []catalog.InsurancePlan{{ID: "protect", Name: "Protect", Price: 1800}}, nil
}

func (f *fakeStore) ListServicePlans(ctx context.Context) ([]catalog.ServicePlan, error) {
	return []catalog.ServicePlan{{ID: "watch-unlimited", Name: "Watch Unlimited", Price: 1200}}, nil
}

func (f *fakeStore) ListDeviceModels(ctx context.Context) ([]catalog.DeviceModel, error) {
	return []catalog.DeviceModel{
		{
			ID:       "galaxy-a25",
			Name:     "Galaxy A25",
			Category: catalog.DevicePhone,
			Tags:     []string{"android", "budget"},
			Variants: []catalog.DeviceVariant{{SKU: "a25-128", Name: "Galaxy A25 128GB", Price: 29900}},
		},
	}, nil
}

func (f *fakeStore) ListPromotions(ctx context.Context) ([]catalog.Promotion, error) {
	return []catalog.Promotion{
		{
			ID:       "plan-10-off",
			Name:     "$10 Off Plan",
			Category: catalog.PromoPlan,
			Effects:  []catalog.Effect{{Kind: catalog.EffectFixedDiscount, Amount: 1000}},
			IsActive: true,
		},
	}, nil
}

func (f *fakeStore) GetDiscountSettings(ctx context.Context) (catalog.DiscountSettings, error) {
	return catalog.DiscountSettings{AutopayPerLine: 500, InsiderPercent: 20, ActivationFee: 3500, UpgradeFee: 3500}, nil
}

func newTestService(t *testing.T) (*catalog.Service, *fakeStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := &fakeStore{}
	svc := catalog.NewService(catalog.ServiceConfig{
		Store: store,
		Cache: catalog.NewCache(client, time.Minute),
	})
	return svc, store
}

func TestSnapshotCachesAssembledCatalogs(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Plans, 2)
	require.Equal(t, money.Cents(29900), snap.Devices["galaxy-a25"].Variants[0].Price)
	require.Equal(t, 1, store.calls)

	again, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, snap.Plans, again.Plans)
	require.Equal(t, 1, store.calls, "second snapshot should come from cache")

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, store.calls, "invalidate should force a reload")
}

func TestSnapshotWithoutCache(t *testing.T) {
	store := &fakeStore{}
	svc := catalog.NewService(catalog.ServiceConfig{Store: store})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Plans, 2)
	require.Equal(t, 1, store.calls)
}

func TestCatalogHandlers(t *testing.T) {
	svc, _ := newTestService(t)
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	t.Run("plans", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/plans", nil)
		rec := httptest.NewRecorder()
		handler.Plans(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data []catalog.Plan `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 2)
		require.Equal(t, "essentials", body.Data[0].ID)
	})

	t.Run("insurance", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/insurance", nil)
		rec := httptest.NewRecorder()
		handler.InsurancePlans(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data []catalog.InsurancePlan `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		require.Equal(t, money.Cents(1800), body.Data[0].Price)
	})

	t.Run("devices", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/devices", nil)
		rec := httptest.NewRecorder()
		handler.Devices(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data []catalog.DeviceModel `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		require.Equal(t, "a25-128", body.Data[0].Variants[0].SKU)
	})

	t.Run("promotions", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/promotions", nil)
		rec := httptest.NewRecorder()
		handler.Promotions(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data []catalog.Promotion `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		require.Equal(t, "plan-10-off", body.Data[0].ID)
	})

	t.Run("service plans", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/service-plans", nil)
		rec := httptest.NewRecorder()
		handler.ServicePlans(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data []catalog.ServicePlan `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		require.Equal(t, "watch-unlimited", body.Data[0].ID)
	})
}
