package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-telecom/backend-quote/internal/money"
)

// Store loads reference catalogs from their system of record. The catalog
// sync layer owns writes; the quoting service only ever reads.
type Store interface {
	ListPlans(ctx context.Context) ([]Plan, error)
	ListInsurancePlans(ctx context.Context) ([]InsurancePlan, error)
	ListServicePlans(ctx context.Context) ([]ServicePlan, error)
	ListDeviceModels(ctx context.Context) ([]DeviceModel, error)
	ListPromotions(ctx context.Context) ([]Promotion, error)
	GetDiscountSettings(ctx context.Context) (DiscountSettings, error)
}

// PGStore reads catalogs from Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// ListPlans returns every plan ordered by id.
func (s PGStore) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, pricing_model, tier_prices, first_line, additional_line,
		       max_lines, taxes_included, available_for, allowed_discounts
		FROM plans
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var (
			p         Plan
			tiers     []int64
			available []string
			allowed   []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.PricingModel, &tiers, &p.FirstLine, &p.AdditionalLine,
			&p.MaxLines, &p.TaxesIncluded, &available, &allowed); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		p.TierPrices = make([]money.Cents, len(tiers))
		for i, t := range tiers {
			p.TierPrices[i] = t
		}
		for _, c := range available {
			p.AvailableFor = append(p.AvailableFor, CustomerType(c))
		}
		if len(allowed) > 0 {
			if err := json.Unmarshal(allowed, &p.Allowed); err != nil {
				return nil, fmt.Errorf("decode allowed discounts for plan %s: %w", p.ID, err)
			}
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// ListInsurancePlans returns every insurance tier ordered by price.
func (s PGStore) ListInsurancePlans(ctx context.Context) ([]InsurancePlan, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, name, price FROM insurance_plans ORDER BY price`)
	if err != nil {
		return nil, fmt.Errorf("list insurance plans: %w", err)
	}
	defer rows.Close()

	var plans []InsurancePlan
	for rows.Next() {
		var p InsurancePlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan insurance plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// ListServicePlans returns connected-device service plans ordered by id.
func (s PGStore) ListServicePlans(ctx context.Context) ([]ServicePlan, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, name, price FROM service_plans ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list service plans: %w", err)
	}
	defer rows.Close()

	var plans []ServicePlan
	for rows.Next() {
		var p ServicePlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan service plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// ListDeviceModels returns device models with their variants folded in.
func (s PGStore) ListDeviceModels(ctx context.Context) ([]DeviceModel, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, category, COALESCE(service_plan_id, ''), tags, variants
		FROM device_models
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list device models: %w", err)
	}
	defer rows.Close()

	var models []DeviceModel
	for rows.Next() {
		var (
			m        DeviceModel
			variants []byte
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.ServicePlanID, &m.Tags, &variants); err != nil {
			return nil, fmt.Errorf("scan device model: %w", err)
		}
		if len(variants) > 0 {
			if err := json.Unmarshal(variants, &m.Variants); err != nil {
				return nil, fmt.Errorf("decode variants for model %s: %w", m.ID, err)
			}
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// ListPromotions returns promotions in authored priority order. That order is
// load-bearing: same-category conflicts resolve to the first eligible entry.
func (s PGStore) ListPromotions(ctx context.Context) ([]Promotion, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, category, conditions, effects,
		       eligible_device_ids, eligible_device_tags, is_active
		FROM promotions
		ORDER BY priority, id`)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var promos []Promotion
	for rows.Next() {
		var (
			p          Promotion
			conditions []byte
			effects    []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &conditions, &effects,
			&p.EligibleDeviceIDs, &p.EligibleDeviceTags, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		if len(conditions) > 0 {
			if err := json.Unmarshal(conditions, &p.Conditions); err != nil {
				return nil, fmt.Errorf("decode conditions for promotion %s: %w", p.ID, err)
			}
		}
		if len(effects) > 0 {
			if err := json.Unmarshal(effects, &p.Effects); err != nil {
				return nil, fmt.Errorf("decode effects for promotion %s: %w", p.ID, err)
			}
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}

// GetDiscountSettings returns the singleton settings row. A missing row falls
// back to zero values so a fresh environment can still quote.
func (s PGStore) GetDiscountSettings(ctx context.Context) (DiscountSettings, error) {
	var settings DiscountSettings
	err := s.Pool.QueryRow(ctx, `
		SELECT autopay_per_line, insider_percent, activation_fee, upgrade_fee
		FROM discount_settings
		LIMIT 1`).Scan(&settings.AutopayPerLine, &settings.InsiderPercent, &settings.ActivationFee, &settings.UpgradeFee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DiscountSettings{}, nil
		}
		return DiscountSettings{}, fmt.Errorf("get discount settings: %w", err)
	}
	return settings, nil
}
