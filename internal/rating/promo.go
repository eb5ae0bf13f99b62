package rating

import (
	"github.com/meridian-telecom/backend-quote/internal/catalog"
)

// EligiblePromotions filters the promotion catalog down to entries that are
// active, match the target category, pass device scoping (for device-shaped
// categories), and satisfy every authored condition. Catalog order is
// preserved.
func EligiblePromotions(snap *catalog.Snapshot, cfg *QuoteConfig, category catalog.PromoCategory, model *catalog.DeviceModel) []catalog.Promotion {
	var out []catalog.Promotion
	for _, p := range snap.Promotions {
		if !p.IsActive || p.Category != category {
			continue
		}
		if category == catalog.PromoDevice || category == catalog.PromoConnected {
			if !deviceEligible(p, model) {
				continue
			}
		}
		if !EvaluateAll(cfg, p.Conditions) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FirstEligible picks the winning promotion for a category. When several
// promotions of the same category are simultaneously eligible, the first in
// catalog order wins and the rest are reported as conflicts so the caller can
// surface a configuration warning instead of silently summing them.
func FirstEligible(snap *catalog.Snapshot, cfg *QuoteConfig, category catalog.PromoCategory, model *catalog.DeviceModel) (catalog.Promotion, bool, []string) {
	eligible := EligiblePromotions(snap, cfg, category, model)
	if len(eligible) == 0 {
		return catalog.Promotion{}, false, nil
	}
	var conflicts []string
	for _, p := range eligible[1:] {
		conflicts = append(conflicts, p.ID)
	}
	return eligible[0], true, conflicts
}

// FindPromotion resolves a promotion id against the snapshot.
func FindPromotion(snap *catalog.Snapshot, id string) (catalog.Promotion, bool) {
	if id == "" {
		return catalog.Promotion{}, false
	}
	for _, p := range snap.Promotions {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Promotion{}, false
}

// deviceEligible applies id/tag scoping. A promotion with no device
// constraints applies to any device; a scoped promotion needs either an id
// match or a tag intersection.
func deviceEligible(p catalog.Promotion, model *catalog.DeviceModel) bool {
	if len(p.EligibleDeviceIDs) == 0 && len(p.EligibleDeviceTags) == 0 {
		return true
	}
	if model == nil {
		return false
	}
	for _, id := range p.EligibleDeviceIDs {
		if id == model.ID {
			return true
		}
	}
	for _, tag := range p.EligibleDeviceTags {
		for _, have := range model.Tags {
			if tag == have {
				return true
			}
		}
	}
	return false
}
