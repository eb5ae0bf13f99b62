package rating

import (
	"strings"

	"github.com/meridian-telecom/backend-quote/internal/catalog"
)

// Evaluate checks one authored condition against the quote configuration.
// Unknown fields fail closed so a typo in the promotion catalog can never
// widen eligibility.
func Evaluate(cfg *QuoteConfig, cond catalog.Condition) bool {
	field, ok := resolveField(cfg, cond.Field)
	if !ok {
		return false
	}
	switch cond.Operator {
	case catalog.OpEquals:
		return fieldEquals(field, cond.Value)
	case catalog.OpNotEquals:
		return !fieldEquals(field, cond.Value)
	case catalog.OpGreaterThan, catalog.OpLessThan, catalog.OpGreaterOrEqual, catalog.OpLessOrEqual:
		lhs, lok := toNumber(field)
		rhs, rok := toNumber(cond.Value)
		if !lok || !rok {
			return false
		}
		switch cond.Operator {
		case catalog.OpGreaterThan:
			return lhs > rhs
		case catalog.OpLessThan:
			return lhs < rhs
		case catalog.OpGreaterOrEqual:
			return lhs >= rhs
		default:
			return lhs <= rhs
		}
	case catalog.OpIncludes:
		return includes(field, cond.Value)
	default:
		return false
	}
}

// EvaluateAll reports whether every condition passes. An empty list is always
// eligible.
func EvaluateAll(cfg *QuoteConfig, conds []catalog.Condition) bool {
	for _, cond := range conds {
		if !Evaluate(cfg, cond) {
			return false
		}
	}
	return true
}

func resolveField(cfg *QuoteConfig, name string) (any, bool) {
	switch name {
	case "lines":
		return int64(cfg.Lines), true
	case "customerType":
		return string(cfg.CustomerType), true
	case "plan":
		return cfg.PlanID, true
	case "insuranceTier":
		return cfg.InsuranceTier, true
	case "insuranceLines":
		return int64(cfg.InsuranceLines), true
	case "deviceCount":
		return int64(len(cfg.Devices)), true
	case "accessoryCount":
		return int64(len(cfg.Accessories)), true
	default:
		return nil, false
	}
}

func fieldEquals(field, value any) bool {
	if lhs, ok := toNumber(field); ok {
		if rhs, rok := toNumber(value); rok {
			return lhs == rhs
		}
		return false
	}
	ls, lok := field.(string)
	rs, rok := toString(value)
	return lok && rok && strings.EqualFold(ls, rs)
}

// includes matches either direction: an authored list containing the field
// value, or a string field containing an authored substring.
func includes(field, value any) bool {
	if list, ok := value.([]any); ok {
		for _, item := range list {
			if fieldEquals(field, item) {
				return true
			}
		}
		return false
	}
	ls, lok := field.(string)
	rs, rok := toString(value)
	if lok && rok {
		return strings.Contains(strings.ToLower(ls), strings.ToLower(rs))
	}
	return false
}

// toNumber normalises the numeric shapes a JSON-authored catalog can carry.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func toString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
