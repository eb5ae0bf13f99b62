package rating_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-telecom/backend-quote/internal/catalog"
	"github.com/meridian-telecom/backend-quote/internal/rating"
)

func TestEvaluateOperators(t *testing.T) {
	cfg := &rating.QuoteConfig{
		CustomerType: catalog.CustomerStandard,
		PlanID:       "essentials",
		Lines:        3,
	}

	cases := []struct {
		name string
		cond catalog.Condition
		want bool
	}{
		{"equals number", catalog.Condition{Field: "lines", Operator: catalog.OpEquals, Value: 3}, true},
		{"equals json number", catalog.Condition{Field: "lines", Operator: catalog.OpEquals, Value: float64(3)}, true},
		{"not_equals", catalog.Condition{Field: "lines", Operator: catalog.OpNotEquals, Value: 2}, true},
		{"greater_than", catalog.Condition{Field: "lines", Operator: catalog.OpGreaterThan, Value: 2}, true},
		{"greater_than false", catalog.Condition{Field: "lines", Operator: catalog.OpGreaterThan, Value: 3}, false},
		{"less_than", catalog.Condition{Field: "lines", Operator: catalog.OpLessThan, Value: 4}, true},
		{"greater_or_equal", catalog.Condition{Field: "lines", Operator: catalog.OpGreaterOrEqual, Value: 3}, true},
		{"less_or_equal", catalog.Condition{Field: "lines", Operator: catalog.OpLessOrEqual, Value: 2}, false},
		{"equals string", catalog.Condition{Field: "customerType", Operator: catalog.OpEquals, Value: "standard"}, true},
		{"includes list", catalog.Condition{Field: "plan", Operator: catalog.OpIncludes, Value: []any{"essentials", "premium"}}, true},
		{"includes list miss", catalog.Condition{Field: "plan", Operator: catalog.OpIncludes, Value: []any{"premium"}}, false},
		{"unknown field fails closed", catalog.Condition{Field: "nope", Operator: catalog.OpEquals, Value: 1}, false},
		{"type mismatch fails closed", catalog.Condition{Field: "lines", Operator: catalog.OpGreaterThan, Value: "three"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, rating.Evaluate(cfg, tc.cond))
		})
	}
}

func TestEvaluateAllIsConjunction(t *testing.T) {
	cfg := &rating.QuoteConfig{PlanID: "essentials", Lines: 2}

	require.True(t, rating.EvaluateAll(cfg, nil), "empty condition list is always eligible")
	require.True(t, rating.EvaluateAll(cfg, []catalog.Condition{
		{Field: "lines", Operator: catalog.OpGreaterOrEqual, Value: 2},
		{Field: "plan", Operator: catalog.OpEquals, Value: "essentials"},
	}))
	require.False(t, rating.EvaluateAll(cfg, []catalog.Condition{
		{Field: "lines", Operator: catalog.OpGreaterOrEqual, Value: 2},
		{Field: "plan", Operator: catalog.OpEquals, Value: "premium"},
	}))
}
