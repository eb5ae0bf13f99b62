package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteCalculationsTotal counts rating passes by outcome.
	QuoteCalculationsTotal *prometheus.CounterVec
	// QuoteEngineDuration records rating engine latency in milliseconds.
	QuoteEngineDuration prometheus.Histogram
	// FinancingOverageTotal counts quotes whose financed amount exceeded the
	// equipment credit limit and forced a required down payment.
	FinancingOverageTotal prometheus.Counter
	// SnapshotRefreshTotal counts catalog snapshot cache misses by result.
	SnapshotRefreshTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteCalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_calculations_total",
			Help:      "Count of quote rating passes by outcome.",
		}, []string{"result"})
		QuoteEngineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_engine_duration_ms",
			Help:      "Latency of one rating pass in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		})
		FinancingOverageTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "financing_overage_total",
			Help:      "Quotes where financing exceeded the equipment credit limit.",
		})
		SnapshotRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_snapshot_refresh_total",
			Help:      "Catalog snapshot rebuilds by result.",
		}, []string{"result"})

		mustRegisterCollector(reg, QuoteCalculationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteCalculationsTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteEngineDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				QuoteEngineDuration = v
			}
		})
		mustRegisterCollector(reg, FinancingOverageTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				FinancingOverageTotal = v
			}
		})
		mustRegisterCollector(reg, SnapshotRefreshTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SnapshotRefreshTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
