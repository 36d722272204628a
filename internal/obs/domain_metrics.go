package obs

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// BasketSnapshotTotal counts basket snapshot computations by outcome.
	BasketSnapshotTotal *prometheus.CounterVec
	// BasketSnapshotDuration records snapshot build latency in milliseconds.
	BasketSnapshotDuration prometheus.Histogram
	// BasketMutationTotal counts basket add/remove operations by kind and outcome.
	BasketMutationTotal *prometheus.CounterVec
	// DiscountRedeemTotal counts discount code redemption outcomes.
	DiscountRedeemTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		BasketSnapshotTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "basket_snapshot_total",
			Help:      "Count of basket snapshot computations by outcome.",
		}, []string{"result"})
		BasketSnapshotDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "basket_snapshot_duration_ms",
			Help:      "Latency of basket snapshot builds in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		})
		BasketMutationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "basket_mutation_total",
			Help:      "Count of basket mutations by kind and outcome.",
		}, []string{"kind", "result"})
		DiscountRedeemTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_redeem_total",
			Help:      "Count of discount code redemption outcomes.",
		}, []string{"result"})

		mustRegisterCollector(reg, BasketSnapshotTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BasketSnapshotTotal = v
			}
		})
		mustRegisterCollector(reg, BasketSnapshotDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				BasketSnapshotDuration = v
			}
		})
		mustRegisterCollector(reg, BasketMutationTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BasketMutationTotal = v
			}
		})
		mustRegisterCollector(reg, DiscountRedeemTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DiscountRedeemTotal = v
			}
		})
	})
}

// ObserveBasketSnapshot records one snapshot build. Safe to call before
// metrics registration; it is a no-op until collectors exist.
func ObserveBasketSnapshot(d time.Duration, err error) {
	if BasketSnapshotTotal == nil || BasketSnapshotDuration == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	BasketSnapshotTotal.WithLabelValues(result).Inc()
	BasketSnapshotDuration.Observe(DurationMillis(d))
}

// CountBasketMutation records one basket add/remove by kind.
func CountBasketMutation(kind string, err error) {
	if BasketMutationTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	BasketMutationTotal.WithLabelValues(kind, result).Inc()
}

// CountDiscountRedeem records one redemption attempt.
func CountDiscountRedeem(err error) {
	if DiscountRedeemTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	DiscountRedeemTotal.WithLabelValues(result).Inc()
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
