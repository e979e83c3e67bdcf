package orchestrator

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-rubric/internal/domain"
)

var (
	pairMetricOnce sync.Once
	pairsTotal     *prometheus.CounterVec
)

// observePair counts a pair reaching a terminal state. The counter is
// registered lazily so test binaries that never run the orchestrator do not
// pollute the default registry.
func observePair(state domain.PairState) {
	pairMetricOnce.Do(func() {
		pairsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rubric_run_pairs_total",
				Help: "Benchmark (model, task) pairs by terminal state.",
			},
			[]string{"state"},
		)
	})
	pairsTotal.WithLabelValues(state.String()).Inc()
}
