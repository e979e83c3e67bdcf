package llm

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// callMetrics holds the Prometheus instruments shared by every metrics
// middleware instance. Registration happens once per process.
type callMetrics struct {
	requests *prometheus.CounterVec
	tokens   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metrics     *callMetrics
)

func sharedCallMetrics() *callMetrics {
	metricsOnce.Do(func() {
		metrics = &callMetrics{
			requests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rubric_model_calls_total",
					Help: "Model completion attempts by provider, model, and outcome.",
				},
				[]string{"provider", "model", "outcome"},
			),
			tokens: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rubric_model_tokens_total",
					Help: "Tokens consumed by model completions, by direction.",
				},
				[]string{"provider", "model", "direction"},
			),
			duration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "rubric_model_call_duration_seconds",
					Help:    "Wall-clock duration of model completions, retries included.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"provider", "model"},
			),
		}
	})
	return metrics
}

// metricsLLM records call counts, token usage, and latency.
type metricsLLM struct {
	next CoreLLM
	m    *callMetrics
}

// MetricsMiddleware creates middleware publishing Prometheus metrics for
// every completion through the chain.
func MetricsMiddleware() Middleware {
	m := sharedCallMetrics()
	return func(next CoreLLM) CoreLLM {
		return &metricsLLM{next: next, m: m}
	}
}

// Provider implements CoreLLM.
func (ml *metricsLLM) Provider() string { return ml.next.Provider() }

// DoRequest forwards the request and records its outcome.
func (ml *metricsLLM) DoRequest(ctx context.Context, model, prompt string, opts map[string]any) (string, int, int, error) {
	provider := ml.next.Provider()
	start := time.Now()

	response, tokensIn, tokensOut, err := ml.next.DoRequest(ctx, model, prompt, opts)

	ml.m.duration.WithLabelValues(provider, model).Observe(time.Since(start).Seconds())
	if err != nil {
		ml.m.requests.WithLabelValues(provider, model, string(KindOf(err))).Inc()
		return "", 0, 0, err
	}

	ml.m.requests.WithLabelValues(provider, model, "success").Inc()
	ml.m.tokens.WithLabelValues(provider, model, "input").Add(float64(tokensIn))
	ml.m.tokens.WithLabelValues(provider, model, "output").Add(float64(tokensOut))
	return response, tokensIn, tokensOut, nil
}
