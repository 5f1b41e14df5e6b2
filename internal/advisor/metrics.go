package advisor

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Qualiasolutions/chainwise-advisor/pkg/monitoring"
)

// Metrics holds advisor pipeline counters. All fields are optional; a nil
// Metrics disables instrumentation.
type Metrics struct {
	Completions *prometheus.CounterVec // labels: kind (chat|tool), id, outcome (live|fallback)
	TokensUsed  *prometheus.CounterVec // labels: direction (input|output)
}

// NewMetrics registers advisor counters on the service metrics collector.
func NewMetrics(mc *monitoring.MetricsCollector) *Metrics {
	return &Metrics{
		Completions: mc.NewCounter("completions_total",
			"AI completions by kind, id, and outcome", []string{"kind", "id", "outcome"}),
		TokensUsed: mc.NewCounter("llm_tokens_total",
			"LLM tokens consumed", []string{"direction"}),
	}
}

func (m *Metrics) recordCompletion(kind, id, outcome string) {
	if m == nil || m.Completions == nil {
		return
	}
	m.Completions.WithLabelValues(kind, id, outcome).Inc()
}

func (m *Metrics) recordTokens(input, output int) {
	if m == nil || m.TokensUsed == nil {
		return
	}
	m.TokensUsed.WithLabelValues("input").Add(float64(input))
	m.TokensUsed.WithLabelValues("output").Add(float64(output))
}
