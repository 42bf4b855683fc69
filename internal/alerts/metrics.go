package alerts

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels a completed fetch for operators. Users only ever see
// "no active alerts" for empty, unconfigured and failed alike.
type Outcome string

const (
	OutcomeLoaded       Outcome = "loaded"
	OutcomeEmpty        Outcome = "empty"
	OutcomeUnconfigured Outcome = "unconfigured"
	OutcomeFailed       Outcome = "failed"
)

// Metrics exports feed outcomes. A nil *Metrics records nothing.
type Metrics struct {
	fetches *prometheus.CounterVec
	records prometheus.Gauge
	dropped prometheus.Counter
}

// NewMetrics creates the feed collectors and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "schoolhub"
	}
	m := &Metrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alert_feed_fetches_total",
				Help:      "Alert sheet fetches by outcome",
			}, []string{"outcome"}),
		records: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "alert_feed_records",
				Help:      "Alerts held by the most recent loaded feed",
			}),
		dropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alert_feed_dropped_rows_total",
				Help:      "Sheet rows discarded because they were malformed",
			}),
	}
	if reg != nil {
		reg.MustRegister(m.fetches, m.records, m.dropped)
	}
	return m
}

func (m *Metrics) observe(outcome Outcome, records int, dropped int) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(string(outcome)).Inc()
	if outcome != OutcomeFailed {
		m.records.Set(float64(records))
	}
	if dropped > 0 {
		m.dropped.Add(float64(dropped))
	}
}
