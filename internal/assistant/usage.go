package assistant

import (
	"maps"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/genai"
)

// Operations tracked by Usage.
const (
	OpChat  = "chat"
	OpImage = "image"
)

// TokenCounts holds input/output sums.
type TokenCounts struct {
	Requests int64 `json:"requests"`
	Failures int64 `json:"failures"`
	Input    int64 `json:"input"`
	Output   int64 `json:"output"`
	Total    int64 `json:"total"`
}

func (tc *TokenCounts) add(input, output int32, failed bool) {
	tc.Requests++
	if failed {
		tc.Failures++
	}
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input) + int64(output)
}

// UsageStats is a snapshot of Usage.
type UsageStats struct {
	Total       TokenCounts            `json:"total"`
	ByModel     map[string]TokenCounts `json:"by_model"`
	ByOperation map[string]TokenCounts `json:"by_operation"`
}

// Usage records Gemini requests and token counts for the admin panel and
// /metrics. A nil *Usage records nothing.
type Usage struct {
	requests *prometheus.CounterVec
	tokens   *prometheus.CounterVec

	mu    sync.Mutex
	stats UsageStats
}

// NewUsage creates the usage collectors and registers them with reg.
func NewUsage(reg prometheus.Registerer) *Usage {
	u := &Usage{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schoolhub",
				Name:      "assistant_requests_total",
				Help:      "Gemini calls by operation and outcome",
			}, []string{"operation", "outcome"}),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schoolhub",
				Name:      "assistant_tokens_total",
				Help:      "Gemini tokens by model and direction",
			}, []string{"model", "direction"}),
		stats: UsageStats{
			ByModel:     make(map[string]TokenCounts),
			ByOperation: make(map[string]TokenCounts),
		},
	}
	if reg != nil {
		reg.MustRegister(u.requests, u.tokens)
	}
	return u
}

// Track records one call.
func (u *Usage) Track(model, operation string, resp *genai.GenerateContentResponse, err error) {
	if u == nil {
		return
	}
	var in, out int32
	if resp != nil && resp.UsageMetadata != nil {
		in = resp.UsageMetadata.PromptTokenCount
		out = resp.UsageMetadata.CandidatesTokenCount
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	u.requests.WithLabelValues(operation, outcome).Inc()
	u.tokens.WithLabelValues(model, "input").Add(float64(in))
	u.tokens.WithLabelValues(model, "output").Add(float64(out))

	u.mu.Lock()
	defer u.mu.Unlock()
	u.stats.Total.add(in, out, err != nil)
	addTo(u.stats.ByModel, model, in, out, err != nil)
	addTo(u.stats.ByOperation, operation, in, out, err != nil)
}

// Stats returns a copy of the totals so far.
func (u *Usage) Stats() UsageStats {
	if u == nil {
		return UsageStats{ByModel: map[string]TokenCounts{}, ByOperation: map[string]TokenCounts{}}
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return UsageStats{
		Total:       u.stats.Total,
		ByModel:     maps.Clone(u.stats.ByModel),
		ByOperation: maps.Clone(u.stats.ByOperation),
	}
}

func addTo(m map[string]TokenCounts, key string, in, out int32, failed bool) {
	tc := m[key]
	tc.add(in, out, failed)
	m[key] = tc
}
