package observability

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// Metrics is a small Prometheus text-format registry for the API.
type Metrics struct {
	httpRequests *series
	httpLatency  *histogramSeries
	httpInflight *series
	genaiCalls   *series
	genaiLatency *histogramSeries
	renders      *series
	conversions  *series
}

func NewMetrics() *Metrics {
	return &Metrics{
		httpRequests: newSeries("kanoon_http_requests_total", "HTTP requests by route and status.", "counter", "method", "route", "status"),
		httpLatency:  newHistogram("kanoon_http_request_duration_seconds", "HTTP request latency.", nil, "method", "route"),
		httpInflight: newSeries("kanoon_http_inflight_requests", "Requests currently being served.", "gauge"),
		genaiCalls:   newSeries("kanoon_genai_requests_total", "Generative model calls by tool and outcome.", "counter", "tool", "status"),
		genaiLatency: newHistogram("kanoon_genai_request_duration_seconds", "Generative model call latency.", []float64{0.5, 1, 2, 5, 10, 20, 40, 60}, "tool"),
		renders:      newSeries("kanoon_document_renders_total", "Template renders by kind and outcome.", "counter", "kind", "status"),
		conversions:  newSeries("kanoon_pdf_conversions_total", "DOCX to PDF conversions by outcome.", "counter", "status"),
	}
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.add(1, method, route, status)
	m.httpLatency.observe(d.Seconds(), method, route)
}

func (m *Metrics) InflightInc() {
	if m != nil {
		m.httpInflight.add(1)
	}
}

func (m *Metrics) InflightDec() {
	if m != nil {
		m.httpInflight.add(-1)
	}
}

func (m *Metrics) ObserveGenAI(tool, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.genaiCalls.add(1, tool, status)
	m.genaiLatency.observe(d.Seconds(), tool)
}

func (m *Metrics) IncRender(kind, status string) {
	if m != nil {
		m.renders.add(1, kind, status)
	}
}

func (m *Metrics) IncConversion(status string) {
	if m != nil {
		m.conversions.add(1, status)
	}
}

func (m *Metrics) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, s := range []interface{ write(io.Writer) error }{
		m.httpRequests, m.httpLatency, m.httpInflight,
		m.genaiCalls, m.genaiLatency, m.renders, m.conversions,
	} {
		if err := s.write(w); err != nil {
			return err
		}
	}
	return nil
}

type series struct {
	name, help, kind string
	labels           []string
	mu               sync.Mutex
	values           map[string]float64
}

func newSeries(name, help, kind string, labels ...string) *series {
	return &series{name: name, help: help, kind: kind, labels: labels, values: map[string]float64{}}
}

func (s *series) add(v float64, labelValues ...string) {
	key := labelString(s.labels, labelValues)
	s.mu.Lock()
	s.values[key] += v
	s.mu.Unlock()
}

func (s *series) write(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", s.name, s.help, s.name, s.kind); err != nil {
		return err
	}
	for _, k := range sortedKeys(s.values) {
		if _, err := fmt.Fprintf(w, "%s%s %g\n", s.name, k, s.values[k]); err != nil {
			return err
		}
	}
	return nil
}

type histogramSeries struct {
	name, help string
	labels     []string
	buckets    []float64
	mu         sync.Mutex
	values     map[string]*histogram
}

type histogram struct {
	counts []uint64
	sum    float64
	total  uint64
}

func newHistogram(name, help string, buckets []float64, labels ...string) *histogramSeries {
	if len(buckets) == 0 {
		buckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	}
	return &histogramSeries{name: name, help: help, labels: labels, buckets: buckets, values: map[string]*histogram{}}
}

func (h *histogramSeries) observe(v float64, labelValues ...string) {
	key := labelString(h.labels, labelValues)
	h.mu.Lock()
	defer h.mu.Unlock()
	hist, ok := h.values[key]
	if !ok {
		hist = &histogram{counts: make([]uint64, len(h.buckets))}
		h.values[key] = hist
	}
	hist.sum += v
	hist.total++
	for i, b := range h.buckets {
		if v <= b {
			hist.counts[i]++
		}
	}
}

func (h *histogramSeries) write(w io.Writer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name); err != nil {
		return err
	}
	keys := make([]string, 0, len(h.values))
	for k := range h.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		hist := h.values[k]
		for i, b := range h.buckets {
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, fmt.Sprintf("%g", b)), hist.counts[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n%s_sum%s %g\n%s_count%s %d\n",
			h.name, withLe(k, "+Inf"), hist.total, h.name, k, hist.sum, h.name, k, hist.total); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func labelString(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		val := "unknown"
		if i < len(values) && values[i] != "" {
			val = values[i]
		}
		fmt.Fprintf(&b, "%s=%q", name, val)
	}
	b.WriteByte('}')
	return b.String()
}

func withLe(labels, le string) string {
	if labels == "" {
		return `{le="` + le + `"}`
	}
	return strings.TrimSuffix(labels, "}") + `,le="` + le + `"}`
}
