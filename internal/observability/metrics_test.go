package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTP("POST", "/api/v1/document/generate-nda", "200", 300*time.Millisecond)
	m.ObserveHTTP("POST", "/api/v1/document/generate-nda", "200", 2*time.Second)
	m.ObserveGenAI("fir_analyzer", "ok", 1500*time.Millisecond)
	m.IncRender("nda", "ok")
	m.IncConversion("failed")
	m.InflightInc()
	m.InflightDec()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	wants := []string{
		`kanoon_http_requests_total{method="POST",route="/api/v1/document/generate-nda",status="200"} 2`,
		`kanoon_http_request_duration_seconds_bucket{method="POST",route="/api/v1/document/generate-nda",le="0.5"} 1`,
		`kanoon_http_request_duration_seconds_count{method="POST",route="/api/v1/document/generate-nda"} 2`,
		`kanoon_genai_requests_total{tool="fir_analyzer",status="ok"} 1`,
		`kanoon_document_renders_total{kind="nda",status="ok"} 1`,
		`kanoon_pdf_conversions_total{status="failed"} 1`,
		"kanoon_http_inflight_requests 0",
		"# TYPE kanoon_http_request_duration_seconds histogram",
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Fatalf("missing %q in output:\n%s", w, out)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/", "200", time.Millisecond)
	m.ObserveGenAI("x", "ok", time.Millisecond)
	m.IncRender("nda", "ok")
	m.IncConversion("ok")
	m.InflightInc()
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil WritePrometheus: %v", err)
	}
}

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" a=1, b = 2 ,bad, =x")
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
