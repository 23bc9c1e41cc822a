package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestRecordGeneration(t *testing.T) {
	m := New()
	m.RecordGeneration([]string{"model", "form"}, 2048, 3*time.Millisecond, nil)
	m.RecordGeneration([]string{"model"}, 100, time.Millisecond, nil)
	m.RecordGeneration(nil, 0, 0, errors.New("boom"))

	body := scrape(t, m)
	assert.Contains(t, body, `admingen_generations_total{status="success"} 2`)
	assert.Contains(t, body, `admingen_generations_total{status="error"} 1`)
	assert.Contains(t, body, `admingen_artifacts_total{kind="model"} 2`)
	assert.Contains(t, body, `admingen_artifact_bytes_total 2148`)
	assert.Contains(t, body, `admingen_generation_duration_seconds_count 2`)
}

func TestRecordHTTP(t *testing.T) {
	m := New()
	m.RecordHTTP("GET", "/healthz", "200", time.Millisecond)
	assert.Contains(t, scrape(t, m), `admingen_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestNew_Independent(t *testing.T) {
	// each instance owns its registry, so creating two must not panic
	a, b := New(), New()
	a.ArtifactBytes.Add(1)
	assert.Contains(t, scrape(t, b), "admingen_artifact_bytes_total 0")
}
