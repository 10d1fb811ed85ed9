package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTranscriptionAttempt(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordTranscriptionAttempt("google", "primary", errors.New("boom"), 0.2)
	m.RecordTranscriptionAttempt("google", "fallback", nil, 0.3)

	assert.InDelta(t, 1, testutil.ToFloat64(m.TranscriptionAttempts.WithLabelValues("google", "primary", OutcomeFailure)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TranscriptionAttempts.WithLabelValues("google", "fallback", OutcomeSuccess)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.TranscriptionAttempts.WithLabelValues("google", "primary", OutcomeSuccess)), 0)
}

func TestRecordSynthesisAndCache(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordSynthesis("google", nil, 0.1)
	m.RecordCacheLookup("miss")
	m.RecordCacheLookup("hit")
	m.RecordCacheLookup("hit")

	assert.InDelta(t, 1, testutil.ToFloat64(m.SynthesisRequests.WithLabelValues("google", OutcomeSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.SynthesisCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SynthesisCache.WithLabelValues("miss")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordTranscriptionAttempt("google", "primary", nil, 1)
		m.RecordSynthesis("google", nil, 1)
		m.RecordCacheLookup("hit")
		m.RecordHTTPRequest("GET", "/", "200", 1)
	})
}
