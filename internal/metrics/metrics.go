// Package metrics holds the Prometheus collectors for the relay service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics contains every collector the service records into. All Record*
// methods are safe on a nil receiver so components can run unobserved.
type Metrics struct {
	TranscriptionAttempts *prometheus.CounterVec
	TranscriptionDuration *prometheus.HistogramVec
	SynthesisRequests     *prometheus.CounterVec
	SynthesisDuration     *prometheus.HistogramVec
	SynthesisCache        *prometheus.CounterVec

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TranscriptionAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "voicerelay_transcription_attempts_total",
			Help: "Recognition calls by provider, attempt kind and outcome",
		}, []string{"provider", "attempt", "outcome"}),
		TranscriptionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicerelay_transcription_duration_seconds",
			Help:    "Duration of a single recognition call",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
		}, []string{"provider", "attempt"}),
		SynthesisRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "voicerelay_synthesis_requests_total",
			Help: "Synthesis calls by provider and outcome",
		}, []string{"provider", "outcome"}),
		SynthesisDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicerelay_synthesis_duration_seconds",
			Help:    "Duration of a single synthesis call",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"provider"}),
		SynthesisCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "voicerelay_synthesis_cache_total",
			Help: "Synthesis cache lookups by result",
		}, []string{"result"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "voicerelay_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicerelay_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) RecordTranscriptionAttempt(provider, attempt string, err error, seconds float64) {
	if m == nil {
		return
	}
	m.TranscriptionAttempts.WithLabelValues(provider, attempt, outcome(err)).Inc()
	m.TranscriptionDuration.WithLabelValues(provider, attempt).Observe(seconds)
}

func (m *Metrics) RecordSynthesis(provider string, err error, seconds float64) {
	if m == nil {
		return
	}
	m.SynthesisRequests.WithLabelValues(provider, outcome(err)).Inc()
	m.SynthesisDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordCacheLookup counts a cache "hit", "miss" or "error".
func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.SynthesisCache.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route, statusCode string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
