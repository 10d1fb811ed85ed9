package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		cache      Pinger
		wantStatus int
	}{
		{name: "cache disabled", cache: nil, wantStatus: http.StatusOK},
		{name: "cache healthy", cache: stubPinger{}, wantStatus: http.StatusOK},
		{name: "cache down", cache: stubPinger{err: errors.New("connection refused")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.cache, "application_default", "google-speech", "google-tts")

			rec := httptest.NewRecorder()
			h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, "application_default", body["credentials"])
			assert.Equal(t, "google-speech", body["stt"])
		})
	}
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(nil, "", "", "")

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
