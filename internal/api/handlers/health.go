package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// Pinger is satisfied by *cache.Cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	cache             Pinger
	credentialsSource string
	sttName           string
	ttsName           string
}

// NewHealthHandler builds the health endpoints. cache may be nil when the
// synthesis cache is disabled.
func NewHealthHandler(cache Pinger, credentialsSource, sttName, ttsName string) *HealthHandler {
	return &HealthHandler{
		cache:             cache,
		credentialsSource: credentialsSource,
		sttName:           sttName,
		ttsName:           ttsName,
	}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, map[string]interface{}{
		"status":      statusStr(status),
		"checks":      checks,
		"credentials": h.credentialsSource,
		"stt":         h.sttName,
		"tts":         h.ttsName,
	})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
