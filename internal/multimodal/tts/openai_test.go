package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAITTSSynthesize(t *testing.T) {
	tests := []struct {
		name      string
		voice     string
		wantVoice string
	}{
		{name: "openai voice passes through", voice: "nova", wantVoice: "nova"},
		{name: "cloud voice maps to configured default", voice: "en-GB-Neural2-B", wantVoice: "alloy"},
		{name: "empty voice maps to configured default", voice: "", wantVoice: "alloy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/audio/speech", r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				w.Header().Set("Content-Type", "audio/mpeg")
				_, _ = w.Write([]byte{0x01, 0x02})
			}))
			defer srv.Close()

			o := NewOpenAITTS(OpenAITTSConfig{APIKey: "k", BaseURL: srv.URL + "/v1"}, nil)

			res, err := o.Synthesize(context.Background(), SynthesisRequest{Input: "hello world", Voice: tt.voice})
			require.NoError(t, err)

			assert.Equal(t, []byte{0x01, 0x02}, res.Audio)
			assert.Equal(t, ContentTypeMP3, res.ContentType)
			assert.Equal(t, tt.wantVoice, body["voice"])
			assert.Equal(t, "tts-1", body["model"])
			assert.Equal(t, "hello world", body["input"])
			assert.Equal(t, "mp3", body["response_format"])
			assert.InDelta(t, 0.9, body["speed"], 1e-9)
		})
	}
}

func TestOpenAITTSError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"input too long","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	o := NewOpenAITTS(OpenAITTSConfig{APIKey: "k", BaseURL: srv.URL + "/v1"}, nil)

	_, err := o.Synthesize(context.Background(), SynthesisRequest{Input: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tts request")
}
