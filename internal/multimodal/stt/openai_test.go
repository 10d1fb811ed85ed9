package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAISTTTranscribe(t *testing.T) {
	var gotModel, gotLanguage string
	var gotAudio []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")

		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotAudio, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":" hello world "}`))
	}))
	defer srv.Close()

	o := NewOpenAISTT(OpenAISTTConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL + "/v1",
		LanguageCode: "en-US",
	}, nil)

	text, err := o.Transcribe(context.Background(), []byte("webm-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "hello world", text)
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "en", gotLanguage)
	assert.Equal(t, []byte("webm-bytes"), gotAudio)
}

func TestOpenAISTTServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	o := NewOpenAISTT(OpenAISTTConfig{APIKey: "k", BaseURL: srv.URL + "/v1"}, nil)

	_, err := o.Transcribe(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcription request")
	assert.Equal(t, 1, calls)
}
