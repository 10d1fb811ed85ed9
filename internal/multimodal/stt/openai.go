package stt

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nikhilbhutani/voicerelay/internal/metrics"
)

// OpenAISTTConfig holds configuration for the OpenAI STT backend.
type OpenAISTTConfig struct {
	APIKey       string
	BaseURL      string // default: "https://api.openai.com/v1"; point at whisper.cpp for local use
	Model        string // default: "whisper-1"
	LanguageCode string // BCP-47; only the language subtag is sent
}

// OpenAISTT transcribes audio using OpenAI's Whisper API (or a compatible endpoint).
// It makes a single attempt; there is no alternate configuration to fall back to.
type OpenAISTT struct {
	cfg     OpenAISTTConfig
	client  *openai.Client
	metrics *metrics.Metrics
}

// NewOpenAISTT creates an OpenAISTT with sensible defaults applied.
func NewOpenAISTT(cfg OpenAISTTConfig, m *metrics.Metrics) *OpenAISTT {
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: 300 * time.Second}

	return &OpenAISTT{
		cfg:     cfg,
		client:  openai.NewClientWithConfig(clientCfg),
		metrics: m,
	}
}

func (o *OpenAISTT) Name() string { return "openai-whisper" }

// Transcribe uploads the recording as a WebM file part.
func (o *OpenAISTT) Transcribe(ctx context.Context, audio []byte) (string, error) {
	req := openai.AudioRequest{
		Model:    o.cfg.Model,
		FilePath: "recording.webm",
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatJSON,
	}
	if lang, _, _ := strings.Cut(o.cfg.LanguageCode, "-"); lang != "" {
		req.Language = lang
	}

	start := time.Now()
	resp, err := o.client.CreateTranscription(ctx, req)
	o.metrics.RecordTranscriptionAttempt(o.Name(), string(AttemptPrimary), err, time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}
