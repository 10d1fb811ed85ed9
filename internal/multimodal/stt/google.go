package stt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/nikhilbhutani/voicerelay/internal/metrics"
)

const (
	primaryModel      = "latest_long"
	fallbackModel     = "default"
	browserSampleRate = 48000
)

// recognizer is the subset of *speech.Client used here.
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

// GoogleSTTConfig holds configuration for the Google Cloud Speech backend.
type GoogleSTTConfig struct {
	LanguageCode  string // default: "en-US"
	ClientOptions []option.ClientOption
}

// GoogleSTT transcribes browser recordings with Google Cloud Speech-to-Text.
// The client is dialed on first use and shared by all requests afterwards.
type GoogleSTT struct {
	cfg     GoogleSTTConfig
	logger  *slog.Logger
	metrics *metrics.Metrics

	newClient func(ctx context.Context) (recognizer, error)

	mu     sync.Mutex
	client recognizer
}

// NewGoogleSTT creates a GoogleSTT with defaults applied. No network calls are
// made until the first Transcribe.
func NewGoogleSTT(cfg GoogleSTTConfig, logger *slog.Logger, m *metrics.Metrics) *GoogleSTT {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	g := &GoogleSTT{cfg: cfg, logger: logger, metrics: m}
	g.newClient = func(ctx context.Context) (recognizer, error) {
		return speech.NewClient(ctx, cfg.ClientOptions...)
	}
	return g
}

func (g *GoogleSTT) Name() string { return "google-speech" }

// PrimaryConfig targets MediaRecorder output: Opus in WebM at 48kHz.
func PrimaryConfig(languageCode string) *speechpb.RecognitionConfig {
	return &speechpb.RecognitionConfig{
		Encoding:        speechpb.RecognitionConfig_WEBM_OPUS,
		SampleRateHertz: browserSampleRate,
		LanguageCode:    languageCode,
		Model:           primaryModel,
		UseEnhanced:     true,
	}
}

// FallbackConfig leaves encoding and sample rate for the service to detect.
func FallbackConfig(languageCode string) *speechpb.RecognitionConfig {
	return &speechpb.RecognitionConfig{
		LanguageCode: languageCode,
		Model:        fallbackModel,
	}
}

// Transcribe runs the primary configuration and, if that call fails, exactly
// one call with the fallback configuration. A fallback failure is returned as
// *Error carrying both causes.
func (g *GoogleSTT) Transcribe(ctx context.Context, audio []byte) (string, error) {
	client, err := g.recognizer(ctx)
	if err != nil {
		return "", fmt.Errorf("create speech client: %w", err)
	}

	resp, err := g.recognize(ctx, client, AttemptPrimary, PrimaryConfig(g.cfg.LanguageCode), audio)
	if err == nil {
		return joinTranscript(resp), nil
	}

	g.logger.Warn("primary recognition failed, retrying with fallback configuration", "error", err)
	primaryErr := err

	resp, err = g.recognize(ctx, client, AttemptFallback, FallbackConfig(g.cfg.LanguageCode), audio)
	if err != nil {
		return "", &Error{Primary: primaryErr, Fallback: err}
	}
	return joinTranscript(resp), nil
}

func (g *GoogleSTT) recognize(ctx context.Context, client recognizer, attempt Attempt, cfg *speechpb.RecognitionConfig, audio []byte) (*speechpb.RecognizeResponse, error) {
	start := time.Now()
	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	g.metrics.RecordTranscriptionAttempt(g.Name(), string(attempt), err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("recognize (%s): %w", attempt, err)
	}
	return resp, nil
}

func (g *GoogleSTT) recognizer(ctx context.Context) (recognizer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	// The client outlives this request.
	c, err := g.newClient(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	g.client = c
	return c, nil
}

// Close releases the underlying connection, if one was opened.
func (g *GoogleSTT) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

// joinTranscript concatenates the top alternative of every result.
func joinTranscript(resp *speechpb.RecognizeResponse) string {
	parts := make([]string, 0, len(resp.GetResults()))
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		parts = append(parts, alts[0].GetTranscript())
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
