package main

import (
	"log/slog"

	"github.com/nikhilbhutani/voicerelay/internal/config"
	"github.com/nikhilbhutani/voicerelay/internal/credentials"
	"github.com/nikhilbhutani/voicerelay/internal/metrics"
	"github.com/nikhilbhutani/voicerelay/internal/multimodal/stt"
	"github.com/nikhilbhutani/voicerelay/internal/multimodal/tts"
)

// newSTTProvider maps STT_BACKEND onto a provider. Config.Validate has
// already rejected unknown backends.
func newSTTProvider(cfg config.STTConfig, creds *credentials.Credentials, logger *slog.Logger, m *metrics.Metrics) stt.Provider {
	switch cfg.Backend {
	case config.BackendOpenAI:
		return stt.NewOpenAISTT(stt.OpenAISTTConfig{
			APIKey:       cfg.OpenAIKey,
			BaseURL:      cfg.OpenAIBaseURL,
			Model:        cfg.OpenAIModel,
			LanguageCode: cfg.Language,
		}, m)
	default:
		return stt.NewGoogleSTT(stt.GoogleSTTConfig{
			LanguageCode:  cfg.Language,
			ClientOptions: creds.ClientOptions(),
		}, logger, m)
	}
}

func newTTSProvider(cfg config.TTSConfig, creds *credentials.Credentials, m *metrics.Metrics) tts.Provider {
	switch cfg.Backend {
	case config.BackendOpenAI:
		return tts.NewOpenAITTS(tts.OpenAITTSConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Voice:   cfg.OpenAIVoice,
		}, m)
	default:
		return tts.NewGoogleTTS(tts.GoogleTTSConfig{
			ClientOptions: creds.ClientOptions(),
		}, m)
	}
}
