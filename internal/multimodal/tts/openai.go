package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nikhilbhutani/voicerelay/internal/metrics"
)

// OpenAITTSConfig holds configuration for the OpenAI TTS backend.
type OpenAITTSConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.openai.com/v1"
	Model   string // default: "tts-1"
	Voice   string // used when the requested voice is not an OpenAI voice; default: "alloy"
}

var openAIVoices = map[string]bool{
	string(openai.VoiceAlloy):   true,
	string(openai.VoiceEcho):    true,
	string(openai.VoiceFable):   true,
	string(openai.VoiceOnyx):    true,
	string(openai.VoiceNova):    true,
	string(openai.VoiceShimmer): true,
}

// OpenAITTS synthesizes speech using OpenAI's TTS API.
type OpenAITTS struct {
	cfg     OpenAITTSConfig
	client  *openai.Client
	metrics *metrics.Metrics
}

// NewOpenAITTS creates an OpenAITTS with sensible defaults applied.
func NewOpenAITTS(cfg OpenAITTSConfig, m *metrics.Metrics) *OpenAITTS {
	if cfg.Model == "" {
		cfg.Model = string(openai.TTSModel1)
	}
	if cfg.Voice == "" {
		cfg.Voice = string(openai.VoiceAlloy)
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}

	return &OpenAITTS{
		cfg:     cfg,
		client:  openai.NewClientWithConfig(clientCfg),
		metrics: m,
	}
}

func (o *OpenAITTS) Name() string { return "openai-tts" }

// Synthesize converts text to audio and returns the audio bytes as MP3.
func (o *OpenAITTS) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	voice := o.cfg.Voice
	if openAIVoices[req.Voice] {
		voice = req.Voice
	}

	start := time.Now()
	audio, err := o.speech(ctx, req.Input, voice)
	o.metrics.RecordSynthesis(o.Name(), err, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	return &SynthesisResult{
		Audio:       audio,
		ContentType: ContentTypeMP3,
	}, nil
}

func (o *OpenAITTS) speech(ctx context.Context, input, voice string) ([]byte, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.cfg.Model),
		Input:          input,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          speakingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}
