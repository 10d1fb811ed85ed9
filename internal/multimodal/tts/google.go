package tts

import (
	"context"
	"fmt"
	"sync"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/nikhilbhutani/voicerelay/internal/metrics"
)

const (
	// Slower than natural speech for clarity.
	speakingRate = 0.9
	volumeGainDB = 1.0
)

type synthesizer interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

// GoogleTTSConfig holds configuration for the Google Cloud Text-to-Speech backend.
type GoogleTTSConfig struct {
	ClientOptions []option.ClientOption
}

// GoogleTTS synthesizes MP3 speech with Google Cloud Text-to-Speech.
type GoogleTTS struct {
	cfg     GoogleTTSConfig
	metrics *metrics.Metrics

	newClient func(ctx context.Context) (synthesizer, error)

	mu     sync.Mutex
	client synthesizer
}

func NewGoogleTTS(cfg GoogleTTSConfig, m *metrics.Metrics) *GoogleTTS {
	g := &GoogleTTS{cfg: cfg, metrics: m}
	g.newClient = func(ctx context.Context) (synthesizer, error) {
		return texttospeech.NewClient(ctx, cfg.ClientOptions...)
	}
	return g
}

func (g *GoogleTTS) Name() string { return "google-tts" }

// BuildRequest maps a synthesis request onto the Cloud TTS wire request.
func BuildRequest(req SynthesisRequest) *texttospeechpb.SynthesizeSpeechRequest {
	voice := req.Voice
	if voice == "" {
		voice = DefaultVoice
	}
	return &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Input},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: LanguageCode(voice),
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  speakingRate,
			VolumeGainDb:  volumeGainDB,
		},
	}
}

// Synthesize makes a single call; failures are returned without retry.
func (g *GoogleTTS) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	client, err := g.synthesizer(ctx)
	if err != nil {
		return nil, fmt.Errorf("create tts client: %w", err)
	}

	start := time.Now()
	resp, err := client.SynthesizeSpeech(ctx, BuildRequest(req))
	g.metrics.RecordSynthesis(g.Name(), err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	return &SynthesisResult{
		Audio:       resp.GetAudioContent(),
		ContentType: ContentTypeMP3,
	}, nil
}

func (g *GoogleTTS) synthesizer(ctx context.Context) (synthesizer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	c, err := g.newClient(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	g.client = c
	return c, nil
}

func (g *GoogleTTS) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}
