package tts

import (
	"context"
	"strings"
)

// DefaultVoice is used when a request does not name a voice.
const DefaultVoice = "en-US-Studio-M"

// ContentTypeMP3 is the only output format the backends produce.
const ContentTypeMP3 = "audio/mpeg"

// SynthesisRequest holds the parameters for text-to-speech generation.
type SynthesisRequest struct {
	Input string `json:"input"`
	Voice string `json:"voice,omitempty"`
}

// SynthesisResult holds the generated audio and its content type.
type SynthesisResult struct {
	Audio       []byte
	ContentType string
}

// Provider is the interface for text-to-speech backends.
type Provider interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
	Name() string
}

// LanguageCode derives the language-region code embedded in a voice name:
// "en-GB-Neural2-B" yields "en-GB". Names with fewer than two components are
// returned unchanged.
func LanguageCode(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) < 2 {
		return voice
	}
	return parts[0] + "-" + parts[1]
}
