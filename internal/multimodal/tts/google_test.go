package tts

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynthesizer struct {
	audio    []byte
	err      error
	requests []*texttospeechpb.SynthesizeSpeechRequest
}

func (f *fakeSynthesizer) SynthesizeSpeech(_ context.Context, req *texttospeechpb.SynthesizeSpeechRequest, _ ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &texttospeechpb.SynthesizeSpeechResponse{AudioContent: f.audio}, nil
}

func (f *fakeSynthesizer) Close() error { return nil }

func newTestGoogleTTS(fake *fakeSynthesizer) *GoogleTTS {
	g := NewGoogleTTS(GoogleTTSConfig{}, nil)
	g.newClient = func(context.Context) (synthesizer, error) { return fake, nil }
	return g
}

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		voice string
		want  string
	}{
		{"en-GB-Neural2-B", "en-GB"},
		{"en-US-Studio-M", "en-US"},
		{"cmn-CN-Wavenet-A", "cmn-CN"},
		{"en-AU", "en-AU"},
		{"en", "en"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.voice, func(t *testing.T) {
			assert.Equal(t, tt.want, LanguageCode(tt.voice))
		})
	}
}

func TestGoogleTTSSynthesize(t *testing.T) {
	fake := &fakeSynthesizer{audio: []byte{0x01, 0x02}}
	g := newTestGoogleTTS(fake)

	res, err := g.Synthesize(context.Background(), SynthesisRequest{Input: "hello world", Voice: "en-GB-Neural2-B"})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x01, 0x02}, res.Audio)
	assert.Equal(t, "audio/mpeg", res.ContentType)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "hello world", req.GetInput().GetText())
	assert.Equal(t, "en-GB", req.GetVoice().GetLanguageCode())
	assert.Equal(t, "en-GB-Neural2-B", req.GetVoice().GetName())
	assert.Equal(t, texttospeechpb.AudioEncoding_MP3, req.GetAudioConfig().GetAudioEncoding())
	assert.InDelta(t, 0.9, req.GetAudioConfig().GetSpeakingRate(), 1e-9)
	assert.InDelta(t, 1.0, req.GetAudioConfig().GetVolumeGainDb(), 1e-9)
}

func TestGoogleTTSDefaultVoice(t *testing.T) {
	fake := &fakeSynthesizer{audio: []byte("mp3")}
	g := newTestGoogleTTS(fake)

	_, err := g.Synthesize(context.Background(), SynthesisRequest{Input: "hi"})
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "en-US-Studio-M", fake.requests[0].GetVoice().GetName())
	assert.Equal(t, "en-US", fake.requests[0].GetVoice().GetLanguageCode())
}

func TestGoogleTTSFailureIsNotRetried(t *testing.T) {
	fake := &fakeSynthesizer{err: errors.New("voice not found")}
	g := newTestGoogleTTS(fake)

	_, err := g.Synthesize(context.Background(), SynthesisRequest{Input: "hi", Voice: "xx-YY-Bogus"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "voice not found")
	assert.Len(t, fake.requests, 1)
}

func TestGoogleTTSClientCreationFailure(t *testing.T) {
	g := NewGoogleTTS(GoogleTTSConfig{}, nil)
	g.newClient = func(context.Context) (synthesizer, error) {
		return nil, errors.New("no default credentials")
	}

	_, err := g.Synthesize(context.Background(), SynthesisRequest{Input: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create tts client")
	assert.NoError(t, g.Close())
}
