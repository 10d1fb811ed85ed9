// Package relay turns a recorded clip into a transcript and re-synthesized
// speech: receive, transcribe, synthesize, respond.
package relay

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikhilbhutani/voicerelay/internal/multimodal/stt"
	"github.com/nikhilbhutani/voicerelay/internal/multimodal/tts"
)

// ErrNoSpeech means transcription succeeded but produced no text.
var ErrNoSpeech = errors.New("could not understand audio")

type Step string

const (
	StepTranscribe Step = "transcribe"
	StepSynthesize Step = "synthesize"
)

// StepError is a failure of one of the cloud calls.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

type Result struct {
	Transcript string
	Audio      []byte
	Voice      string
}

// AudioBase64 returns the synthesized audio as standard base64 text.
func (r *Result) AudioBase64() string {
	return base64.StdEncoding.EncodeToString(r.Audio)
}

type Service struct {
	stt          stt.Provider
	tts          tts.Provider
	defaultVoice string
	logger       *slog.Logger
}

func NewService(sttProvider stt.Provider, ttsProvider tts.Provider, defaultVoice string, logger *slog.Logger) *Service {
	if defaultVoice == "" {
		defaultVoice = tts.DefaultVoice
	}
	return &Service{
		stt:          sttProvider,
		tts:          ttsProvider,
		defaultVoice: defaultVoice,
		logger:       logger,
	}
}

func (s *Service) DefaultVoice() string { return s.defaultVoice }

// Process transcribes audio and speaks the transcript back in voice. An empty
// voice selects the default. Errors are ErrNoSpeech or *StepError.
func (s *Service) Process(ctx context.Context, audio []byte, voice string) (*Result, error) {
	transcript, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		return nil, &StepError{Step: StepTranscribe, Err: err}
	}
	s.logger.InfoContext(ctx, "transcribed audio",
		"provider", s.stt.Name(), "audio_bytes", len(audio), "transcript", transcript)

	if transcript == "" {
		return nil, ErrNoSpeech
	}

	if voice == "" {
		voice = s.defaultVoice
	}

	res, err := s.tts.Synthesize(ctx, tts.SynthesisRequest{Input: transcript, Voice: voice})
	if err != nil {
		return nil, &StepError{Step: StepSynthesize, Err: err}
	}
	s.logger.InfoContext(ctx, "synthesized speech",
		"provider", s.tts.Name(), "voice", voice, "audio_bytes", len(res.Audio))

	return &Result{
		Transcript: transcript,
		Audio:      res.Audio,
		Voice:      voice,
	}, nil
}
