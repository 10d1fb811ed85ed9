package stt

import (
	"context"
	"fmt"
)

// Provider is the interface for speech-to-text backends. Transcribe returns
// the recognized text, which may be empty when nothing intelligible was heard.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
	Name() string
}

// Attempt names one of the two recognition configurations.
type Attempt string

const (
	AttemptPrimary  Attempt = "primary"
	AttemptFallback Attempt = "fallback"
)

// Error reports that both the primary and the fallback recognition calls
// failed. It unwraps to the fallback failure.
type Error struct {
	Primary  error
	Fallback error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (primary attempt: %v)", e.Fallback, e.Primary)
}

func (e *Error) Unwrap() error { return e.Fallback }
