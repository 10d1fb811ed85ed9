package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nikhilbhutani/voicerelay/internal/relay"
)

const (
	audioField = "audio_data"
	voiceField = "voice_name"
)

// AudioProcessor is satisfied by *relay.Service.
type AudioProcessor interface {
	Process(ctx context.Context, audio []byte, voice string) (*relay.Result, error)
}

type AudioHandler struct {
	relay          AudioProcessor
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewAudioHandler(p AudioProcessor, maxUploadBytes int64, logger *slog.Logger) *AudioHandler {
	return &AudioHandler{relay: p, maxUploadBytes: maxUploadBytes, logger: logger}
}

type processAudioResponse struct {
	Transcript   string `json:"transcript"`
	AudioContent string `json:"audio_content"`
}

// ProcessAudio transcribes the uploaded clip and returns the transcript with
// base64 MP3 speech of it.
func (h *AudioHandler) ProcessAudio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.WarnContext(ctx, "audio upload too large", "limit_bytes", tooLarge.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": fmt.Sprintf("Audio upload exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		h.logger.WarnContext(ctx, "no audio data in request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No audio data provided"})
		return
	}

	file, _, err := r.FormFile(audioField)
	if err != nil {
		h.logger.WarnContext(ctx, "no audio data in request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No audio data provided"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read audio upload", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Could not read audio data"})
		return
	}

	result, err := h.relay.Process(ctx, audio, r.FormValue(voiceField))
	if err != nil {
		h.writeProcessError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, processAudioResponse{
		Transcript:   result.Transcript,
		AudioContent: result.AudioBase64(),
	})
}

func (h *AudioHandler) writeProcessError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, relay.ErrNoSpeech) {
		h.logger.InfoContext(ctx, "audio produced an empty transcript")
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":      "Could not understand audio",
			"transcript": "",
		})
		return
	}

	var stepErr *relay.StepError
	if !errors.As(err, &stepErr) {
		h.logger.ErrorContext(ctx, "audio processing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	switch stepErr.Step {
	case relay.StepTranscribe:
		h.logger.ErrorContext(ctx, "speech recognition failed", "error", stepErr.Err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Speech recognition failed: " + stepErr.Err.Error(),
		})
	default:
		h.logger.ErrorContext(ctx, "speech synthesis failed", "error", stepErr.Err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Speech synthesis failed: " + stepErr.Err.Error(),
		})
	}
}
