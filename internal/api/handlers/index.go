package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

// Voice is an entry in the landing page's voice picker.
type Voice struct {
	Name  string
	Label string
}

// DefaultVoices are the voices offered on the landing page.
var DefaultVoices = []Voice{
	{Name: "en-US-Studio-M", Label: "US English, male (Studio)"},
	{Name: "en-US-Studio-O", Label: "US English, female (Studio)"},
	{Name: "en-GB-Neural2-B", Label: "British English, male"},
	{Name: "en-GB-Neural2-A", Label: "British English, female"},
	{Name: "en-AU-Neural2-B", Label: "Australian English, male"},
	{Name: "en-IN-Neural2-A", Label: "Indian English, female"},
}

type IndexHandler struct {
	tmpl   *template.Template
	data   indexData
	logger *slog.Logger
}

type indexData struct {
	Voices       []Voice
	DefaultVoice string
}

// NewIndexHandler parses templates/index.html from fsys. The default voice is
// added to the picker when it is not already listed.
func NewIndexHandler(fsys fs.FS, voices []Voice, defaultVoice string, logger *slog.Logger) (*IndexHandler, error) {
	tmpl, err := template.ParseFS(fsys, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	listed := false
	for _, v := range voices {
		if v.Name == defaultVoice {
			listed = true
			break
		}
	}
	if !listed {
		voices = append([]Voice{{Name: defaultVoice, Label: defaultVoice}}, voices...)
	}

	return &IndexHandler{
		tmpl:   tmpl,
		data:   indexData{Voices: voices, DefaultVoice: defaultVoice},
		logger: logger,
	}, nil
}

func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, h.data); err != nil {
		h.logger.ErrorContext(r.Context(), "render index", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
