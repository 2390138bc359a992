package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"videowizard/internal/domain"
)

const maxUploadBytes = 32 << 20

type scriptRequest struct {
	Text string `json:"text"`
}

// ContentScript replaces the draft script (content stage).
func (a *App) ContentScript(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req scriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.badRequest(w, r, "bad_request")
		return
	}
	if err := s.Wizard.SetScript(req.Text); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sessionView(s))
}

// ContentAudio uploads a narration audio file and attaches it to the
// draft. At most one audio reference: re-upload replaces.
func (a *App) ContentAudio(w http.ResponseWriter, r *http.Request) {
	a.uploadMedia(w, r, "audio", func(s *Session, ref domain.MediaRef) error {
		return s.Wizard.AttachAudio(ref)
	})
}

// ContentImage uploads a reference image used as the video's first
// frame and attaches it to the draft.
func (a *App) ContentImage(w http.ResponseWriter, r *http.Request) {
	a.uploadMedia(w, r, "image", func(s *Session, ref domain.MediaRef) error {
		return s.Wizard.AttachImage(ref)
	})
}

func (a *App) uploadMedia(w http.ResponseWriter, r *http.Request, kind string, attach func(*Session, domain.MediaRef) error) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.badRequest(w, r, "bad_request")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.badRequest(w, r, "missing_file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		a.fail(w, r, fmt.Errorf("%w: %v", domain.ErrReadFailed, err))
		return
	}
	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	ext := strings.ToLower(path.Ext(header.Filename))
	key := fmt.Sprintf("sessions/%s/%s-%s%s", s.ID, kind, uuid.NewString(), ext)
	storedKey, err := a.Uploads.Write(r.Context(), key, data)
	if err != nil {
		a.fail(w, r, fmt.Errorf("%w: %v", domain.ErrReadFailed, err))
		return
	}
	if err := attach(s, domain.MediaRef{StorageKey: storedKey, MimeType: mime}); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Debug().Str("session_id", s.ID).Str("key", storedKey).Str("mime", mime).Msg("media attached")
	a.json(w, http.StatusOK, sessionView(s))
}

type enhanceRequest struct {
	Instruction string `json:"instruction"`
}

// ContentEnhance rewrites the script per the instruction. The caller
// guard from the original flow is preserved: an empty script makes
// enhancement a no-op rather than a backend call.
func (a *App) ContentEnhance(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Instruction) == "" {
		a.badRequest(w, r, "bad_request")
		return
	}
	if s.Wizard.Draft().Script == "" {
		a.json(w, http.StatusOK, sessionView(s))
		return
	}
	if err := s.Wizard.Enhance(r.Context(), req.Instruction); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sessionView(s))
}

// ContentTranscribe turns the attached audio into the draft script.
func (a *App) ContentTranscribe(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := s.Wizard.Transcribe(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sessionView(s))
}
