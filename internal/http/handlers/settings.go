package handlers

import (
	"encoding/json"
	"net/http"

	"videowizard/internal/domain"
)

type styleRequest struct {
	Style string `json:"style"`
}

// StylePut selects the visual style (style stage).
func (a *App) StylePut(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req styleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.badRequest(w, r, "bad_request")
		return
	}
	if err := s.Wizard.SetStyle(domain.VideoStyle(req.Style)); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sessionView(s))
}

type settingsRequest struct {
	AspectRatio string `json:"aspect_ratio"`
	Resolution  string `json:"resolution"`
}

// SettingsPut selects aspect ratio and/or resolution (settings stage).
func (a *App) SettingsPut(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.badRequest(w, r, "bad_request")
		return
	}
	if req.AspectRatio != "" {
		if err := s.Wizard.SetAspectRatio(domain.AspectRatio(req.AspectRatio)); err != nil {
			a.fail(w, r, err)
			return
		}
	}
	if req.Resolution != "" {
		if err := s.Wizard.SetResolution(domain.Resolution(req.Resolution)); err != nil {
			a.fail(w, r, err)
			return
		}
	}
	a.json(w, http.StatusOK, sessionView(s))
}

type generateResponse struct {
	VideoURL string          `json:"video_url"`
	Session  sessionResponse `json:"session"`
}

// Generate submits the draft and blocks until the backend job reaches
// a terminal state. On success the wizard is at preview; on failure it
// stays at settings with the draft intact and the error is surfaced.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	locator, err := s.Wizard.Generate(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("session_id", s.ID).Msg("video generated")
	a.json(w, http.StatusOK, generateResponse{VideoURL: locator, Session: sessionView(s)})
}
