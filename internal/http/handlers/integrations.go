package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

type apiKeyRequest struct {
	APIKey string `json:"api_key"`
}

// GeminiKeyPut sets or replaces the generation API key, opening the
// capability gate for subsequent operations.
func (a *App) GeminiKeyPut(w http.ResponseWriter, r *http.Request) {
	var req apiKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.badRequest(w, r, "bad_request")
		return
	}
	if err := a.Keys.SetAPIKey(req.APIKey); err != nil {
		a.badRequest(w, r, "bad_request")
		return
	}
	a.Logger.Info().Msg("gemini api key configured")
	a.json(w, http.StatusOK, map[string]bool{"configured": true})
}

// GeminiKeyDelete clears the stored key, closing the gate.
func (a *App) GeminiKeyDelete(w http.ResponseWriter, r *http.Request) {
	a.Keys.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// GeminiStatus reports whether a key is currently configured. Clients
// use this to decide whether to prompt for key selection before a
// generation attempt.
func (a *App) GeminiStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]bool{
		"configured": a.Keys.HasCredential(context.Background()),
	})
}
