package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"videowizard/internal/domain"
	"videowizard/internal/keygate"
	"videowizard/internal/storage"
	"videowizard/internal/wizard"
)

// App is the handler container: it owns the session registry, the
// credential store and the upload store, and spawns a fresh wizard for
// every session through the injected factory.
type App struct {
	Logger    zerolog.Logger
	Sessions  *SessionRegistry
	Keys      *keygate.Store
	Uploads   *storage.FileStore
	NewWizard func() *wizard.Wizard
}

// NewApp constructs the handler container.
func NewApp(logger zerolog.Logger, keys *keygate.Store, uploads *storage.FileStore, newWizard func() *wizard.Wizard) *App {
	return &App{
		Logger:    logger,
		Sessions:  NewSessionRegistry(),
		Keys:      keys,
		Uploads:   uploads,
		NewWizard: newWizard,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// fail translates a pipeline error into the HTTP envelope with a
// localized message. Unrecognized errors become opaque 500s; their
// detail goes to the log, not the client.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("handler failure")
	}
	a.json(w, status, errorResponse{Error: code, Message: localizedMessage(r.Context(), code)})
}

func (a *App) badRequest(w http.ResponseWriter, r *http.Request, code string) {
	a.json(w, http.StatusBadRequest, errorResponse{Error: code, Message: localizedMessage(r.Context(), code)})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, domain.ErrCredentialMissing):
		return http.StatusForbidden, "credential_missing"
	case errors.Is(err, domain.ErrWrongStage):
		return http.StatusConflict, "wrong_stage"
	case errors.Is(err, domain.ErrGenerateInFlight):
		return http.StatusConflict, "generate_in_flight"
	case errors.Is(err, domain.ErrEmptyDraft):
		return http.StatusUnprocessableEntity, "empty_draft"
	case errors.Is(err, domain.ErrReadFailed):
		return http.StatusUnprocessableEntity, "read_failed"
	case errors.Is(err, domain.ErrAssistUnavailable):
		return http.StatusBadGateway, "assist_unavailable"
	case errors.Is(err, domain.ErrNoResultLocator):
		return http.StatusBadGateway, "no_result_locator"
	case errors.Is(err, domain.ErrSubmitFailed):
		return http.StatusBadGateway, "submit_failed"
	case errors.Is(err, domain.ErrPollFailed):
		return http.StatusBadGateway, "poll_failed"
	case errors.Is(err, wizard.ErrNoAudio):
		return http.StatusUnprocessableEntity, "no_audio"
	case errors.Is(err, wizard.ErrInvalidOption):
		return http.StatusBadRequest, "invalid_option"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
