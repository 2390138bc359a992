package handlers

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"videowizard/internal/domain"
	"videowizard/internal/wizard"
)

// Session binds a wizard instance to an id. Sessions live in memory
// only and die with the process.
type Session struct {
	ID     string
	Wizard *wizard.Wizard
}

// SessionRegistry is the in-memory session table.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Add registers a new session under a fresh id.
func (r *SessionRegistry) Add(w *wizard.Wizard) *Session {
	s := &Session{ID: uuid.NewString(), Wizard: w}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get looks a session up by id.
func (r *SessionRegistry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

// Remove drops a session. Unknown ids are ignored.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

type draftView struct {
	Script         string `json:"script"`
	AssistedScript string `json:"assisted_script"`
	HasAudio       bool   `json:"has_audio"`
	HasImage       bool   `json:"has_image"`
	Style          string `json:"style"`
	AspectRatio    string `json:"aspect_ratio"`
	Resolution     string `json:"resolution"`
}

type jobView struct {
	State string `json:"state"`
	Polls int    `json:"polls"`
}

type sessionResponse struct {
	ID         string    `json:"id"`
	Stage      string    `json:"stage"`
	Generating bool      `json:"generating"`
	Draft      draftView `json:"draft"`
	VideoURL   string    `json:"video_url,omitempty"`
	Job        *jobView  `json:"job,omitempty"`
}

func sessionView(s *Session) sessionResponse {
	draft := s.Wizard.Draft()
	resp := sessionResponse{
		ID:         s.ID,
		Stage:      string(s.Wizard.Stage()),
		Generating: s.Wizard.Generating(),
		Draft: draftView{
			Script:         draft.Script,
			AssistedScript: draft.AssistedScript,
			HasAudio:       draft.AudioRef != nil,
			HasImage:       draft.ImageRef != nil,
			Style:          string(draft.Style),
			AspectRatio:    string(draft.AspectRatio),
			Resolution:     string(draft.Resolution),
		},
		VideoURL: s.Wizard.VideoURL(),
	}
	if job := s.Wizard.Job(); job != nil {
		resp.Job = &jobView{State: string(job.State), Polls: job.Polls}
	}
	return resp
}

func (a *App) session(r *http.Request) (*Session, error) {
	return a.Sessions.Get(chi.URLParam(r, "session_id"))
}

// SessionsCreate starts a new wizard flow.
func (a *App) SessionsCreate(w http.ResponseWriter, r *http.Request) {
	s := a.Sessions.Add(a.NewWizard())
	a.Logger.Info().Str("session_id", s.ID).Msg("wizard session created")
	a.json(w, http.StatusCreated, sessionView(s))
}

// SessionsGet returns the current wizard state.
func (a *App) SessionsGet(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sessionView(s))
}

// SessionsDelete discards a session.
func (a *App) SessionsDelete(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Sessions.Remove(s.ID)
	w.WriteHeader(http.StatusNoContent)
}

// SessionsNext advances the wizard one stage.
func (a *App) SessionsNext(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := s.Wizard.Next(); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sessionView(s))
}

type backResponse struct {
	Exited  bool             `json:"exited"`
	Session *sessionResponse `json:"session,omitempty"`
}

// SessionsBack walks one stage backward. Backing out of the first
// stage, or out of preview, exits the flow and removes the session.
func (a *App) SessionsBack(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	exited, err := s.Wizard.Back()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if exited {
		a.Sessions.Remove(s.ID)
		a.json(w, http.StatusOK, backResponse{Exited: true})
		return
	}
	view := sessionView(s)
	a.json(w, http.StatusOK, backResponse{Exited: false, Session: &view})
}
