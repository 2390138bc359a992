package wizard

import (
	"context"
	"errors"
	"sync"

	"videowizard/internal/domain"
	"videowizard/internal/media"
)

// Stage enumerates the linear wizard flow. Movement is strictly one
// stage forward or backward, never skipping.
type Stage string

const (
	StageContent  Stage = "CONTENT"
	StageStyle    Stage = "STYLE"
	StageSettings Stage = "SETTINGS"
	StagePreview  Stage = "PREVIEW"
)

var (
	// ErrNoAudio means transcription was requested without an attached
	// audio reference.
	ErrNoAudio = errors.New("no audio attached")

	// ErrInvalidOption means an unknown enum value was supplied.
	ErrInvalidOption = errors.New("invalid option value")
)

// Assister is the prompt assist surface the content stage uses.
type Assister interface {
	Rewrite(ctx context.Context, text, instruction string) (string, error)
	Transcribe(ctx context.Context, audio media.EncodedMedia) (string, error)
}

// Generator runs a generation to completion for a draft snapshot.
type Generator interface {
	Submit(ctx context.Context, draft domain.GenerationDraft) (string, error)
	Job() *domain.Job
	DropJob()
}

// MediaEncoder encodes a stored media reference for transport.
type MediaEncoder interface {
	Encode(ctx context.Context, ref domain.MediaRef) (media.EncodedMedia, error)
}

// Wizard owns one GenerationDraft and walks it through the four-stage
// flow. Every mutation goes through a named transition method; each
// stage may only touch the fields it owns. The settings-to-preview
// transition happens solely through a successful Generate.
type Wizard struct {
	mu         sync.Mutex
	stage      Stage
	draft      domain.GenerationDraft
	assist     Assister
	generator  Generator
	encoder    MediaEncoder
	videoURL   string
	generating bool
}

// New returns a wizard at the content stage with a default draft.
func New(assist Assister, generator Generator, encoder MediaEncoder) *Wizard {
	return &Wizard{
		stage:     StageContent,
		draft:     domain.NewDraft(),
		assist:    assist,
		generator: generator,
		encoder:   encoder,
	}
}

// Stage returns the current stage.
func (w *Wizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Draft returns a snapshot of the draft.
func (w *Wizard) Draft() domain.GenerationDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// VideoURL returns the playable locator once the flow reached preview.
func (w *Wizard) VideoURL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.videoURL
}

// Generating reports whether a generation is currently in flight.
func (w *Wizard) Generating() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generating
}

// Job returns a snapshot of the session's generation job, if any.
func (w *Wizard) Job() *domain.Job {
	return w.generator.Job()
}

// Next advances one stage. Content and style advance unconditionally;
// settings advances only through Generate, and preview is terminal.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generating {
		return domain.ErrGenerateInFlight
	}
	switch w.stage {
	case StageContent:
		w.stage = StageStyle
	case StageStyle:
		w.stage = StageSettings
	default:
		return domain.ErrWrongStage
	}
	return nil
}

// Back walks one stage backward. It reports true when the flow is
// exited entirely: backing out of content, or leaving preview, which
// also discards the finished job.
func (w *Wizard) Back() (exited bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generating {
		return false, domain.ErrGenerateInFlight
	}
	switch w.stage {
	case StageContent:
		return true, nil
	case StageStyle:
		w.stage = StageContent
	case StageSettings:
		w.stage = StageStyle
	case StagePreview:
		w.generator.DropJob()
		w.videoURL = ""
		return true, nil
	}
	return false, nil
}

// SetScript replaces the draft script. Content stage only. Any prior
// assisted rewrite is cleared by the draft invariant.
func (w *Wizard) SetScript(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStage(StageContent); err != nil {
		return err
	}
	w.draft.SetScript(text)
	return nil
}

// AttachAudio records the uploaded audio reference. Content stage only.
func (w *Wizard) AttachAudio(ref domain.MediaRef) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStage(StageContent); err != nil {
		return err
	}
	w.draft.AudioRef = &ref
	return nil
}

// AttachImage records the uploaded reference image. Content stage only.
func (w *Wizard) AttachImage(ref domain.MediaRef) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStage(StageContent); err != nil {
		return err
	}
	w.draft.ImageRef = &ref
	return nil
}

// Enhance rewrites the raw script per the instruction and stores the
// result as the assisted script. On failure the draft is untouched.
func (w *Wizard) Enhance(ctx context.Context, instruction string) error {
	w.mu.Lock()
	if err := w.requireStage(StageContent); err != nil {
		w.mu.Unlock()
		return err
	}
	script := w.draft.Script
	w.mu.Unlock()

	rewritten, err := w.assist.Rewrite(ctx, script, instruction)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// The script may have been edited while the rewrite was in flight;
	// a rewrite of an outdated script must not land.
	if w.stage != StageContent || w.draft.Script != script {
		return nil
	}
	w.draft.SetAssistedScript(rewritten)
	return nil
}

// Transcribe turns the attached audio into the draft script. The
// transcript goes through SetScript, so it invalidates any assisted
// rewrite the same way a manual edit does.
func (w *Wizard) Transcribe(ctx context.Context) error {
	w.mu.Lock()
	if err := w.requireStage(StageContent); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.draft.AudioRef == nil {
		w.mu.Unlock()
		return ErrNoAudio
	}
	ref := *w.draft.AudioRef
	w.mu.Unlock()

	encoded, err := w.encoder.Encode(ctx, ref)
	if err != nil {
		return err
	}
	transcript, err := w.assist.Transcribe(ctx, encoded)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage != StageContent {
		return nil
	}
	w.draft.SetScript(transcript)
	return nil
}

// SetStyle selects the visual style. Style stage only.
func (w *Wizard) SetStyle(style domain.VideoStyle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStage(StageStyle); err != nil {
		return err
	}
	if !style.Valid() {
		return ErrInvalidOption
	}
	w.draft.Style = style
	return nil
}

// SetAspectRatio selects the output aspect ratio. Settings stage only.
func (w *Wizard) SetAspectRatio(ar domain.AspectRatio) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStage(StageSettings); err != nil {
		return err
	}
	if !ar.Valid() {
		return ErrInvalidOption
	}
	w.draft.AspectRatio = ar
	return nil
}

// SetResolution selects the output resolution tier. Settings stage only.
func (w *Wizard) SetResolution(res domain.Resolution) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStage(StageSettings); err != nil {
		return err
	}
	if !res.Valid() {
		return ErrInvalidOption
	}
	w.draft.Resolution = res
	return nil
}

// Generate submits the draft and, on success, advances to preview. On
// failure the wizard stays at settings with the draft untouched;
// retrying is a fresh Generate. Single flight per session: a second
// call while one runs fails with ErrGenerateInFlight.
func (w *Wizard) Generate(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.stage != StageSettings {
		w.mu.Unlock()
		return "", domain.ErrWrongStage
	}
	if w.generating {
		w.mu.Unlock()
		return "", domain.ErrGenerateInFlight
	}
	if w.draft.Empty() {
		w.mu.Unlock()
		return "", domain.ErrEmptyDraft
	}
	w.generating = true
	snapshot := w.draft
	w.mu.Unlock()

	locator, err := w.generator.Submit(ctx, snapshot)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.generating = false
	if err != nil {
		return "", err
	}
	w.stage = StagePreview
	w.videoURL = locator
	return locator, nil
}

func (w *Wizard) requireStage(stage Stage) error {
	if w.generating {
		return domain.ErrGenerateInFlight
	}
	if w.stage != stage {
		return domain.ErrWrongStage
	}
	return nil
}
