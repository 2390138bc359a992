package domain

import "errors"

var (
	// ErrCredentialMissing means no generation API key is currently
	// configured. Recoverable: set a key and retry the operation.
	ErrCredentialMissing = errors.New("credential missing")

	// ErrReadFailed means a local media read failed; the file must be
	// re-uploaded.
	ErrReadFailed = errors.New("media read failed")

	// ErrAssistUnavailable means a rewrite/transcription backend call
	// failed. Non-fatal: the draft text is left untouched.
	ErrAssistUnavailable = errors.New("assist unavailable")

	// ErrSubmitFailed means the generation request was rejected before
	// or at submission. The draft is preserved; retry is a fresh submit.
	ErrSubmitFailed = errors.New("video submit failed")

	// ErrPollFailed means a status poll errored after a successful
	// submission. Same recovery as ErrSubmitFailed.
	ErrPollFailed = errors.New("video poll failed")

	// ErrNoResultLocator means the backend reported terminal success
	// without a playable asset. Surfaced distinctly so it is not
	// mistaken for a quota or validation failure.
	ErrNoResultLocator = errors.New("no result locator in response")

	// ErrEmptyDraft means generation was requested for a draft with no
	// script, audio or image.
	ErrEmptyDraft = errors.New("draft has no content")

	// ErrWrongStage means a mutation was attempted from a wizard stage
	// that does not own the targeted field.
	ErrWrongStage = errors.New("operation not allowed at this stage")

	// ErrGenerateInFlight means a second generate was attempted while
	// one is already running for the session.
	ErrGenerateInFlight = errors.New("generation already in flight")

	// ErrSessionNotFound means the wizard session id is unknown.
	ErrSessionNotFound = errors.New("session not found")
)
