package videogen

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"videowizard/internal/domain"
	"videowizard/internal/keygate"
	"videowizard/internal/media"
	"videowizard/internal/providers/genai"
)

const defaultPollInterval = 5 * time.Second

// VideoBackend is the slice of the generation backend the orchestrator
// drives: one long-running submit plus status polls on its handle.
type VideoBackend interface {
	GenerateVideos(ctx context.Context, apiKey string, req genai.VideoRequest) (string, error)
	VideoOperation(ctx context.Context, apiKey, name string) (*genai.OperationStatus, error)
}

// MediaEncoder turns a stored media reference into transport-safe form.
type MediaEncoder interface {
	Encode(ctx context.Context, ref domain.MediaRef) (media.EncodedMedia, error)
}

// SleepFunc waits for d or until ctx is cancelled. Injectable so tests
// can run many polls without real elapsed time.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options configures an Orchestrator.
type Options struct {
	Gate         keygate.Gate
	Backend      VideoBackend
	Encoder      MediaEncoder
	PollInterval time.Duration
	Sleep        SleepFunc
	Logger       *zerolog.Logger
}

// Orchestrator runs one generation end to end: it builds the mapped
// request from a draft snapshot, submits it, polls the operation to a
// terminal state at a fixed interval, and post-processes the resulting
// locator. Submit is not safe for concurrent re-entry on the same
// instance; the wizard enforces single flight per session.
type Orchestrator struct {
	gate         keygate.Gate
	backend      VideoBackend
	encoder      MediaEncoder
	pollInterval time.Duration
	sleep        SleepFunc
	logger       zerolog.Logger

	mu  sync.Mutex
	job *domain.Job
}

// NewOrchestrator constructs an Orchestrator with defaults applied.
func NewOrchestrator(opts Options) *Orchestrator {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Orchestrator{
		gate:         opts.Gate,
		backend:      opts.Backend,
		encoder:      opts.Encoder,
		pollInterval: interval,
		sleep:        sleep,
		logger:       logger,
	}
}

// Submit runs the full generation pipeline for the draft and returns
// the playable resource locator. The draft is received by value and
// never mutated. On any failure the whole attempt is aborted; retry is
// a fresh Submit with the same draft.
func (o *Orchestrator) Submit(ctx context.Context, draft domain.GenerationDraft) (string, error) {
	key, err := o.gate.Credential(ctx)
	if err != nil {
		return "", err
	}
	if draft.Empty() {
		return "", domain.ErrEmptyDraft
	}

	req := genai.VideoRequest{
		Prompt:      FramePrompt(draft.Style, draft.EffectivePrompt()),
		AspectRatio: MapAspectRatio(draft.AspectRatio),
		Resolution:  MapResolution(draft.Resolution),
	}
	if draft.ImageRef != nil {
		encoded, err := o.encoder.Encode(ctx, *draft.ImageRef)
		if err != nil {
			return "", err
		}
		req.Image = &genai.InlineImage{Bytes: encoded.Data, MimeType: encoded.MimeType}
	}

	handle, err := o.backend.GenerateVideos(ctx, key, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSubmitFailed, err)
	}

	job := &domain.Job{Handle: handle, State: domain.JobSubmitted, SubmittedAt: time.Now()}
	o.setJob(job)
	o.logger.Info().
		Str("handle", handle).
		Str("aspect_ratio", req.AspectRatio).
		Str("resolution", req.Resolution).
		Msg("videogen: generation submitted")

	o.transition(job, domain.JobPolling)
	for {
		if err := o.sleep(ctx, o.pollInterval); err != nil {
			o.failJob(err)
			return "", fmt.Errorf("%w: %v", domain.ErrPollFailed, err)
		}
		status, err := o.backend.VideoOperation(ctx, key, handle)
		if err != nil {
			o.failJob(err)
			return "", fmt.Errorf("%w: %v", domain.ErrPollFailed, err)
		}
		o.recordPoll(job)
		if !status.Done {
			o.logger.Debug().Str("handle", handle).Int("polls", job.Polls).Msg("videogen: still running")
			continue
		}
		if status.Err != nil {
			o.failJob(status.Err)
			return "", fmt.Errorf("%w: %v", domain.ErrPollFailed, status.Err)
		}
		if len(status.VideoURIs) == 0 {
			o.failJob(domain.ErrNoResultLocator)
			return "", domain.ErrNoResultLocator
		}
		locator := AppendKey(status.VideoURIs[0], key)
		o.finishJob(job, locator)
		o.logger.Info().Str("handle", handle).Int("polls", job.Polls).Msg("videogen: generation done")
		return locator, nil
	}
}

// Job returns a snapshot of the most recent job, or nil when none has
// been submitted since the last Drop.
func (o *Orchestrator) Job() *domain.Job {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.job == nil {
		return nil
	}
	snapshot := *o.job
	return &snapshot
}

// DropJob discards the current job. Called when the wizard leaves the
// preview stage; a finished job is never reused.
func (o *Orchestrator) DropJob() {
	o.mu.Lock()
	o.job = nil
	o.mu.Unlock()
}

func (o *Orchestrator) setJob(job *domain.Job) {
	o.mu.Lock()
	o.job = job
	o.mu.Unlock()
}

func (o *Orchestrator) transition(job *domain.Job, state domain.JobState) {
	o.mu.Lock()
	job.State = state
	o.mu.Unlock()
}

func (o *Orchestrator) recordPoll(job *domain.Job) {
	o.mu.Lock()
	job.Polls++
	o.mu.Unlock()
}

func (o *Orchestrator) finishJob(job *domain.Job, locator string) {
	o.mu.Lock()
	job.State = domain.JobDone
	job.ResultLocator = locator
	o.mu.Unlock()
}

func (o *Orchestrator) failJob(cause error) {
	o.mu.Lock()
	if o.job != nil {
		o.job.State = domain.JobFailed
		o.job.ErrorMessage = cause.Error()
	}
	o.mu.Unlock()
}

// FramePrompt wraps the effective prompt with the fixed cinematic
// framing used for every request. The "4k" suffix is cosmetic prompt
// language and independent of the requested output resolution.
func FramePrompt(style domain.VideoStyle, prompt string) string {
	return fmt.Sprintf("Cinematic video, %s style. %s. High quality, detailed, 4k.", style.DisplayName(), prompt)
}

// AppendKey appends the caller's API key as a query parameter to a
// backend-returned locator. The backend requires the bearer key at
// fetch time and leaves appending it to the holder. Uses ? or & based
// on whether the locator already carries a query string.
func AppendKey(locator, key string) string {
	sep := "?"
	if strings.Contains(locator, "?") {
		sep = "&"
	}
	return locator + sep + "key=" + url.QueryEscape(key)
}
