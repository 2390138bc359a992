package videogen

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"videowizard/internal/domain"
	"videowizard/internal/keygate"
	"videowizard/internal/media"
	"videowizard/internal/providers/genai"
)

type fakeVideoBackend struct {
	submitCalls int
	pollCalls   int
	lastRequest genai.VideoRequest
	submitErr   error
	handle      string
	statuses    []*genai.OperationStatus
	pollErr     error
	onPoll      func(poll int)
}

func (f *fakeVideoBackend) GenerateVideos(ctx context.Context, apiKey string, req genai.VideoRequest) (string, error) {
	f.submitCalls++
	f.lastRequest = req
	if f.submitErr != nil {
		return "", f.submitErr
	}
	if f.handle == "" {
		return "operations/op-1", nil
	}
	return f.handle, nil
}

func (f *fakeVideoBackend) VideoOperation(ctx context.Context, apiKey, name string) (*genai.OperationStatus, error) {
	f.pollCalls++
	if f.onPoll != nil {
		f.onPoll(f.pollCalls)
	}
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	status := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return status, nil
}

type fakeEncoder struct {
	encoded media.EncodedMedia
	err     error
}

func (f fakeEncoder) Encode(ctx context.Context, ref domain.MediaRef) (media.EncodedMedia, error) {
	return f.encoded, f.err
}

func instantSleep(waits *[]time.Duration) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		if waits != nil {
			*waits = append(*waits, d)
		}
		return ctx.Err()
	}
}

func doneStatus(uris ...string) *genai.OperationStatus {
	return &genai.OperationStatus{Name: "operations/op-1", Done: true, VideoURIs: uris}
}

func runningStatus() *genai.OperationStatus {
	return &genai.OperationStatus{Name: "operations/op-1", Done: false}
}

func newOrchestrator(gate keygate.Gate, backend VideoBackend, enc MediaEncoder, waits *[]time.Duration) *Orchestrator {
	return NewOrchestrator(Options{
		Gate:    gate,
		Backend: backend,
		Encoder: enc,
		Sleep:   instantSleep(waits),
	})
}

func TestSubmitCredentialMissingNoBackendCalls(t *testing.T) {
	backend := &fakeVideoBackend{statuses: []*genai.OperationStatus{doneStatus("https://h/v.mp4")}}
	orch := newOrchestrator(keygate.NewStore(""), backend, fakeEncoder{}, nil)
	draft := domain.NewDraft()
	draft.SetScript("a sunset")
	_, err := orch.Submit(context.Background(), draft)
	if !errors.Is(err, domain.ErrCredentialMissing) {
		t.Fatalf("error = %v, want ErrCredentialMissing", err)
	}
	if backend.submitCalls != 0 || backend.pollCalls != 0 {
		t.Fatalf("backend calls = %d/%d, want 0/0", backend.submitCalls, backend.pollCalls)
	}
}

func TestSubmitRejectsEmptyDraft(t *testing.T) {
	backend := &fakeVideoBackend{}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, fakeEncoder{}, nil)
	_, err := orch.Submit(context.Background(), domain.NewDraft())
	if !errors.Is(err, domain.ErrEmptyDraft) {
		t.Fatalf("error = %v, want ErrEmptyDraft", err)
	}
	if backend.submitCalls != 0 {
		t.Fatalf("submit calls = %d, want 0", backend.submitCalls)
	}
}

func TestSubmitMapsSquare4KDraft(t *testing.T) {
	backend := &fakeVideoBackend{statuses: []*genai.OperationStatus{doneStatus("https://host/video.mp4?alt=media")}}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, fakeEncoder{}, nil)

	draft := domain.NewDraft()
	draft.SetScript("a sunset")
	draft.AspectRatio = domain.AspectSquare11
	draft.Resolution = domain.ResolutionUHD4K

	locator, err := orch.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if backend.lastRequest.AspectRatio != "16:9" {
		t.Fatalf("aspect ratio = %q, want 16:9", backend.lastRequest.AspectRatio)
	}
	if backend.lastRequest.Resolution != "1080p" {
		t.Fatalf("resolution = %q, want 1080p", backend.lastRequest.Resolution)
	}
	if !strings.Contains(backend.lastRequest.Prompt, "Cinematic video, Cinematic 3D style. a sunset.") {
		t.Fatalf("prompt = %q", backend.lastRequest.Prompt)
	}
	if locator != "https://host/video.mp4?alt=media&key=ABC" {
		t.Fatalf("locator = %q", locator)
	}
}

func TestSubmitPrefersAssistedScript(t *testing.T) {
	backend := &fakeVideoBackend{statuses: []*genai.OperationStatus{doneStatus("https://h/v.mp4")}}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, fakeEncoder{}, nil)

	draft := domain.NewDraft()
	draft.SetScript("raw")
	draft.SetAssistedScript("polished")
	if _, err := orch.Submit(context.Background(), draft); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !strings.Contains(backend.lastRequest.Prompt, "polished.") {
		t.Fatalf("prompt = %q, want assisted script", backend.lastRequest.Prompt)
	}
}

func TestSubmitIncludesEncodedImage(t *testing.T) {
	backend := &fakeVideoBackend{statuses: []*genai.OperationStatus{doneStatus("https://h/v.mp4")}}
	enc := fakeEncoder{encoded: media.EncodedMedia{Data: "aW1n", MimeType: "image/png"}}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, enc, nil)

	draft := domain.NewDraft()
	draft.SetScript("a sunset")
	draft.ImageRef = &domain.MediaRef{StorageKey: "uploads/img.png", MimeType: "image/png"}
	if _, err := orch.Submit(context.Background(), draft); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	img := backend.lastRequest.Image
	if img == nil || img.Bytes != "aW1n" || img.MimeType != "image/png" {
		t.Fatalf("image = %+v", img)
	}
}

func TestSubmitImageReadFailure(t *testing.T) {
	backend := &fakeVideoBackend{}
	enc := fakeEncoder{err: domain.ErrReadFailed}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, enc, nil)

	draft := domain.NewDraft()
	draft.SetScript("x")
	draft.ImageRef = &domain.MediaRef{StorageKey: "gone"}
	_, err := orch.Submit(context.Background(), draft)
	if !errors.Is(err, domain.ErrReadFailed) {
		t.Fatalf("error = %v, want ErrReadFailed", err)
	}
	if backend.submitCalls != 0 {
		t.Fatalf("submit calls = %d, want 0", backend.submitCalls)
	}
}

func TestSubmitBackendRejection(t *testing.T) {
	backend := &fakeVideoBackend{submitErr: errors.New("quota")}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, fakeEncoder{}, nil)
	draft := domain.NewDraft()
	draft.SetScript("x")
	_, err := orch.Submit(context.Background(), draft)
	if !errors.Is(err, domain.ErrSubmitFailed) {
		t.Fatalf("error = %v, want ErrSubmitFailed", err)
	}
	if backend.pollCalls != 0 {
		t.Fatalf("poll calls = %d, want 0", backend.pollCalls)
	}
}

func TestSubmitPollsUntilTerminal(t *testing.T) {
	var waits []time.Duration
	backend := &fakeVideoBackend{statuses: []*genai.OperationStatus{
		runningStatus(),
		runningStatus(),
		doneStatus("https://h/v.mp4"),
	}}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, fakeEncoder{}, &waits)
	backend.onPoll = func(poll int) {
		if poll > 1 {
			job := orch.Job()
			if job.State != domain.JobPolling {
				t.Errorf("job state during poll %d = %s, want POLLING", poll, job.State)
			}
			if job.ResultLocator != "" {
				t.Errorf("result locator set during poll %d", poll)
			}
		}
	}

	draft := domain.NewDraft()
	draft.SetScript("x")
	if _, err := orch.Submit(context.Background(), draft); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if backend.pollCalls != 3 {
		t.Fatalf("poll calls = %d, want 3", backend.pollCalls)
	}
	if len(waits) != 3 {
		t.Fatalf("sleeps = %d, want one before each poll", len(waits))
	}
	for _, d := range waits {
		if d != defaultPollInterval {
			t.Fatalf("sleep duration = %v, want %v", d, defaultPollInterval)
		}
	}
	job := orch.Job()
	if job.State != domain.JobDone || job.Polls != 3 {
		t.Fatalf("final job = %+v", job)
	}
}

func TestSubmitPollError(t *testing.T) {
	backend := &fakeVideoBackend{pollErr: errors.New("network down")}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, fakeEncoder{}, nil)
	draft := domain.NewDraft()
	draft.SetScript("x")
	_, err := orch.Submit(context.Background(), draft)
	if !errors.Is(err, domain.ErrPollFailed) {
		t.Fatalf("error = %v, want ErrPollFailed", err)
	}
	if job := orch.Job(); job.State != domain.JobFailed {
		t.Fatalf("job state = %s, want FAILED", job.State)
	}
}

func TestSubmitTerminalFailure(t *testing.T) {
	backend := &fakeVideoBackend{statuses: []*genai.OperationStatus{
		{Name: "operations/op-1", Done: true, Err: errors.New("generation rejected")},
	}}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, fakeEncoder{}, nil)
	draft := domain.NewDraft()
	draft.SetScript("x")
	_, err := orch.Submit(context.Background(), draft)
	if !errors.Is(err, domain.ErrPollFailed) {
		t.Fatalf("error = %v, want ErrPollFailed", err)
	}
}

func TestSubmitEmptyAssetList(t *testing.T) {
	backend := &fakeVideoBackend{statuses: []*genai.OperationStatus{doneStatus()}}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, fakeEncoder{}, nil)
	draft := domain.NewDraft()
	draft.SetScript("x")
	_, err := orch.Submit(context.Background(), draft)
	if !errors.Is(err, domain.ErrNoResultLocator) {
		t.Fatalf("error = %v, want ErrNoResultLocator", err)
	}
	if job := orch.Job(); job.State != domain.JobFailed {
		t.Fatalf("job state = %s, want FAILED", job.State)
	}
}

func TestSubmitCancelledDuringPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	backend := &fakeVideoBackend{statuses: []*genai.OperationStatus{runningStatus()}}
	backend.onPoll = func(poll int) {
		if poll == 2 {
			cancel()
		}
	}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, fakeEncoder{}, nil)
	draft := domain.NewDraft()
	draft.SetScript("x")
	_, err := orch.Submit(ctx, draft)
	if !errors.Is(err, domain.ErrPollFailed) {
		t.Fatalf("error = %v, want ErrPollFailed", err)
	}
}

func TestDropJob(t *testing.T) {
	backend := &fakeVideoBackend{statuses: []*genai.OperationStatus{doneStatus("https://h/v.mp4")}}
	orch := newOrchestrator(keygate.NewStore("ABC"), backend, fakeEncoder{}, nil)
	draft := domain.NewDraft()
	draft.SetScript("x")
	if _, err := orch.Submit(context.Background(), draft); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if orch.Job() == nil {
		t.Fatal("expected live job after submit")
	}
	orch.DropJob()
	if orch.Job() != nil {
		t.Fatal("expected no job after drop")
	}
}

func TestAppendKey(t *testing.T) {
	cases := []struct {
		locator string
		key     string
		want    string
	}{
		{"https://host/video.mp4", "ABC", "https://host/video.mp4?key=ABC"},
		{"https://host/video.mp4?alt=media", "ABC", "https://host/video.mp4?alt=media&key=ABC"},
		{"https://host/video.mp4", "a b", "https://host/video.mp4?key=a+b"},
	}
	for _, tc := range cases {
		if got := AppendKey(tc.locator, tc.key); got != tc.want {
			t.Errorf("AppendKey(%q, %q) = %q, want %q", tc.locator, tc.key, got, tc.want)
		}
	}
}

func TestFramePrompt(t *testing.T) {
	got := FramePrompt(domain.StyleWhiteboard, "draw a rocket")
	want := "Cinematic video, Whiteboard style. draw a rocket. High quality, detailed, 4k."
	if got != want {
		t.Fatalf("FramePrompt = %q, want %q", got, want)
	}
}
