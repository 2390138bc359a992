package assist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"videowizard/internal/domain"
	"videowizard/internal/keygate"
	"videowizard/internal/media"
	"videowizard/internal/providers/genai"
)

type fakeBackend struct {
	calls    int
	lastKey  string
	lastPart []genai.Part
	text     string
	err      error
}

func (f *fakeBackend) GenerateText(ctx context.Context, apiKey string, parts []genai.Part) (string, error) {
	f.calls++
	f.lastKey = apiKey
	f.lastPart = parts
	return f.text, f.err
}

func openGate() keygate.Gate { return keygate.NewStore("k1") }

func closedGate() keygate.Gate { return keygate.NewStore("") }

func TestRewriteReturnsTrimmedCompletion(t *testing.T) {
	backend := &fakeBackend{text: "  punchy version  "}
	svc := NewService(openGate(), backend, zerolog.Nop())
	out, err := svc.Rewrite(context.Background(), "original", "Make it punchy")
	if err != nil {
		t.Fatalf("Rewrite returned error: %v", err)
	}
	if out != "punchy version" {
		t.Fatalf("Rewrite = %q", out)
	}
	if backend.lastKey != "k1" {
		t.Fatalf("api key = %q", backend.lastKey)
	}
	prompt := backend.lastPart[0].Text
	if !strings.Contains(prompt, `"Make it punchy"`) || !strings.Contains(prompt, `"original"`) {
		t.Fatalf("prompt = %q", prompt)
	}
}

func TestRewriteEmptyResultKeepsOriginal(t *testing.T) {
	svc := NewService(openGate(), &fakeBackend{text: "   "}, zerolog.Nop())
	out, err := svc.Rewrite(context.Background(), "keep me", "anything")
	if err != nil {
		t.Fatalf("Rewrite returned error: %v", err)
	}
	if out != "keep me" {
		t.Fatalf("Rewrite = %q, want original preserved", out)
	}
}

func TestRewriteEmptyOriginalStaysEmpty(t *testing.T) {
	svc := NewService(openGate(), &fakeBackend{text: ""}, zerolog.Nop())
	out, err := svc.Rewrite(context.Background(), "", "Make it punchy")
	if err != nil {
		t.Fatalf("Rewrite returned error: %v", err)
	}
	if out != "" {
		t.Fatalf("Rewrite = %q, want empty original unchanged", out)
	}
}

func TestRewriteCredentialMissingNoBackendCall(t *testing.T) {
	backend := &fakeBackend{text: "x"}
	svc := NewService(closedGate(), backend, zerolog.Nop())
	_, err := svc.Rewrite(context.Background(), "a", "b")
	if !errors.Is(err, domain.ErrCredentialMissing) {
		t.Fatalf("error = %v, want ErrCredentialMissing", err)
	}
	if backend.calls != 0 {
		t.Fatalf("backend calls = %d, want 0", backend.calls)
	}
}

func TestRewriteBackendFailure(t *testing.T) {
	svc := NewService(openGate(), &fakeBackend{err: errors.New("boom")}, zerolog.Nop())
	_, err := svc.Rewrite(context.Background(), "a", "b")
	if !errors.Is(err, domain.ErrAssistUnavailable) {
		t.Fatalf("error = %v, want ErrAssistUnavailable", err)
	}
}

func TestTranscribeSendsAudioAndInstruction(t *testing.T) {
	backend := &fakeBackend{text: " the transcript "}
	svc := NewService(openGate(), backend, zerolog.Nop())
	out, err := svc.Transcribe(context.Background(), media.EncodedMedia{Data: "QUJD", MimeType: "audio/wav"})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if out != "the transcript" {
		t.Fatalf("Transcribe = %q", out)
	}
	if len(backend.lastPart) != 2 {
		t.Fatalf("parts = %d, want 2", len(backend.lastPart))
	}
	if backend.lastPart[0].InlineData == nil || backend.lastPart[0].InlineData.MimeType != "audio/wav" {
		t.Fatalf("inline part = %+v", backend.lastPart[0])
	}
	if !strings.Contains(backend.lastPart[1].Text, "Ignore silence") {
		t.Fatalf("instruction = %q", backend.lastPart[1].Text)
	}
}

func TestTranscribeDefaultsNonAudioMime(t *testing.T) {
	backend := &fakeBackend{text: "ok"}
	svc := NewService(openGate(), backend, zerolog.Nop())
	if _, err := svc.Transcribe(context.Background(), media.EncodedMedia{Data: "QUJD", MimeType: "application/octet-stream"}); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if backend.lastPart[0].InlineData.MimeType != "audio/mp3" {
		t.Fatalf("mime = %q, want audio/mp3", backend.lastPart[0].InlineData.MimeType)
	}
}

func TestTranscribeEmptyResultReturnsSentinel(t *testing.T) {
	svc := NewService(openGate(), &fakeBackend{text: "  "}, zerolog.Nop())
	out, err := svc.Transcribe(context.Background(), media.EncodedMedia{Data: "QUJD", MimeType: "audio/mp3"})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if out != TranscriptionInconclusive {
		t.Fatalf("Transcribe = %q, want sentinel", out)
	}
}

func TestTranscribeCredentialMissing(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(closedGate(), backend, zerolog.Nop())
	_, err := svc.Transcribe(context.Background(), media.EncodedMedia{Data: "QUJD"})
	if !errors.Is(err, domain.ErrCredentialMissing) {
		t.Fatalf("error = %v, want ErrCredentialMissing", err)
	}
	if backend.calls != 0 {
		t.Fatalf("backend calls = %d, want 0", backend.calls)
	}
}
