package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"videowizard/internal/domain"
	"videowizard/internal/keygate"
	"videowizard/internal/media"
	"videowizard/internal/providers/genai"
)

// TranscriptionInconclusive is returned when the backend produces no
// transcript. Never an empty string: a blank transcript would silently
// wipe the user's script.
const TranscriptionInconclusive = "Could not transcribe audio."

const transcribeInstruction = "Transcribe the spoken audio into a clear, concise text script for a video. Ignore silence and background noise."

// TextBackend is the slice of the generation backend the assist
// service needs: one-shot text completions.
type TextBackend interface {
	GenerateText(ctx context.Context, apiKey string, parts []genai.Part) (string, error)
}

// Service provides the two AI assist operations of the content stage:
// instruction-conditioned script rewriting and audio transcription.
// Both are stateless, single-shot, and gate-checked per call.
type Service struct {
	gate    keygate.Gate
	backend TextBackend
	logger  zerolog.Logger
}

// NewService constructs an assist Service.
func NewService(gate keygate.Gate, backend TextBackend, logger zerolog.Logger) *Service {
	return &Service{gate: gate, backend: backend, logger: logger}
}

// Rewrite asks the backend to rewrite text per the instruction and
// returns the trimmed completion. Rewriting is best effort: an empty
// backend result returns the original text unchanged rather than
// failing, so a rewrite can never destroy existing content. Backend
// failures wrap domain.ErrAssistUnavailable.
func (s *Service) Rewrite(ctx context.Context, text, instruction string) (string, error) {
	key, err := s.gate.Credential(ctx)
	if err != nil {
		return "", err
	}
	prompt := buildRewritePrompt(text, instruction)
	out, err := s.backend.GenerateText(ctx, key, []genai.Part{{Text: prompt}})
	if err != nil {
		return "", fmt.Errorf("%w: rewrite: %v", domain.ErrAssistUnavailable, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		s.logger.Debug().Msg("assist: empty rewrite result, keeping original text")
		return text, nil
	}
	return out, nil
}

// Transcribe sends the encoded audio with a fixed instruction and
// returns the transcript. An empty backend result yields the
// TranscriptionInconclusive sentinel. Backend failures wrap
// domain.ErrAssistUnavailable.
func (s *Service) Transcribe(ctx context.Context, audio media.EncodedMedia) (string, error) {
	key, err := s.gate.Credential(ctx)
	if err != nil {
		return "", err
	}
	mime := audio.MimeType
	if !strings.Contains(mime, "audio") {
		mime = "audio/mp3"
	}
	parts := []genai.Part{
		{InlineData: &genai.InlineData{MimeType: mime, Data: audio.Data}},
		{Text: transcribeInstruction},
	}
	out, err := s.backend.GenerateText(ctx, key, parts)
	if err != nil {
		return "", fmt.Errorf("%w: transcribe: %v", domain.ErrAssistUnavailable, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return TranscriptionInconclusive, nil
	}
	return out, nil
}

func buildRewritePrompt(text, instruction string) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You are a professional video script writer. Rewrite the following text based on this instruction: %q.\n\n", instruction)
	sb.WriteString("Keep the output concise, vivid, and optimized for a video generation AI model. Return ONLY the rewritten text.\n\n")
	fmt.Fprintf(sb, "Original Text: %q", text)
	return sb.String()
}
