package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"videowizard/internal/domain"
)

// EncodedMedia is a transport-safe rendition of a binary upload,
// ready for inclusion in a backend payload.
type EncodedMedia struct {
	Data     string // standard base64
	MimeType string
}

// BlobReader reads stored upload bytes by key.
type BlobReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// Encoder turns stored media references into EncodedMedia. Encoding is
// idempotent and side-effect free beyond the read.
type Encoder struct {
	blobs BlobReader
}

// NewEncoder constructs an Encoder over the given blob source.
func NewEncoder(blobs BlobReader) *Encoder {
	return &Encoder{blobs: blobs}
}

// Encode reads the referenced upload fully and base64-encodes it. The
// recorded mime type wins; when absent the content is sniffed. Fails
// with domain.ErrReadFailed wrapping the underlying read error.
func (e *Encoder) Encode(ctx context.Context, ref domain.MediaRef) (EncodedMedia, error) {
	data, err := e.blobs.Read(ctx, ref.StorageKey)
	if err != nil {
		return EncodedMedia{}, fmt.Errorf("%w: %s: %v", domain.ErrReadFailed, ref.StorageKey, err)
	}
	mime := strings.TrimSpace(ref.MimeType)
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return EncodedMedia{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mime,
	}, nil
}
