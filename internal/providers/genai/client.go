package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultTextModel  = "gemini-2.5-flash"
	defaultVideoModel = "veo-3.1-fast-generate-preview"
)

// Options controls how the Gemini client is configured. The API key is
// deliberately absent: it is supplied per call, because the credential
// is externally owned and may be replaced between operations.
type Options struct {
	BaseURL    string
	TextModel  string
	VideoModel string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client is a lightweight facade over the Gemini REST surface: text
// completions (used for script rewriting and audio transcription) and
// the long-running video generation operation pair.
type Client struct {
	baseURL    string
	textModel  string
	videoModel string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Part is one element of a generateContent request: either plain text
// or inline binary data such as encoded audio.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded media with its mime type.
type InlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// InlineImage is the optional reference image of a video request.
type InlineImage struct {
	Bytes    string `json:"bytes"`
	MimeType string `json:"mimeType"`
}

// VideoRequest is the fully mapped generation request: the prompt text
// plus backend-native ratio and resolution values.
type VideoRequest struct {
	Prompt      string
	Image       *InlineImage
	AspectRatio string // "16:9" | "9:16"
	Resolution  string // "720p" | "1080p"
}

// OperationStatus is the polled state of a video generation operation.
type OperationStatus struct {
	Name      string
	Done      bool
	VideoURIs []string
	Err       error
}

type geminiContent struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type generateVideosRequest struct {
	Prompt string             `json:"prompt"`
	Image  *InlineImage       `json:"image,omitempty"`
	Config generateVideoConfig `json:"config"`
}

type generateVideoConfig struct {
	NumberOfVideos int    `json:"numberOfVideos"`
	Resolution     string `json:"resolution"`
	AspectRatio    string `json:"aspectRatio"`
}

type operationResponse struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error,omitempty"`
	Response *struct {
		GeneratedVideos []struct {
			Video struct {
				URI string `json:"uri"`
			} `json:"video"`
		} `json:"generatedVideos"`
	} `json:"response,omitempty"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a generous timeout is
// created since video submits can be slow to acknowledge.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = defaultTextModel
	}
	videoModel := strings.TrimSpace(opts.VideoModel)
	if videoModel == "" {
		videoModel = defaultVideoModel
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		baseURL:    baseURL,
		textModel:  textModel,
		videoModel: videoModel,
		httpClient: httpClient,
		logger:     logger,
	}
}

// TextModel returns the configured text model identifier.
func (c *Client) TextModel() string { return c.textModel }

// VideoModel returns the configured video model identifier.
func (c *Client) VideoModel() string { return c.videoModel }

// GenerateText requests a single text completion for the given parts
// and returns the first non-empty candidate text. An empty string with
// a nil error means the backend answered but produced no text; callers
// own the fallback semantics for that case.
func (c *Client) GenerateText(ctx context.Context, apiKey string, parts []Part) (string, error) {
	payload := generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
	}
	var response generateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.textModel))
	if err := c.invoke(ctx, http.MethodPost, path, apiKey, payload, &response); err != nil {
		return "", err
	}
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text, nil
			}
		}
	}
	return "", nil
}

// GenerateVideos submits one video generation request and returns the
// opaque operation name used as the job handle for polling.
func (c *Client) GenerateVideos(ctx context.Context, apiKey string, req VideoRequest) (string, error) {
	payload := generateVideosRequest{
		Prompt: req.Prompt,
		Image:  req.Image,
		Config: generateVideoConfig{
			NumberOfVideos: 1,
			Resolution:     req.Resolution,
			AspectRatio:    req.AspectRatio,
		},
	}
	var response operationResponse
	path := fmt.Sprintf("/models/%s:generateVideos", url.PathEscape(c.videoModel))
	if err := c.invoke(ctx, http.MethodPost, path, apiKey, payload, &response); err != nil {
		return "", err
	}
	if strings.TrimSpace(response.Name) == "" {
		return "", fmt.Errorf("generateVideos: no operation name in response")
	}
	c.logger.Debug().
		Str("model", c.videoModel).
		Str("operation", response.Name).
		Msg("genai: video generation submitted")
	return response.Name, nil
}

// VideoOperation fetches the current status of a generation operation.
// A terminal backend failure is reported in the returned status, not as
// a call error, so callers can distinguish transport problems from job
// failure.
func (c *Client) VideoOperation(ctx context.Context, apiKey, name string) (*OperationStatus, error) {
	var response operationResponse
	path := "/" + strings.TrimLeft(name, "/")
	if err := c.invoke(ctx, http.MethodGet, path, apiKey, nil, &response); err != nil {
		return nil, err
	}
	status := &OperationStatus{Name: response.Name, Done: response.Done}
	if response.Error != nil {
		status.Err = fmt.Errorf("operation failed (code %d): %s", response.Error.Code, response.Error.Message)
	}
	if response.Response != nil {
		for _, gv := range response.Response.GeneratedVideos {
			if gv.Video.URI != "" {
				status.VideoURIs = append(status.VideoURIs, gv.Video.URI)
			}
		}
	}
	return status, nil
}

func (c *Client) invoke(ctx context.Context, method, path, apiKey string, payload, out any) error {
	endpoint := c.baseURL + path
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		q := req.URL.Query()
		q.Set("key", apiKey)
		req.URL.RawQuery = q.Encode()
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}
