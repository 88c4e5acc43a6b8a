package generation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// The proxy waits far longer on the inference service than the wizard
// client waits on the proxy, so a slow render always surfaces as a
// clean client-side timeout first.
const inferenceTimeout = 30 * time.Minute

var (
	ErrUpstreamTimeout     = errors.New("video generation service timed out")
	ErrUpstreamUnreachable = errors.New("failed to connect to video generation service")
	ErrNoVideoData         = errors.New("no video data returned from backend")
)

// InferenceRequest is the JSON body forwarded to the inference
// service, field-for-field as received from the wizard.
type InferenceRequest struct {
	Prompt         string `json:"prompt"`
	Genre          string `json:"genre"`
	Iterations     int    `json:"iterations"`
	BackgroundType string `json:"backgroundType"`
	MusicType      string `json:"musicType"`
	VoiceType      string `json:"voiceType"`
	SubtitleColor  string `json:"subtitleColor"`
}

// InferenceClient renders a video from a request and returns the raw
// MP4 bytes.
type InferenceClient interface {
	Generate(ctx context.Context, req InferenceRequest) ([]byte, error)
}

type inferenceResponse struct {
	VideoData string `json:"video_data"`
}

// HTTPInferenceClient talks to the remote inference service over
// plain HTTP with a long timeout.
type HTTPInferenceClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewInferenceClient() *HTTPInferenceClient {
	baseURL := os.Getenv("BACKEND_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	return &HTTPInferenceClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: inferenceTimeout},
	}
}

func (c *HTTPInferenceClient) Generate(ctx context.Context, req InferenceRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/generate-content/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: backend returned status %d: %s", ErrUpstreamUnreachable, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoVideoData, err)
	}
	if out.VideoData == "" {
		return nil, ErrNoVideoData
	}

	// The backend sometimes includes a data-URL prefix
	cleaned := strings.TrimPrefix(out.VideoData, "data:video/mp4;base64,")
	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrNoVideoData, err)
	}
	return data, nil
}
