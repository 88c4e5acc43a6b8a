package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GhazanSubz/fypstudio-api/models"
)

// GenerateTimeout is the client-side abort deadline. It is
// deliberately shorter than the proxy's own upstream timeout so the
// client's abort always fires first.
const GenerateTimeout = 15 * time.Minute

// ErrTimeout is returned when the client gives up. Generation may
// still be processing server-side; the distinct message lets the UI
// say so.
var ErrTimeout = errors.New("request timed out after 15 minutes")

// Client submits generation requests to the proxy endpoint.
type Client struct {
	BaseURL    string
	Token      string // optional Bearer JWT for CLI callers
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Timeout:    GenerateTimeout,
		HTTPClient: &http.Client{},
	}
}

type generatePayload struct {
	Prompt         string `json:"prompt"`
	Genre          string `json:"genre"`
	Iterations     int    `json:"iterations"`
	BackgroundType string `json:"backgroundType"`
	MusicType      string `json:"musicType"`
	VoiceType      string `json:"voiceType"`
	SubtitleColor  string `json:"subtitleColor"`
}

type generateResponse struct {
	Success bool        `json:"success"`
	VideoID interface{} `json:"videoId"` // the proxy may send a string or a number
	URL     string      `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Generate POSTs the assembled request and maps every failure mode to
// a single human-readable error.
func (c *Client) Generate(ctx context.Context, prompt string, settings models.VideoSettings) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	body, err := json.Marshal(generatePayload{
		Prompt:         prompt,
		Genre:          settings.Genre,
		Iterations:     settings.Iterations,
		BackgroundType: settings.BackgroundVideo,
		MusicType:      settings.BackgroundMusic,
		VoiceType:      settings.VoiceType,
		SubtitleColor:  settings.SubtitleColor,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/generate-video", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return nil, errors.New(errResp.Error)
		}
		return nil, errors.New("failed to generate video")
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	// A 200 with no URL is still a failure, never trust a malformed
	// backend response.
	if !out.Success || out.URL == "" {
		return nil, errors.New("video generation failed: no url returned")
	}

	return &Result{URL: out.URL, VideoID: formatVideoID(out.VideoID)}, nil
}

func formatVideoID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}
