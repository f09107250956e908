package narration

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Asset is one narrated clip ready for presentation. A zero-value
// asset (no audio, zero duration) is the degraded placeholder used
// when synthesis fails.
type Asset struct {
	Voice      string `json:"voice"`
	Audio      string `json:"audio,omitempty"` // base64 WAV
	DurationMs int64  `json:"durationMs"`
}

// Duration returns the clip length
func (a Asset) Duration() time.Duration {
	return time.Duration(a.DurationMs) * time.Millisecond
}

// Client talks to the external text-to-speech service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a narration client
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Fetch synthesizes speech for the given text and voice. The returned
// asset carries the audio and its measured duration.
func (c *Client) Fetch(ctx context.Context, text, voice string) (Asset, error) {
	query := url.Values{}
	query.Set("text", text)
	query.Set("voice", voice)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/synthesize?"+query.Encode(), nil)
	if err != nil {
		return Asset{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Asset{}, fmt.Errorf("narration fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Asset{}, fmt.Errorf("narration fetch: status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return Asset{}, fmt.Errorf("narration read: %w", err)
	}

	duration, err := WavDuration(audio)
	if err != nil {
		return Asset{}, fmt.Errorf("narration decode: %w", err)
	}
	c.logger.Debug("narration fetched", "voice", voice, "bytes", len(audio), "duration", duration)

	return Asset{
		Voice:      voice,
		Audio:      base64.StdEncoding.EncodeToString(audio),
		DurationMs: duration.Milliseconds(),
	}, nil
}
