package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client talks to the external story archive service. The archive owns
// the canonical story index and the permanent record of finished
// stories.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	maxRetries uint64
	logger     *slog.Logger
}

// NewClient creates an archive client
func NewClient(baseURL string, retryDelay time.Duration, maxRetries uint64, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retryDelay: retryDelay,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// SubmitRequest is the archive's POST body for a completed story
type SubmitRequest struct {
	Index     int64  `json:"index"`
	Title     string `json:"title"`
	StartedAt int64  `json:"startedAt"`
	Payload   string `json:"payload"`
}

// CurrentIndex fetches the archive's current story index, retrying on
// failure per the client's retry policy. The engine rejects all
// submissions until this succeeds.
func (c *Client) CurrentIndex(ctx context.Context) (int64, error) {
	var index int64
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stories/index", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("story index fetch failed", "error", err)
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("story index fetch: status %d", resp.StatusCode)
			c.logger.Warn("story index fetch refused", "status", resp.StatusCode)
			return err
		}
		var body struct {
			Index int64 `json:"index"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode story index: %w", err)
		}
		index = body.Index
		return nil
	}

	if err := backoff.Retry(operation, c.backOff(ctx)); err != nil {
		return 0, err
	}
	return index, nil
}

// SubmitStory posts a completed story, retrying until the archive
// acknowledges or the retry cap (if any) is exhausted. The payload is
// idempotent per story index, so repeats are safe.
func (c *Client) SubmitStory(ctx context.Context, submission SubmitRequest) error {
	body, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stories", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("story submission failed", "index", submission.Index, "error", err)
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := fmt.Errorf("story submission: status %d", resp.StatusCode)
			c.logger.Warn("story submission refused", "index", submission.Index, "status", resp.StatusCode)
			return err
		}
		return nil
	}

	return backoff.Retry(operation, c.backOff(ctx))
}

// backOff builds the retry policy: constant delay, optionally capped,
// cancelled with the context.
func (c *Client) backOff(ctx context.Context) backoff.BackOffContext {
	var policy backoff.BackOff = backoff.NewConstantBackOff(c.retryDelay)
	if c.maxRetries > 0 {
		policy = backoff.WithMaxRetries(policy, c.maxRetries)
	}
	return backoff.WithContext(policy, ctx)
}
