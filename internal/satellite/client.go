package satellite

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lakmal/heveatrack/internal/metrics"
)

// Client fetches health analyses from a remote feed endpoint. Transient
// failures (rate limiting, 5xx) are retried with exponential backoff; client
// errors abort immediately.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) AnalyzeBlock(blockID int64) (*Reading, error) {
	url := fmt.Sprintf("%s/v1/analysis?blockId=%d&apiKey=%s", c.baseURL, blockID, c.apiKey)

	var body []byte
	operation := func() error {
		resp, err := c.client.Get(url)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("fetch analysis: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			metrics.FeedCallsTotal.WithLabelValues("analysis", "retry").Inc()
			return fmt.Errorf("feed unavailable: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			metrics.FeedCallsTotal.WithLabelValues("analysis", "error").Inc()
			return backoff.Permanent(fmt.Errorf("fetch analysis: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}

	var reading Reading
	if err := json.Unmarshal(body, &reading); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	reading.BlockID = blockID
	if reading.Date.IsZero() {
		reading.Date = time.Now().UTC()
	}

	metrics.FeedCallsTotal.WithLabelValues("analysis", "ok").Inc()
	return &reading, nil
}
