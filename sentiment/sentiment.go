// Package sentiment is the client for the external comment-sentiment
// classifier.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Classifier interface {
	Predict(ctx context.Context, text string) (string, error)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Predict labels a comment. Callers treat any error as "no label yet"; the
// review list lazily retries unlabeled rows.
func (c *Client) Predict(ctx context.Context, text string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("sentiment classifier not configured")
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sentiment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sentiment classifier returned status %d", resp.StatusCode)
	}

	var payload struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Label, nil
}

var _ Classifier = (*Client)(nil)
