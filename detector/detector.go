// Package detector is the client for the external object-detection engine.
// The engine is opaque to this service: it takes image bytes and returns
// bounding boxes with confidence scores.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/techagentng/roadguard/errors"
)

// ErrUnavailable signals that the engine could not be reached in time. It is
// surfaced as 503, distinct from input validation failures.
var ErrUnavailable = errors.New("detection engine unavailable", http.StatusServiceUnavailable)

// Detection is one raw bounding box from the engine.
type Detection struct {
	Confidence float64 `json:"confidence"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

type Detector interface {
	Detect(ctx context.Context, image []byte) ([]Detection, error)
}

// Client calls the engine over HTTP with a bounded timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an engine endpoint was provided at startup.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

func (c *Client) Detect(ctx context.Context, image []byte) ([]Detection, error) {
	if c.baseURL == "" {
		return nil, ErrUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("building detector request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnavailable
	}

	var payload struct {
		Detections []Detection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding detector response: %w", err)
	}
	return payload.Detections, nil
}
