// Package detect is the HTTP client for the remote defect-detection API.
//
// The detection model itself (crack and moisture localization) runs behind a
// separate inference service; this package only speaks its wire contract:
// a multipart image upload answered with a JSON detection list in the fixed
// 512-unit coordinate space. Transient failures are retried with exponential
// backoff.
package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/fabricwatch/defect-viewer/internal/defect"
)

// Field name the inference service expects the image under.
const imageField = "image"

// Client calls the remote detection API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     golog.Logger

	// Retry tuning. Defaults follow the inference service's recommended
	// policy: up to 3 attempts with 2s..20s exponential backoff.
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewClient returns a client for the detection API rooted at baseURL.
// The timeout bounds each individual attempt, not the whole retry budget.
func NewClient(baseURL string, timeout time.Duration, logger golog.Logger) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{Timeout: timeout},
		logger:          logger,
		maxRetries:      2,
		initialInterval: 2 * time.Second,
		maxInterval:     20 * time.Second,
	}
}

// apiResponse is the detection endpoint's JSON envelope.
type apiResponse struct {
	Success    bool               `json:"success"`
	Error      string             `json:"error,omitempty"`
	Detections []defect.Detection `json:"detections"`
}

// Detect posts the image to the detection endpoint and returns the findings.
// Bounding boxes in the result are in the fixed 512-unit normalized space.
//
// Network errors and 5xx responses are retried with exponential backoff;
// 4xx responses and explicit {success:false} answers are not.
func (c *Client) Detect(ctx context.Context, imageData []byte) ([]defect.Detection, error) {
	var detections []defect.Detection

	attempt := 0
	operation := func() error {
		attempt++
		if attempt > 1 {
			c.logger.Debugw("retrying detection request", "attempt", attempt)
		}

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile(imageField, "image.jpg")
		if err != nil {
			return backoff.Permanent(errors.Wrap(err, "create form file"))
		}
		if _, err := io.Copy(part, bytes.NewReader(imageData)); err != nil {
			return backoff.Permanent(errors.Wrap(err, "copy image data"))
		}
		if err := writer.Close(); err != nil {
			return backoff.Permanent(errors.Wrap(err, "close multipart writer"))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", body)
		if err != nil {
			return backoff.Permanent(errors.Wrap(err, "create request"))
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.Wrap(err, "send request")
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return errors.Errorf("detection service returned status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(errors.Errorf("detection failed with status %d", resp.StatusCode))
		}

		var parsed apiResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return errors.Wrap(err, "decode response")
		}
		if !parsed.Success {
			return backoff.Permanent(errors.Errorf("detection rejected: %s", parsed.Error))
		}

		detections = parsed.Detections
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	policy.MaxInterval = c.maxInterval

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return detections, nil
}

// CheckHealth probes the detection service's health endpoint.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "reach detection service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("detection service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
