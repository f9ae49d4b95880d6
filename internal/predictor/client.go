// Package predictor implements the client of the remote prediction API.
// It submits validated surveys, reads the service health and model
// metadata, and maps failures to typed errors.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/edgard/studentpredictor/internal/config"
	"github.com/edgard/studentpredictor/internal/logger"
	"github.com/edgard/studentpredictor/internal/survey"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client defines the prediction API operations used throughout the application.
type Client interface {
	// Predict submits one survey and returns the classification.
	Predict(ctx context.Context, sub *survey.Submission) (*Prediction, error)

	// Health reports whether the API has its model loaded. An unhealthy
	// API that still answers with a health body is not an error.
	Health(ctx context.Context) (*HealthStatus, error)

	// ModelInfo returns metadata about the deployed model.
	ModelInfo(ctx context.Context) (*ModelInfo, error)
}

type httpClient struct {
	http *http.Client
	cfg  config.APIConfig
	log  *slog.Logger
}

// NewClient creates a prediction API client with a dedicated http.Client
// whose timeout is cfg.Timeout.
func NewClient(cfg config.APIConfig, log *slog.Logger) Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout}, log)
}

// NewClientWithHTTP creates a client that sends requests through hc.
func NewClientWithHTTP(cfg config.APIConfig, hc *http.Client, log *slog.Logger) Client {
	if log == nil {
		log = logger.Discard()
	}
	return &httpClient{
		http: hc,
		cfg:  cfg,
		log:  log.With("component", "predictor_client", "base_url", cfg.BaseURL),
	}
}

func (c *httpClient) Predict(ctx context.Context, sub *survey.Submission) (*Prediction, error) {
	if sub == nil {
		return nil, errors.New("cannot submit nil survey")
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode survey: %w", err)
	}

	startTime := time.Now()
	status, respBody, err := c.do(ctx, http.MethodPost, c.cfg.PredictURL(), body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		apiErr := decodeAPIError(status, respBody)
		c.log.WarnContext(ctx, "Prediction request rejected",
			"status", status, "error", apiErr.Message, "detail", apiErr.Detail)
		return nil, apiErr
	}

	var pred Prediction
	if err := json.Unmarshal(respBody, &pred); err != nil {
		c.log.ErrorContext(ctx, "Failed to decode prediction", "error", err, "body", logger.Preview(respBody))
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if pred.Class == "" {
		return nil, fmt.Errorf("%w: response has no prediction", ErrInvalidResponse)
	}

	c.log.InfoContext(ctx, "Prediction received",
		"class", pred.Class,
		"confidence", pred.Confidence,
		"duration", time.Since(startTime))
	return &pred, nil
}

func (c *httpClient) Health(ctx context.Context) (*HealthStatus, error) {
	status, respBody, err := c.do(ctx, http.MethodGet, c.cfg.HealthURL(), nil)
	if err != nil {
		return nil, err
	}

	var health HealthStatus
	if err := json.Unmarshal(respBody, &health); err != nil || health.Status == "" {
		if status < 200 || status > 299 {
			return nil, decodeAPIError(status, respBody)
		}
		return nil, fmt.Errorf("%w: health body: %s", ErrInvalidResponse, logger.Preview(respBody))
	}
	return &health, nil
}

func (c *httpClient) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	status, respBody, err := c.do(ctx, http.MethodGet, c.cfg.ModelInfoURL(), nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, decodeAPIError(status, respBody)
	}

	var info ModelInfo
	if err := json.Unmarshal(respBody, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &info, nil
}

// do sends one request and reads the whole (bounded) response body.
// Transport failures are wrapped in ErrUnavailable.
func (c *httpClient) do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "Prediction API request failed", "method", method, "url", url, "error", err)
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	return resp.StatusCode, respBody, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Message = eb.Error
		apiErr.Detail = eb.Detail
		if apiErr.Detail == "" {
			apiErr.Detail = eb.Message
		}
	}
	return apiErr
}
