package trainingdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
)

var ErrNoSource = errors.New("training data URL is not configured")

// Client fetches labelled rows as a JSON array of {height, weight, label}.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Fetch(ctx context.Context) ([]domain.Sample, error) {
	if c.url == "" {
		return nil, ErrNoSource
	}
	log := logger.FromContext(ctx).With("component", "TrainingDataClient", "url", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Fetching training data")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch training data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("training data source returned status %d: %s", resp.StatusCode, string(body))
	}

	var samples []domain.Sample
	if err := json.NewDecoder(resp.Body).Decode(&samples); err != nil {
		return nil, fmt.Errorf("decode training data: %w", err)
	}
	log.Info("Fetched training data", "samples", len(samples))
	return samples, nil
}
