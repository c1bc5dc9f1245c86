package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Client calls an external fit prediction service. The service scores a
// résumé/job pair independently of the rule-based match; its result is
// advisory and analysis succeeds without it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Prediction is the service's verdict for one résumé/job pair.
type Prediction struct {
	FitLevel             string  `json:"fit_level"`
	ConfidencePercentage float64 `json:"confidence_percentage"`
}

type predictRequest struct {
	ResumeSummary string `json:"resume_summary"`
	JobSummary    string `json:"job_summary"`
}

// NewClient constructs a predictor client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("PREDICTOR_URL is required")
	}
	timeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("PREDICTOR_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Predict submits the pair summaries and returns the service's prediction.
func (c *Client) Predict(ctx context.Context, resumeSummary, jobSummary string) (*Prediction, error) {
	payload, err := json.Marshal(predictRequest{
		ResumeSummary: resumeSummary,
		JobSummary:    jobSummary,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("predictor request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("predictor http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var prediction Prediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, fmt.Errorf("predictor response parse: %w", err)
	}
	if strings.TrimSpace(prediction.FitLevel) == "" {
		return nil, fmt.Errorf("predictor response missing fit_level")
	}
	if prediction.ConfidencePercentage < 0 || prediction.ConfidencePercentage > 100 {
		return nil, fmt.Errorf("predictor confidence out of range: %v", prediction.ConfidencePercentage)
	}
	return &prediction, nil
}
