package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"moviemate/internal/config"
	"moviemate/internal/logger"
)

// Token budgets per length hint
var lengthTokens = map[string]int{
	LengthShort:  100,
	LengthMedium: 200,
	LengthLong:   300,
}

// Client calls the review provider's completion endpoint
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a new completion provider client
func NewClient(cfg config.ReviewConfig) *Client {
	if cfg.APIKey == "" {
		logger.Log.Warn().Msg("No review provider API key configured, reviews will use templates")
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type completionRequest struct {
	Prompt        string   `json:"prompt"`
	NumResults    int      `json:"numResults"`
	MaxTokens     int      `json:"maxTokens"`
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"topP"`
	StopSequences []string `json:"stopSequences"`
}

type completionResponse struct {
	Completions []struct {
		Data struct {
			Text string `json:"text"`
		} `json:"data"`
	} `json:"completions"`
}

// Generate requests a completion from the provider and cleans the result
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	maxTokens, ok := lengthTokens[req.Length]
	if !ok {
		maxTokens = lengthTokens[LengthMedium]
	}

	payload := completionRequest{
		Prompt:        buildPrompt(req),
		NumResults:    1,
		MaxTokens:     maxTokens,
		Temperature:   0.7,
		TopP:          1,
		StopSequences: []string{"\n\n", "Review:", "Rating:"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/complete", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(result.Completions) == 0 {
		return "", fmt.Errorf("completion response contained no results")
	}

	logger.Log.Debug().
		Str("title", req.Title).
		Str("length", req.Length).
		Dur("duration", time.Since(start)).
		Msg("Review generated")

	return cleanText(result.Completions[0].Data.Text), nil
}
