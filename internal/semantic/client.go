package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// Client calls an external semantic-similarity endpoint. Any transport
// failure, non-200 status, or unrecognized response shape is an error;
// callers treat those as non-matches.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type similarityRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

type similarityResponse struct {
	Similarity *float64 `json:"similarity"`
}

// Similarity scores two phrases in [0,1].
func (c *Client) Similarity(ctx context.Context, a, b string) (float64, error) {
	body, err := json.Marshal(similarityRequest{TextA: a, TextB: b})
	if err != nil {
		return 0, fmt.Errorf("failed to encode similarity request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create similarity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("similarity request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("similarity service returned status %d", resp.StatusCode)
	}

	var parsed similarityResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("failed to decode similarity response: %w", err)
	}
	if parsed.Similarity == nil {
		return 0, fmt.Errorf("similarity response missing similarity field")
	}
	score := *parsed.Similarity
	if score < 0 || score > 1 {
		return 0, fmt.Errorf("similarity score %v out of range", score)
	}
	return score, nil
}
