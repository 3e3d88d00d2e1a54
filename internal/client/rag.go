package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RAGClient calls the n8n webhook that fronts the naming RAG pipeline
type RAGClient struct {
	webhookURL string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewRAGClient(webhookURL, apiKey string, timeout time.Duration) *RAGClient {
	return &RAGClient{
		webhookURL: webhookURL,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// WithRateLimit throttles outgoing calls to perSecond with the given burst.
// A non-positive rate disables throttling.
func (c *RAGClient) WithRateLimit(perSecond float64, burst int) *RAGClient {
	if perSecond <= 0 {
		c.limiter = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

type chatRequest struct {
	ChatInput string `json:"chatInput"`
}

// StatusError is returned when the webhook answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("RAG webhook returned status %d: %s", e.StatusCode, e.Body)
}

// Invoke performs a single webhook call and returns the decoded JSON body.
// The call is bounded by the client timeout in addition to ctx.
func (c *RAGClient) Invoke(ctx context.Context, query string) (any, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("webhook rate limiter: %w", err)
		}
	}

	reqBody, err := json.Marshal(chatRequest{ChatInput: query})
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode webhook response: %w", err)
	}

	return result, nil
}
