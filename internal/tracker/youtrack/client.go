package youtrack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"gitlab-youtrack-automation/pkg/retry"
)

const maxErrorBody = 4 << 10

// Client is the HTTP wrapper for the YouTrack REST API. Requests carry the
// permanent token as a bearer token, are throttled and retried on 429 and 5xx.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      retry.Config
}

// NewClient creates a new YouTrack HTTP client.
func NewClient(cfg Config) *Client {
	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}),
		Base:   http.DefaultTransport,
	}

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}

	return &Client{
		baseURL:    cfg.URL,
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		retry: retry.Config{
			Attempts: cfg.RetryAttempts,
			Delay:    cfg.RetryDelay,
			MaxDelay: 10 * cfg.RetryDelay,
		},
	}
}

// get decodes the JSON answer of GET path?query into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post sends body as JSON and decodes the answer into out when out is not nil.
func (c *Client) post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	_, err := retry.Do(ctx, c.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.once(ctx, method, path, endpoint, payload, out)
	})
	return err
}

func (c *Client) once(ctx context.Context, method, path, endpoint string, payload []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return retry.Permanent(err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return retry.Permanent(fmt.Errorf("failed to build %s %s request: %w", method, path, err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return retry.Permanent(err)
		}
		return fmt.Errorf("failed to call youtrack %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(raw)}
		if apiErr.Temporary() {
			return apiErr
		}
		return retry.Permanent(apiErr)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return retry.Permanent(fmt.Errorf("failed to decode youtrack %s %s response: %w", method, path, err))
	}
	return nil
}
