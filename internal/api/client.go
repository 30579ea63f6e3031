// Package api is a typed client for the FinSafe REST API.
//
// Every call takes the caller's context and, for authenticated endpoints,
// the user's bearer token. The client keeps no per-user state.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"finsafe/internal/log"
	"finsafe/internal/metrics"
)

// DefaultBaseURL is the hosted FinSafe API.
const DefaultBaseURL = "https://finsafe-tracker-api.onrender.com/api/"

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Retries is how many times an idempotent GET is retried on 502/503/504.
	Retries int
	Logger  *log.Logger
}

type Client struct {
	http    *resty.Client
	baseURL string
	logger  *log.Logger
}

// New builds a client for cfg. Zero values fall back to the hosted API and a
// 15s timeout.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	if cfg.Retries > 0 {
		cli.SetRetryCount(cfg.Retries).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(3 * time.Second).
			AddRetryCondition(retryGatewayErrors)
	}

	return &Client{
		http:    cli,
		baseURL: baseURL,
		logger:  cfg.Logger.WithComponent(log.ComponentAPI),
	}
}

// The hosted API sleeps when idle and answers with gateway errors while it
// wakes up.
func retryGatewayErrors(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	switch resp.StatusCode() {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// do executes req and decodes a 2xx JSON body into out, when out is non-nil.
func (c *Client) do(op, method, path string, req *resty.Request, out any) error {
	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveAPI(op, 0, elapsed)
		c.logger.WarnContext(req.Context(), "FinSafe API request failed",
			log.FieldOperation, op,
			log.FieldEndpoint, path,
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeNetwork,
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	metrics.ObserveAPI(op, resp.StatusCode(), elapsed)
	c.logger.DebugContext(req.Context(), "FinSafe API request completed",
		log.FieldOperation, op,
		log.FieldEndpoint, path,
		log.FieldStatusCode, resp.StatusCode(),
		log.FieldDuration, elapsed.Milliseconds(),
	)

	if err := mapHTTPError(resp); err != nil {
		return err
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// Ping reports whether the API host answers at all. Any HTTP status counts as
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.http.R().SetContext(ctx).Head("/"); err != nil {
		return fmt.Errorf("ping %s: %w", c.baseURL, err)
	}
	return nil
}
