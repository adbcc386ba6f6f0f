// Package twitter provides a client for the Twitter API v2 recent search endpoint.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ClientOption allows for customization of the client
type ClientOption func(*TwitterClient)

type TwitterClient struct {
	config  *TwitterConfig
	auth    *Authenticator
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewTwitterClient creates a new Twitter API client
func NewTwitterClient(config *TwitterConfig, opts ...ClientOption) (*TwitterClient, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	auth, err := NewAuthenticator(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	window := time.Duration(config.RateWindow) * time.Minute
	r := rate.Every(window / time.Duration(config.RateLimit))

	client := &TwitterClient{
		config:  config,
		auth:    auth,
		limiter: rate.NewLimiter(r, 1),
		logger:  config.Logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// handleResponse checks for API errors in the response
func (c *TwitterClient) handleResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var errResp struct {
		Errors []struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return fmt.Errorf("twitter api error: status=%d body=%s", statusCode, string(body))
	}

	if len(errResp.Errors) > 0 {
		c.logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"error_code":  errResp.Errors[0].Code,
			"message":     errResp.Errors[0].Message,
		}).Error("Twitter API error")
		return fmt.Errorf("twitter api error: code=%d message=%s",
			errResp.Errors[0].Code, errResp.Errors[0].Message)
	}

	return fmt.Errorf("twitter api error: status=%d", statusCode)
}

// makeRequest performs one API call and returns the fully buffered response
// body. The body must be read before this returns: when the caller's context
// has no deadline a request-scoped timeout is attached here, and its cancel
// fires on return.
func (c *TwitterClient) makeRequest(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	fullURL := c.config.BaseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	c.auth.SetAuthHeader(req)

	resp, err := c.auth.GetClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if err := c.handleResponse(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}
