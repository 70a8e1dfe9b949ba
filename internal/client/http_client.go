package client

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusError reports a non-success upstream response. The body is carried
// verbatim for diagnostics; callers should not parse it.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// HTTPClient performs JSON requests against the upstream provider. It is the
// only piece of the client layer that touches the network: it serializes the
// request body, applies the shared rate limit and deadline, and deserializes
// the response into a typed value. It never retries.
type HTTPClient interface {
	PostJSON(ctx context.Context, url string, body interface{}, out interface{}) error
	GetJSON(ctx context.Context, url string, out interface{}) error
}

// httpClientImpl is the fasthttp-backed implementation shared by all Alchemy
// clients of one credential set.
type httpClientImpl struct {
	client  *fasthttp.Client
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewHTTPClient creates a transport with the given default per-request
// timeout. limiter may be nil to disable client-side rate limiting.
func NewHTTPClient(timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) HTTPClient {
	return &httpClientImpl{
		client:  &fasthttp.Client{},
		timeout: timeout,
		limiter: limiter,
		logger:  logger.Named("HTTPClient"),
	}
}

// PostJSON implements the HTTPClient interface.
func (c *httpClientImpl) PostJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body for %s: %w", url, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("accept", "application/json")
	req.SetBody(payload)

	return c.execute(ctx, req, url, out)
}

// GetJSON implements the HTTPClient interface.
func (c *httpClientImpl) GetJSON(ctx context.Context, url string, out interface{}) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	return c.execute(ctx, req, url, out)
}

func (c *httpClientImpl) execute(ctx context.Context, req *fasthttp.Request, url string, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait for %s: %w", url, err)
		}
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request", zap.String("url", url), zap.Error(err))
			return fmt.Errorf("failed to execute request to %s: %w", url, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request (with default timeout)", zap.String("url", url), zap.Error(err))
			return fmt.Errorf("failed to execute request to %s with default timeout: %w", url, err)
		}
	}

	rawBody := resp.Body()

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Upstream request failed",
			zap.String("url", url),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return &StatusError{StatusCode: resp.StatusCode(), URL: url, Body: string(rawBody)}
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		c.logger.Error("Failed to unmarshal upstream response",
			zap.String("url", url),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return fmt.Errorf("failed to unmarshal response from %s: %w", url, err)
	}
	return nil
}
