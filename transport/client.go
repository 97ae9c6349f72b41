package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/hupe1980/datatable/cache"
	"github.com/hupe1980/datatable/codec"
	"github.com/hupe1980/datatable/wrapper"
)

const (
	headerRequestID = "X-Request-ID"

	defaultCacheSize = 10
)

// Client posts command envelopes to a backend endpoint.
//
// A Client is safe for concurrent use.
type Client struct {
	endpoint string
	hc       *http.Client
	codec    codec.Codec
	cache    *cache.LRU[string, *Response]
	group    singleflight.Group
	limiter  *rate.Limiter
	before   func(*http.Request) error
	after    func(*Response) error
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithCodec sets the codec used to encode envelopes. Defaults to
// codec.Default.
func WithCodec(cd codec.Codec) ClientOption {
	return func(c *Client) {
		if cd != nil {
			c.codec = cd
		}
	}
}

// WithCacheSize bounds the response cache used by PostCached.
func WithCacheSize(n int) ClientOption {
	return func(c *Client) {
		c.cache = cache.NewLRU[string, *Response](n)
	}
}

// WithRateLimit throttles outgoing requests.
func WithRateLimit(limit rate.Limit, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithBeforeHook installs an interceptor run on every outgoing request
// before it is sent (auth headers, tracing, ...). Returning an error aborts
// the call.
func WithBeforeHook(fn func(*http.Request) error) ClientOption {
	return func(c *Client) {
		c.before = fn
	}
}

// WithAfterHook installs an interceptor run on every response before it is
// returned to the caller.
func WithAfterHook(fn func(*Response) error) ClientOption {
	return func(c *Client) {
		c.after = fn
	}
}

// WithLogger configures structured logging. Defaults to slog.Default.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client posting to the given endpoint URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		hc:       http.DefaultClient,
		codec:    codec.Default,
		cache:    cache.NewLRU[string, *Response](defaultCacheSize),
		logger:   slog.Default(),
	}
	for _, fn := range opts {
		fn(c)
	}
	return c
}

// Post sends one command envelope and returns the backend reply. data may
// be nil for commands without a payload.
func (c *Client) Post(ctx context.Context, cmd string, data *wrapper.DataWrapper) (*Response, error) {
	body, err := c.encodeEnvelope(cmd, data)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, cmd, body)
}

// PostCached is Post with response caching: replies are held in the LRU
// keyed by the full envelope, and concurrent identical requests are
// collapsed into a single backend call.
func (c *Client) PostCached(ctx context.Context, cmd string, data *wrapper.DataWrapper) (*Response, error) {
	body, err := c.encodeEnvelope(cmd, data)
	if err != nil {
		return nil, err
	}
	key := string(body)

	if resp, ok := c.cache.Get(key); ok {
		c.logger.Debug("response cache hit", "cmd", cmd)
		return resp, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		resp, err := c.send(ctx, cmd, body)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, resp)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Response), nil
}

// InvalidateCache drops every cached response. Call this when a backend
// notification signals that served data changed.
func (c *Client) InvalidateCache() {
	c.cache.Purge()
}

// InvalidateCmd drops cached responses for one command.
func (c *Client) InvalidateCmd(cmd string) {
	prefix := fmt.Sprintf(`{"cmd":%q`, cmd)
	c.cache.Invalidate(func(key string) bool {
		return len(key) >= len(prefix) && key[:len(prefix)] == prefix
	})
}

func (c *Client) encodeEnvelope(cmd string, data *wrapper.DataWrapper) ([]byte, error) {
	if cmd == "" {
		return nil, fmt.Errorf("transport: cmd must be a non-empty string")
	}
	env := Envelope{Cmd: cmd}
	if data != nil {
		b, err := data.Serialize()
		if err != nil {
			return nil, fmt.Errorf("transport: serialize payload: %w", err)
		}
		env.Data = b
	}
	return c.codec.Marshal(env)
}

func (c *Client) send(ctx context.Context, cmd string, body []byte) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerRequestID, requestID)

	if c.before != nil {
		if err := c.before(req); err != nil {
			return nil, fmt.Errorf("transport: before hook: %w", err)
		}
	}

	c.logger.Debug("sending request", "cmd", cmd, "request_id", requestID)
	httpResp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Error("request failed", "cmd", cmd, "request_id", requestID, "error", err)
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		RequestID:  requestID,
		Body:       respBody,
	}
	if c.after != nil {
		if err := c.after(resp); err != nil {
			return nil, fmt.Errorf("transport: after hook: %w", err)
		}
	}
	c.logger.Debug("request completed", "cmd", cmd, "request_id", requestID, "status", resp.StatusCode)
	return resp, nil
}
