package orderapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.OrderAPI = (*Client)(nil)

// Client sends order API requests.
type Client struct {
	http   *http.Client
	tokens driven.TokenProvider
	logger *zap.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient creates a client that authenticates with tokens.
// A nil httpClient uses a client without a global timeout; each request
// carries its own deadline.
func NewClient(httpClient *http.Client, tokens driven.TokenProvider, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:     httpClient,
		tokens:   tokens,
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Send performs req, retrying transport errors and non-2xx responses with a
// fixed delay until req.Retry.Attempts() tries are used. A token failure is
// returned immediately.
func (c *Client) Send(ctx context.Context, req driven.APIRequest) (domain.APIResponse, error) {
	if req.URL == "" {
		return domain.APIResponse{}, fmt.Errorf("%w: no api url", domain.ErrMissingConfig)
	}
	limiter := c.limiter(req.URL, req.RateLimit)
	attempts := 0
	var last domain.APIResponse

	op := func() (domain.APIResponse, error) {
		attempts++
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return last, backoff.Permanent(err)
			}
		}
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return last, backoff.Permanent(err)
		}

		resp, err := c.do(ctx, req, token)
		resp.Attempts = attempts
		last = resp
		log := c.logger.With(
			zap.String("method", req.Method),
			zap.String("url", req.URL),
			zap.Int("attempt", attempts),
			zap.Int("status", resp.StatusCode),
		)
		if err != nil {
			log.Warn("api request failed", zap.Error(err))
			return resp, fmt.Errorf("%w: %v", domain.ErrAPIRequest, err)
		}
		if !resp.OK() {
			log.Warn("api request rejected")
			return resp, fmt.Errorf("%w: status %d", domain.ErrAPIRequest, resp.StatusCode)
		}
		log.Debug("api request accepted")
		return resp, nil
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(req.Retry.Delay())),
		backoff.WithMaxTries(uint(req.Retry.Attempts())),
		backoff.WithMaxElapsedTime(0),
	)
	last.Attempts = attempts
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return last, fmt.Errorf("api request interrupted after %d attempts: %w", attempts, ctxErr)
		}
		if !errors.Is(err, domain.ErrAPIRequest) && !errors.Is(err, domain.ErrTokenRequest) {
			err = fmt.Errorf("%w: %v", domain.ErrAPIRequest, err)
		}
	}
	return last, err
}

// do performs one attempt. Transport errors yield status 0 with the error text as body.
func (c *Client) do(ctx context.Context, req driven.APIRequest, token string) (domain.APIResponse, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return domain.APIResponse{Body: err.Error()}, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.APIResponse{Body: err.Error()}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	out := domain.APIResponse{StatusCode: resp.StatusCode, Body: string(data)}
	if err != nil {
		return out, fmt.Errorf("read response body: %w", err)
	}
	return out, nil
}

// limiter returns the shared limiter for the URL's host, or nil when pacing is off.
func (c *Client) limiter(rawURL string, perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(perSecond), 1)
		c.limiters[host] = l
	}
	return l
}
