package driven

import (
	"context"
	"time"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// APIRequest is one call to the order API.
type APIRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
	Retry   domain.RetryPolicy
	// RateLimit caps requests per second to the URL's host. Zero disables it.
	RateLimit float64
}

// OrderAPI sends requests to the order API.
type OrderAPI interface {
	// Send performs the request, retrying non-2xx responses and transport
	// errors per req.Retry. It returns the final attempt's response.
	// The error is non-nil when the final attempt did not succeed.
	Send(ctx context.Context, req APIRequest) (domain.APIResponse, error)
}
