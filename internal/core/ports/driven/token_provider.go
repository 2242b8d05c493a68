package driven

import (
	"context"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// TokenProvider provides bearer tokens for order API calls.
// Implementations cache the token and refresh it transparently.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// Returns an error wrapping domain.ErrTokenRequest when the exchange fails.
	GetToken(ctx context.Context) (string, error)
}

// TokenStore persists the cached token between runs.
type TokenStore interface {
	// Load returns the stored token. A missing or unreadable entry is a miss, not an error.
	Load(ctx context.Context) (domain.Token, bool)

	// Save replaces the stored token.
	Save(ctx context.Context, token domain.Token) error
}
