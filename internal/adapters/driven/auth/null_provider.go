package auth

import (
	"context"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// Ensure NullTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullTokenProvider)(nil)

// NullTokenProvider is used when no token endpoint is configured.
// Requests are then sent without an Authorization header.
type NullTokenProvider struct{}

// NewNullTokenProvider creates a token provider for unauthenticated APIs.
func NewNullTokenProvider() *NullTokenProvider {
	return &NullTokenProvider{}
}

// GetToken returns an empty string since no authentication is needed.
func (p *NullTokenProvider) GetToken(_ context.Context) (string, error) {
	return "", nil
}

// Token returns the zero token.
func (p *NullTokenProvider) Token(_ context.Context) (domain.Token, error) {
	return domain.Token{}, nil
}
