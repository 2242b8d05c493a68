package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// Token lifetime defaults, used when the settings or the response leave them out.
const (
	DefaultExpiryMargin = 30 * time.Second
	DefaultLifetime     = time.Hour
	defaultHTTPTimeout  = 30 * time.Second
)

// Ensure ClientCredentialsProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ClientCredentialsProvider)(nil)

// ClientCredentialsProvider issues client-credentials tokens with caching.
// The in-memory token is checked first, then the store, then a new token
// is requested and saved.
type ClientCredentialsProvider struct {
	cfg    clientcredentials.Config
	store  driven.TokenStore
	client *http.Client
	now    func() time.Time
	margin time.Duration
	logger *zap.Logger

	mu     sync.RWMutex
	cached domain.Token
}

// Option configures a ClientCredentialsProvider.
type Option func(*ClientCredentialsProvider)

// WithClock injects the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(p *ClientCredentialsProvider) { p.now = now }
}

// WithHTTPClient sets the client used for the token exchange.
func WithHTTPClient(c *http.Client) Option {
	return func(p *ClientCredentialsProvider) { p.client = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *ClientCredentialsProvider) { p.logger = l }
}

// NewClientCredentialsProvider creates a provider for the configured token endpoint.
// store may be nil, in which case tokens only live in memory.
func NewClientCredentialsProvider(settings domain.AuthSettings, store driven.TokenStore, opts ...Option) *ClientCredentialsProvider {
	margin := DefaultExpiryMargin
	if settings.ExpiryMarginSeconds > 0 {
		margin = time.Duration(settings.ExpiryMarginSeconds) * time.Second
	}
	p := &ClientCredentialsProvider{
		cfg: clientcredentials.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			TokenURL:     settings.TokenURL,
			Scopes:       strings.Fields(settings.Scope),
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		store:  store,
		client: &http.Client{Timeout: defaultHTTPTimeout},
		now:    time.Now,
		margin: margin,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetToken returns a valid access token, requesting a new one if necessary.
func (p *ClientCredentialsProvider) GetToken(ctx context.Context) (string, error) {
	tok, err := p.Token(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Token returns the current token with its expiry.
func (p *ClientCredentialsProvider) Token(ctx context.Context) (domain.Token, error) {
	// Fast path: check cache with read lock
	p.mu.RLock()
	if p.cached.ValidAt(p.now()) {
		tok := p.cached
		p.mu.RUnlock()
		return tok, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.cached.ValidAt(now) {
		return p.cached, nil
	}

	if p.store != nil {
		if stored, ok := p.store.Load(ctx); ok && stored.ValidAt(now) {
			p.logger.Debug("using stored token", zap.Time("expires_at", stored.Expiry()))
			p.cached = stored
			return stored, nil
		}
	}

	p.logger.Info("requesting new token", zap.String("token_url", p.cfg.TokenURL))
	tok, err := p.exchange(ctx, now)
	if err != nil {
		return domain.Token{}, err
	}
	p.cached = tok

	if p.store != nil {
		if err := p.store.Save(ctx, tok); err != nil {
			p.logger.Warn("failed to save token cache", zap.Error(err))
		}
	}
	return tok, nil
}

// Invalidate drops the in-memory token so the next call consults the store again.
func (p *ClientCredentialsProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = domain.Token{}
}

func (p *ClientCredentialsProvider) exchange(ctx context.Context, now time.Time) (domain.Token, error) {
	if p.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	}
	resp, err := p.cfg.Token(ctx)
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: %v", domain.ErrTokenRequest, err)
	}
	if resp.AccessToken == "" {
		return domain.Token{}, fmt.Errorf("%w: no access_token in response", domain.ErrTokenRequest)
	}
	return domain.NewToken(resp.AccessToken, now, lifetime(resp), p.margin), nil
}

// lifetime reads expires_in from the raw response, defaulting to one hour.
func lifetime(tok *oauth2.Token) time.Duration {
	var secs float64
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		secs = v
	case int64:
		secs = float64(v)
	case string:
		secs, _ = strconv.ParseFloat(v, 64)
	}
	if secs <= 0 {
		return DefaultLifetime
	}
	return time.Duration(secs * float64(time.Second))
}
