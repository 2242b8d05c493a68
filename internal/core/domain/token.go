package domain

import (
	"math"
	"time"
)

// Token is a cached client-credentials access token.
// ExpiresAt is in Unix seconds and already has the safety margin subtracted.
type Token struct {
	AccessToken string  `json:"access_token"`
	ExpiresAt   float64 `json:"expires_at"`
}

// NewToken builds a token issued at now that lives for lifetime minus margin.
func NewToken(access string, now time.Time, lifetime, margin time.Duration) Token {
	exp := now.Add(lifetime - margin)
	return Token{
		AccessToken: access,
		ExpiresAt:   float64(exp.Unix()) + float64(exp.Nanosecond())/float64(time.Second),
	}
}

// Expiry returns ExpiresAt as a time.
func (t Token) Expiry() time.Time {
	sec, frac := math.Modf(t.ExpiresAt)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// ValidAt reports whether the token is present and unexpired at now.
func (t Token) ValidAt(now time.Time) bool {
	return t.AccessToken != "" && now.Before(t.Expiry())
}
