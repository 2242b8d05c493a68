// Package auth provides bearer tokens for the order API.
//
// ClientCredentialsProvider performs the OAuth client-credentials exchange
// and caches the token in memory and in a TokenStore (a JSON file, or Redis
// when several hosts share one client). NullTokenProvider is used when no
// token endpoint is configured.
package auth
