// Package orderapi is the HTTP client for the downstream order API.
//
// Client implements driven.OrderAPI: bearer auth, per-call timeouts,
// fixed-delay retries and optional per-host request pacing.
// PackagingClient implements driven.PackagingLookup on top of it.
package orderapi
