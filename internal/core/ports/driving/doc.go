// Package driving defines the interfaces that the CLI calls INTO core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Services in core/services implement them.
package driving
