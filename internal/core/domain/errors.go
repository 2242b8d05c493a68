package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown transfer mode or dialect.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUsage indicates the command line was malformed.
	// The CLI maps it to exit code 2.
	ErrUsage = errors.New("usage error")

	// Configuration Errors.

	// ErrFlowNotFound indicates no flow is configured for a partner, direction and name.
	ErrFlowNotFound = errors.New("flow not found")

	// ErrMissingConfig indicates a required configuration key is absent.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrConverterNotRegistered indicates a flow references an unknown converter.
	ErrConverterNotRegistered = errors.New("converter not registered")

	// ErrPayloadMissing indicates an outbound flow's payload file does not exist.
	ErrPayloadMissing = errors.New("payload file missing")

	// Remote Errors.

	// ErrTokenRequest indicates the client-credentials exchange failed.
	ErrTokenRequest = errors.New("token request failed")

	// ErrAPIRequest indicates the order API rejected a request or was unreachable.
	ErrAPIRequest = errors.New("api request failed")

	// ErrTransfer indicates a file transfer operation failed.
	ErrTransfer = errors.New("transfer failed")
)
