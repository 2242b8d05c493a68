// Package domain defines the core business entities for jtlflow.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FlowDefinition: One configured (partner, direction, name) pipeline
//   - CanonicalOrder: The partner-agnostic order document posted to the order API
//   - UnitOutcome / ProcessingOutcome: Per-unit and per-file results of a run
//   - Token: A cached client-credentials access token
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
