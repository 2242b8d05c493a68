// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Converter: Turns one input file into one or more artifacts
//   - ConverterResolver: Resolves a flow's converter identifier
//   - TransferChannel: Fetches source files and delivers artifacts
//   - TransferFactory: Opens the channel a flow is configured for
//   - OrderAPI: Sends documents to the order API with retry
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TokenProvider: Bearer tokens. Without it, requests carry no Authorization header.
//   - PackagingLookup: Material packaging lookups. Without it, converters use the default unit.
//   - Notifier: Operator email. Without it, nothing is sent.
//   - AuditSink: Response audit rows. Without it, only response files are written.
//   - MetricsRecorder: Run counters. Without it, nothing is pushed.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or converter package
package driven
