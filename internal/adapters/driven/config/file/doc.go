// Package file provides the file-based configuration store.
//
// The configuration is a single YAML or TOML document chosen by file
// extension. ${NAME} references are replaced with environment variables
// before decoding so secrets can stay out of the file.
package file
