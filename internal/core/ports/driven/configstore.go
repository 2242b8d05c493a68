package driven

import "github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"

// ConfigStore provides the jtlflow configuration.
// Implementations decode and validate the whole file at once; a file with
// any invalid flow is rejected.
type ConfigStore interface {
	// Load reads, decodes and validates the configuration.
	Load() (*domain.Config, error)

	// Path returns the configuration file path.
	Path() string
}
