package driven

import (
	"context"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// Converter turns one input file into artifacts written to outputDir.
// A converter that finds nothing to convert returns no artifacts, or
// artifacts with zero rows, rather than an error.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputDir string) ([]domain.Artifact, error)
}

// ConverterFunc adapts a bare function to the Converter interface.
type ConverterFunc func(ctx context.Context, inputPath, outputDir string) ([]domain.Artifact, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	return f(ctx, inputPath, outputDir)
}

// ConverterResolver resolves a flow's converter identifier to an implementation.
type ConverterResolver interface {
	// Resolve builds the converter named by flow.Converter for this flow.
	// Returns domain.ErrConverterNotRegistered for unknown names.
	Resolve(flow domain.FlowDefinition) (Converter, error)

	// Names lists every registered identifier.
	Names() []string
}
