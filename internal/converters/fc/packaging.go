package fc

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// MaterialPackaging renders material packagings as the FC item master .dat file:
// SKU,Unit Weight,Unit Volume,Unit Height,Unit Width,Unit Length,Units Per Case.
type MaterialPackaging struct {
	opts base.Options
}

var _ driven.Converter = (*MaterialPackaging)(nil)

// NewMaterialPackaging creates the FC material packaging converter.
func NewMaterialPackaging(opts base.Options) *MaterialPackaging {
	return &MaterialPackaging{opts: opts}
}

// Convert implements driven.Converter. One row is written per packaging.
func (c *MaterialPackaging) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	doc, err := base.ReadAPIDocument(inputPath)
	if err != nil {
		return nil, err
	}

	var rows []string
	for _, m := range doc.Materials {
		for _, p := range m.Packagings {
			units := p.UnitsPerCase()
			rows = append(rows, base.Join(
				m.Lookup.String(),
				base.Round(p.GrossWeight.Float()/units, 3),
				base.Round(p.GrossVolume.Float(), 3),
				base.Round(p.Height.Float(), 2),
				base.Round(p.Width.Float(), 2),
				base.Round(p.Length.Float(), 2),
				strconv.FormatInt(int64(units), 10),
			))
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	art, err := base.WriteLines(filepath.Join(outputDir, "output.dat"), "", rows)
	if err != nil {
		return nil, err
	}
	return []domain.Artifact{art}, nil
}
