package fc

import (
	"context"
	"path/filepath"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// DailyClientFile is the report name FC expects.
const DailyClientFile = "inventory_adjustments.csv"

var dailyClientHeader = []string{"Material", "Available", "Committed", "On-Hold", "Seconds", "Waste", "Staged", "Total"}

// DailyClient totals adjustments per material into the FC daily client report.
type DailyClient struct {
	opts base.Options
}

var _ driven.Converter = (*DailyClient)(nil)

// NewDailyClient creates the FC daily client report converter.
func NewDailyClient(opts base.Options) *DailyClient {
	return &DailyClient{opts: opts}
}

// Convert implements driven.Converter. Materials appear in first-seen order.
func (c *DailyClient) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	doc, err := base.ReadAPIDocument(inputPath)
	if err != nil {
		return nil, err
	}
	if len(doc.Adjustments) == 0 {
		return nil, nil
	}

	var order []string
	totals := make(map[string]float64)
	for _, adj := range doc.Adjustments {
		material := adj.Material.String()
		if _, ok := totals[material]; !ok {
			order = append(order, material)
		}
		totals[material] += adj.PackagedAmount.Float()
	}

	rows := make([]string, 0, len(order))
	for _, material := range order {
		qty := base.FormatNumber(totals[material])
		rows = append(rows, base.Join(material, qty, "0", "0", "0", "0", "0", qty))
	}

	art, err := base.WriteLines(filepath.Join(outputDir, DailyClientFile), base.Join(dailyClientHeader...), rows)
	if err != nil {
		return nil, err
	}
	return []domain.Artifact{art}, nil
}
