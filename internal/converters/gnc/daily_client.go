package gnc

import (
	"context"
	"path/filepath"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// DailyClientFile is the report name GNC expects.
const DailyClientFile = "GNC_DAILY_CLIENT.csv"

var dailyClientHeader = []string{
	"PRTNUM", "PRTFAM", "DESCRIPTION", "AVAILBLE", "COMMITTED", "HOLD",
	"SECONDS", "WASTE", "On hand", "LAST_RECEIPT_QUANTITY", "LAST_RECEIPT_DATE", "PALLET_COUNT",
}

// DailyClient aggregates inventory positions per material into the GNC daily client report.
type DailyClient struct {
	opts base.Options
}

var _ driven.Converter = (*DailyClient)(nil)

// NewDailyClient creates the GNC daily client report converter.
func NewDailyClient(opts base.Options) *DailyClient {
	return &DailyClient{opts: opts}
}

// Convert implements driven.Converter. Materials appear in first-seen order.
func (c *DailyClient) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	doc, err := base.ReadAPIDocument(inputPath)
	if err != nil {
		return nil, err
	}
	if len(doc.Results) == 0 {
		return nil, nil
	}

	var order []string
	totals := make(map[string]float64)
	pallets := make(map[string]map[string]struct{})
	for _, rec := range doc.Results {
		material := rec.Material.String()
		if _, ok := totals[material]; !ok {
			order = append(order, material)
			pallets[material] = make(map[string]struct{})
		}
		totals[material] += rec.PackagedAmount.Float()
		if lp := rec.LicensePlate.String(); lp != "" {
			pallets[material][lp] = struct{}{}
		}
	}

	rows := make([]string, 0, len(order))
	for _, material := range order {
		qty := base.FormatNumber(totals[material])
		rows = append(rows, base.Join(
			material, Client, "", qty, "0", "0", "0", "0", qty, qty, "",
			base.FormatNumber(float64(len(pallets[material]))),
		))
	}

	art, err := base.WriteLines(filepath.Join(outputDir, DailyClientFile), base.Join(dailyClientHeader...), rows)
	if err != nil {
		return nil, err
	}
	return []domain.Artifact{art}, nil
}
