package gnc

import (
	"context"
	"path/filepath"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

var inventoryHeader = []string{"trndte", "client_id", "prtnum", "trnqty", "stkuom", "reacod", "uc_adj_comm", "invsts"}

// Inventory renders inventory adjustments as the GNC inventory CSV, every field quoted.
type Inventory struct {
	opts base.Options
}

var _ driven.Converter = (*Inventory)(nil)

// NewInventory creates the GNC inventory converter.
func NewInventory(opts base.Options) *Inventory {
	return &Inventory{opts: opts}
}

// Convert implements driven.Converter. An empty response produces no artifact.
func (c *Inventory) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	doc, err := base.ReadAPIDocument(inputPath)
	if err != nil {
		c.opts.Log().Info("inventory response is not a document, nothing to convert")
		return nil, nil
	}
	if len(doc.Adjustments) == 0 {
		return nil, nil
	}

	rows := make([]string, 0, len(doc.Adjustments))
	for _, adj := range doc.Adjustments {
		trndte := ""
		if ts, ok := base.ParseTimestamp(adj.CompletedOn.String()); ok {
			trndte = ts.Format("20060102150405")
		}
		rows = append(rows, base.QuoteAll(
			trndte, Client, adj.Material.String(), adj.PackagedAmount.String(), "EA", "", "", "A",
		))
	}

	out := filepath.Join(outputDir, base.BaseName(inputPath)+".csv")
	art, err := base.WriteLines(out, base.QuoteAll(inventoryHeader...), rows)
	if err != nil {
		return nil, err
	}
	return []domain.Artifact{art}, nil
}
