package fc

import (
	"context"
	"path/filepath"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// Shipments renders shipped order lines as the FC shipment confirmation:
// ASTSHIP,SUBNUM,ORDNUM,ORDLIN,PRTNUM,SHPDTE,TRAKNM,WEIGHT,FRTRTE,SHPQTY
// with no header row.
type Shipments struct {
	opts base.Options
}

var _ driven.Converter = (*Shipments)(nil)

// NewShipments creates the FC shipment converter.
func NewShipments(opts base.Options) *Shipments {
	return &Shipments{opts: opts}
}

// Convert implements driven.Converter.
func (c *Shipments) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	doc, err := base.ReadAPIDocument(inputPath)
	if err != nil {
		return nil, err
	}
	if len(doc.Orders) == 0 {
		return nil, nil
	}

	now := c.opts.Clock()
	var rows []string
	for _, order := range doc.Orders {
		tracking := order.FirstShipment().TrackingIdentifier.String()
		for _, line := range order.OrderLines {
			rows = append(rows, base.Join(
				order.Warehouse.String(),
				line.Packaging.String(),
				order.OwnerReference.String(),
				base.ZeroFill(line.LineNumber.String(), 4),
				line.Material.String(),
				now.Format("01022006"),
				tracking,
				line.Weight.String(),
				line.Cost.String(),
				line.PackagedAmount.String(),
			))
		}
	}

	out := filepath.Join(outputDir, "shipment_"+now.Format(domain.DatetimeLayout)+".csv")
	art, err := base.WriteLines(out, "", rows)
	if err != nil {
		return nil, err
	}
	return []domain.Artifact{art}, nil
}
