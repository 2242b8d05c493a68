package fc

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// Receipts renders completed receipt lines as the FC receipts .dat file:
// TRNDTE,TRNTIME,TRNSEQ,PRTNUM,RCVQTY,RCVUOM,INVNUM,TRNTYP.
type Receipts struct {
	opts base.Options
}

var _ driven.Converter = (*Receipts)(nil)

// NewReceipts creates the FC receipts converter.
func NewReceipts(opts base.Options) *Receipts {
	return &Receipts{opts: opts}
}

// Convert implements driven.Converter. Only completed lines with a
// positive amount are written; without any there is no artifact.
func (c *Receipts) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	doc, err := base.ReadAPIDocument(inputPath)
	if err != nil {
		return nil, err
	}

	var rows []string
	for _, order := range doc.Orders {
		var date, clock string
		if ts, ok := base.ParseTimestamp(order.CreatedOn.String()); ok {
			date, clock = ts.Format("20060102"), ts.Format("150405")
		}
		for _, line := range order.OrderLines {
			if !line.Completed() {
				continue
			}
			rows = append(rows, base.Join(
				date,
				clock,
				order.Lookup.String(),
				line.Material.String(),
				strconv.FormatInt(line.PackagedAmount.Int(), 10),
				domain.DefaultPackaging,
				order.OwnerReference.String(),
				"REC",
			))
		}
	}
	if len(rows) == 0 {
		c.opts.Log().Info("no completed receipt lines")
		return nil, nil
	}

	art, err := base.WriteLines(filepath.Join(outputDir, "output.dat"), "", rows)
	if err != nil {
		return nil, err
	}
	return []domain.Artifact{art}, nil
}
