package gnc

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// SalesOrders renders completed sales order lines as the GNC receipt .dat file:
// TRNDTE,CLIENT_ID,INVNUM,PRTNUM,RCVQTY,RCVUOM,INVSTS with every value
// quoted except the quantity.
type SalesOrders struct {
	opts base.Options
}

var _ driven.Converter = (*SalesOrders)(nil)

// NewSalesOrders creates the GNC sales order converter.
func NewSalesOrders(opts base.Options) *SalesOrders {
	return &SalesOrders{opts: opts}
}

// Convert implements driven.Converter. An order without lines still
// yields one row so the partner sees the transaction.
func (c *SalesOrders) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	doc, err := base.ReadAPIDocument(inputPath)
	if err != nil {
		return nil, err
	}
	if doc.NoRecords() {
		return nil, nil
	}

	var rows []string
	for _, order := range doc.Orders {
		trndte, invnum := order.CreatedOn.String(), ""
		if ts, ok := base.ParseTimestamp(order.CreatedOn.String()); ok {
			trndte = ts.Format("20060102150405")
			invnum = ts.Format("01022006")
		}
		if len(order.OrderLines) == 0 {
			rows = append(rows, salesRow(trndte, invnum, "", 0))
			continue
		}
		for _, line := range order.OrderLines {
			if !line.Completed() {
				continue
			}
			rows = append(rows, salesRow(trndte, invnum, line.Material.String(), line.PackagedAmount.Int()))
		}
	}

	art, err := base.WriteLines(filepath.Join(outputDir, "output.dat"), "", rows)
	if err != nil {
		return nil, err
	}
	return []domain.Artifact{art}, nil
}

func salesRow(trndte, invnum, material string, qty int64) string {
	return base.QuoteAll(trndte, Client, invnum, material) + "," +
		strconv.FormatInt(qty, 10) + "," +
		base.QuoteAll("EA", "A")
}
