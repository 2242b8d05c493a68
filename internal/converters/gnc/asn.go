package gnc

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// minASNColumns is the narrowest row the ASN export produces.
const minASNColumns = 10

// ASN converts the GNC comma-separated receipt notice into one canonical order.
type ASN struct {
	opts base.Options
}

var _ driven.Converter = (*ASN)(nil)

// NewASN creates the GNC ASN converter.
func NewASN(opts base.Options) *ASN {
	return &ASN{opts: opts}
}

// Convert implements driven.Converter. Rows narrower than the export are skipped.
func (c *ASN) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read asn file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	order := domain.NewOrder()
	var client, invoiceDate, invoiceType string
	idx := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse asn file: %w", err)
		}
		idx++
		if len(row) < minASNColumns {
			continue
		}
		client = strings.TrimSpace(row[0])
		invoiceDate = column(row, 16)
		invoiceType = column(row, 17)

		qty, _ := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		ol := domain.NewOrderLine()
		ol.LineNumber = idx
		ol.Material = strings.TrimSpace(row[1])
		ol.PackagedAmount = qty
		ol.CustomFields = []domain.CustomField{
			{Name: "description", Value: strings.TrimSpace(row[2])},
			{Name: "invoice_type", Value: invoiceType},
		}
		order.OrderLines = append(order.OrderLines, ol)
	}
	if len(order.OrderLines) == 0 {
		return nil, nil
	}

	order.Owner = c.opts.Owner
	order.Project = c.opts.Project
	order.OrderClass = "Ecom"
	order.Lookup = client
	order.Status = "A"
	order.OwnerReference = client
	order.VendorReference = c.opts.Owner
	order.RequestedDeliveryDate = c.isoDate(invoiceDate)
	order.Warehouse = Warehouse
	order.Carrier = c.opts.Owner
	order.CarrierService = c.opts.Owner
	order.CustomFields = []domain.CustomField{{Name: "invoice_date", Value: invoiceDate}}

	out := filepath.Join(outputDir, base.BaseName(inputPath)+".json")
	if err := base.WriteJSON(out, domain.OrderDocument{Orders: []domain.CanonicalOrder{order}}, "  "); err != nil {
		return nil, err
	}
	return []domain.Artifact{{Path: out, Rows: len(order.OrderLines)}}, nil
}

// isoDate formats a YYYYMMDD date, falling back to the current time.
func (c *ASN) isoDate(v string) string {
	if d := base.CompactDate(v, "2006-01-02T15:04:05"); d != nil && *d != v {
		return *d
	}
	return c.opts.Clock().Format("2006-01-02T15:04:05")
}

func column(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
