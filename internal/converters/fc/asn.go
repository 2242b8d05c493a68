package fc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/fixedwidth"
)

// ASNErrorLog collects detail lines rejected by the ASN converter.
const ASNErrorLog = "asn_error_log.txt"

// ErrMissingPartNumber is returned when an ASN detail line has no part number.
var ErrMissingPartNumber = errors.New("missing part number")

var asnHeaderFields = fixedwidth.FieldMap{
	"INVNUM":   {Start: 22, End: 41},
	"SUPNUM":   {Start: 42, End: 61},
	"ORGREF":   {Start: 81, End: 90},
	"EXPRCVDT": {Start: 91, End: 98},
}

var asnDetailFields = fixedwidth.FieldMap{
	"LINNUM": {Start: 21, End: 24},
	"EXPQTY": {Start: 29, End: 38},
	"PRTNUM": {Start: 39, End: 68},
	"LOTNUM": {Start: 93, End: 112},
}

// ASN converts an FC advance shipping notice: a transaction record, a
// header record and one detail record per expected line.
type ASN struct {
	opts base.Options
}

var _ driven.Converter = (*ASN)(nil)

// NewASN creates the FC ASN converter.
func NewASN(opts base.Options) *ASN {
	return &ASN{opts: opts}
}

// Convert implements driven.Converter. Detail lines without a part number
// are appended to the error log in outputDir and fail the conversion.
func (c *ASN) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	lines, err := base.ReadRecords(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read asn file: %w", err)
	}
	if len(lines) < 3 {
		return nil, fmt.Errorf("%w: asn needs transaction, header and at least one detail record", domain.ErrInvalidInput)
	}

	header := asnHeaderFields.Parse(lines[1])
	order := domain.NewOrder()
	var rejected []string
	for i, line := range lines[2:] {
		rec := asnDetailFields.Parse(line)
		if rec.Get("PRTNUM") == "" {
			rejected = append(rejected, fmt.Sprintf("Line %d: Missing part number -> %s", i+3, line))
		}
		ol := domain.NewOrderLine()
		ol.LineNumber = int(base.Digits(rec.Get("LINNUM"), int64(i+1)))
		ol.Material = rec.Get("PRTNUM")
		ol.Lot = rec.Get("LOTNUM")
		ol.Packaging = domain.DefaultPackaging
		ol.PackagedAmount = float64(base.Digits(rec.Get("EXPQTY"), 0))
		order.OrderLines = append(order.OrderLines, ol)
	}
	if len(rejected) > 0 {
		logPath, err := c.logRejected(inputPath, outputDir, rejected)
		if err != nil {
			c.opts.Log().Warn("could not write asn error log")
		}
		return nil, fmt.Errorf("%w: %d line(s), logged in %s", ErrMissingPartNumber, len(rejected), logPath)
	}

	supplier := header.Get("SUPNUM")
	order.Owner = c.opts.Owner
	order.Project = c.opts.Project
	order.OrderClass = "Ecom"
	order.Lookup = header.Get("INVNUM")
	order.Status = "A"
	order.OwnerReference = header.Get("ORGREF")
	order.VendorReference = supplier
	order.RequestedDeliveryDate = c.isoDate(header.Get("EXPRCVDT"))
	order.Warehouse = Warehouse
	order.Carrier = supplier
	order.CarrierService = supplier

	out := filepath.Join(outputDir, base.BaseName(inputPath)+".json")
	if err := base.WriteJSON(out, domain.OrderDocument{Orders: []domain.CanonicalOrder{order}}, "  "); err != nil {
		return nil, err
	}
	return []domain.Artifact{{Path: out, Rows: len(order.OrderLines)}}, nil
}

func (c *ASN) logRejected(inputPath, outputDir string, rejected []string) (string, error) {
	logPath := filepath.Join(outputDir, ASNErrorLog)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return logPath, err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return logPath, err
	}
	defer f.Close()

	entry := fmt.Sprintf("\n[%s] Error in file: %s\n%s\n%s\n",
		c.opts.Clock().Format(isoLocal), filepath.Base(inputPath),
		strings.Join(rejected, "\n"), strings.Repeat("-", 80))
	_, err = f.WriteString(entry)
	return logPath, err
}

func (c *ASN) isoDate(v string) string {
	if d := base.CompactDate(v, isoLocal); d != nil && *d != v {
		return *d
	}
	return c.opts.Clock().Format(isoLocal)
}
