package gnc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/fixedwidth"
)

// shipmentLayout is the GNC shipment confirmation record.
var shipmentLayout = fixedwidth.Layout{
	{Name: "CLIENTABBR", Width: 3, Default: Client},
	{Name: "CDSTRKNUM", Width: 13, Align: fixedwidth.AlignZero},
	{Name: "PRODNBR", Width: 12},
	{Name: "PRODSIZE", Width: 2},
	{Name: "PRODSTYLE", Width: 2},
	{Name: "PRODCOLOR", Width: 2},
	{Name: "QTYTOSHIP", Width: 3, Align: fixedwidth.AlignZero, Default: "0"},
	{Name: "QTYBACKORD", Width: 3, Align: fixedwidth.AlignZero, Default: "0"},
	{Name: "HEADERFLAG", Width: 1, Default: "Y"},
	{Name: "ODASHPDT", Width: 5},
	{Name: "ODASHPCST", Width: 7, Align: fixedwidth.AlignZero, Default: "0"},
	{Name: "ODASHPMTD", Width: 1},
	{Name: "SHPTRKNUM", Width: 30},
	{Name: "CREATEDATE", Width: 5},
	{Name: "CREATETIME", Width: 6},
}

// shipmentHeader opens every shipment file.
var shipmentHeader = "000" + strings.Repeat(" ", 50)

// shipmentTrailer closes a shipment file with its detail record count.
func shipmentTrailer(count int) string {
	return fmt.Sprintf("999%013d", count) + strings.Repeat(" ", 37)
}

// ShipmentsFixed renders shipped orders as GNC fixed-width confirmations.
type ShipmentsFixed struct {
	opts base.Options
}

var _ driven.Converter = (*ShipmentsFixed)(nil)

// NewShipmentsFixed creates the GNC positional shipment converter.
func NewShipmentsFixed(opts base.Options) *ShipmentsFixed {
	return &ShipmentsFixed{opts: opts}
}

// Convert implements driven.Converter. One record is written per order line.
func (c *ShipmentsFixed) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	doc, err := base.ReadAPIDocument(inputPath)
	if err != nil {
		return nil, err
	}
	if doc.NoRecords() {
		return nil, nil
	}

	now := c.opts.Clock()
	julian := fixedwidth.Julian(now)
	var records []string
	for _, order := range doc.Orders {
		for _, line := range order.OrderLines {
			records = append(records, shipmentLayout.Format(map[string]string{
				"CDSTRKNUM":  order.OwnerReference.String(),
				"PRODNBR":    line.Material.String(),
				"QTYTOSHIP":  fmt.Sprintf("%d", line.PackagedAmount.Int()),
				"ODASHPDT":   julian,
				"ODASHPMTD":  order.CarrierService.String(),
				"SHPTRKNUM":  order.FirstShipment().TrackingIdentifier.String(),
				"CREATEDATE": julian,
				"CREATETIME": now.Format("150405"),
			}))
		}
	}

	out := filepath.Join(outputDir, "order_"+now.Format(domain.DatetimeLayout)+".txt")
	records = append(records, shipmentTrailer(len(records)))
	art, err := base.WriteLines(out, shipmentHeader, records)
	if err != nil {
		return nil, err
	}
	art.Rows = len(records) - 1
	return []domain.Artifact{art}, nil
}

var shipmentCSVHeader = []string{
	"Client", "HP Order", "CDS Order", "Date Entered", "Name",
	"Address Line 1", "Address Line 2", "Address Line 3",
	"City", "State", "Zip", "Phone", "Ship Date",
	"Carrier", "Service Level", "Part Number",
	"Shipped Qty", "Carton Number", "Pro/Tracking Number",
	"Weight", "Status",
}

// ShipmentsCSV renders shipped orders as the GNC shipment report.
type ShipmentsCSV struct {
	opts base.Options
}

var _ driven.Converter = (*ShipmentsCSV)(nil)

// NewShipmentsCSV creates the GNC delimited shipment converter.
func NewShipmentsCSV(opts base.Options) *ShipmentsCSV {
	return &ShipmentsCSV{opts: opts}
}

// Convert implements driven.Converter.
func (c *ShipmentsCSV) Convert(_ context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	doc, err := base.ReadAPIDocument(inputPath)
	if err != nil {
		return nil, err
	}
	if doc.NoRecords() {
		return nil, nil
	}

	var rows [][]string
	for _, order := range doc.Orders {
		addr := shipToAddress(order.Addresses)
		shipment := order.FirstShipment()
		for _, line := range order.OrderLines {
			rows = append(rows, []string{
				Client,
				order.VendorReference.String(),
				order.Lookup.String(),
				order.CreatedOn.String(),
				addr.Name.String(),
				addr.Line1.String(),
				addr.Line2.String(),
				addr.Line3.String(),
				addr.City.String(),
				addr.State.String(),
				addr.PostalCode.String(),
				addr.Phone.String(),
				order.ShippedOn.String(),
				order.Carrier.String(),
				order.CarrierService.String(),
				line.Material.String(),
				line.PackagedAmount.String(),
				shipment.ReferenceNumber.String(),
				shipment.TrackingIdentifier.String(),
				shipment.GrossWeight.String(),
				order.Status.String(),
			})
		}
	}

	out := filepath.Join(outputDir, base.BaseName(inputPath)+".csv")
	art, err := base.WriteCSV(out, shipmentCSVHeader, rows)
	if err != nil {
		return nil, err
	}
	return []domain.Artifact{art}, nil
}

// shipToAddress prefers the ship-to address and falls back to bill-to.
func shipToAddress(addrs []base.APIAddress) base.APIAddress {
	var billTo *base.APIAddress
	for i, a := range addrs {
		switch strings.ToLower(a.Type.String()) {
		case "shipto", "shipping":
			return a
		case "billto", "billing":
			if billTo == nil {
				billTo = &addrs[i]
			}
		}
	}
	if billTo != nil {
		return *billTo
	}
	return base.APIAddress{}
}
