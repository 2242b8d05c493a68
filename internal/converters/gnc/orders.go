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

// orderFields is the GNC order record. One record is one order line;
// address and header fields repeat on every line and are read from the first.
var orderFields = fixedwidth.FieldMap{
	"RECID":          {Start: 1, End: 9},
	"VC_HOST_CSTNUM": {Start: 15, End: 25},
	"STADRNAM":       {Start: 29, End: 58},
	"STADRLN1":       {Start: 339, End: 368},
	"STADRLN2":       {Start: 403, End: 432},
	"STADRCTY":       {Start: 531, End: 557},
	"STADRSTC":       {Start: 585, End: 586},
	"STADRPSZ":       {Start: 587, End: 596},
	"STCTRY_NAME":    {Start: 597, End: 598},
	"STPHNNUM":       {Start: 603, End: 612},
	"BTADRNAM":       {Start: 613, End: 642},
	"BTADRLN1":       {Start: 923, End: 952},
	"BTADRLN2":       {Start: 987, End: 1016},
	"BTADRCTY":       {Start: 1115, End: 1141},
	"BTADRSTC":       {Start: 1169, End: 1170},
	"BTADRPSZ":       {Start: 1171, End: 1180},
	"BTCTRY_NAME":    {Start: 1181, End: 1182},
	"BTPHNNUM":       {Start: 1187, End: 1196},
	"VC_HOST_ORDNUM": {Start: 1249, End: 1261},
	"PRTNUM":         {Start: 1265, End: 1276},
	"ORDQTY":         {Start: 1313, End: 1317},
	"CPONUM":         {Start: 1345, End: 1361},
	"VC_DLVINS":      {Start: 1460, End: 1516},
	"SHPMTD":         {Start: 1687, End: 1687},
	"BKPRTNUM":       {Start: 1695, End: 1706},
}

var shipMethods = map[string]string{
	"C": "SO",
	"O": "PO",
	"P": "2ND",
	"Q": "GRND",
}

// Orders converts a GNC fixed-width order file into one canonical order.
type Orders struct {
	opts base.Options
}

var _ driven.Converter = (*Orders)(nil)

// NewOrders creates the GNC order converter.
func NewOrders(opts base.Options) *Orders {
	return &Orders{opts: opts}
}

// Convert implements driven.Converter. A file without records produces no artifact.
func (c *Orders) Convert(ctx context.Context, inputPath, outputDir string) ([]domain.Artifact, error) {
	lines, err := base.ReadRecords(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read order file: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	packaging := c.opts.NewPackagingCache()
	first := orderFields.Parse(lines[0])
	orderID := base.Digits(first.Get("VC_HOST_CSTNUM"), 0)

	order := domain.NewOrder()
	for idx, line := range lines {
		rec := orderFields.Parse(line)
		material := rec.Get("PRTNUM")

		ol := domain.NewOrderLine()
		ol.LineNumber = idx + 1
		ol.Material = material
		ol.VendorLot = rec.Get("BKPRTNUM")
		ol.Packaging = packaging.Resolve(ctx, material)
		ol.PackagedAmount = float64(base.Digits(rec.Get("ORDQTY"), 0))
		ol.OrderID = base.Digits(rec.Get("VC_HOST_CSTNUM"), 0)
		order.OrderLines = append(order.OrderLines, ol)
	}

	firstName, lastName := base.SplitName(first.Get("STADRNAM"))
	shipTo := domain.Address{
		Type:       domain.AddressShipping,
		Name:       first.Get("STADRNAM"),
		Line1:      first.Get("STADRLN1"),
		Line2:      first.Get("STADRLN2"),
		City:       first.Get("STADRCTY"),
		State:      first.Get("STADRSTC"),
		PostalCode: first.Get("STADRPSZ"),
		Country:    first.Get("STCTRY_NAME"),
		Phone:      first.Get("STPHNNUM"),
		FirstName:  firstName,
		LastName:   lastName,
		OrderID:    orderID,
	}
	billTo := domain.Address{
		Type:       domain.AddressBilling,
		Name:       first.Get("BTADRNAM"),
		Line1:      first.Get("BTADRLN1"),
		Line2:      first.Get("BTADRLN2"),
		City:       first.Get("BTADRCTY"),
		State:      first.Get("BTADRSTC"),
		PostalCode: first.Get("BTADRPSZ"),
		Country:    first.Get("BTCTRY_NAME"),
		Phone:      first.Get("BTPHNNUM"),
		FirstName:  firstName,
		LastName:   lastName,
		OrderID:    orderID,
	}

	method := strings.ToUpper(first.Get("SHPMTD"))
	if mapped, ok := shipMethods[method]; ok {
		method = mapped
	}

	order.Owner = c.opts.Owner
	order.Project = c.opts.Project
	order.OrderClass = "Ecom"
	order.OwnerReference = first.Get("VC_HOST_ORDNUM")
	order.VendorReference = first.Get("CPONUM")
	order.Warehouse = Warehouse
	order.Carrier = method
	order.CarrierService = method
	order.Addresses = []domain.Address{shipTo, billTo}
	order.Lookup = first.Get("VC_HOST_ORDNUM")
	order.Currency = "USD"
	order.Notes = first.Get("VC_DLVINS")

	stamp := c.opts.Clock().Format(domain.DatetimeLayout)
	out := filepath.Join(outputDir, base.BaseName(inputPath)+"_"+stamp+".json")
	if err := base.WriteJSON(out, domain.OrderDocument{Orders: []domain.CanonicalOrder{order}}, "  "); err != nil {
		return nil, err
	}
	return []domain.Artifact{{Path: out, Rows: len(order.OrderLines)}}, nil
}
