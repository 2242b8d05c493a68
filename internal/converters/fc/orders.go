package fc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/fixedwidth"
)

// headerFields is the FC order header record, always the first line.
var headerFields = fixedwidth.FieldMap{
	"RECID":       {Start: 1, End: 2},
	"ORDNUM":      {Start: 13, End: 32},
	"CPONUM":      {Start: 33, End: 52},
	"CPODTE":      {Start: 53, End: 60},
	"SHIP_METHOD": {Start: 81, End: 90},
	"BTATTN":      {Start: 91, End: 150},
	"BTNAME":      {Start: 151, End: 190},
	"BTCOMP":      {Start: 191, End: 250},
	"BTADR1":      {Start: 251, End: 290},
	"BTADR2":      {Start: 291, End: 330},
	"BTCITY":      {Start: 371, End: 400},
	"BTSTATE":     {Start: 401, End: 440},
	"BTZIP":       {Start: 441, End: 460},
	"BTCTRY":      {Start: 461, End: 490},
	"BTPHONE":     {Start: 495, End: 514},
	"BTEMAIL":     {Start: 515, End: 594},
	"STATTN":      {Start: 595, End: 654},
	"STNAME":      {Start: 655, End: 694},
	"STCOMP":      {Start: 695, End: 754},
	"STADR1":      {Start: 755, End: 794},
	"STADR2":      {Start: 795, End: 834},
	"STCITY":      {Start: 875, End: 904},
	"STSTATE":     {Start: 905, End: 944},
	"STZIP":       {Start: 945, End: 964},
	"STCTRY":      {Start: 965, End: 994},
	"STPHONE":     {Start: 999, End: 1018},
	"STEMAIL":     {Start: 1019, End: 1098},
	"DLVINS":      {Start: 1129, End: 1368},
	"CMNT":        {Start: 1459, End: 1708},
}

// lineFields is the FC order line record.
var lineFields = fixedwidth.FieldMap{
	"ORDLIN":       {Start: 43, End: 46},
	"PRTNUM":       {Start: 51, End: 80},
	"ORDQTY":       {Start: 81, End: 90},
	"EDLVDTE":      {Start: 91, End: 98},
	"LDLVDTE":      {Start: 99, End: 106},
	"ESHPDTE":      {Start: 107, End: 114},
	"LSHPDTE":      {Start: 115, End: 122},
	"VC_CTNNUM":    {Start: 123, End: 154},
	"VC_BCKORDFLG": {Start: 155, End: 156},
	"VC_COMMENT":   {Start: 157, End: 406},
	"VC_PCKSTS":    {Start: 662, End: 673},
	"VC_UNTPRC":    {Start: 726, End: 738},
	"VC_WMSSTS":    {Start: 739, End: 750},
}

var shipMethods = map[string]string{
	"BWAY":   "GROUND",
	"IOP":    "INTLP",
	"UPS2":   "2DAY",
	"UPS3":   "3DAY",
	"UPSG":   "GRNDC",
	"NDAYAM": "NDAYAM",
	"UPS4":   "NDAYSAV",
	"MAIL":   "STD",
	"FHO":    "HOME",
	"F18":    "SP",
	"F01":    "GRND",
	"F02":    "GRNDH",
	"F03":    "PO",
	"F04":    "SO",
	"F05":    "2ND",
	"F06":    "2AM",
	"F07":    "FO",
	"F12":    "3FR",
	"01":     "FEDG",
}

// priceScale converts the partner's implied-decimal unit price.
var priceScale = decimal.New(1, -4)

// referenceLimit caps address references and last names.
const referenceLimit = 32

// Orders converts an FC order file (one header record followed by line
// records) into one canonical order.
type Orders struct {
	opts base.Options
}

var _ driven.Converter = (*Orders)(nil)

// NewOrders creates the FC order converter.
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

	header := headerFields.Parse(lines[0])
	orderID := base.Digits(header.Get("ORDNUM"), 0)
	packaging := c.opts.NewPackagingCache()

	order := domain.NewOrder()
	for idx, line := range lines[1:] {
		rec := lineFields.Parse(line)
		material := rec.Get("PRTNUM")
		price, _ := base.Amount(rec.Get("VC_UNTPRC")).Mul(priceScale).Round(4).Float64()

		ol := domain.NewOrderLine()
		ol.LineNumber = int(base.Digits(rec.Get("ORDLIN"), int64(idx+1)))
		ol.Material = material
		ol.VendorLot = rec.Get("VC_CTNNUM")
		ol.Packaging = packaging.Resolve(ctx, material)
		ol.PackagedAmount = float64(base.Digits(rec.Get("ORDQTY"), 0))
		ol.OrderID = orderID
		ol.Price = price
		ol.DeliveryDates = &domain.DateWindow{
			Earliest: base.CompactDate(rec.Get("EDLVDTE"), isoMidnight),
			Latest:   base.CompactDate(rec.Get("LDLVDTE"), isoMidnight),
		}
		ol.ShipDates = &domain.DateWindow{
			Earliest: base.CompactDate(rec.Get("ESHPDTE"), isoMidnight),
			Latest:   base.CompactDate(rec.Get("LSHPDTE"), isoMidnight),
		}
		ol.BackorderFlag = rec.Get("VC_BCKORDFLG")
		ol.Comment = rec.Get("VC_COMMENT")
		ol.Status = rec.Get("VC_PCKSTS")
		ol.VendorStatus = rec.Get("VC_WMSSTS")
		order.OrderLines = append(order.OrderLines, ol)
	}
	order.SortLines()

	method := strings.ToUpper(header.Get("SHIP_METHOD"))
	if mapped, ok := shipMethods[method]; ok {
		method = mapped
	}

	order.Owner = c.opts.Owner
	order.Project = c.opts.Project
	order.OrderClass = "Ecom"
	order.OwnerReference = header.Get("ORDNUM")
	order.VendorReference = header.Get("CPONUM")
	if d := base.CompactDate(header.Get("CPODTE"), isoMidnight); d != nil {
		order.RequestedDeliveryDate = *d
	}
	order.Warehouse = Warehouse
	order.Carrier = method
	order.CarrierService = method
	order.Addresses = []domain.Address{
		address(header, domain.AddressBilling, "BT", orderID),
		address(header, domain.AddressShipping, "ST", orderID),
	}
	if po := header.Get("CPONUM"); po != "" {
		order.CustomFields = append(order.CustomFields, domain.CustomField{Name: "CustomerPO", Value: po})
	}
	order.Lookup = header.Get("ORDNUM")
	order.Currency = "USD"
	order.Notes = header.Get("DLVINS")

	stamp := c.opts.Clock().Format(domain.DatetimeLayout)
	out := filepath.Join(outputDir, fmt.Sprintf("FCorder_%d_%s.json", orderID, stamp))
	if err := base.WriteJSON(out, domain.OrderDocument{Orders: []domain.CanonicalOrder{order}}, "  "); err != nil {
		return nil, err
	}
	return []domain.Artifact{{Path: out, Rows: len(order.OrderLines)}}, nil
}

// address builds the bill-to or ship-to address from fields sharing prefix.
func address(h fixedwidth.Record, kind, prefix string, orderID int64) domain.Address {
	first, last := base.SplitName(h.Get(prefix + "NAME"))
	return domain.Address{
		Type:        kind,
		Name:        h.Get(prefix + "NAME"),
		Reference:   base.Truncate(h.Get(prefix+"COMP"), referenceLimit),
		AttentionOf: h.Get(prefix + "ATTN"),
		Line1:       h.Get(prefix + "ADR1"),
		Line2:       h.Get(prefix + "ADR2"),
		City:        h.Get(prefix + "CITY"),
		State:       h.Get(prefix + "STATE"),
		PostalCode:  h.Get(prefix + "ZIP"),
		Country:     h.Get(prefix + "CTRY"),
		Phone:       h.Get(prefix + "PHONE"),
		Email:       h.Get(prefix + "EMAIL"),
		FirstName:   first,
		LastName:    base.Truncate(last, referenceLimit),
		Notes:       h.Get("CMNT"),
		OrderID:     orderID,
	}
}
