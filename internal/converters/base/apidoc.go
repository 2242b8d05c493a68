package base

import "github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"

// APIDocument is the loosely typed order API response outbound converters read.
// Each endpoint fills only the collection it serves.
type APIDocument struct {
	Orders      []APIOrder      `json:"orders"`
	Paging      *domain.Paging  `json:"paging"`
	Adjustments []APIAdjustment `json:"adjustments"`
	Results     []APIInventory  `json:"results"`
	Materials   []APIMaterial   `json:"materials"`
}

// NoRecords reports whether the API said the search matched nothing.
func (d APIDocument) NoRecords() bool {
	return len(d.Orders) == 0 && (d.Paging == nil || (d.Paging.TotalRecords == 0 && d.Paging.ReturnedRecords == 0))
}

// APIOrder is an order as returned by an order search.
type APIOrder struct {
	Owner           Text          `json:"owner"`
	Lookup          Text          `json:"lookup"`
	OwnerReference  Text          `json:"owner_reference"`
	VendorReference Text          `json:"vendor_reference"`
	Warehouse       Text          `json:"warehouse"`
	Carrier         Text          `json:"carrier"`
	CarrierService  Text          `json:"carrier_service"`
	Status          Text          `json:"status"`
	CreatedOn       Text          `json:"created_on"`
	ShippedOn       Text          `json:"shipped_on"`
	Addresses       []APIAddress  `json:"addresses"`
	OrderLines      []APILine     `json:"order_lines"`
	Shipments       []APIShipment `json:"shipments"`
}

// FirstShipment returns the first shipment, or a zero shipment.
func (o APIOrder) FirstShipment() APIShipment {
	if len(o.Shipments) == 0 {
		return APIShipment{}
	}
	return o.Shipments[0]
}

// APIAddress is an order address.
type APIAddress struct {
	Type       Text `json:"type"`
	Name       Text `json:"name"`
	Line1      Text `json:"line_1"`
	Line2      Text `json:"line_2"`
	Line3      Text `json:"line_3"`
	City       Text `json:"city"`
	State      Text `json:"state"`
	PostalCode Text `json:"postal_code"`
	Phone      Text `json:"phone"`
}

// APILine is an order line.
type APILine struct {
	LineNumber     Text   `json:"line_number"`
	Material       Text   `json:"material"`
	Packaging      Text   `json:"packaging"`
	PackagedAmount Number `json:"packaged_amount"`
	Status         Text   `json:"status"`
	Weight         Number `json:"weight"`
	Cost           Number `json:"cost"`
}

// Completed reports whether the line is completed with a positive amount.
func (l APILine) Completed() bool {
	return l.Status.String() == "Completed" && l.PackagedAmount > 0
}

// APIShipment is a shipment attached to an order.
type APIShipment struct {
	TrackingIdentifier Text `json:"tracking_identifier"`
	ReferenceNumber    Text `json:"reference_number"`
	GrossWeight        Text `json:"gross_weight"`
}

// APIAdjustment is one inventory adjustment.
type APIAdjustment struct {
	CompletedOn    Text   `json:"completed_on"`
	Material       Text   `json:"material"`
	PackagedAmount Number `json:"packaged_amount"`
	Project        Text   `json:"project"`
}

// APIInventory is one inventory position.
type APIInventory struct {
	Material       Text   `json:"material"`
	PackagedAmount Number `json:"packaged_amount"`
	LicensePlate   Text   `json:"license_plate"`
}

// APIMaterial is a material with its packagings.
type APIMaterial struct {
	Lookup     Text           `json:"lookup"`
	Packagings []APIPackaging `json:"packagings"`
}

// APIPackaging is one packaging of a material.
type APIPackaging struct {
	Packaging             Text   `json:"packaging"`
	GrossWeight           Number `json:"gross_weight"`
	GrossVolume           Number `json:"gross_volume"`
	Height                Number `json:"height"`
	Width                 Number `json:"width"`
	Length                Number `json:"length"`
	SubPackagingQuantity  Number `json:"sub_packaging_quantity"`
	BasePackagingQuantity Number `json:"base_packaging_quantity"`
}

// UnitsPerCase is the sub-packaging quantity, else the base quantity, else one.
func (p APIPackaging) UnitsPerCase() float64 {
	switch {
	case p.SubPackagingQuantity != 0:
		return p.SubPackagingQuantity.Float()
	case p.BasePackagingQuantity != 0:
		return p.BasePackagingQuantity.Float()
	default:
		return 1
	}
}

// ReadAPIDocument decodes an order API response file. A top-level array is
// read as a list of adjustments, matching the inventory endpoints.
func ReadAPIDocument(path string) (APIDocument, error) {
	var doc APIDocument
	err := ReadJSON(path, &doc)
	if err == nil {
		return doc, nil
	}
	var adjustments []APIAdjustment
	if ReadJSON(path, &adjustments) == nil {
		return APIDocument{Adjustments: adjustments}, nil
	}
	return APIDocument{}, err
}
