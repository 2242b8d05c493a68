package domain

import "sort"

// OrderDocument is the canonical JSON envelope exchanged with the order API.
type OrderDocument struct {
	Orders []CanonicalOrder `json:"orders"`
	Paging *Paging          `json:"paging,omitempty"`
}

// Paging is the page summary the order API attaches to search responses.
type Paging struct {
	TotalRecords    int `json:"total_records"`
	ReturnedRecords int `json:"returned_records"`
}

// CanonicalOrder is one partner-agnostic order.
type CanonicalOrder struct {
	Owner                 string        `json:"owner"`
	Project               string        `json:"project"`
	OrderClass            string        `json:"order_class"`
	OwnerReference        string        `json:"owner_reference"`
	VendorReference       string        `json:"vendor_reference"`
	RequestedDeliveryDate string        `json:"requested_delivery_date,omitempty"`
	Warehouse             string        `json:"warehouse"`
	Carrier               string        `json:"carrier"`
	CarrierService        string        `json:"carrier_service"`
	Addresses             []Address     `json:"addresses"`
	OrderLines            []OrderLine   `json:"order_lines"`
	CustomFields          []CustomField `json:"custom_fields"`
	Shipments             []Shipment    `json:"shipments"`
	Lookup                string        `json:"lookup"`
	Instructions          []string      `json:"instructions"`
	Currency              string        `json:"currency,omitempty"`
	Status                string        `json:"status,omitempty"`
	Notes                 string        `json:"notes,omitempty"`
	CreatedOn             string        `json:"created_on,omitempty"`
}

// OrderLine is one material line of an order.
type OrderLine struct {
	LineNumber     int           `json:"line_number"`
	Material       string        `json:"material"`
	VendorLot      string        `json:"vendor_lot"`
	Lot            string        `json:"lot"`
	Packaging      string        `json:"packaging"`
	PackagedAmount float64       `json:"packaged_amount"`
	UPC            string        `json:"upc"`
	ChildLines     []OrderLine   `json:"child_lines"`
	CustomFields   []CustomField `json:"custom_fields"`
	OrderID        int64         `json:"order_id"`
	Cost           float64       `json:"cost"`
	Price          float64       `json:"price"`
	Weight         float64       `json:"weight,omitempty"`
	DeliveryDates  *DateWindow   `json:"delivery_dates,omitempty"`
	ShipDates      *DateWindow   `json:"ship_dates,omitempty"`
	BackorderFlag  string        `json:"backorder_flag,omitempty"`
	Comment        string        `json:"comment,omitempty"`
	Status         string        `json:"status,omitempty"`
	VendorStatus   string        `json:"vendor_status,omitempty"`
}

// DateWindow is an earliest/latest pair; nil bounds serialise as null.
type DateWindow struct {
	Earliest *string `json:"earliest"`
	Latest   *string `json:"latest"`
}

// Address is a shipping or billing address attached to an order.
type Address struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Reference     string `json:"reference"`
	AttentionOf   string `json:"attention_of"`
	Line1         string `json:"line_1"`
	Line2         string `json:"line_2"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	Lookup        string `json:"lookup"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Fax           string `json:"fax"`
	Title         string `json:"title"`
	Greeting      string `json:"greeting"`
	FirstName     string `json:"first_name"`
	MiddleName    string `json:"middle_name"`
	LastName      string `json:"last_name"`
	IsResidential bool   `json:"is_residential"`
	Notes         string `json:"notes"`
	OrderID       int64  `json:"order_id"`
}

// CustomField is a free-form name/value pair.
type CustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Shipment is a fulfilment record reported back by the order API.
type Shipment struct {
	TrackingIdentifier string `json:"tracking_identifier"`
	Carrier            string `json:"carrier,omitempty"`
	ShippedOn          string `json:"shipped_on,omitempty"`
}

// Address types.
const (
	AddressShipping = "Shipping"
	AddressBilling  = "Billing"
)

// NewOrder returns an order with every list initialised so it serialises as [] rather than null.
func NewOrder() CanonicalOrder {
	return CanonicalOrder{
		Addresses:    []Address{},
		OrderLines:   []OrderLine{},
		CustomFields: []CustomField{},
		Shipments:    []Shipment{},
		Instructions: []string{},
	}
}

// NewOrderLine returns a line with empty child and custom field lists.
func NewOrderLine() OrderLine {
	return OrderLine{
		ChildLines:   []OrderLine{},
		CustomFields: []CustomField{},
	}
}

// SortLines orders lines by explicit line number, keeping encounter order for equal numbers.
func (o *CanonicalOrder) SortLines() {
	sort.SliceStable(o.OrderLines, func(i, j int) bool {
		return o.OrderLines[i].LineNumber < o.OrderLines[j].LineNumber
	})
}

// Empty reports whether the document carries no orders and the API said there were none.
func (d OrderDocument) Empty() bool {
	if len(d.Orders) > 0 {
		return false
	}
	return d.Paging == nil || (d.Paging.TotalRecords == 0 && d.Paging.ReturnedRecords == 0)
}
