package converters

import (
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/base"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/fc"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/converters/gnc"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// RegisterDefaults registers all built-in partner converters with the registry.
func RegisterDefaults(r *Registry) {
	// Inbound: partner file to canonical order JSON.
	r.Register("gnc.orders", func(o base.Options) driven.Converter { return gnc.NewOrders(o) })
	r.Register("gnc.asn", func(o base.Options) driven.Converter { return gnc.NewASN(o) })
	r.Register("fc.orders", func(o base.Options) driven.Converter { return fc.NewOrders(o) })
	r.Register("fc.asn", func(o base.Options) driven.Converter { return fc.NewASN(o) })

	// Outbound: order API JSON to partner file.
	r.Register("gnc.shipments_fixed", func(o base.Options) driven.Converter { return gnc.NewShipmentsFixed(o) })
	r.Register("gnc.shipments_csv", func(o base.Options) driven.Converter { return gnc.NewShipmentsCSV(o) })
	r.Register("gnc.sales_order_dat", func(o base.Options) driven.Converter { return gnc.NewSalesOrders(o) })
	r.Register("gnc.inventory_csv", func(o base.Options) driven.Converter { return gnc.NewInventory(o) })
	r.Register("gnc.daily_client", func(o base.Options) driven.Converter { return gnc.NewDailyClient(o) })
	r.Register("fc.shipments_csv", func(o base.Options) driven.Converter { return fc.NewShipments(o) })
	r.Register("fc.receipts_dat", func(o base.Options) driven.Converter { return fc.NewReceipts(o) })
	r.Register("fc.material_packaging", func(o base.Options) driven.Converter { return fc.NewMaterialPackaging(o) })
	r.Register("fc.daily_client", func(o base.Options) driven.Converter { return fc.NewDailyClient(o) })
	r.RegisterFunc("fc.inventory_adjustments", fc.ConvertAdjustments)
}

// NewDefaultRegistry returns a registry with every built-in converter.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
