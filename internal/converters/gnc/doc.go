// Package gnc converts GNC partner files to and from canonical orders.
package gnc

// Client is the client abbreviation GNC expects on outbound records.
const Client = "MRS"

// Warehouse receives every GNC order.
const Warehouse = "2301"
