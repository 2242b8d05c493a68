// Package fc converts FC partner files to and from canonical orders.
package fc

// Warehouse receives every FC order.
const Warehouse = "2301"

const (
	// isoMidnight renders partner dates as UTC midnight.
	isoMidnight = "2006-01-02T15:04:05Z"
	// isoLocal renders partner dates without a zone.
	isoLocal = "2006-01-02T15:04:05"
)
