package domain

import "time"

// DefaultPackaging is used when a packaging lookup yields nothing usable.
const DefaultPackaging = "EA"

// PackagingCandidate is one packaging returned by the material API.
// BaseQuantity is nil when the API omitted it or sent a non-numeric value.
type PackagingCandidate struct {
	Packaging    string
	BaseQuantity *float64
}

// Notification is an operator email.
type Notification struct {
	Subject     string
	Body        string
	HTML        bool
	Attachments []string
}

// AuditEvent is one row of the flow response audit trail.
type AuditEvent struct {
	RunID      string
	FlowKey    string
	FileName   string
	Payload    string
	StatusCode int
	Response   string
	CreatedAt  time.Time
}
