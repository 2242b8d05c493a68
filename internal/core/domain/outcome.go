package domain

import "time"

// ReasonCode explains why a unit or artifact did not succeed.
// The empty code means success.
type ReasonCode string

// Reason codes recorded on outcomes.
const (
	ReasonNone             ReasonCode = ""
	ReasonNoData           ReasonCode = "no_data"
	ReasonConversionFailed ReasonCode = "conversion_failed"
	ReasonAPIRejected      ReasonCode = "api_rejected"
	ReasonAPIUnreachable   ReasonCode = "api_unreachable"
	ReasonSplitFailed      ReasonCode = "split_failed"
	ReasonDeliveryFallback ReasonCode = "delivery_fallback"
)

// Artifact is one file produced by a converter.
// Rows counts data records, excluding any header or trailer.
type Artifact struct {
	Path string
	Rows int
}

// APIResponse is the final status and body of a (possibly retried) API call.
// StatusCode is zero when no response was received.
type APIResponse struct {
	StatusCode int
	Body       string
	Attempts   int
}

// OK reports whether the response status is 2xx.
func (r APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// UnitOutcome is the result of converting and posting one split unit, or one whole file.
type UnitOutcome struct {
	// Unit names the split file or input file that was converted.
	Unit string
	// Artifact is the converted document that was posted, if any.
	Artifact string
	// OrderRef is the order reference found in the posted document.
	OrderRef string
	Response *APIResponse
	Reason   ReasonCode
	Err      error
}

// Succeeded reports whether the unit converted and, when posted, was accepted.
func (u UnitOutcome) Succeeded() bool {
	if u.Reason != ReasonNone || u.Err != nil {
		return false
	}
	return u.Response == nil || u.Response.OK()
}

// Detail is the text shown to operators for this unit: the response body or the error.
func (u UnitOutcome) Detail() string {
	switch {
	case u.Response != nil && u.Response.Body != "":
		return u.Response.Body
	case u.Err != nil:
		return u.Err.Error()
	default:
		return string(u.Reason)
	}
}

// ProcessingOutcome accumulates the unit outcomes of one input file.
type ProcessingOutcome struct {
	File  string
	Units []UnitOutcome
	// Artifacts lists every converted document emitted for the file.
	Artifacts []string
	// Disposition is the directory the source file was moved to, empty if the move failed.
	Disposition string
}

// Add records a unit outcome and its artifact.
func (o *ProcessingOutcome) Add(u UnitOutcome) {
	o.Units = append(o.Units, u)
	if u.Artifact != "" {
		o.Artifacts = append(o.Artifacts, u.Artifact)
	}
}

// Success is true iff the file produced at least one unit and every unit succeeded.
func (o ProcessingOutcome) Success() bool {
	if len(o.Units) == 0 {
		return false
	}
	for _, u := range o.Units {
		if !u.Succeeded() {
			return false
		}
	}
	return true
}

// Failed returns the units that did not succeed.
func (o ProcessingOutcome) Failed() []UnitOutcome {
	var out []UnitOutcome
	for _, u := range o.Units {
		if !u.Succeeded() {
			out = append(out, u)
		}
	}
	return out
}

// Responses returns the API responses of every posted unit.
func (o ProcessingOutcome) Responses() []APIResponse {
	var out []APIResponse
	for _, u := range o.Units {
		if u.Response != nil {
			out = append(out, *u.Response)
		}
	}
	return out
}

// SkippedArtifact is an outbound artifact that was not delivered.
type SkippedArtifact struct {
	Path   string
	Reason ReasonCode
}

// RunSummary describes one invocation of a flow.
type RunSummary struct {
	RunID      string
	Flow       FlowDefinition
	StartedAt  time.Time
	FinishedAt time.Time

	// Files holds inbound per-file outcomes.
	Files []ProcessingOutcome
	// Excluded lists fetched inbound files that did not match the start pattern.
	Excluded []string

	// Delivered holds outbound artifacts that reached their destination.
	Delivered []string
	// Skipped holds outbound artifacts that had no data.
	Skipped []SkippedArtifact
	// Fallbacks counts deliveries that fell back to a local copy.
	Fallbacks int
}

// Succeeded counts inbound files whose every unit succeeded.
func (s RunSummary) Succeeded() int {
	n := 0
	for _, f := range s.Files {
		if f.Success() {
			n++
		}
	}
	return n
}

// FailedFiles counts inbound files that were dead-lettered.
func (s RunSummary) FailedFiles() int {
	return len(s.Files) - s.Succeeded()
}

// Duration is the wall-clock time of the run.
func (s RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
