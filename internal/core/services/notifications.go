package services

import (
	"encoding/json"
	"fmt"
	"html"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// MaxResponseChars caps the response text shown per row of a split report.
const MaxResponseChars = 2000

// orderRefKeys are tried in order when order_id is absent from an object.
var orderRefKeys = []string{"owner_reference", "lookup", "reference", "orderNumber", "order_number"}

// FindOrderRef returns the first order reference found in a decoded JSON value.
// An object's own order_id wins, then the first non-empty alternative key,
// then its children depth-first. Children of an ordered object are searched
// in document order; a plain map has none, so its keys are searched sorted.
func FindOrderRef(v any) string {
	switch t := v.(type) {
	case *orderedObject:
		return findInObject(t.get, t.keys)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return findInObject(func(k string) (any, bool) {
			v, ok := t[k]
			return v, ok
		}, keys)
	case []any:
		for _, item := range t {
			if ref := FindOrderRef(item); ref != "" {
				return ref
			}
		}
	}
	return ""
}

func findInObject(get func(string) (any, bool), keys []string) string {
	if id, ok := get("order_id"); ok && id != nil {
		return scalarString(id)
	}
	for _, k := range orderRefKeys {
		v, _ := get(k)
		if s := scalarString(v); s != "" {
			return s
		}
	}
	for _, k := range keys {
		v, _ := get(k)
		if ref := FindOrderRef(v); ref != "" {
			return ref
		}
	}
	return ""
}

// OrderRefFromPayload decodes a posted document and finds its order reference.
// The first order is searched before the envelope.
func OrderRefFromPayload(payload []byte) string {
	doc, err := decodeOrdered(payload)
	if err != nil {
		return ""
	}
	if obj, ok := doc.(*orderedObject); ok {
		orders, _ := obj.get("orders")
		if list, ok := orders.([]any); ok && len(list) > 0 {
			if ref := FindOrderRef(list[0]); ref != "" {
				return ref
			}
		}
	}
	return FindOrderRef(doc)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64, bool, json.Number:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// unitKey is the split key a unit file was named after.
func unitKey(unit string) string {
	if unit == "" {
		return "-"
	}
	return strings.TrimSuffix(filepath.Base(unit), ".txt")
}

// SplitReport renders the per-unit HTML table sent for split files.
func SplitReport(flow domain.FlowDefinition, outcome domain.ProcessingOutcome) domain.Notification {
	var b strings.Builder
	b.WriteString(`<html><body><p>Processing results:</p>`)
	b.WriteString(`<table border="1" cellpadding="5" cellspacing="0" style="border-collapse:collapse;font-family:Arial,Helvetica,sans-serif;">`)
	b.WriteString(`<thead style="background:#f2f2f2;"><tr><th>order_id</th><th>status</th><th>response</th></tr></thead><tbody>`)
	for _, u := range outcome.Units {
		ref := u.OrderRef
		if ref == "" {
			ref = unitKey(u.Unit)
		}
		status, response := "Success", "Success"
		if !u.Succeeded() {
			status = "Failed"
			response = truncate(u.Detail(), MaxResponseChars)
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(ref), status, html.EscapeString(response))
	}
	b.WriteString(`</tbody></table></body></html>`)

	return domain.Notification{
		Subject: fmt.Sprintf("[%s] Processed Split File %s", flow.Key(), filepath.Base(outcome.File)),
		Body:    b.String(),
		HTML:    true,
	}
}

// FailureReport renders the plain-text report sent when an unsplit file fails.
// It carries the full status and response of every failing unit.
func FailureReport(flow domain.FlowDefinition, outcome domain.ProcessingOutcome) domain.Notification {
	name := filepath.Base(outcome.File)
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n\nAPI Response(s):\n", name)
	for _, u := range outcome.Failed() {
		artifact := filepath.Base(u.Unit)
		if u.Artifact != "" {
			artifact = filepath.Base(u.Artifact)
		}
		status := "none"
		if u.Response != nil && u.Response.StatusCode != 0 {
			status = fmt.Sprint(u.Response.StatusCode)
		}
		fmt.Fprintf(&b, "Converted JSON file: %s\nHTTP status: %s\nResponse:\n%s\n\n", artifact, status, u.Detail())
	}
	return domain.Notification{
		Subject: fmt.Sprintf("[%s] Failed File %s", flow.Key(), name),
		Body:    b.String(),
	}
}

// OutboundReport summarises a completed outbound run with every delivered file attached.
func OutboundReport(flow domain.FlowDefinition, files []string) domain.Notification {
	lines := []string{
		fmt.Sprintf("The outbound flow %s completed successfully.", flow.Key()),
		fmt.Sprintf("Total files generated: %d", len(files)),
		"",
		"Files:",
	}
	lines = append(lines, files...)
	return domain.Notification{
		Subject:     "Outbound Flow Completed: " + flow.Key(),
		Body:        strings.Join(lines, "\n"),
		Attachments: files,
	}
}
