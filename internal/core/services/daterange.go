package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// DateRangeLayout is the timestamp format written into payload filters.
const DateRangeLayout = "2006-01-02T15:04:05.000Z"

// DateWindowDays is how many days before yesterday the window starts.
const DateWindowDays = 7

// DateRangePairs are the filter bounds rewritten in outbound payloads.
var DateRangePairs = [][2]string{
	{"created_from", "created_to"},
	{"fulfilled_from", "fulfilled_to"},
	{"completed_from", "completed_to"},
}

// TrailingWindow returns the payload date window for a run at now:
// yesterday 23:59:59.999 back to midnight DateWindowDays days earlier, in UTC.
func TrailingWindow(now time.Time) (start, end time.Time) {
	y, m, d := now.UTC().AddDate(0, 0, -1).Date()
	end = time.Date(y, m, d, 23, 59, 59, 999_000_000, time.UTC)
	start = time.Date(y, m, d-DateWindowDays, 0, 0, 0, 0, time.UTC)
	return start, end
}

// RewriteDateRanges replaces every filter pair in doc whose two bounds are
// both present. A pair with a missing bound is left as it is. It returns
// the "from" keys that were rewritten.
func RewriteDateRanges(doc map[string]any, now time.Time) []string {
	filters, ok := doc["filters"].(map[string]any)
	if !ok {
		return nil
	}
	start, end := TrailingWindow(now)
	from, to := start.Format(DateRangeLayout), end.Format(DateRangeLayout)

	var rewritten []string
	for _, pair := range DateRangePairs {
		_, hasFrom := filters[pair[0]]
		_, hasTo := filters[pair[1]]
		if !hasFrom || !hasTo {
			continue
		}
		filters[pair[0]] = from
		filters[pair[1]] = to
		rewritten = append(rewritten, pair[0])
	}
	return rewritten
}

// RewritePayloadFile applies RewriteDateRanges to the JSON payload at path in place.
func RewritePayloadFile(path string, now time.Time) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPayloadMissing, path)
		}
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: payload %s: %v", domain.ErrInvalidInput, path, err)
	}

	rewritten := RewriteDateRanges(doc, now)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write payload: %w", err)
	}
	return rewritten, nil
}
