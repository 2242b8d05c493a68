// Package fixedwidth extracts fields from fixed-width records and groups
// records into split units by a key field.
package fixedwidth

import "strings"

// Field is a 1-based inclusive column range.
type Field struct {
	Start int
	End   int
}

// Slice returns the trimmed text of line between the 1-based inclusive
// columns start and end. Columns past the end of the line are ignored, so
// a short line yields whatever it has from start onwards. Columns count
// runes, not bytes. It never panics.
func Slice(line string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end < start {
		return ""
	}
	runes := []rune(line)
	if start > len(runes) {
		return ""
	}
	if end > len(runes) {
		end = len(runes)
	}
	return strings.TrimSpace(string(runes[start-1 : end]))
}

// Slice extracts the field from line.
func (f Field) Slice(line string) string {
	return Slice(line, f.Start, f.End)
}

// Width is the number of columns the field spans.
func (f Field) Width() int {
	if f.End < f.Start {
		return 0
	}
	return f.End - f.Start + 1
}

// FieldMap names the fields of one record layout.
type FieldMap map[string]Field

// Record is one parsed fixed-width line keyed by field name.
type Record map[string]string

// Parse extracts every field of m from line.
func (m FieldMap) Parse(line string) Record {
	rec := make(Record, len(m))
	for name, f := range m {
		rec[name] = f.Slice(line)
	}
	return rec
}

// Get returns the named value, or the empty string when absent.
func (r Record) Get(name string) string {
	return r[name]
}
