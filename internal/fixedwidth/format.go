package fixedwidth

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Align selects how a value is padded into its column.
type Align int

const (
	// AlignLeft pads with trailing spaces.
	AlignLeft Align = iota
	// AlignZero pads with leading zeros.
	AlignZero
)

// Column is one output field of a positional record.
type Column struct {
	Name    string
	Width   int
	Align   Align
	Default string
}

// Pad fits value into the column, truncating values that are too long.
// An empty value is replaced by the column default.
func (c Column) Pad(value string) string {
	if value == "" {
		value = c.Default
	}
	n := utf8.RuneCountInString(value)
	if n > c.Width {
		return string([]rune(value)[:c.Width])
	}
	fill := strings.Repeat(" ", c.Width-n)
	if c.Align == AlignZero {
		fill = strings.Repeat("0", c.Width-n)
		return fill + value
	}
	return value + fill
}

// Layout is an ordered list of columns.
type Layout []Column

// Width is the total record width.
func (l Layout) Width() int {
	w := 0
	for _, c := range l {
		w += c.Width
	}
	return w
}

// Format renders one record. Values are looked up by column name;
// missing names render the column default.
func (l Layout) Format(values map[string]string) string {
	var b strings.Builder
	b.Grow(l.Width())
	for _, c := range l {
		b.WriteString(c.Pad(values[c.Name]))
	}
	return b.String()
}

// Julian renders t as YYJJJ: two-digit year and three-digit day of year.
func Julian(t time.Time) string {
	return fmt.Sprintf("%02d%03d", t.Year()%100, t.YearDay())
}
