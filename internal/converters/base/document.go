package base

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/fixedwidth"
)

// ReadJSON decodes the file at path into v. A file holding a JSON string
// whose content is itself JSON is unwrapped first, since some order API
// endpoints answer that way.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err == nil {
			data = []byte(inner)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteJSON writes v to path with the given indent, creating parent directories.
func WriteJSON(path string, v any, indent string) error {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRecords returns the lines of a flat file without line terminators,
// dropping blank lines and end-of-transmission markers.
func ReadRecords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == fixedwidth.EndOfTransmission {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

var nonDigits = regexp.MustCompile(`\D`)

// Digits parses the digits of s as an integer, ignoring every other
// character. It returns def when s has no digits.
func Digits(s string, def int64) int64 {
	d := nonDigits.ReplaceAllString(s, "")
	if d == "" {
		return def
	}
	n, err := strconv.ParseInt(d, 10, 64)
	if err != nil {
		return def
	}
	return n
}

var nonNumeric = regexp.MustCompile(`[^\d.\-]`)

// Amount parses a decimal amount, ignoring thousands separators and any
// other stray characters. It returns zero when nothing parses.
func Amount(s string) decimal.Decimal {
	clean := nonNumeric.ReplaceAllString(strings.ReplaceAll(s, ",", ""), "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SplitName splits a full name at its first space.
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if i := strings.Index(full, " "); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

// ZeroFill left-pads s with zeros to width n. Longer values are kept whole.
func ZeroFill(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp reads an ISO-8601 timestamp as sent by the order API.
// Timestamps without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CompactDate converts a YYYYMMDD value to midnight of that day in layout.
// Values that are not eight digits are returned unchanged and an empty
// value yields nil.
func CompactDate(v, layout string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if len(v) == 8 {
		if t, err := time.Parse("20060102", v); err == nil {
			out := t.Format(layout)
			return &out
		}
	}
	return &v
}

// FormatNumber renders f without a trailing fraction when it is whole.
func FormatNumber(f float64) string {
	return decimal.NewFromFloat(f).String()
}

// Round renders f rounded to places decimal places.
func Round(f float64, places int32) string {
	return decimal.NewFromFloat(f).Round(places).String()
}
