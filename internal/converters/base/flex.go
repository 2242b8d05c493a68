package base

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a JSON scalar read as text. Strings decode as-is, numbers and
// booleans keep their literal spelling, and null decodes as empty.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(b)
	}
	return nil
}

// String returns the trimmed text.
func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// Number is a JSON number that also accepts numeric strings. Anything
// that does not parse decodes as zero.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Float returns n as a float64.
func (n Number) Float() float64 {
	return float64(n)
}

// Int truncates n toward zero.
func (n Number) Int() int64 {
	return int64(n)
}

// String renders n without a trailing fraction when it is whole.
func (n Number) String() string {
	return FormatNumber(float64(n))
}
