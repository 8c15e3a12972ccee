package clean

import (
	"math"
	"strconv"
	"strings"
)

// Float is a float64 whose NaN state means "missing". It round-trips through
// CSV as an empty cell and parses unparseable input as missing instead of
// failing the batch.
type Float float64

// Missing is the missing-value sentinel.
var Missing = Float(math.NaN())

// ParseFloat coerces s to a Float; anything unparseable becomes missing.
func ParseFloat(s string) Float {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Missing
	}
	return Float(f)
}

// Missing reports whether the value is absent.
func (f Float) Missing() bool { return math.IsNaN(float64(f)) }

// MarshalCSV renders missing values as empty cells.
func (f Float) MarshalCSV() ([]byte, error) {
	if f.Missing() {
		return nil, nil
	}
	return strconv.AppendFloat(nil, float64(f), 'g', -1, 64), nil
}

// UnmarshalCSV parses a CSV cell, coercing empty or malformed input to missing.
func (f *Float) UnmarshalCSV(data []byte) error {
	*f = ParseFloat(string(data))
	return nil
}

func (f Float) text() string {
	if f.Missing() {
		return ""
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}
