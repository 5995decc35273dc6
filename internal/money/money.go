// Package money provides fixed-point currency amounts in minor units.
//
// All ledger arithmetic is done on integer cents to avoid floating-point
// drift. Floats only appear at the JSON boundary, where the API speaks
// decimal amounts (e.g. 12.34).
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned when a string or number cannot be
// interpreted as a non-negative currency amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Cents is a currency amount in minor units (1/100 of the major unit).
type Cents int64

// FromFloat converts a major-unit amount to cents with half-up rounding
// on the third decimal place. Returns ErrInvalidAmount for negative,
// NaN or infinite values.
func FromFloat(v float64) (Cents, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidAmount
	}
	return Cents(math.Floor(v*100 + 0.5)), nil
}

// ParseDecimal converts a decimal string to cents.
//
// It accepts both dot (12.34) and comma (12,34) separators and performs
// half-up rounding on the third decimal place. Negative values are
// rejected; zero is allowed (a payer toggled on with nothing entered yet).
func ParseDecimal(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return Cents(iv*100 + fracCents), nil
}

// Float64 returns the major-unit value for display and JSON encoding.
// Use cents for calculations to avoid floating-point precision issues.
func (c Cents) Float64() float64 {
	return float64(c) / 100.0
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// String formats the amount with two decimals, e.g. "12.34".
func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a bare decimal number in major
// units, e.g. 12.34 or -5.00. Negative values occur in balance and
// settlement views, where they mean the member owes the group.
// UnmarshalJSON accepts this output unchanged, so encode and decode
// round-trip.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON decodes a decimal number in major units into cents with
// half-up rounding. Quoted numbers ("12.34") are accepted as well, for
// clients that send amounts as strings. Negative values are preserved;
// expense validation rejects them where they make no sense.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*c = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	neg := false
	if v < 0 {
		neg = true
		v = -v
	}
	parsed, err := FromFloat(v)
	if err != nil {
		return err
	}
	if neg {
		parsed = -parsed
	}
	*c = parsed
	return nil
}
