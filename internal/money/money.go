// Package money represents monetary amounts as integer cents.
//
// All balance and split arithmetic in the application happens on Cents so
// repeated additions never accumulate binary-float drift. Floats appear only
// at the API boundary, where amounts are rendered with two decimal places.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned when a string or float cannot be interpreted
// as a positive monetary amount.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// Cents is a monetary amount in minor units (1/100 of the currency unit).
type Cents int64

// FromFloat converts a decimal amount (e.g. 12.345) to Cents, rounding
// half away from zero on the third decimal place.
func FromFloat(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

// Float returns the amount as a float64 with two decimal places of
// significance. Intended for JSON responses only, not for arithmetic.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// Abs returns the non-negative magnitude of the amount.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// String formats the amount with two decimals, e.g. "33.34" or "-0.50".
func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// UnmarshalJSON accepts an amount either as a JSON number (42.5) or as a
// decimal string ("42.50" or "42,50"), rounding to the nearest cent.
// String amounts go through ParseDecimal and must be strictly positive.
func (c *Cents) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseDecimal(s)
		if err != nil {
			return err
		}
		*c = v
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = FromFloat(f)
	return nil
}

// ParseDecimal converts a decimal string to Cents. It accepts both dot
// (12.34) and comma (12,34) separators and rounds half up on the third
// decimal digit. Only strictly positive amounts are accepted.
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
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxWhole = math.MaxInt64 / 100
	if whole > maxWhole {
		return 0, ErrInvalidAmount
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}

	cents := Cents(whole*100 + frac)
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
