// Package core provides money parsing and handling utilities.
//
// This file contains the permissive amount coercion used by expense
// creation and the JSON encoding of Money as a plain decimal number.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal currency amount. The value is kept as entered,
// so sub-cent digits survive a load and save cycle. Negative values are
// representable: nothing upstream enforces positivity.
type Money struct {
	d decimal.Decimal
}

// numericPrefix matches the leading numeric part of a string the way a loose
// string-to-float cast does: optional whitespace, sign, digits, fraction and
// exponent. Whatever follows is ignored.
var numericPrefix = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// maxExponent bounds the decimal exponent accepted from free-form input.
// Wider values would expand into enormous digit strings when rendered.
const maxExponent = 64

// Cents builds Money from a whole number of cents.
func Cents(c int64) Money {
	return Money{d: decimal.New(c, -2)}
}

// NewMoney wraps an exact decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d}
}

// ParseMoney parses a canonical decimal string such as "4.999" or "-3".
// Unlike CoerceAmount it fails on anything that is not a complete number.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Money{d: d}, nil
}

// CoerceAmount converts free-form input to Money without ever failing.
//
// The longest leading numeric prefix is used verbatim, without rounding.
// Input with no numeric prefix, or with an exponent beyond ±64, becomes zero.
//
// Examples:
//
//	CoerceAmount("4.50")  -> 4.50
//	CoerceAmount("4.999") -> 4.999
//	CoerceAmount("12abc") -> 12
//	CoerceAmount("1,50")  -> 1
//	CoerceAmount("abc")   -> 0
func CoerceAmount(s string) Money {
	m := strings.TrimLeft(numericPrefix.FindString(s), " \t\n\r\v\f")
	if m == "" {
		return Money{}
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return Money{}
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return Money{}
	}
	return Money{d: d}
}

// Decimal returns the exact underlying value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// Cents returns the amount rounded half away from zero to whole cents.
// It is meant for display and logging; arithmetic stays on the decimal.
func (m Money) Cents() int64 {
	return m.d.Round(2).Shift(2).IntPart()
}

// Float returns the amount as a float64 for charting.
func (m Money) Float() float64 {
	return m.d.InexactFloat64()
}

func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

// DivInt divides the amount by n. Division by zero or a negative count
// returns zero.
func (m Money) DivInt(n int) Money {
	if n <= 0 {
		return Money{}
	}
	return Money{d: m.d.Div(decimal.NewFromInt(int64(n)))}
}

// Round returns the amount rounded half away from zero to places decimals.
func (m Money) Round(places int32) Money {
	return Money{d: m.d.Round(places)}
}

func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// String renders the amount with two decimals for humans.
func (m Money) String() string {
	return m.d.StringFixed(2)
}

// Exact renders the amount with every stored digit. Storage layers persist
// this form.
func (m Money) Exact() string {
	return m.d.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON accepts a JSON number, a numeric string (coerced) or null.
// Numbers are kept digit for digit.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode amount: %w", err)
		}
		*m = CoerceAmount(s)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("decode amount %s: %w", data, err)
	}
	*m = Money{d: d}
	return nil
}
