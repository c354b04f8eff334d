package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a non-negative currency amount with exactly two fractional digits.
// All arithmetic is exact decimal; binary floating point never enters the bid
// path. Rendering rounds HALF-UP to two decimals and serializes as a string.
type Money struct {
	amount decimal.Decimal
}

// NewMoney parses a decimal string into Money. Negative values and values
// with more than two fractional digits are rejected.
func NewMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.IsNegative() {
		return Money{}, fmt.Errorf("amount %q must not be negative", value)
	}
	if d.Exponent() < -2 {
		return Money{}, fmt.Errorf("amount %q has more than two decimal places", value)
	}
	return Money{amount: d}, nil
}

// MustMoney parses a decimal string and panics on failure. Intended for
// constants and tests.
func MustMoney(value string) Money {
	m, err := NewMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Cmp compares amounts: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.amount.Cmp(other.amount) < 0
}

// GreaterThanEqual reports whether m >= other.
func (m Money) GreaterThanEqual(other Money) bool {
	return m.amount.Cmp(other.amount) >= 0
}

// Equal reports whether the amounts are numerically equal.
func (m Money) Equal(other Money) bool {
	return m.amount.Cmp(other.amount) == 0
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String renders the amount with two decimal places, HALF-UP.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON renders the amount as a quoted string to avoid precision loss
// in transport.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted strings and bare JSON numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := NewMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database writes.
func (m Money) Value() (driver.Value, error) {
	return m.amount.Value()
}

// Scan implements sql.Scanner for database reads.
func (m *Money) Scan(value any) error {
	return m.amount.Scan(value)
}
