package kernel

import (
	"encoding/json"
	"fmt"

	"storefront/internal/pkg/errs"
)

// Money is a value object representing a non-negative monetary amount.
// Amounts are stored in cents to avoid floating point rounding in order totals;
// the storefront sells in a single currency, so no currency code is carried.
//
// The zero value is a valid amount of zero. Money is immutable: arithmetic
// methods return new values.
//
// Example usage:
//
//	subtotal, _ := kernel.NewMoney(4999)
//	tax, _ := kernel.NewMoney(400)
//	total := subtotal.Add(tax)
//	fmt.Println(total.String()) // "53.99"
type Money struct {
	cents int64
}

// NewMoney creates a Money value from an amount in cents.
// Returns an error if the amount is negative; order monetary fields
// (subtotal, tax, shipping cost, total) are never negative.
func NewMoney(cents int64) (Money, error) {
	m := Money{cents: cents}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// IsEqual compares two amounts for equality.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String returns the decimal representation, e.g. "53.99".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// MarshalJSON encodes the amount as an integer number of cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.cents)
}

// UnmarshalJSON decodes an integer number of cents and validates it.
func (m *Money) UnmarshalJSON(data []byte) error {
	var cents int64
	if err := json.Unmarshal(data, &cents); err != nil {
		return err
	}
	parsed, err := NewMoney(cents)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Validate checks that the amount is non-negative.
func (m Money) Validate() error {
	if m.cents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d cents is negative", m.cents))
	}
	return nil
}
