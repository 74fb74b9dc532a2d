// Package valueobject holds the immutable value types shared across
// the domain layer.
package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code. The studio bills in INR; other codes
// exist only so mixed-currency arithmetic can be rejected.
type Currency string

const (
	INR Currency = "INR"
	USD Currency = "USD"
)

// DefaultCurrency applies wherever stored amounts carry no code
const DefaultCurrency = INR

// Money pairs a decimal amount with its currency. All operations
// return a new value; Money is never mutated in place.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney builds a Money, rejecting an empty currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString parses a decimal string into a Money
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyINR wraps a decimal amount as rupees
func NewMoneyINR(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: INR}
}

// NewMoneyINRFromFloat wraps a float64 amount as rupees
func NewMoneyINRFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: INR}
}

// NewMoneyINRFromString parses a decimal string as rupees
func NewMoneyINRFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d, currency: INR}, nil
}

// NewMoneyINRFromPaise converts an integer paise amount to rupees
func NewMoneyINRFromPaise(paise int64) Money {
	return Money{
		amount:   decimal.NewFromInt(paise).Div(decimal.NewFromInt(100)),
		currency: INR,
	}
}

// ZeroINR is the identity value for rupee accumulation
func ZeroINR() Money {
	return Money{amount: decimal.Zero, currency: INR}
}

// Amount returns the raw decimal amount
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code
func (m Money) Currency() Currency { return m.currency }

// IsZero reports whether the amount is exactly zero
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsPositive reports whether the amount is greater than zero
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// IsNegative reports whether the amount is below zero
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Paise converts to integer minor units, rounded to the nearest
// paisa. Gateway APIs only accept minor-unit amounts.
func (m Money) Paise() int64 {
	return m.amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (m Money) mismatch(op string, other Money) error {
	return fmt.Errorf("cannot %s money with different currencies: %s and %s",
		op, m.currency, other.currency)
}

// Add sums two amounts of the same currency
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, m.mismatch("add", other)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// MustAdd is Add for amounts known to share a currency, such as the
// per-channel accumulators on one order. Panics on a mismatch.
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract takes the difference of two amounts of the same currency.
// The result may be negative; callers that treat that as an error
// check IsNegative themselves.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, m.mismatch("subtract", other)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply scales the amount by an arbitrary decimal factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// MultiplyByInt scales the amount by an integer count
func (m Money) MultiplyByInt(factor int64) Money {
	return m.Multiply(decimal.NewFromInt(factor))
}

// Round rounds the amount to the given number of decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// CalculatePercentage returns percent of the amount, unrounded
func (m Money) CalculatePercentage(percent decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(percent).Div(decimal.NewFromInt(100)),
		currency: m.currency,
	}
}

// Equals reports amount and currency equality
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan compares two amounts of the same currency
func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, m.mismatch("compare", other)
	}
	return m.amount.LessThan(other.amount), nil
}

// GreaterThanOrEqual compares two amounts of the same currency
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, m.mismatch("compare", other)
	}
	return m.amount.GreaterThanOrEqual(other.amount), nil
}

// String renders the amount to two places with its currency code
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// StringFixed renders only the amount, at the given precision
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// MarshalJSON emits {"amount": "...", "currency": "..."}
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON decodes the MarshalJSON shape. The currency is taken
// as-is; an empty code from the payload surfaces later rather than
// here.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = amount
	m.currency = v.Currency
	return nil
}

// Value stores only the numeric amount; monetary columns are plain
// decimals.
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan reads a numeric column back, defaulting the currency when the
// receiver carries none.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}
