// internal/pkg/money/money.go
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of minor-unit digits per major unit (cents)
const Scale = 2

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrTooPrecise     = errors.New("amount has more than two decimal places")
)

// Amount is a currency value in minor units. Every price, subtotal and total
// in the system uses this one representation.
type Amount int64

// Zero is the zero amount
const Zero Amount = 0

// Parse converts a decimal string such as "49.99" or "10" into an Amount
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return Zero, ErrNegativeAmount
	}

	minor := d.Shift(Scale)
	if !minor.Equal(minor.Truncate(0)) {
		return Zero, ErrTooPrecise
	}
	if !minor.LessThanOrEqual(decimal.NewFromInt(1 << 53)) {
		return Zero, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
	}

	return Amount(minor.IntPart()), nil
}

// MustParse is Parse for literals known to be valid
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Times returns the amount multiplied by a quantity
func (a Amount) Times(quantity int) Amount {
	return a * Amount(quantity)
}

// Decimal returns the amount in major units
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String renders the amount with exactly two decimals
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// MarshalJSON renders the amount as a JSON number in major units
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// Value stores the amount as an integer column
func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

// Scan reads an integer column
func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*a = Amount(v)
	case []byte:
		return a.scanString(string(v))
	case string:
		return a.scanString(v)
	case nil:
		*a = Zero
	default:
		return fmt.Errorf("money: cannot scan %T into Amount", src)
	}
	return nil
}

func (a *Amount) scanString(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("money: cannot scan %q into Amount: %w", s, err)
	}
	*a = Amount(v)
	return nil
}
