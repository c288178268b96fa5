package fintrack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Currency is the single currency every amount is expressed in.
const Currency = money.INR

// Money represents a monetary value in Currency.
//
// The zero value is a valid zero amount.
type Money struct {
	value decimal.Decimal // as major unit value
}

// M creates a Money from any numeric value.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// ParseMoney parses a decimal string like "-1250.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

// currency returns the go-money currency definition for Currency.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, Currency).Currency()
}

// String returns the amount formatted in Currency with Indian digit
// grouping, e.g. "₹1,250.50", "₹1,00,000.00" or "-₹40.00".
func (m Money) String() string {
	cur := m.currency()
	f := cur.Formatter()
	f.Thousand = ""
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return groupIndian(f.Format(dec.IntPart()), cur.Thousand)
}

// groupIndian separates the integer digits of a formatted amount in lakhs
// and crores: the last three digits, then groups of two.
func groupIndian(s, sep string) string {
	start := strings.IndexFunc(s, isDigit)
	if start < 0 {
		return s
	}
	end := start
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}
	digits := s[start:end]
	if len(digits) <= 3 {
		return s
	}
	grouped := digits[len(digits)-3:]
	digits = digits[:len(digits)-3]
	for len(digits) > 2 {
		grouped = digits[len(digits)-2:] + sep + grouped
		digits = digits[:len(digits)-2]
	}
	return s[:start] + digits + sep + grouped + s[end:]
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) Neg() Money               { return Money{value: m.value.Neg()} }
func (m Money) Abs() Money               { return Money{value: m.value.Abs()} }
func (m Money) Add(n Money) Money        { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money        { return Money{value: m.value.Sub(n.value)} }

// MarshalJSON encodes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

// UnmarshalJSON accepts a JSON number, a numeric string, or null (zero).
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	m.value = d
	return nil
}
