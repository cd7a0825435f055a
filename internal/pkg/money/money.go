// Package money holds currency amounts as integer minor units (cents) so that
// pricing never goes through floating point.
package money

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

var (
	ErrInvalidAmount = errors.New("invalid money amount")
	ErrOverflow      = errors.New("money amount overflows")
)

// Cents is an amount in the currency's minor unit.
type Cents int64

// Parse reads a decimal amount such as "150", "150.5" or "150.00".
// At most two fractional digits are accepted.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" || !isDigits(whole) || (hasDot && (frac == "" || !isDigits(frac))) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", ErrInvalidAmount, s)
	}
	frac += strings.Repeat("0", 2-len(frac))

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)

	total, err := Cents(units).MulInt(100)
	if err != nil {
		return 0, err
	}
	total += Cents(cents)
	if total < 0 {
		return 0, ErrOverflow
	}
	if neg {
		total = -total
	}
	return total, nil
}

// MustParse is Parse for constants in tests and fixtures.
func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MulInt multiplies the amount by n, failing on overflow.
func (c Cents) MulInt(n int64) (Cents, error) {
	if c == 0 || n == 0 {
		return 0, nil
	}
	r := int64(c) * n
	if r/n != int64(c) {
		return 0, ErrOverflow
	}
	return Cents(r), nil
}

// String renders the amount with exactly two decimals.
func (c Cents) String() string {
	sign := ""
	v := uint64(c)
	if c < 0 {
		sign = "-"
		v = uint64(-c)
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a JSON number, e.g. 450.00.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ScanNumeric lets pgx scan NUMERIC columns directly into Cents.
func (c *Cents) ScanNumeric(n pgtype.Numeric) error {
	if !n.Valid {
		return fmt.Errorf("%w: NULL", ErrInvalidAmount)
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return fmt.Errorf("%w: not a finite number", ErrInvalidAmount)
	}

	v := new(big.Int)
	if n.Int != nil {
		v.Set(n.Int)
	}

	ten := big.NewInt(10)
	switch exp := int64(n.Exp) + 2; {
	case exp > 0:
		v.Mul(v, new(big.Int).Exp(ten, big.NewInt(exp), nil))
	case exp < 0:
		div := new(big.Int).Exp(ten, big.NewInt(-exp), nil)
		rem := new(big.Int)
		v.QuoRem(v, div, rem)
		if rem.Sign() != 0 {
			return fmt.Errorf("%w: more precision than cents", ErrInvalidAmount)
		}
	}

	if !v.IsInt64() {
		return ErrOverflow
	}
	*c = Cents(v.Int64())
	return nil
}

// NumericValue lets pgx encode Cents into NUMERIC parameters.
func (c Cents) NumericValue() (pgtype.Numeric, error) {
	return pgtype.Numeric{Int: big.NewInt(int64(c)), Exp: -2, Valid: true}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
