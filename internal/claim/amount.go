package claim

import (
	"fmt"
	"math/big"
	"strings"
)

// AmountDecimals is the fixed number of fractional digits an Amount carries.
const AmountDecimals = 18

var amountUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(AmountDecimals), nil)

// Amount is an unsigned fixed-point token quantity with 18 fractional digits,
// stored as an integer count of the smallest unit. The zero value is zero
// tokens and safe to use.
type Amount struct {
	i *big.Int
}

// AmountZero is the zero token quantity.
func AmountZero() Amount { return Amount{} }

// AmountOne is one whole token, the default payout.
func AmountOne() Amount { return NewAmount(1) }

// NewAmount returns an amount of whole tokens.
func NewAmount(tokens uint64) Amount {
	return Amount{new(big.Int).Mul(new(big.Int).SetUint64(tokens), amountUnit)}
}

// ParseAmount parses a decimal string such as "1", "0.5", or "12.000000000000000001".
// Negative values and more than 18 fractional digits are rejected.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("parse amount: empty string")
	}
	if strings.HasPrefix(s, "-") {
		return Amount{}, fmt.Errorf("parse amount %q: negative amounts are not allowed", s)
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > AmountDecimals {
		return Amount{}, fmt.Errorf("parse amount %q: more than %d fractional digits", s, AmountDecimals)
	}

	w, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return Amount{}, fmt.Errorf("parse amount %q: invalid integer part", s)
	}
	v := new(big.Int).Mul(w, amountUnit)

	if frac != "" {
		f, ok := new(big.Int).SetString(frac, 10)
		if !ok {
			return Amount{}, fmt.Errorf("parse amount %q: invalid fractional part", s)
		}
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(AmountDecimals-len(frac))), nil)
		v.Add(v, new(big.Int).Mul(f, scale))
	}
	return Amount{v}, nil
}

// AmountFromBytes decodes a big-endian unsigned integer of smallest units.
func AmountFromBytes(b []byte) Amount {
	if len(b) == 0 {
		return Amount{}
	}
	return Amount{new(big.Int).SetBytes(b)}
}

// Bytes encodes the amount as a big-endian unsigned integer of smallest units.
func (a Amount) Bytes() []byte {
	if a.i == nil {
		return nil
	}
	return a.i.Bytes()
}

// String renders the amount as a decimal, trimming trailing fractional zeros.
func (a Amount) String() string {
	v := a.int()
	q, r := new(big.Int).QuoRem(v, amountUnit, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	frac := strings.TrimRight(fmt.Sprintf("%0*s", AmountDecimals, r.String()), "0")
	return q.String() + "." + frac
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{new(big.Int).Add(a.int(), b.int())}
}

// Sub returns a - b. The caller is responsible for checking Cmp first; a
// negative result indicates a bookkeeping bug and panics.
func (a Amount) Sub(b Amount) Amount {
	v := new(big.Int).Sub(a.int(), b.int())
	if v.Sign() < 0 {
		panic("amount underflow")
	}
	return Amount{v}
}

// Cmp compares a and b: -1 if a < b, 0 if equal, 1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.int().Cmp(b.int())
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.int().Sign() == 0
}

// Equal reports whether a and b represent the same quantity.
func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

// MarshalJSON encodes the amount as its decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON decodes a decimal string amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Amount) int() *big.Int {
	if a.i == nil {
		return new(big.Int)
	}
	return a.i
}
