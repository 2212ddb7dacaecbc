// Package ratio provides exact, always-reduced integer ratios.
package ratio

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	// ErrZeroDenominator is returned when a fraction has a zero denominator.
	ErrZeroDenominator = errors.New("denominator must not be zero")

	// ErrNonPositive is returned when a target ratio term is zero or negative.
	ErrNonPositive = errors.New("ratio terms must be positive")

	// ErrOverflow is returned when a product of ratios does not fit in int64.
	ErrOverflow = errors.New("ratio overflows int64")
)

// Ratio is an input:output revolution ratio in lowest terms.
type Ratio struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// GCD returns the greatest common divisor of a and b using the Euclidean
// algorithm. GCD(a, 0) is |a| and GCD(0, 0) is 0.
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// Simplify divides num and den by their greatest common divisor.
// The sign is carried on the numerator.
func Simplify(num, den int64) (Ratio, error) {
	if den == 0 {
		return Ratio{}, ErrZeroDenominator
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := GCD(num, den)
	return Ratio{Num: num / g, Den: den / g}, nil
}

// MustSimplify is like Simplify but panics on a zero denominator.
// It is intended for literals in tests and tables.
func MustSimplify(num, den int64) Ratio {
	r, err := Simplify(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

// String renders the ratio as "num:den".
func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.Num, r.Den)
}

// Float returns num/den. Only used for distance comparisons.
func (r Ratio) Float() float64 {
	return float64(r.Num) / float64(r.Den)
}

// Equal reports whether both terms match.
func (r Ratio) Equal(o Ratio) bool {
	return r.Num == o.Num && r.Den == o.Den
}

// Mul returns r multiplied by num/den in lowest terms. r must already be
// reduced. Factors are cancelled across the two fractions before
// multiplying, and ErrOverflow is returned when a term of the result still
// does not fit in int64.
func (r Ratio) Mul(num, den int64) (Ratio, error) {
	if den == 0 || r.Den == 0 {
		return Ratio{}, ErrZeroDenominator
	}
	if g := GCD(r.Num, den); g > 1 {
		r.Num, den = r.Num/g, den/g
	}
	if g := GCD(num, r.Den); g > 1 {
		num, r.Den = num/g, r.Den/g
	}
	n, okN := mulInt64(r.Num, num)
	d, okD := mulInt64(r.Den, den)
	if !okN || !okD {
		return Ratio{}, ErrOverflow
	}
	if d < 0 {
		if n == math.MinInt64 || d == math.MinInt64 {
			return Ratio{}, ErrOverflow
		}
		n, d = -n, -d
	}
	return Ratio{Num: n, Den: d}, nil
}

// mulInt64 returns a*b and whether the product fits in int64.
func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// Cmp compares r and o by value and returns -1, 0 or +1. Both denominators
// must be non-zero.
func (r Ratio) Cmp(o Ratio) int {
	return big.NewRat(r.Num, r.Den).Cmp(big.NewRat(o.Num, o.Den))
}

// Positive reports whether both terms are greater than zero.
func (r Ratio) Positive() bool {
	return r.Num > 0 && r.Den > 0
}

// Parse reads a ratio written as "num:den". A "num-den" form is also accepted
// so ratios can appear in URL paths.
func Parse(s string) (Ratio, error) {
	sep := ":"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	numStr, denStr, ok := strings.Cut(strings.TrimSpace(s), sep)
	if !ok {
		return Ratio{}, fmt.Errorf("invalid ratio %q: expected num:den", s)
	}
	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	r, err := Simplify(num, den)
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	return r, nil
}

// FromDecimals converts two positive decimal numbers into a reduced ratio.
// "6" and "2" become 3:1; "13.5" and "1" become 27:2.
func FromDecimals(x, y string) (Ratio, error) {
	xr, ok := new(big.Rat).SetString(strings.TrimSpace(x))
	if !ok {
		return Ratio{}, fmt.Errorf("invalid number %q", x)
	}
	yr, ok := new(big.Rat).SetString(strings.TrimSpace(y))
	if !ok {
		return Ratio{}, fmt.Errorf("invalid number %q", y)
	}
	if xr.Sign() <= 0 || yr.Sign() <= 0 {
		return Ratio{}, fmt.Errorf("%s:%s: %w", x, y, ErrNonPositive)
	}
	q := new(big.Rat).Quo(xr, yr)
	if !q.Num().IsInt64() || !q.Denom().IsInt64() {
		return Ratio{}, fmt.Errorf("%s:%s: ratio terms overflow int64", x, y)
	}
	return Ratio{Num: q.Num().Int64(), Den: q.Denom().Int64()}, nil
}

// ToOne renders the ratio with one side normalised to 1, so 27:2 reads
// "13.5:1" and 2:27 reads "1:13.5". Ratios that already have a 1 term are
// returned unchanged.
func ToOne(r Ratio) string {
	if r.Num == 1 || r.Den == 1 || r.Den == 0 || r.Num == 0 {
		return r.String()
	}
	if r.Num > r.Den {
		return strconv.FormatFloat(float64(r.Num)/float64(r.Den), 'f', -1, 64) + ":1"
	}
	return "1:" + strconv.FormatFloat(float64(r.Den)/float64(r.Num), 'f', -1, 64)
}
