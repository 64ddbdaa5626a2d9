// Package ql implements exact rational arithmetic for musical time.
//
// All offsets and durations in this library are measured in quarter-note
// units ("quarter lengths") and stored as rationals so that triplet and
// other non-binary positions stay exact. Values arriving as floats are
// snapped to the closest rational with a bounded denominator, the same
// normalization the rest of the library relies on for map-key equality.
package ql

import (
	"fmt"
	"math"
	"math/big"
)

// DenominatorLimit bounds the denominator of values coerced from floats.
const DenominatorLimit = 65535

// QL is an exact quarter-length value. The zero value is 0. QL values are
// canonical (reduced, positive denominator), so == compares equality for
// any values produced by this package.
type QL struct {
	num int64
	den int64
}

// Zero is the QL constant 0.
var Zero = QL{0, 1}

// New returns the canonical rational num/den. It panics if den is zero.
func New(num, den int64) QL {
	if den == 0 {
		panic("ql: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := Gcd(abs64(num), den); g > 1 {
		num /= g
		den /= g
	}
	return QL{num, den}
}

// FromInt returns n as a QL.
func FromInt(n int64) QL {
	return QL{n, 1}
}

// FromFloat converts f to an exact rational when f is binary-representable
// within the denominator limit, and otherwise to the closest rational with
// denominator at most DenominatorLimit. It panics on NaN or infinities.
func FromFloat(f float64) QL {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("ql: cannot represent %v", f))
	}
	r := new(big.Rat).SetFloat64(f)
	if r.Denom().IsInt64() {
		if d := r.Denom().Int64(); d <= DenominatorLimit {
			return QL{r.Num().Int64(), d}
		}
	}
	return limitRat(r, DenominatorLimit)
}

// canon maps the uninitialized zero value onto the canonical zero.
func (q QL) canon() QL {
	if q.den == 0 {
		return QL{0, 1}
	}
	return q
}

// Num returns the reduced numerator.
func (q QL) Num() int64 { return q.canon().num }

// Den returns the reduced denominator, always positive.
func (q QL) Den() int64 { return q.canon().den }

// Add returns q + r.
func (q QL) Add(r QL) QL {
	q, r = q.canon(), r.canon()
	return New(q.num*r.den+r.num*q.den, q.den*r.den)
}

// Sub returns q - r.
func (q QL) Sub(r QL) QL {
	q, r = q.canon(), r.canon()
	return New(q.num*r.den-r.num*q.den, q.den*r.den)
}

// Mul returns q * r.
func (q QL) Mul(r QL) QL {
	q, r = q.canon(), r.canon()
	return New(q.num*r.num, q.den*r.den)
}

// Div returns q / r. It panics when r is zero.
func (q QL) Div(r QL) QL {
	q, r = q.canon(), r.canon()
	if r.num == 0 {
		panic("ql: division by zero")
	}
	return New(q.num*r.den, q.den*r.num)
}

// Neg returns -q.
func (q QL) Neg() QL {
	q = q.canon()
	return QL{-q.num, q.den}
}

// Abs returns the magnitude of q.
func (q QL) Abs() QL {
	q = q.canon()
	if q.num < 0 {
		return QL{-q.num, q.den}
	}
	return q
}

// Cmp compares q and r, returning -1, 0 or +1.
func (q QL) Cmp(r QL) int {
	q, r = q.canon(), r.canon()
	lhs := q.num * r.den
	rhs := r.num * q.den
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// Less reports q < r.
func (q QL) Less(r QL) bool { return q.Cmp(r) < 0 }

// LessEq reports q <= r.
func (q QL) LessEq(r QL) bool { return q.Cmp(r) <= 0 }

// Equal reports q == r, tolerating uninitialized zero values.
func (q QL) Equal(r QL) bool { return q.canon() == r.canon() }

// Sign returns -1, 0 or +1 according to the sign of q.
func (q QL) Sign() int {
	q = q.canon()
	switch {
	case q.num < 0:
		return -1
	case q.num > 0:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether q is zero.
func (q QL) IsZero() bool { return q.canon().num == 0 }

// Float64 returns the nearest float64 to q.
func (q QL) Float64() float64 {
	q = q.canon()
	return float64(q.num) / float64(q.den)
}

// Floor returns the largest integer not greater than q.
func (q QL) Floor() int64 {
	q = q.canon()
	return floorDiv(q.num, q.den)
}

// String renders integers bare and other values as num/den.
func (q QL) String() string {
	q = q.canon()
	if q.den == 1 {
		return fmt.Sprintf("%d", q.num)
	}
	return fmt.Sprintf("%d/%d", q.num, q.den)
}

// Min returns the smaller of a and b.
func Min(a, b QL) QL {
	if a.Cmp(b) <= 0 {
		return a.canon()
	}
	return b.canon()
}

// Max returns the larger of a and b.
func Max(a, b QL) QL {
	if a.Cmp(b) >= 0 {
		return a.canon()
	}
	return b.canon()
}

// LimitDenominator returns the closest rational to q whose denominator does
// not exceed max. Ties between the two continued-fraction bounds resolve to
// the upper bound. It panics when max < 1.
func (q QL) LimitDenominator(max int64) QL {
	if max < 1 {
		panic("ql: denominator limit must be >= 1")
	}
	q = q.canon()
	if q.den <= max {
		return q
	}
	return limitRat(new(big.Rat).SetFrac64(q.num, q.den), max)
}

// limitRat is the continued-fraction denominator bound over big rationals,
// used both for float coercion and for explicit limiting.
func limitRat(r *big.Rat, max int64) QL {
	neg := r.Sign() < 0
	if neg {
		r = new(big.Rat).Neg(r)
	}

	limit := big.NewInt(max)
	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	n := new(big.Int).Set(r.Num())
	d := new(big.Int).Set(r.Denom())

	for {
		a := new(big.Int).Div(n, d)
		q2 := new(big.Int).Add(q0, new(big.Int).Mul(a, q1))
		if q2.Cmp(limit) > 0 {
			break
		}
		p0, q0, p1, q1 = p1, q1, new(big.Int).Add(p0, new(big.Int).Mul(a, p1)), q2
		n, d = d, new(big.Int).Sub(n, new(big.Int).Mul(a, d))
		if d.Sign() == 0 {
			break
		}
	}

	var result QL
	if q1.Sign() == 0 {
		result = QL{p0.Int64(), q0.Int64()}
	} else {
		k := new(big.Int).Div(new(big.Int).Sub(limit, q0), q1)
		bound1 := new(big.Rat).SetFrac(
			new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
			new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
		)
		bound2 := new(big.Rat).SetFrac(p1, q1)
		d1 := new(big.Rat).Abs(new(big.Rat).Sub(bound1, r))
		d2 := new(big.Rat).Abs(new(big.Rat).Sub(bound2, r))
		pick := bound2
		if d2.Cmp(d1) > 0 {
			pick = bound1
		}
		result = New(pick.Num().Int64(), pick.Denom().Int64())
	}
	if neg {
		result = result.Neg()
	}
	return result
}

// NearestMultiple snaps target onto the grid spaced by tick, rounding half
// up, and returns the snapped value together with the signed error
// (match - target). Target must be non-negative and tick positive; violating
// either panics, since callers are expected to handle sign themselves.
func NearestMultiple(target, tick QL) (match, signedError QL) {
	target, tick = target.canon(), tick.canon()
	if target.Sign() < 0 {
		panic("ql: nearest multiple of a negative value")
	}
	if tick.Sign() <= 0 {
		panic("ql: grid tick must be positive")
	}
	// count = floor(target/tick + 1/2)
	ratio := target.Div(tick)
	count := floorDiv(ratio.num*2+ratio.den, ratio.den*2)
	match = tick.Mul(FromInt(count))
	return match, match.Sub(target)
}

// Gcd returns the greatest common divisor of a and b, and zero when both
// are zero.
func Gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
