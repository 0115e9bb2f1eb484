// Package bigint wraps math/big.Int with the handful of arbitrary-precision
// operations the comparison protocols need: exact division/modulo against
// positive moduli, bit extraction, and uniform sampling over [0, 2^n).
package bigint

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Int is an arbitrary-precision signed integer.
type Int struct {
	v *big.Int
}

// NewInt wraps an int64.
func NewInt(x int64) *Int {
	return &Int{v: big.NewInt(x)}
}

// FromBig wraps an existing *big.Int without copying. Callers must not
// mutate b afterwards.
func FromBig(b *big.Int) *Int {
	return &Int{v: b}
}

// FromBytes interprets buf as a big-endian unsigned integer.
func FromBytes(buf []byte) *Int {
	return &Int{v: new(big.Int).SetBytes(buf)}
}

// Big returns the underlying *big.Int. The caller must treat it as read-only.
func (x *Int) Big() *big.Int {
	return x.v
}

// Bytes returns the big-endian unsigned encoding of x.
func (x *Int) Bytes() []byte {
	return x.v.Bytes()
}

// Add returns x + y.
func (x *Int) Add(y *Int) *Int {
	return &Int{v: new(big.Int).Add(x.v, y.v)}
}

// Sub returns x - y.
func (x *Int) Sub(y *Int) *Int {
	return &Int{v: new(big.Int).Sub(x.v, y.v)}
}

// Mul returns x * y.
func (x *Int) Mul(y *Int) *Int {
	return &Int{v: new(big.Int).Mul(x.v, y.v)}
}

// Neg returns -x.
func (x *Int) Neg() *Int {
	return &Int{v: new(big.Int).Neg(x.v)}
}

// Mod returns x mod m, with 0 <= result < m, for m > 0.
func (x *Int) Mod(m *Int) *Int {
	return &Int{v: new(big.Int).Mod(x.v, m.v)}
}

// Div returns the floor of x / m, for m > 0: integer division rounding
// toward negative infinity, as used to split a blinding factor into
// (r mod 2^l, r div 2^l).
func (x *Int) Div(m *Int) *Int {
	q := new(big.Int)
	mod := new(big.Int)
	q.DivMod(x.v, m.v, mod)
	return &Int{v: q}
}

// QuoRem splits x into (x.Div(m), x.Mod(m)) in one call.
func (x *Int) QuoRem(m *Int) (quo, rem *Int) {
	q := new(big.Int)
	r := new(big.Int)
	q.DivMod(x.v, m.v, r)
	return &Int{v: q}, &Int{v: r}
}

// ModInverse returns x^-1 mod m, or nil if no inverse exists.
func (x *Int) ModInverse(m *Int) *Int {
	r := new(big.Int).ModInverse(x.v, m.v)
	if r == nil {
		return nil
	}
	return &Int{v: r}
}

// Exp returns x^y mod m (m may be nil for unreduced exponentiation).
func (x *Int) Exp(y, m *Int) *Int {
	var mv *big.Int
	if m != nil {
		mv = m.v
	}
	return &Int{v: new(big.Int).Exp(x.v, y.v, mv)}
}

// Pow returns x raised to a small non-negative power, unreduced.
func (x *Int) Pow(n uint) *Int {
	return &Int{v: new(big.Int).Exp(x.v, big.NewInt(int64(n)), nil)}
}

// Lsh returns x << n, i.e. x * 2^n.
func (x *Int) Lsh(n uint) *Int {
	return &Int{v: new(big.Int).Lsh(x.v, n)}
}

// Bit returns the value of the i-th bit of x (0 or 1), x assumed >= 0.
func (x *Int) Bit(i uint) uint {
	return x.v.Bit(int(i))
}

// BitLen returns the number of bits required to represent |x|.
func (x *Int) BitLen() int {
	return x.v.BitLen()
}

// Sign returns -1, 0 or 1.
func (x *Int) Sign() int {
	return x.v.Sign()
}

// Cmp compares x and y.
func (x *Int) Cmp(y *Int) int {
	return x.v.Cmp(y.v)
}

// Equal reports whether x == y.
func (x *Int) Equal(y *Int) bool {
	return x.v.Cmp(y.v) == 0
}

// IsZero reports whether x == 0.
func (x *Int) IsZero() bool {
	return x.v.Sign() == 0
}

// String renders x in base 10.
func (x *Int) String() string {
	return x.v.String()
}

// TwoPow returns 2^n as an Int.
func TwoPow(n uint) *Int {
	return &Int{v: new(big.Int).Lsh(big.NewInt(1), n)}
}

// Uniform samples uniformly from [0, 2^bits) using the given randomness
// source, which is usually crypto/rand.Reader. bits must be > 0.
func Uniform(random io.Reader, bits int) (*Int, error) {
	if bits <= 0 {
		return nil, fmt.Errorf("bigint: Uniform: bits must be positive, got %d", bits)
	}
	byteLen := (bits + 7) / 8
	buf := make([]byte, byteLen)
	if _, err := io.ReadFull(random, buf); err != nil {
		return nil, fmt.Errorf("bigint: Uniform: %w", err)
	}
	v := new(big.Int).SetBytes(buf)
	// Shift out the excess bits so the result is < 2^bits exactly.
	excess := byteLen*8 - bits
	if excess > 0 {
		v.Rsh(v, uint(excess))
	}
	return &Int{v: v}, nil
}

// UniformBelow samples uniformly from [0, n) using crypto/rand.Int.
func UniformBelow(random io.Reader, n *Int) (*Int, error) {
	v, err := rand.Int(random, n.v)
	if err != nil {
		return nil, fmt.Errorf("bigint: UniformBelow: %w", err)
	}
	return &Int{v: v}, nil
}

// NonZeroBelow samples a uniform, non-zero value from [1, n) using
// crypto/rand.Int, resampling on the (negligibly likely) zero draw.
func NonZeroBelow(random io.Reader, n *Int) (*Int, error) {
	for {
		v, err := UniformBelow(random, n)
		if err != nil {
			return nil, err
		}
		if !v.IsZero() {
			return v, nil
		}
	}
}
