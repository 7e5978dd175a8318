package ec

import (
	"fmt"
	"math/big"

	"github.com/r3e-network/neokit/pkg/neoerr"
)

// Point is an immutable curve point in affine coordinates. Zero value is not
// usable, points are created by Curve methods and DecodePoint only.
type Point struct {
	curve *Curve
	x     *big.Int
	y     *big.Int
}

// Curve returns the curve the point belongs to.
func (p Point) Curve() *Curve {
	return p.curve
}

// IsInfinity checks whether the point is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.x == nil
}

// X returns a copy of X coordinate (nil for infinity).
func (p Point) X() *big.Int {
	if p.IsInfinity() {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of Y coordinate (nil for infinity).
func (p Point) Y() *big.Int {
	if p.IsInfinity() {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// IsOnCurve checks the curve equation, infinity is always valid.
func (p Point) IsOnCurve() bool {
	if p.curve == nil {
		return false
	}
	return p.IsInfinity() || p.curve.isOnCurve(p.x, p.y)
}

// Equal checks whether two points are the same.
func (p Point) Equal(q Point) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() == q.IsInfinity()
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Cmp compares points by X, then by Y. Infinity is less than any other point.
func (p Point) Cmp(q Point) int {
	switch {
	case p.IsInfinity() && q.IsInfinity():
		return 0
	case p.IsInfinity():
		return -1
	case q.IsInfinity():
		return 1
	}
	if c := p.x.Cmp(q.x); c != 0 {
		return c
	}
	return p.y.Cmp(q.y)
}

// Negate returns -P.
func (p Point) Negate() Point {
	if p.IsInfinity() {
		return p
	}
	y := new(big.Int).Sub(p.curve.P, p.y)
	y.Mod(y, p.curve.P)
	return Point{curve: p.curve, x: p.x, y: y}
}

// Add returns P + Q. Both points must belong to the same curve.
func (p Point) Add(q Point) Point {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	c := p.curve
	if p.x.Cmp(q.x) == 0 {
		if p.y.Cmp(q.y) == 0 {
			return p.Double()
		}
		return c.Infinity()
	}
	// λ = (y2 - y1) / (x2 - x1)
	num := new(big.Int).Sub(q.y, p.y)
	den := new(big.Int).Sub(q.x, p.x)
	den.Mod(den, c.P)
	den.ModInverse(den, c.P)
	lambda := num.Mul(num, den)
	lambda.Mod(lambda, c.P)
	return c.finish(lambda, p.x, q.x, p.y)
}

// Double returns 2P.
func (p Point) Double() Point {
	if p.IsInfinity() || p.y.Sign() == 0 {
		return p.curve.Infinity()
	}
	c := p.curve
	// λ = (3x² + a) / 2y
	num := new(big.Int).Mul(p.x, p.x)
	num.Mul(num, big.NewInt(3))
	num.Add(num, c.A)
	den := new(big.Int).Lsh(p.y, 1)
	den.Mod(den, c.P)
	den.ModInverse(den, c.P)
	lambda := num.Mul(num, den)
	lambda.Mod(lambda, c.P)
	return c.finish(lambda, p.x, p.x, p.y)
}

// finish computes x3 = λ² - x1 - x2, y3 = λ(x1 - x3) - y1.
func (c *Curve) finish(lambda, x1, x2, y1 *big.Int) Point {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	x3.Mod(x3, c.P)

	y3 := new(big.Int).Sub(x1, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, y1)
	y3.Mod(y3, c.P)
	return Point{curve: c, x: x3, y: y3}
}

// Multiply returns k·P using double-and-add. k must be non-negative, zero
// gives the point at infinity.
func (p Point) Multiply(k *big.Int) (Point, error) {
	if k == nil || k.Sign() < 0 {
		return Point{}, fmt.Errorf("%w: negative scalar", neoerr.ErrCrypto)
	}
	r := p.curve.Infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = r.Double()
		if k.Bit(i) == 1 {
			r = r.Add(p)
		}
	}
	return r, nil
}

func (p Point) affine() (*big.Int, *big.Int) {
	if p.IsInfinity() {
		return new(big.Int), new(big.Int)
	}
	return p.X(), p.Y()
}

func (p Point) String() string {
	if p.IsInfinity() {
		return "(inf)"
	}
	return fmt.Sprintf("(%x, %x)", p.x, p.y)
}
