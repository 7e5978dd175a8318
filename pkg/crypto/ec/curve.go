/*
Package ec implements affine point arithmetic over short Weierstrass curves
y² = x³ + ax + b (mod p). It's used with secp256r1 (the Neo curve) and
secp256k1 (needed for BIP-32 compatibility).
*/
package ec

import (
	"crypto/elliptic"
	"fmt"
	"math/big"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/r3e-network/neokit/pkg/neoerr"
)

// Curve describes curve domain parameters. It implements elliptic.Curve, so
// it can be used with crypto/ecdsa-based code.
type Curve struct {
	Name    string
	P       *big.Int // field prime
	N       *big.Int // group order
	A       *big.Int
	B       *big.Int
	Gx      *big.Int
	Gy      *big.Int
	BitSize int

	sqrtExp *big.Int
	params  *elliptic.CurveParams
}

var (
	p256Once sync.Once
	p256     *Curve
	k256Once sync.Once
	k256     *Curve
)

// P256 returns secp256r1 curve (also known as NIST P-256).
func P256() *Curve {
	p256Once.Do(func() {
		params := elliptic.P256().Params()
		a := new(big.Int).Sub(params.P, big.NewInt(3))
		p256 = newCurve("secp256r1", params, a)
	})
	return p256
}

// Secp256k1 returns secp256k1 curve used by Bitcoin.
func Secp256k1() *Curve {
	k256Once.Do(func() {
		k256 = newCurve("secp256k1", secp256k1.S256().Params(), new(big.Int))
	})
	return k256
}

func newCurve(name string, params *elliptic.CurveParams, a *big.Int) *Curve {
	c := &Curve{
		Name:    name,
		P:       new(big.Int).Set(params.P),
		N:       new(big.Int).Set(params.N),
		A:       a,
		B:       new(big.Int).Set(params.B),
		Gx:      new(big.Int).Set(params.Gx),
		Gy:      new(big.Int).Set(params.Gy),
		BitSize: params.BitSize,
	}
	// Both supported primes are 3 mod 4.
	c.sqrtExp = new(big.Int).Add(c.P, big.NewInt(1))
	c.sqrtExp.Rsh(c.sqrtExp, 2)
	c.params = &elliptic.CurveParams{
		P:       c.P,
		N:       c.N,
		B:       c.B,
		Gx:      c.Gx,
		Gy:      c.Gy,
		BitSize: c.BitSize,
		Name:    c.Name,
	}
	return c
}

// ByteSize returns the size of a field element in bytes.
func (c *Curve) ByteSize() int {
	return (c.BitSize + 7) / 8
}

// Infinity returns the point at infinity of the curve.
func (c *Curve) Infinity() Point {
	return Point{curve: c}
}

// G returns the curve generator.
func (c *Curve) G() Point {
	return Point{curve: c, x: c.Gx, y: c.Gy}
}

// NewPoint creates a point from the given affine coordinates, it fails if
// the point doesn't belong to the curve.
func (c *Curve) NewPoint(x, y *big.Int) (Point, error) {
	if x == nil || y == nil {
		return Point{}, fmt.Errorf("%w: nil coordinate", neoerr.ErrCrypto)
	}
	p := Point{curve: c, x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
	if !c.isOnCurve(p.x, p.y) {
		return Point{}, fmt.Errorf("%w: point is not on %s", neoerr.ErrCrypto, c.Name)
	}
	return p, nil
}

// Multiply returns k·G.
func (c *Curve) Multiply(k *big.Int) (Point, error) {
	return c.G().Multiply(k)
}

// rhs computes x³ + ax + b (mod p).
func (c *Curve) rhs(x *big.Int) *big.Int {
	r := new(big.Int).Mul(x, x)
	r.Add(r, c.A)
	r.Mul(r, x)
	r.Add(r, c.B)
	return r.Mod(r, c.P)
}

func (c *Curve) isOnCurve(x, y *big.Int) bool {
	if x.Sign() < 0 || x.Cmp(c.P) >= 0 || y.Sign() < 0 || y.Cmp(c.P) >= 0 {
		return false
	}
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, c.P)
	return y2.Cmp(c.rhs(x)) == 0
}

// Params implements elliptic.Curve interface. A is not a part of
// elliptic.CurveParams, so the result is only good for N, P and sizes.
func (c *Curve) Params() *elliptic.CurveParams {
	return c.params
}

// IsOnCurve implements elliptic.Curve interface.
func (c *Curve) IsOnCurve(x, y *big.Int) bool {
	return c.isOnCurve(x, y)
}

// Add implements elliptic.Curve interface.
func (c *Curve) Add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	return c.fromAffine(x1, y1).Add(c.fromAffine(x2, y2)).affine()
}

// Double implements elliptic.Curve interface.
func (c *Curve) Double(x1, y1 *big.Int) (*big.Int, *big.Int) {
	return c.fromAffine(x1, y1).Double().affine()
}

// ScalarMult implements elliptic.Curve interface.
func (c *Curve) ScalarMult(x1, y1 *big.Int, k []byte) (*big.Int, *big.Int) {
	p, _ := c.fromAffine(x1, y1).Multiply(new(big.Int).SetBytes(k))
	return p.affine()
}

// ScalarBaseMult implements elliptic.Curve interface.
func (c *Curve) ScalarBaseMult(k []byte) (*big.Int, *big.Int) {
	p, _ := c.Multiply(new(big.Int).SetBytes(k))
	return p.affine()
}

// fromAffine follows elliptic package convention of (0, 0) being infinity.
func (c *Curve) fromAffine(x, y *big.Int) Point {
	if x.Sign() == 0 && y.Sign() == 0 {
		return c.Infinity()
	}
	return Point{curve: c, x: x, y: y}
}
