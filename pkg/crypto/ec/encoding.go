package ec

import (
	"fmt"
	"math/big"

	"github.com/r3e-network/neokit/pkg/neoerr"
)

// Bytes returns SEC1 encoding of the point: 0x00 for infinity, 0x02/0x03
// prefixed X for compressed form and 0x04 prefixed X and Y otherwise.
func (p Point) Bytes(compressed bool) []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}
	size := p.curve.ByteSize()
	if compressed {
		b := make([]byte, 1+size)
		b[0] = 0x02 | byte(p.y.Bit(0))
		p.x.FillBytes(b[1:])
		return b
	}
	b := make([]byte, 1+2*size)
	b[0] = 0x04
	p.x.FillBytes(b[1 : 1+size])
	p.y.FillBytes(b[1+size:])
	return b
}

// DecodePoint decodes a point from SEC1 encoding, compressed points are
// decompressed with a modular square root.
func (c *Curve) DecodePoint(b []byte) (Point, error) {
	if len(b) == 0 {
		return Point{}, fmt.Errorf("%w: empty point encoding", neoerr.ErrFormat)
	}
	size := c.ByteSize()
	switch prefix := b[0]; prefix {
	case 0x00:
		if len(b) != 1 {
			return Point{}, fmt.Errorf("%w: bad infinity encoding length %d", neoerr.ErrFormat, len(b))
		}
		return c.Infinity(), nil
	case 0x02, 0x03:
		if len(b) != 1+size {
			return Point{}, fmt.Errorf("%w: bad compressed point length %d", neoerr.ErrFormat, len(b))
		}
		x := new(big.Int).SetBytes(b[1:])
		y, err := c.decompressY(x, uint(prefix&1))
		if err != nil {
			return Point{}, err
		}
		return Point{curve: c, x: x, y: y}, nil
	case 0x04:
		if len(b) != 1+2*size {
			return Point{}, fmt.Errorf("%w: bad uncompressed point length %d", neoerr.ErrFormat, len(b))
		}
		x := new(big.Int).SetBytes(b[1 : 1+size])
		y := new(big.Int).SetBytes(b[1+size:])
		return c.NewPoint(x, y)
	default:
		return Point{}, fmt.Errorf("%w: unknown point prefix 0x%02x", neoerr.ErrFormat, prefix)
	}
}

// decompressY computes y = (x³ + ax + b)^((p+1)/4) and picks the root with
// the given parity.
func (c *Curve) decompressY(x *big.Int, ybit uint) (*big.Int, error) {
	if x.Cmp(c.P) >= 0 {
		return nil, fmt.Errorf("%w: X is out of field", neoerr.ErrCrypto)
	}
	alpha := c.rhs(x)
	y := new(big.Int).Exp(alpha, c.sqrtExp, c.P)
	check := new(big.Int).Mul(y, y)
	check.Mod(check, c.P)
	if check.Cmp(alpha) != 0 {
		return nil, fmt.Errorf("%w: X doesn't belong to %s", neoerr.ErrCrypto, c.Name)
	}
	if y.Bit(0) != ybit {
		y.Sub(c.P, y)
	}
	return y, nil
}
