package keys

import (
	"fmt"
	"math/big"

	"github.com/r3e-network/neokit/pkg/neoerr"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Signature is an ECDSA signature, a pair of positive integers.
type Signature struct {
	R *big.Int
	S *big.Int
}

// NewSignatureFromBytes splits the standard 64-byte r‖s signature.
func NewSignatureFromBytes(b []byte) Signature {
	half := len(b) / 2
	return Signature{
		R: new(big.Int).SetBytes(b[:half]),
		S: new(big.Int).SetBytes(b[half:]),
	}
}

// Bytes returns 64-byte r‖s form with both values left-padded with zeroes.
func (s Signature) Bytes() []byte {
	var res = make([]byte, SignatureLen)
	s.R.FillBytes(res[:SignatureLen/2])
	s.S.FillBytes(res[SignatureLen/2:])
	return res
}

// MarshalDER returns ASN.1 DER encoding of the signature
// (SEQUENCE of two INTEGERs).
func (s Signature) MarshalDER() ([]byte, error) {
	if s.R == nil || s.S == nil || s.R.Sign() <= 0 || s.S.Sign() <= 0 {
		return nil, fmt.Errorf("%w: signature values must be positive", neoerr.ErrCrypto)
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(s.R)
		b.AddASN1BigInt(s.S)
	})
	return b.Bytes()
}

// ParseDER decodes ASN.1 DER-encoded signature.
func ParseDER(der []byte) (Signature, error) {
	var (
		r, s  = new(big.Int), new(big.Int)
		inner cryptobyte.String
		input = cryptobyte.String(der)
	)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return Signature{}, fmt.Errorf("%w: invalid DER signature", neoerr.ErrFormat)
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return Signature{}, fmt.Errorf("%w: non-positive signature value", neoerr.ErrCrypto)
	}
	return Signature{R: r, S: s}, nil
}
