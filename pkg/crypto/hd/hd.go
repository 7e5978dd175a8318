/*
Package hd implements BIP-32 hierarchical deterministic keys over the curves
supported by the ec package. Neo keys are derived on secp256r1 by default,
secp256k1 is available for compatibility with BIP-32 tooling.

Extended keys are immutable, derivation always returns a new key. Private
extended keys own their scalar and chain code buffers, Destroy zeroes them.
*/
package hd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/r3e-network/neokit/pkg/crypto/ec"
	"github.com/r3e-network/neokit/pkg/crypto/hash"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/encoding/base58"
	"github.com/r3e-network/neokit/pkg/neoerr"
)

const (
	// HardenedKeyStart is the first hardened child index.
	HardenedKeyStart uint32 = 0x80000000
	// MinSeedBytes is the minimal allowed seed length.
	MinSeedBytes = 16
	// MaxSeedBytes is the maximal allowed seed length.
	MaxSeedBytes = 64

	serializedKeyLen = 78
	chainCodeLen     = 32
	maxDepth         = 255
)

// Version bytes of serialized extended keys.
var (
	XPrivVersion = [4]byte{0x04, 0x88, 0xad, 0xe4}
	XPubVersion  = [4]byte{0x04, 0x88, 0xb2, 0x1e}
)

var masterHMACKey = []byte("Bitcoin seed")

// ExtendedKey is a BIP-32 extended key, either private (with the scalar) or
// public-only.
type ExtendedKey struct {
	Depth             uint8
	ChildNumber       uint32
	ParentFingerprint uint32
	ChainCode         []byte

	curve *ec.Curve
	key   []byte // private scalar, nil for public keys
	pub   ec.Point
}

// NewMaster creates a secp256r1 master key from the seed.
func NewMaster(seed []byte) (*ExtendedKey, error) {
	return NewMasterOnCurve(seed, ec.P256())
}

// NewMasterOnCurve creates a master key for the given curve from the seed.
func NewMasterOnCurve(seed []byte, c *ec.Curve) (*ExtendedKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, fmt.Errorf("%w: seed length %d is out of [%d, %d] range",
			neoerr.ErrValidation, len(seed), MinSeedBytes, MaxSeedBytes)
	}
	i := hash.HMACSHA512(masterHMACKey, seed)
	defer clear(i)

	d := new(big.Int).SetBytes(i[:32])
	defer d.SetInt64(0)
	if d.Sign() == 0 || d.Cmp(c.N) >= 0 {
		return nil, fmt.Errorf("%w: invalid master key", neoerr.ErrDerivation)
	}
	return newPrivate(c, d, bytes.Clone(i[32:]), 0, 0, 0)
}

func newPrivate(c *ec.Curve, d *big.Int, chain []byte, depth uint8, index, parent uint32) (*ExtendedKey, error) {
	pub, err := c.Multiply(d)
	if err != nil {
		return nil, err
	}
	return &ExtendedKey{
		Depth:             depth,
		ChildNumber:       index,
		ParentFingerprint: parent,
		ChainCode:         chain,
		curve:             c,
		key:               d.FillBytes(make([]byte, c.ByteSize())),
		pub:               pub,
	}, nil
}

// Curve returns the curve of the key.
func (k *ExtendedKey) Curve() *ec.Curve {
	return k.curve
}

// IsPrivate checks whether the key holds a private scalar.
func (k *ExtendedKey) IsPrivate() bool {
	return k.key != nil
}

// IsHardened checks whether the key is a hardened child.
func (k *ExtendedKey) IsHardened() bool {
	return k.ChildNumber >= HardenedKeyStart
}

// Child derives a child key with the given index, indices starting from
// HardenedKeyStart are hardened and can only be derived from private keys.
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	if k.Depth == maxDepth {
		return nil, fmt.Errorf("%w: maximum depth reached", neoerr.ErrValidation)
	}
	hardened := index >= HardenedKeyStart
	if hardened && !k.IsPrivate() {
		return nil, fmt.Errorf("%w: can't derive hardened child %d from public key",
			neoerr.ErrCrypto, index-HardenedKeyStart)
	}

	data := make([]byte, 0, 1+k.curve.ByteSize()+4)
	if hardened {
		data = append(data, 0x00)
		data = append(data, k.key...)
	} else {
		data = append(data, k.pub.Bytes(true)...)
	}
	data = binary.BigEndian.AppendUint32(data, index)
	defer clear(data)

	i := hash.HMACSHA512(k.ChainCode, data)
	defer clear(i)
	il := new(big.Int).SetBytes(i[:32])
	defer il.SetInt64(0)
	if il.Cmp(k.curve.N) >= 0 {
		return nil, fmt.Errorf("%w: child %d is invalid", neoerr.ErrDerivation, index)
	}

	chain := bytes.Clone(i[32:])
	if k.IsPrivate() {
		d := new(big.Int).SetBytes(k.key)
		defer d.SetInt64(0)
		d.Add(d, il)
		d.Mod(d, k.curve.N)
		if d.Sign() == 0 {
			return nil, fmt.Errorf("%w: child %d is zero", neoerr.ErrDerivation, index)
		}
		return newPrivate(k.curve, d, chain, k.Depth+1, index, k.Fingerprint())
	}

	p, err := k.curve.Multiply(il)
	if err != nil {
		return nil, err
	}
	p = p.Add(k.pub)
	if p.IsInfinity() {
		return nil, fmt.Errorf("%w: child %d is infinity", neoerr.ErrDerivation, index)
	}
	return &ExtendedKey{
		Depth:             k.Depth + 1,
		ChildNumber:       index,
		ParentFingerprint: k.Fingerprint(),
		ChainCode:         chain,
		curve:             k.curve,
		pub:               p,
	}, nil
}

// DerivePath derives a descendant following the given indices.
func (k *ExtendedKey) DerivePath(path []uint32) (*ExtendedKey, error) {
	var cur = k
	for n, index := range path {
		next, err := cur.Child(index)
		if n > 0 {
			cur.Destroy()
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if cur == k {
		return k.clone(), nil
	}
	return cur, nil
}

// Derive parses the path (see ParsePath) and derives the descendant. Paths
// starting with "m" can only be used with master keys.
func (k *ExtendedKey) Derive(path string) (*ExtendedKey, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if isAbsolute(path) && k.Depth != 0 {
		return nil, fmt.Errorf("%w: absolute path %q used with non-master key", neoerr.ErrValidation, path)
	}
	return k.DerivePath(indices)
}

// Neuter returns the public version of the key.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	return &ExtendedKey{
		Depth:             k.Depth,
		ChildNumber:       k.ChildNumber,
		ParentFingerprint: k.ParentFingerprint,
		ChainCode:         bytes.Clone(k.ChainCode),
		curve:             k.curve,
		pub:               k.pub,
	}
}

func (k *ExtendedKey) clone() *ExtendedKey {
	n := k.Neuter()
	if k.IsPrivate() {
		n.key = bytes.Clone(k.key)
	}
	return n
}

// Fingerprint returns the first 4 bytes of Hash160 of the compressed public
// key as a big-endian number.
func (k *ExtendedKey) Fingerprint() uint32 {
	h := hash.Hash160(k.pub.Bytes(true))
	return binary.BigEndian.Uint32(h[:4])
}

// PublicKey returns the public key.
func (k *ExtendedKey) PublicKey() *keys.PublicKey {
	return keys.NewPublicKeyFromPoint(k.pub)
}

// PrivateKey returns a private key, it's owned by the caller and should be
// destroyed after use.
func (k *ExtendedKey) PrivateKey() (*keys.PrivateKey, error) {
	if !k.IsPrivate() {
		return nil, fmt.Errorf("%w: public extended key has no private part", neoerr.ErrUnsupportedOperation)
	}
	return keys.NewPrivateKeyFromBytesOnCurve(k.curve, k.key)
}

// Destroy zeroes the private scalar and chain code.
func (k *ExtendedKey) Destroy() {
	clear(k.key)
	clear(k.ChainCode)
}

// String returns Base58Check-encoded xprv for private keys and xpub for
// public ones.
func (k *ExtendedKey) String() string {
	b := make([]byte, 0, serializedKeyLen)
	if k.IsPrivate() {
		b = append(b, XPrivVersion[:]...)
	} else {
		b = append(b, XPubVersion[:]...)
	}
	b = append(b, k.Depth)
	b = binary.BigEndian.AppendUint32(b, k.ParentFingerprint)
	b = binary.BigEndian.AppendUint32(b, k.ChildNumber)
	b = append(b, k.ChainCode...)
	if k.IsPrivate() {
		b = append(b, 0x00)
		b = append(b, k.key...)
	} else {
		b = append(b, k.pub.Bytes(true)...)
	}
	defer clear(b)
	return base58.CheckEncode(b)
}

// FromString parses a serialized secp256r1 extended key.
func FromString(s string) (*ExtendedKey, error) {
	return FromStringOnCurve(s, ec.P256())
}

// FromStringOnCurve parses a serialized extended key for the given curve.
func FromStringOnCurve(s string, c *ec.Curve) (*ExtendedKey, error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return nil, err
	}
	defer clear(b)
	if len(b) != serializedKeyLen {
		return nil, fmt.Errorf("%w: extended key must be %d bytes, got %d",
			neoerr.ErrFormat, serializedKeyLen, len(b))
	}

	var version [4]byte
	copy(version[:], b[:4])
	k := &ExtendedKey{
		Depth:             b[4],
		ParentFingerprint: binary.BigEndian.Uint32(b[5:9]),
		ChildNumber:       binary.BigEndian.Uint32(b[9:13]),
		ChainCode:         bytes.Clone(b[13 : 13+chainCodeLen]),
		curve:             c,
	}
	if k.Depth == 0 && (k.ParentFingerprint != 0 || k.ChildNumber != 0) {
		return nil, fmt.Errorf("%w: master key with non-zero parent or index", neoerr.ErrFormat)
	}
	keyData := b[13+chainCodeLen:]
	switch version {
	case XPrivVersion:
		if keyData[0] != 0x00 {
			return nil, fmt.Errorf("%w: invalid private key prefix %x", neoerr.ErrFormat, keyData[0])
		}
		d := new(big.Int).SetBytes(keyData[1:])
		defer d.SetInt64(0)
		if d.Sign() == 0 || d.Cmp(c.N) >= 0 {
			return nil, fmt.Errorf("%w: private key is out of range", neoerr.ErrFormat)
		}
		return newPrivate(c, d, k.ChainCode, k.Depth, k.ChildNumber, k.ParentFingerprint)
	case XPubVersion:
		p, err := c.DecodePoint(keyData)
		if err != nil {
			return nil, err
		}
		if p.IsInfinity() {
			return nil, fmt.Errorf("%w: public key is infinity", neoerr.ErrFormat)
		}
		k.pub = p
		return k, nil
	default:
		return nil, fmt.Errorf("%w: unknown extended key version %x", neoerr.ErrFormat, version)
	}
}
