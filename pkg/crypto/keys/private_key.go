package keys

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/rfc6979"
	"github.com/r3e-network/neokit/pkg/crypto/ec"
	"github.com/r3e-network/neokit/pkg/crypto/hash"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/util"
)

// PrivateKeySize is the size of serialized private key scalar.
const PrivateKeySize = 32

// PrivateKey represents a NEO private key. It owns the scalar buffer, which is
// zeroed by Destroy, so keys should be released with defer key.Destroy() as
// soon as they're not needed anymore.
type PrivateKey struct {
	curve *ec.Curve
	b     []byte
	pub   *PublicKey
}

// NewPrivateKey creates a new random Secp256r1 private key.
func NewPrivateKey() (*PrivateKey, error) {
	return newPrivateKeyOnCurve(ec.P256())
}

// NewSecp256k1PrivateKey creates a new random Secp256k1 private key.
func NewSecp256k1PrivateKey() (*PrivateKey, error) {
	return newPrivateKeyOnCurve(ec.Secp256k1())
}

// newPrivateKeyOnCurve draws a uniformly random scalar from [1, n-1].
func newPrivateKeyOnCurve(c *ec.Curve) (*PrivateKey, error) {
	b := make([]byte, PrivateKeySize)
	defer clear(b)
	for {
		if _, err := rand.Read(b); err != nil {
			return nil, err
		}
		d := new(big.Int).SetBytes(b)
		if d.Sign() > 0 && d.Cmp(c.N) < 0 {
			return NewPrivateKeyFromBytesOnCurve(c, b)
		}
	}
}

// NewPrivateKeyFromHex returns a Secp256r1 PrivateKey created from the
// given hex string.
func NewPrivateKeyFromHex(str string) (*PrivateKey, error) {
	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", neoerr.ErrFormat, err)
	}
	defer clear(b)
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromBytes returns a NEO Secp256r1 PrivateKey from the given
// byte slice. The slice is copied.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	return NewPrivateKeyFromBytesOnCurve(ec.P256(), b)
}

// NewPrivateKeyFromBytesOnCurve returns a PrivateKey for the given curve from
// the 32-byte BE scalar.
func NewPrivateKeyFromBytesOnCurve(c *ec.Curve, b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: invalid byte length: expected %d bytes got %d",
			neoerr.ErrFormat, PrivateKeySize, len(b))
	}
	return newPrivateKey(c, new(big.Int).SetBytes(b))
}

// NewPrivateKeyFromScalar returns a Secp256r1 PrivateKey for the given
// scalar which must be in [1, n-1] range.
func NewPrivateKeyFromScalar(d *big.Int) (*PrivateKey, error) {
	return newPrivateKey(ec.P256(), d)
}

func newPrivateKey(c *ec.Curve, d *big.Int) (*PrivateKey, error) {
	if d == nil || d.Sign() <= 0 || d.Cmp(c.N) >= 0 {
		return nil, fmt.Errorf("%w: private key scalar is out of range", neoerr.ErrCrypto)
	}
	q, err := c.Multiply(d)
	if err != nil {
		return nil, err
	}
	p := &PrivateKey{
		curve: c,
		b:     make([]byte, PrivateKeySize),
		pub:   &PublicKey{point: q},
	}
	d.FillBytes(p.b)
	return p, nil
}

// NewPrivateKeyFromWIF returns a NEO PrivateKey from the given
// WIF (wallet import format).
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	w, err := WIFDecode(wif, WIFVersion)
	if err != nil {
		return nil, err
	}
	return w.PrivateKey, nil
}

// WithPrivateKey creates a Secp256r1 key from b, passes it to f and destroys
// it afterwards on every path.
func WithPrivateKey(b []byte, f func(*PrivateKey) error) error {
	p, err := NewPrivateKeyFromBytes(b)
	if err != nil {
		return err
	}
	defer p.Destroy()
	return f(p)
}

// Curve returns the curve of the key.
func (p *PrivateKey) Curve() *ec.Curve {
	return p.curve
}

// PublicKey derives the public key from the private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	return p.pub
}

// WIF returns the (wallet import format) of the PrivateKey.
// Good documentation about this process can be found here:
// https://en.bitcoin.it/wiki/Wallet_import_format
func (p *PrivateKey) WIF() string {
	w, err := WIFEncode(p.b, WIFVersion, true)
	// The only way WIFEncode() can fail is if we're to give it a key of
	// wrong size, but we have a proper key here, aren't we?
	if err != nil {
		panic(err)
	}
	return w
}

// Address derives the public NEO address that is coupled with the private key, and
// returns it as a string.
func (p *PrivateKey) Address() string {
	return p.pub.Address()
}

// GetScriptHash returns verification script hash for public key associated with
// the private key.
func (p *PrivateKey) GetScriptHash() util.Uint160 {
	return p.pub.GetScriptHash()
}

// Sign signs arbitrary length data using the private key. It uses SHA256 to
// calculate hash and then SignHash to create a signature (so you can save on
// hash calculation if you already have it).
func (p *PrivateKey) Sign(data []byte) []byte {
	var digest = sha256.Sum256(data)

	return p.SignHash(digest)
}

// SignHash signs particular hash with the private key using deterministic
// ECDSA (RFC 6979). The result is 64 bytes of r and s.
func (p *PrivateKey) SignHash(digest util.Uint256) []byte {
	priv := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{
			Curve: p.curve,
			X:     p.pub.point.X(),
			Y:     p.pub.point.Y(),
		},
		D: new(big.Int).SetBytes(p.b),
	}
	r, s := rfc6979.SignECDSA(priv, digest[:], sha256.New)
	priv.D.SetInt64(0)
	return Signature{R: r, S: s}.Bytes()
}

// SignHashable signs some Hashable item for the network specified using
// hash.NetSha256() with the private key.
func (p *PrivateKey) SignHashable(net uint32, hh hash.Hashable) []byte {
	return p.SignHash(hash.NetSha256(net, hh))
}

// String implements the stringer interface.
func (p *PrivateKey) String() string {
	return hex.EncodeToString(p.b)
}

// Bytes returns a copy of the underlying bytes of the PrivateKey.
func (p *PrivateKey) Bytes() []byte {
	return append([]byte(nil), p.b...)
}

// Destroy zeroes the private key scalar. The key must not be used after this.
func (p *PrivateKey) Destroy() {
	clear(p.b)
}

// IsDestroyed checks whether the key was already destroyed.
func (p *PrivateKey) IsDestroyed() bool {
	for _, b := range p.b {
		if b != 0 {
			return false
		}
	}
	return true
}
