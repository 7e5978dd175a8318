package keys

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/r3e-network/neokit/pkg/core/interop/interopnames"
	"github.com/r3e-network/neokit/pkg/crypto/ec"
	"github.com/r3e-network/neokit/pkg/crypto/hash"
	"github.com/r3e-network/neokit/pkg/encoding/address"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/r3e-network/neokit/pkg/vm/opcode"
)

// coordLen is the number of bytes in serialized X or Y coordinate.
const coordLen = 32

// SignatureLen is the length of standard signature for 256-bit EC key.
const SignatureLen = 64

// PublicKeys is a list of public keys.
type PublicKeys []*PublicKey

func (keys PublicKeys) Len() int      { return len(keys) }
func (keys PublicKeys) Swap(i, j int) { keys[i], keys[j] = keys[j], keys[i] }
func (keys PublicKeys) Less(i, j int) bool {
	return keys[i].Cmp(keys[j]) == -1
}

// DecodeBytes decodes a PublicKeys from the given slice of bytes.
func (keys *PublicKeys) DecodeBytes(data []byte) error {
	b := io.NewBinReaderFromBuf(data)
	b.ReadArray(keys)
	return b.Err
}

// Bytes encodes PublicKeys to the new slice of bytes.
func (keys *PublicKeys) Bytes() []byte {
	buf := io.NewBufBinWriter()
	buf.WriteArray(*keys)
	if buf.Err != nil {
		panic(buf.Err)
	}
	return buf.Bytes()
}

// Contains checks whether the passed param is contained in PublicKeys.
func (keys PublicKeys) Contains(pKey *PublicKey) bool {
	for _, key := range keys {
		if key.Equal(pKey) {
			return true
		}
	}
	return false
}

// Copy returns a shallow copy of the PublicKeys slice. It creates a new slice with the same elements,
// but does not perform a deep copy of the elements themselves.
func (keys PublicKeys) Copy() PublicKeys {
	if keys == nil {
		return nil
	}
	res := make(PublicKeys, len(keys))
	copy(res, keys)
	return res
}

// Unique returns a set of public keys.
func (keys PublicKeys) Unique() PublicKeys {
	unique := PublicKeys{}
	for _, publicKey := range keys {
		if !unique.Contains(publicKey) {
			unique = append(unique, publicKey)
		}
	}
	return unique
}

// PublicKey represents a public key and provides a high level
// API around the curve point.
type PublicKey struct {
	point ec.Point
}

// NewPublicKeyFromPoint wraps the given point into a PublicKey.
func NewPublicKeyFromPoint(p ec.Point) *PublicKey {
	return &PublicKey{point: p}
}

// NewPublicKeyFromString returns a Secp256r1 public key created from the
// given hex string in compressed or uncompressed form.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", neoerr.ErrFormat, err)
	}
	return NewPublicKeyFromBytes(b, ec.P256())
}

// NewPublicKeyFromBytes returns a public key created from b using the given
// curve.
func NewPublicKeyFromBytes(b []byte, curve *ec.Curve) (*PublicKey, error) {
	p, err := curve.DecodePoint(b)
	if err != nil {
		return nil, err
	}
	return &PublicKey{point: p}, nil
}

// Point returns the underlying curve point.
func (p *PublicKey) Point() ec.Point {
	return p.point
}

// Curve returns the curve of the key.
func (p *PublicKey) Curve() *ec.Curve {
	return p.point.Curve()
}

// Equal returns true in case public keys are equal.
func (p *PublicKey) Equal(key *PublicKey) bool {
	return p.point.Equal(key.point)
}

// Cmp compares two keys.
func (p *PublicKey) Cmp(key *PublicKey) int {
	return p.point.Cmp(key.point)
}

// Bytes returns the compressed byte representation of the public key.
func (p *PublicKey) Bytes() []byte {
	return p.point.Bytes(true)
}

// UncompressedBytes returns the uncompressed byte representation of the
// public key.
func (p *PublicKey) UncompressedBytes() []byte {
	return p.point.Bytes(false)
}

// DecodeBytes decodes a Secp256r1 PublicKey from the given slice of bytes.
func (p *PublicKey) DecodeBytes(data []byte) error {
	b := io.NewBinReaderFromBuf(data)
	p.DecodeBinary(b)
	if b.Err != nil {
		return b.Err
	}

	if b.Len() != 0 {
		return fmt.Errorf("%w: extra data", neoerr.ErrFormat)
	}
	return nil
}

// DecodeBinary decodes a Secp256r1 PublicKey from the given BinReader using
// information about point compression from the first byte.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	var data []byte

	prefix := r.ReadB()
	if r.Err != nil {
		return
	}

	switch prefix {
	case 0x00:
		data = []byte{prefix}
	case 0x02, 0x03:
		data = make([]byte, 1+coordLen)
		data[0] = prefix
		r.ReadBytes(data[1:])
	case 0x04:
		data = make([]byte, 1+2*coordLen)
		data[0] = prefix
		r.ReadBytes(data[1:])
	default:
		r.Err = fmt.Errorf("%w: invalid prefix %d", neoerr.ErrFormat, prefix)
		return
	}
	if r.Err != nil {
		return
	}
	pt, err := ec.P256().DecodePoint(data)
	if err != nil {
		r.Err = err
		return
	}
	p.point = pt
}

// EncodeBinary encodes a PublicKey to the given BinWriter.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// GetVerificationScript returns NEO VM bytecode with CHECKSIG command for the
// public key.
func (p *PublicKey) GetVerificationScript() []byte {
	var b = p.Bytes()

	buf := make([]byte, 2+len(b)+5)
	buf[0] = byte(opcode.PUSHDATA1)
	buf[1] = byte(len(b))
	copy(buf[2:], b)
	buf[len(buf)-5] = byte(opcode.SYSCALL)
	id := interopnames.ToID([]byte(interopnames.SystemCryptoCheckSig))
	buf[len(buf)-4] = byte(id)
	buf[len(buf)-3] = byte(id >> 8)
	buf[len(buf)-2] = byte(id >> 16)
	buf[len(buf)-1] = byte(id >> 24)

	return buf
}

// GetScriptHash returns a Hash160 of verification script for the key.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(p.GetVerificationScript())
}

// Address returns a base58-encoded NEO-specific address based on the key hash.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.GetScriptHash())
}

// Verify returns true if the signature is valid and corresponds
// to the hash and public key.
func (p *PublicKey) Verify(signature []byte, hash []byte) bool {
	if p.IsInfinity() || len(signature) != SignatureLen {
		return false
	}
	sig := NewSignatureFromBytes(signature)
	return p.VerifySignature(sig, hash)
}

// VerifyHashable returns true if the signature is valid for the Hashable
// item bound to the given network.
func (p *PublicKey) VerifyHashable(signature []byte, net uint32, hh hash.Hashable) bool {
	var digest = hash.NetSha256(net, hh)
	return p.Verify(signature, digest[:])
}

// VerifySignature checks r and s against the digest by computing
// u1·G + u2·Q and comparing its X coordinate with r.
func (p *PublicKey) VerifySignature(sig Signature, digest []byte) bool {
	if p.IsInfinity() || sig.R == nil || sig.S == nil {
		return false
	}
	c := p.point.Curve()
	n := c.N
	if sig.R.Sign() <= 0 || sig.S.Sign() <= 0 || sig.R.Cmp(n) >= 0 || sig.S.Cmp(n) >= 0 {
		return false
	}
	e := hashToInt(digest, c)
	w := new(big.Int).ModInverse(sig.S, n)

	u1 := e.Mul(e, w)
	u1.Mod(u1, n)
	u2 := w.Mul(sig.R, w)
	u2.Mod(u2, n)

	p1, err := c.Multiply(u1)
	if err != nil {
		return false
	}
	p2, err := p.point.Multiply(u2)
	if err != nil {
		return false
	}
	r := p1.Add(p2)
	if r.IsInfinity() {
		return false
	}
	x := r.X()
	x.Mod(x, n)
	return x.Cmp(sig.R) == 0
}

// IsInfinity checks if the key is infinite (null, basically).
func (p *PublicKey) IsInfinity() bool {
	return p.point.IsInfinity()
}

// StringCompressed returns the hex string representation of the public key
// in its compressed form.
func (p *PublicKey) StringCompressed() string {
	return hex.EncodeToString(p.Bytes())
}

// String implements the Stringer interface.
func (p *PublicKey) String() string {
	return p.StringCompressed()
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(p.Bytes()))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	l := len(data)
	if l < 2 || data[0] != '"' || data[l-1] != '"' {
		return fmt.Errorf("%w: wrong format", neoerr.ErrFormat)
	}

	bytes := make([]byte, hex.DecodedLen(l-2))
	_, err := hex.Decode(bytes, data[1:l-1])
	if err != nil {
		return fmt.Errorf("%w: %w", neoerr.ErrFormat, err)
	}
	return p.DecodeBytes(bytes)
}

// copied from crypto/ecdsa.
func hashToInt(hash []byte, c *ec.Curve) *big.Int {
	orderBits := c.N.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(hash) > orderBytes {
		hash = hash[:orderBytes]
	}

	ret := new(big.Int).SetBytes(hash)
	excess := len(hash)*8 - orderBits
	if excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return ret
}
