/*
Package hash provides the hash functions used across Neo: SHA-256,
double SHA-256 (Hash256), RIPEMD-160, Hash160 and the HMAC constructions
needed for HD key derivation.
*/
package hash

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/r3e-network/neokit/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is a part of Neo address scheme.
)

// Hashable is a thing that can be hashed.
type Hashable interface {
	Hash() util.Uint256
}

// GetSignedData returns the data that is signed for the given network: its
// magic number (LE) followed by the hash of the item.
func GetSignedData(net uint32, hh Hashable) []byte {
	var b = make([]byte, 4+util.Uint256Size)
	binary.LittleEndian.PutUint32(b, net)
	h := hh.Hash()
	copy(b[4:], h[:])
	return b
}

// NetSha256 calculates a network-specific hash of the Hashable item that can then
// be signed/verified.
func NetSha256(net uint32, hh Hashable) util.Uint256 {
	return Sha256(GetSignedData(net, hh))
}

// Sha256 hashes the incoming byte slice
// using the sha256 algorithm.
func Sha256(data []byte) util.Uint256 {
	return sha256.Sum256(data)
}

// DoubleSha256 performs sha256 twice on the given data.
func DoubleSha256(data []byte) util.Uint256 {
	h1 := Sha256(data)
	return Sha256(h1[:])
}

// Hash256 is an alias of DoubleSha256, it's the name used for transaction
// and block identifiers and for checksums.
func Hash256(data []byte) util.Uint256 {
	return DoubleSha256(data)
}

// RipeMD160 performs the RIPEMD160 hash algorithm
// on the given data.
func RipeMD160(data []byte) util.Uint160 {
	var hash util.Uint160
	hasher := ripemd160.New()
	_, _ = hasher.Write(data)

	hasher.Sum(hash[:0])
	return hash
}

// Hash160 performs sha256 and then ripemd160
// on the given data.
func Hash160(data []byte) util.Uint160 {
	h1 := Sha256(data)
	h2 := RipeMD160(h1[:])

	return h2
}

// Checksum returns the checksum for a given piece of data
// using Hash256 as the hash algorithm.
func Checksum(data []byte) []byte {
	hash := DoubleSha256(data)
	return hash[:4]
}
