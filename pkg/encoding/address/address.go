/*
Package address converts script hashes to Neo N3 addresses and back. An
address is the Base58Check encoding of a version byte followed by the
20-byte script hash (in BE form).
*/
package address

import (
	"fmt"

	"github.com/r3e-network/neokit/pkg/encoding/base58"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/util"
)

const (
	// NEO3Prefix is the first byte of an address for NEO3.
	NEO3Prefix byte = 0x35
)

// Prefix is the byte used to prepend to addresses when encoding them, it can
// be changed and defaults to 53 (0x35), the standard NEO prefix.
var Prefix = NEO3Prefix

// Uint160ToString returns the "NEO address" from the given Uint160.
func Uint160ToString(u util.Uint160) string {
	// Don't forget to prepend the Address version.
	b := append([]byte{Prefix}, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// StringToUint160 attempts to decode the given NEO address string
// into a Uint160.
func StringToUint160(s string) (u util.Uint160, err error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return u, err
	}
	if len(b) != util.Uint160Size+1 {
		return u, fmt.Errorf("%w: invalid address length %d", neoerr.ErrFormat, len(b))
	}
	if b[0] != Prefix {
		return u, fmt.Errorf("%w: wrong address prefix 0x%02x", neoerr.ErrFormat, b[0])
	}
	return util.Uint160DecodeBytesBE(b[1:])
}
