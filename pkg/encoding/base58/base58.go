/*
Package base58 implements Base58 and Base58Check encodings with the
Bitcoin alphabet. Base58Check appends the first four bytes of hash256 of
the payload as a checksum.
*/
package base58

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/r3e-network/neokit/pkg/crypto/hash"
	"github.com/r3e-network/neokit/pkg/neoerr"
)

// checksumLen is the length of the Base58Check checksum.
const checksumLen = 4

// Encode encodes the given byte slice into a base58 string. Leading zero bytes
// are encoded as leading '1' characters.
func Encode(b []byte) string {
	return base58.Encode(b)
}

// Decode decodes the given base58 string. An empty string decodes into an
// empty slice.
func Decode(s string) ([]byte, error) {
	if len(s) == 0 {
		return []byte{}, nil
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", neoerr.ErrFormat, err)
	}
	return b, nil
}

// CheckEncode encodes the given byte slice into a base58 string with a
// checksum appended.
func CheckEncode(b []byte) string {
	buf := make([]byte, 0, len(b)+checksumLen)
	buf = append(buf, b...)
	buf = append(buf, hash.Checksum(b)...)
	return Encode(buf)
}

// CheckDecode decodes the given base58 string and verifies its checksum. The
// payload without the checksum is returned.
func CheckDecode(s string) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}

	if len(b) < checksumLen {
		return nil, fmt.Errorf("%w: %d bytes is too short for checksummed data", neoerr.ErrFormat, len(b))
	}

	payload, sum := b[:len(b)-checksumLen], b[len(b)-checksumLen:]
	if !bytes.Equal(hash.Checksum(payload), sum) {
		return nil, neoerr.ErrChecksum
	}
	return payload, nil
}
