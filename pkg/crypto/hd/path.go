package hd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/r3e-network/neokit/pkg/neoerr"
)

// Neo coin type registered in SLIP-44.
const (
	purpose  = 44
	coinType = 888
)

// AccountPath returns the standard Neo derivation path of the first address
// of the given account.
func AccountPath(account uint32) string {
	return fmt.Sprintf("m/%d'/%d'/%d'/0/0", purpose, coinType, account)
}

func isAbsolute(path string) bool {
	return path == "m" || strings.HasPrefix(path, "m/")
}

// ParsePath parses a derivation path like "m/44'/888'/0'/0/0" into child
// indices. Hardened components are marked with ', h or H. The leading "m/"
// is optional, "m" alone denotes the key itself.
func ParsePath(path string) ([]uint32, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", neoerr.ErrFormat)
	}
	if path == "m" {
		return []uint32{}, nil
	}
	path = strings.TrimPrefix(path, "m/")

	parts := strings.Split(path, "/")
	res := make([]uint32, len(parts))
	for i, p := range parts {
		var hardened bool
		if n := len(p); n > 0 && (p[n-1] == '\'' || p[n-1] == 'h' || p[n-1] == 'H') {
			hardened = true
			p = p[:n-1]
		}
		if p == "" || p[0] == '+' || p[0] == '-' {
			return nil, fmt.Errorf("%w: invalid path component %q", neoerr.ErrFormat, parts[i])
		}
		index, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", neoerr.ErrFormat, err)
		}
		if index >= uint64(HardenedKeyStart) {
			return nil, fmt.Errorf("%w: path index %d is too big", neoerr.ErrFormat, index)
		}
		res[i] = uint32(index)
		if hardened {
			res[i] += HardenedKeyStart
		}
	}
	return res, nil
}
