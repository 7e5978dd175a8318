package address

import (
	"testing"

	"github.com/r3e-network/neokit/pkg/encoding/base58"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint160DecodeEncodeAddress(t *testing.T) {
	hashes := []string{
		"d2a4cff31913016155e38e474a2c06d08be276cf",
		"ef4073a0f2b305a38ec4050e4d3d28bc40ea63f5",
		"0000000000000000000000000000000000000000",
	}
	for _, h := range hashes {
		u, err := util.Uint160DecodeStringLE(h)
		require.NoError(t, err)

		addr := Uint160ToString(u)
		assert.Equal(t, byte('N'), addr[0])

		val, err := StringToUint160(addr)
		require.NoError(t, err)
		assert.Equal(t, u, val)
	}
}

func TestUint160DecodeBadBase58(t *testing.T) {
	addr := Uint160ToString(util.Uint160{1, 2, 3})
	address := addr[:len(addr)-1] + "@"

	_, err := StringToUint160(address)
	require.ErrorIs(t, err, neoerr.ErrFormat)
}

func TestUint160DecodeBadPrefix(t *testing.T) {
	u := util.Uint160{1, 2, 3}
	address := base58.CheckEncode(append([]byte{0x17}, u.BytesBE()...))

	_, err := StringToUint160(address)
	require.ErrorIs(t, err, neoerr.ErrFormat)
}

func TestUint160DecodeBadLength(t *testing.T) {
	address := base58.CheckEncode([]byte{Prefix, 1, 2, 3})

	_, err := StringToUint160(address)
	require.ErrorIs(t, err, neoerr.ErrFormat)
}

func TestPrefixFromConfig(t *testing.T) {
	u := util.Uint160{1, 2, 3}
	Prefix = 0x17
	t.Cleanup(func() { Prefix = NEO3Prefix })

	addr := Uint160ToString(u)
	require.Equal(t, byte('A'), addr[0])
	val, err := StringToUint160(addr)
	require.NoError(t, err)
	require.Equal(t, u, val)
}
