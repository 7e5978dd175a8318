package util_test

import (
	"encoding/hex"
	"testing"

	"github.com/r3e-network/neokit/internal/testserdes"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint160UnmarshalJSON(t *testing.T) {
	str := "0263c1de100292813b5e075e585acc1bae963b2d"
	expected, err := util.Uint160DecodeStringLE(str)
	assert.NoError(t, err)

	var u1, u2 util.Uint160

	assert.NoError(t, u1.UnmarshalJSON([]byte(`"`+str+`"`)))
	assert.True(t, expected.Equals(u1))

	assert.NoError(t, u1.UnmarshalJSON([]byte(`"0x`+str+`"`)))
	assert.True(t, expected.Equals(u1))

	testserdes.MarshalUnmarshalJSON(t, &expected, &u2)

	assert.Error(t, u2.UnmarshalJSON([]byte(`123`)))
}

func TestUInt160DecodeString(t *testing.T) {
	hexStr := "2d3b96ae1bcc5a585e075e3b81920210dec16302"
	val, err := util.Uint160DecodeStringBE(hexStr)
	assert.NoError(t, err)
	assert.Equal(t, hexStr, val.String())

	valLE, err := util.Uint160DecodeStringLE(hexStr)
	assert.NoError(t, err)
	assert.Equal(t, val, valLE.Reverse())
	assert.Equal(t, hexStr, valLE.StringLE())

	_, err = util.Uint160DecodeStringBE(hexStr[1:])
	assert.Error(t, err)

	_, err = util.Uint160DecodeStringLE(hexStr[1:])
	assert.Error(t, err)

	hexStr = "zz3b96ae1bcc5a585e075e3b81920210dec16302"
	_, err = util.Uint160DecodeStringBE(hexStr)
	assert.Error(t, err)

	_, err = util.Uint160DecodeStringLE(hexStr)
	assert.Error(t, err)
}

func TestUint160DecodeBytes(t *testing.T) {
	hexStr := "2d3b96ae1bcc5a585e075e3b81920210dec16302"
	b, err := hex.DecodeString(hexStr)
	require.NoError(t, err)

	val, err := util.Uint160DecodeBytesBE(b)
	assert.NoError(t, err)
	assert.Equal(t, hexStr, val.String())

	val, err = util.Uint160DecodeBytesLE(b)
	assert.NoError(t, err)
	assert.Equal(t, hexStr, val.StringLE())

	_, err = util.Uint160DecodeBytesBE(b[1:])
	assert.Error(t, err)

	_, err = util.Uint160DecodeBytesLE(b[1:])
	assert.Error(t, err)
}

func TestUint160Less(t *testing.T) {
	a, err := util.Uint160DecodeStringBE("2d3b96ae1bcc5a585e075e3b81920210dec16302")
	require.NoError(t, err)
	b, err := util.Uint160DecodeStringBE("2d3b96ae1bcc5a585e075e3b81920210dec16303")
	require.NoError(t, err)
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.False(t, a.Less(a))
}

func TestUint160BinarySerDes(t *testing.T) {
	u, err := util.Uint160DecodeStringLE("0263c1de100292813b5e075e585acc1bae963b2d")
	require.NoError(t, err)
	testserdes.EncodeDecodeBinary(t, &u, new(util.Uint160))
}
