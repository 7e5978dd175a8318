package hash

import (
	"encoding/hex"
	"testing"

	"github.com/r3e-network/neokit/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSha256(t *testing.T) {
	input := []byte("hello")
	data := Sha256(input)

	expected := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	actual := hex.EncodeToString(data.BytesBE())

	assert.Equal(t, expected, actual)
}

func TestHashDoubleSha256(t *testing.T) {
	input := []byte("hello")
	data := DoubleSha256(input)

	firstSha := Sha256(input)
	doubleSha := Sha256(firstSha.BytesBE())
	expected := hex.EncodeToString(doubleSha.BytesBE())

	actual := hex.EncodeToString(data.BytesBE())
	assert.Equal(t, expected, actual)
	assert.Equal(t, data, Hash256(input))
	assert.Equal(t, "9595c9df90075148eb06860365df33584b75bff782a510c6cd4883a419833d50", actual)
}

func TestHashRipeMD160(t *testing.T) {
	input := []byte("hello")
	data := RipeMD160(input)

	expected := "108f07b8382412612c048d07d13f814118445acd"
	actual := hex.EncodeToString(data.BytesBE())
	assert.Equal(t, expected, actual)
}

func TestHash160(t *testing.T) {
	input := "02cccafb41b220cab63fd77108d2d1ebcffa32be26da29a04dca4996afce5f75db"
	publicKeyBytes, _ := hex.DecodeString(input)
	data := Hash160(publicKeyBytes)

	expected := "c8e2b685cc70ec96743b55beb9449782f8f775d8"
	actual := hex.EncodeToString(data.BytesBE())
	assert.Equal(t, expected, actual)
}

func TestChecksum(t *testing.T) {
	input := []byte("hello")
	h := DoubleSha256(input)
	require.Equal(t, h[:4], Checksum(input))
	require.Len(t, Checksum(nil), 4)
}

func TestHMAC(t *testing.T) {
	// RFC 4231, test case 2.
	key := []byte("Jefe")
	data := []byte("what do ya want for nothing?")
	require.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		hex.EncodeToString(HMACSHA256(key, data)))
	require.Equal(t, "164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea2505549758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737",
		hex.EncodeToString(HMACSHA512(key, data)))
}

type testHashable util.Uint256

func (h testHashable) Hash() util.Uint256 { return util.Uint256(h) }

func TestNetSha256(t *testing.T) {
	var h = testHashable(Sha256([]byte("tx")))
	data := GetSignedData(0x334f454e, h)
	require.Len(t, data, 36)
	require.Equal(t, []byte{0x4e, 0x45, 0x4f, 0x33}, data[:4])
	require.Equal(t, Sha256(data), NetSha256(0x334f454e, h))
}
