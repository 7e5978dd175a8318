package keys

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/r3e-network/neokit/internal/keytestcases"
	"github.com/r3e-network/neokit/pkg/crypto/ec"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivateKey(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		privKey, err := NewPrivateKeyFromHex(testCase.PrivateKey)
		if testCase.Invalid {
			assert.Error(t, err)
			continue
		}

		assert.Nil(t, err)
		assert.Equal(t, testCase.Address, privKey.Address())

		wif := privKey.WIF()
		assert.Equal(t, testCase.Wif, wif)
		pubKey := privKey.PublicKey()
		assert.Equal(t, hex.EncodeToString(pubKey.Bytes()), testCase.PublicKey)
		assert.Equal(t, testCase.ScriptHash, pubKey.GetScriptHash().StringLE())
		oldD := privKey.String()
		privKey.Destroy()
		assert.NotEqual(t, oldD, privKey.String())
	}
}

func TestPrivateKeyFromWIF(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		key, err := NewPrivateKeyFromWIF(testCase.Wif)
		if testCase.Invalid {
			assert.Error(t, err)
			continue
		}

		assert.Nil(t, err)
		assert.Equal(t, testCase.PrivateKey, key.String())
	}
}

func TestSigning(t *testing.T) {
	// These were taken from the rfcPage:https://tools.ietf.org/html/rfc6979#page-33
	//   public key: U = xG
	//Ux = 60FED4BA255A9D31C961EB74C6356D68C049B8923B61FA6CE669622E60F29FB6
	//Uy = 7903FE1008B8BC99A41AE9E95628BC64F2F1B20C2D7E9F5177A3C294D4462299
	PrivateKey, _ := NewPrivateKeyFromHex("C9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721")
	defer PrivateKey.Destroy()

	pub := PrivateKey.PublicKey()
	assert.Equal(t, "60fed4ba255a9d31c961eb74c6356d68c049b8923b61fa6ce669622e60f29fb6", hex.EncodeToString(pub.Point().X().Bytes()))
	assert.Equal(t, "7903fe1008b8bc99a41ae9e95628bc64f2f1b20c2d7e9f5177a3c294d4462299", hex.EncodeToString(pub.Point().Y().Bytes()))

	data := PrivateKey.Sign([]byte("sample"))

	r := "EFD48B2AACB6A8FD1140DD9CD45E81D69D2C877B56AAF991C34D0EA84EAF3716"
	s := "F7CB1C942D657C41D436C7A1B6E29F65F3E900DBB9AFF4064DC4AB2F843ACDA8"
	assert.Equal(t, strings.ToLower(r+s), hex.EncodeToString(data))
}

func TestNewPrivateKeyFromScalar(t *testing.T) {
	for _, d := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1), ec.P256().N} {
		_, err := NewPrivateKeyFromScalar(d)
		require.ErrorIs(t, err, neoerr.ErrCrypto)
	}

	k, err := NewPrivateKeyFromScalar(big.NewInt(1))
	require.NoError(t, err)
	require.True(t, k.PublicKey().Point().Equal(ec.P256().G()))
	require.Equal(t, "0000000000000000000000000000000000000000000000000000000000000001", k.String())
}

func TestNewPrivateKeyFromBytes(t *testing.T) {
	_, err := NewPrivateKeyFromBytes([]byte{1, 2, 3})
	require.ErrorIs(t, err, neoerr.ErrFormat)

	_, err = NewPrivateKeyFromBytes(make([]byte, 32))
	require.ErrorIs(t, err, neoerr.ErrCrypto)

	_, err = NewPrivateKeyFromHex("zz")
	require.ErrorIs(t, err, neoerr.ErrFormat)

	b := make([]byte, 32)
	b[31] = 7
	k, err := NewPrivateKeyFromBytes(b)
	require.NoError(t, err)
	b[31] = 8
	require.Equal(t, byte(7), k.Bytes()[31])
}

func TestNewPrivateKey(t *testing.T) {
	for _, gen := range []func() (*PrivateKey, error){NewPrivateKey, NewSecp256k1PrivateKey} {
		k, err := gen()
		require.NoError(t, err)
		require.True(t, k.PublicKey().Point().IsOnCurve())

		d := new(big.Int).SetBytes(k.Bytes())
		require.Equal(t, 1, d.Sign())
		require.Equal(t, -1, d.Cmp(k.Curve().N))

		expected, err := k.Curve().Multiply(d)
		require.NoError(t, err)
		require.True(t, expected.Equal(k.PublicKey().Point()))
	}
}

func TestDestroy(t *testing.T) {
	k, err := NewPrivateKey()
	require.NoError(t, err)
	require.False(t, k.IsDestroyed())

	k.Destroy()
	require.True(t, k.IsDestroyed())
	require.Equal(t, make([]byte, 32), k.Bytes())
}

func TestWithPrivateKey(t *testing.T) {
	b, _ := hex.DecodeString(keytestcases.Arr[0].PrivateKey)

	var saved *PrivateKey
	err := WithPrivateKey(b, func(k *PrivateKey) error {
		saved = k
		require.Equal(t, keytestcases.Arr[0].Address, k.Address())
		return nil
	})
	require.NoError(t, err)
	require.True(t, saved.IsDestroyed())

	errTest := errors.New("test")
	err = WithPrivateKey(b, func(k *PrivateKey) error {
		saved = k
		return errTest
	})
	require.ErrorIs(t, err, errTest)
	require.True(t, saved.IsDestroyed())

	err = WithPrivateKey(b[:5], func(k *PrivateKey) error {
		t.Fatal("must not be called")
		return nil
	})
	require.ErrorIs(t, err, neoerr.ErrFormat)
}
