package nef

import (
	"strings"
	"testing"

	"github.com/r3e-network/neokit/internal/testserdes"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/smartcontract/callflag"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestMethodToken_Serializable(t *testing.T) {
	getToken := func() *MethodToken {
		return &MethodToken{
			Hash:       util.Uint160{0xde, 0xad, 0xbe, 0xef},
			Method:     "MethodName",
			ParamCount: 2,
			HasReturn:  true,
			CallFlag:   callflag.ReadStates,
		}
	}
	t.Run("good", func(t *testing.T) {
		testserdes.EncodeDecodeBinary(t, getToken(), new(MethodToken))
		require.NoError(t, getToken().Validate())
	})
	t.Run("too long name", func(t *testing.T) {
		tok := getToken()
		tok.Method = strings.Repeat("s", maxMethodLength+1)
		data, err := testserdes.EncodeBinary(tok)
		require.NoError(t, err)
		require.Error(t, testserdes.DecodeBinary(data, new(MethodToken)))
		require.ErrorIs(t, tok.Validate(), neoerr.ErrValidation)
	})
	t.Run("start with '_'", func(t *testing.T) {
		tok := getToken()
		tok.Method = "_method"
		data, err := testserdes.EncodeBinary(tok)
		require.NoError(t, err)
		err = testserdes.DecodeBinary(data, new(MethodToken))
		require.ErrorIs(t, err, errInvalidMethodName)
		require.ErrorIs(t, err, neoerr.ErrFormat)
		require.ErrorIs(t, tok.Validate(), errInvalidMethodName)
	})
	t.Run("invalid call flag", func(t *testing.T) {
		tok := getToken()
		tok.CallFlag = ^callflag.All
		data, err := testserdes.EncodeBinary(tok)
		require.NoError(t, err)
		err = testserdes.DecodeBinary(data, new(MethodToken))
		require.ErrorIs(t, err, errInvalidCallFlag)
		require.ErrorIs(t, tok.Validate(), errInvalidCallFlag)
	})
}
