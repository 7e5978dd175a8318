package transaction

import (
	"testing"

	"github.com/r3e-network/neokit/internal/testserdes"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestCosignerEncodeDecode(t *testing.T) {
	expected := &Signer{
		Account:          util.Uint160{1, 2, 3, 4, 5},
		Scopes:           CustomContracts,
		AllowedContracts: []util.Uint160{{1, 2, 3, 4}, {6, 7, 8, 9}},
	}
	actual := &Signer{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestCosignerMarshallUnmarshallJSON(t *testing.T) {
	expected := &Signer{
		Account:          util.Uint160{1, 2, 3, 4, 5},
		Scopes:           CustomContracts,
		AllowedContracts: []util.Uint160{{1, 2, 3, 4}, {6, 7, 8, 9}},
	}
	actual := &Signer{}
	testserdes.MarshalUnmarshalJSON(t, expected, actual)
}

func TestSignerWithRules(t *testing.T) {
	pub := mustGroupKey(t)
	b := ConditionBoolean(true)
	expected := &Signer{
		Account:       util.Uint160{1, 2, 3, 4, 5},
		Scopes:        CalledByEntry | CustomGroups | Rules,
		AllowedGroups: []*keys.PublicKey{pub},
		Rules: []WitnessRule{
			{Action: WitnessAllow, Condition: &b},
			{Action: WitnessDeny, Condition: (*ConditionGroup)(pub)},
		},
	}
	require.NoError(t, expected.Validate())

	data, err := testserdes.EncodeBinary(expected)
	require.NoError(t, err)
	actual := &Signer{}
	require.NoError(t, testserdes.DecodeBinary(data, actual))
	require.Equal(t, expected.Account, actual.Account)
	require.Equal(t, expected.Scopes, actual.Scopes)
	require.Len(t, actual.AllowedGroups, 1)
	require.True(t, pub.Equal(actual.AllowedGroups[0]))
	require.Len(t, actual.Rules, 2)
	require.Equal(t, WitnessDeny, actual.Rules[1].Action)
	requireSameCondition(t, expected.Rules[1].Condition, actual.Rules[1].Condition)

	data2, err := testserdes.EncodeBinary(actual)
	require.NoError(t, err)
	require.Equal(t, data, data2)
}

func TestSignerDecodeBadScopes(t *testing.T) {
	for _, s := range []byte{0x02, 0x81, 0x90, 0xc0} {
		data := append(make([]byte, util.Uint160Size), s)
		require.ErrorIs(t, testserdes.DecodeBinary(data, new(Signer)), neoerr.ErrFormat, s)
	}
}

func TestSignerValidate(t *testing.T) {
	s := &Signer{Scopes: Global | CalledByEntry}
	require.ErrorIs(t, s.Validate(), neoerr.ErrValidation)

	s = &Signer{Scopes: CustomContracts, AllowedContracts: make([]util.Uint160, MaxSubitems+1)}
	require.ErrorIs(t, s.Validate(), neoerr.ErrValidation)

	s = &Signer{Scopes: Rules, Rules: []WitnessRule{{Action: WitnessAllow}}}
	require.ErrorIs(t, s.Validate(), neoerr.ErrValidation)
}

func TestSignerCopy(t *testing.T) {
	require.Nil(t, (*Signer)(nil).Copy())
	orig := &Signer{
		Account:          util.Uint160{1},
		Scopes:           CustomContracts | Rules,
		AllowedContracts: []util.Uint160{{2}},
		Rules:            []WitnessRule{{Action: WitnessAllow, Condition: ConditionCalledByEntry{}}},
	}
	cp := orig.Copy()
	require.Equal(t, orig, cp)
	cp.AllowedContracts[0] = util.Uint160{3}
	cp.Rules[0].Action = WitnessDeny
	require.Equal(t, util.Uint160{2}, orig.AllowedContracts[0])
	require.Equal(t, WitnessAllow, orig.Rules[0].Action)
}

func TestWitnessScope(t *testing.T) {
	var testCases = map[string]WitnessScope{
		"None":                           None,
		"CalledByEntry":                  CalledByEntry,
		"Global":                         Global,
		"CalledByEntry, CustomContracts": CalledByEntry | CustomContracts,
		"CustomGroups, WitnessRules":     CustomGroups | Rules,
	}
	for str, scope := range testCases {
		require.Equal(t, str, scope.String())
		res, err := ScopesFromString(str)
		require.NoError(t, err)
		require.Equal(t, scope, res)
	}

	_, err := ScopesFromString("Global, CalledByEntry")
	require.ErrorIs(t, err, neoerr.ErrFormat)
	_, err = ScopesFromString("Unknown")
	require.ErrorIs(t, err, neoerr.ErrFormat)
	_, err = ScopesFromString("")
	require.Error(t, err)

	for _, b := range []byte{0x00, 0x01, 0x10, 0x20, 0x40, 0x80, 0x71} {
		s, err := ScopesFromByte(b)
		require.NoError(t, err)
		require.Equal(t, WitnessScope(b), s)
	}
	for _, b := range []byte{0x02, 0x81, 0xff} {
		_, err := ScopesFromByte(b)
		require.ErrorIs(t, err, neoerr.ErrFormat)
	}

	testserdes.MarshalUnmarshalJSON(t, new(WitnessScope), new(WitnessScope))
	s := CalledByEntry | CustomGroups
	testserdes.MarshalUnmarshalJSON(t, &s, new(WitnessScope))
}
