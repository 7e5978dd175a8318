package transaction

import (
	"encoding/json"
	"testing"

	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/stretchr/testify/require"
)

func mustGroupKey(t *testing.T) *keys.PublicKey {
	pk, err := keys.NewPrivateKey()
	require.NoError(t, err)
	defer pk.Destroy()
	return pk.PublicKey()
}

func getAllConditions(t *testing.T) []WitnessCondition {
	var (
		b1  = ConditionBoolean(true)
		b2  = ConditionBoolean(false)
		h   = ConditionScriptHash(util.Uint160{1, 2, 3})
		cc  = ConditionCalledByContract(util.Uint160{3, 2, 1})
		pk1 = mustGroupKey(t)
		pk2 = mustGroupKey(t)
	)
	not, err := NewConditionNot(&b1)
	require.NoError(t, err)
	and, err := NewConditionAnd(&b1, &b2)
	require.NoError(t, err)
	or, err := NewConditionOr(&h, &cc)
	require.NoError(t, err)
	return []WitnessCondition{
		&b1, &b2, not, and, or, &h, (*ConditionGroup)(pk1), ConditionCalledByEntry{}, &cc, (*ConditionCalledByGroup)(pk2),
	}
}

// requireSameCondition compares conditions by their binary form.
func requireSameCondition(t *testing.T, expected, actual WitnessCondition) {
	eb, err := EncodeBinaryCondition(expected)
	require.NoError(t, err)
	ab, err := EncodeBinaryCondition(actual)
	require.NoError(t, err)
	require.Equal(t, expected.Type(), actual.Type())
	require.Equal(t, eb, ab)
}

func TestWitnessConditionSerDes(t *testing.T) {
	for _, c := range getAllConditions(t) {
		b, err := EncodeBinaryCondition(c)
		require.NoError(t, err)
		require.Equal(t, byte(c.Type()), b[0])
		res, err := ConditionFromBytes(b)
		require.NoError(t, err)
		requireSameCondition(t, c, res)

		js, err := json.Marshal(c)
		require.NoError(t, err)
		res, err = UnmarshalConditionJSON(js)
		require.NoError(t, err)
		requireSameCondition(t, c, res)
	}
}

func TestWitnessConditionTags(t *testing.T) {
	var tags = map[WitnessConditionType]byte{
		WitnessBoolean:          0x00,
		WitnessNot:              0x01,
		WitnessAnd:              0x02,
		WitnessOr:               0x03,
		WitnessScriptHash:       0x18,
		WitnessGroup:            0x19,
		WitnessCalledByEntry:    0x20,
		WitnessCalledByContract: 0x28,
		WitnessCalledByGroup:    0x29,
	}
	for typ, tag := range tags {
		require.Equal(t, tag, byte(typ), typ.String())
	}
	require.Equal(t, "WitnessConditionType(66)", WitnessConditionType(0x42).String())
}

func TestWitnessConditionBinaryLayout(t *testing.T) {
	b := ConditionBoolean(true)
	and, err := NewConditionAnd(&b, ConditionCalledByEntry{})
	require.NoError(t, err)
	data, err := EncodeBinaryCondition(and)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x02, 0x00, 0x01, 0x20}, data)

	h := ConditionScriptHash(util.Uint160{0xaa})
	data, err = EncodeBinaryCondition(&h)
	require.NoError(t, err)
	require.Len(t, data, 21)
	require.Equal(t, []byte{0x18, 0xaa}, data[:2])
}

func TestWitnessConditionNesting(t *testing.T) {
	b := ConditionBoolean(true)
	not, err := NewConditionNot(&b)
	require.NoError(t, err)
	or, err := NewConditionOr(&b, ConditionCalledByEntry{})
	require.NoError(t, err)

	// And(Or(...), Not(...)) has two composite levels, it's the deepest allowed.
	deepest, err := NewConditionAnd(or, not)
	require.NoError(t, err)
	data, err := EncodeBinaryCondition(deepest)
	require.NoError(t, err)
	res, err := ConditionFromBytes(data)
	require.NoError(t, err)
	requireSameCondition(t, deepest, res)

	js, err := json.Marshal(deepest)
	require.NoError(t, err)
	res, err = UnmarshalConditionJSON(js)
	require.NoError(t, err)
	requireSameCondition(t, deepest, res)

	t.Run("construction", func(t *testing.T) {
		_, err := NewConditionNot(deepest)
		require.ErrorIs(t, err, neoerr.ErrValidation)
		_, err = NewConditionAnd(&b, deepest)
		require.ErrorIs(t, err, neoerr.ErrValidation)
		_, err = NewConditionOr(deepest)
		require.ErrorIs(t, err, neoerr.ErrValidation)
	})
	t.Run("decoding", func(t *testing.T) {
		// Not(And(Or(...), Not(...))) built bypassing constructors.
		tooDeep := &ConditionNot{Expression: deepest}
		_, err := EncodeBinaryCondition(tooDeep)
		require.ErrorIs(t, err, neoerr.ErrValidation)

		w := io.NewBufBinWriter()
		tooDeep.EncodeBinary(w.BinWriter)
		require.NoError(t, w.Err)
		_, err = ConditionFromBytes(w.Bytes())
		require.ErrorIs(t, err, neoerr.ErrFormat)

		js, err := json.Marshal(tooDeep)
		require.NoError(t, err)
		_, err = UnmarshalConditionJSON(js)
		require.ErrorIs(t, err, neoerr.ErrFormat)
	})
}

func TestWitnessConditionSubitems(t *testing.T) {
	b := ConditionBoolean(false)
	conds := make([]WitnessCondition, MaxSubitems)
	for i := range conds {
		conds[i] = &b
	}
	_, err := NewConditionAnd(conds...)
	require.NoError(t, err)
	_, err = NewConditionOr(conds...)
	require.NoError(t, err)

	_, err = NewConditionAnd(append(conds, &b)...)
	require.ErrorIs(t, err, neoerr.ErrValidation)
	_, err = NewConditionOr(append(conds, &b)...)
	require.ErrorIs(t, err, neoerr.ErrValidation)
	_, err = NewConditionAnd()
	require.ErrorIs(t, err, neoerr.ErrValidation)
	_, err = NewConditionOr(nil)
	require.ErrorIs(t, err, neoerr.ErrValidation)
	_, err = NewConditionNot(nil)
	require.ErrorIs(t, err, neoerr.ErrValidation)

	t.Run("decoding", func(t *testing.T) {
		data := []byte{byte(WitnessAnd), MaxSubitems + 1}
		for i := 0; i <= MaxSubitems; i++ {
			data = append(data, byte(WitnessBoolean), 0)
		}
		_, err := ConditionFromBytes(data)
		require.ErrorIs(t, err, neoerr.ErrFormat)

		_, err = ConditionFromBytes([]byte{byte(WitnessOr), 0})
		require.ErrorIs(t, err, neoerr.ErrFormat)
	})
}

func TestWitnessConditionUncheckedEncoding(t *testing.T) {
	b := ConditionBoolean(true)
	conds := make(ConditionOr, MaxSubitems+1)
	for i := range conds {
		conds[i] = &b
	}
	var (
		empty   = ConditionAnd{}
		nilItem = ConditionAnd{&b, nil}
		nilNot  = ConditionNot{}
	)
	for name, c := range map[string]WitnessCondition{
		"nil":            nil,
		"empty And":      &empty,
		"nil And item":   &nilItem,
		"too many items": &conds,
		"nil Not":        &nilNot,
	} {
		_, err := EncodeBinaryCondition(c)
		require.ErrorIs(t, err, neoerr.ErrValidation, name)

		if c == nil {
			continue
		}
		w := io.NewBufBinWriter()
		c.EncodeBinary(w.BinWriter)
		require.ErrorIs(t, w.Err, neoerr.ErrValidation, name)

		_, err = json.Marshal(c)
		require.Error(t, err, name)
	}

	rule := &WitnessRule{Action: WitnessAllow, Condition: &nilNot}
	w := io.NewBufBinWriter()
	rule.EncodeBinary(w.BinWriter)
	require.ErrorIs(t, w.Err, neoerr.ErrValidation)
	_, err := json.Marshal(&WitnessRule{Action: WitnessAllow})
	require.Error(t, err)
}

func TestWitnessConditionDecodeErrors(t *testing.T) {
	_, err := ConditionFromBytes([]byte{0x42})
	require.ErrorIs(t, err, neoerr.ErrUnknownConditionType)
	require.ErrorIs(t, err, neoerr.ErrFormat)

	_, err = ConditionFromBytes([]byte{byte(WitnessBoolean), 1, 0})
	require.ErrorIs(t, err, neoerr.ErrFormat)

	_, err = ConditionFromBytes([]byte{byte(WitnessScriptHash), 1, 2})
	require.ErrorIs(t, err, neoerr.ErrFormat)

	_, err = ConditionFromBytes(nil)
	require.ErrorIs(t, err, neoerr.ErrFormat)

	r := io.NewBinReaderFromBuf([]byte{byte(WitnessGroup), 0x05})
	require.Nil(t, DecodeBinaryCondition(r))
	require.Error(t, r.Err)
}

func TestWitnessConditionBadJSON(t *testing.T) {
	var cases = []string{
		`{}`,
		`[]`,
		`{"type":"Unknown"}`,
		`{"type":"Boolean"}`,
		`{"type":"Boolean", "expression":42}`,
		`{"type":"Not"}`,
		`{"type":"Not", "expression":{"type":"Unknown"}}`,
		`{"type":"And"}`,
		`{"type":"And", "expressions":[]}`,
		`{"type":"Or", "expressions":[{"type":"Unknown"}]}`,
		`{"type":"ScriptHash"}`,
		`{"type":"ScriptHash", "hash":"0x01"}`,
		`{"type":"Group"}`,
		`{"type":"Group", "group":"zzz"}`,
		`{"type":"CalledByContract"}`,
		`{"type":"CalledByGroup"}`,
	}
	for i := range cases {
		_, err := UnmarshalConditionJSON([]byte(cases[i]))
		require.Errorf(t, err, "case %d, json %s", i, cases[i])
	}
}

func TestWitnessConditionJSONFormat(t *testing.T) {
	b := ConditionBoolean(true)
	and, err := NewConditionAnd(&b, ConditionCalledByEntry{})
	require.NoError(t, err)
	js, err := json.Marshal(and)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"And","expressions":[{"type":"Boolean","expression":true},{"type":"CalledByEntry"}]}`, string(js))

	h := ConditionScriptHash(util.Uint160{1})
	js, err = json.Marshal(&h)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"ScriptHash","hash":"0x0000000000000000000000000000000000000001"}`, string(js))
}
