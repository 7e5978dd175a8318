package nef

import (
	"encoding/binary"
	"encoding/json"
	"strings"
	"testing"

	"github.com/r3e-network/neokit/internal/testserdes"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/smartcontract/callflag"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/stretchr/testify/require"
)

func newTestFile() *File {
	return &File{
		Header: Header{
			Magic:    Magic,
			Compiler: "best compiler version 1",
		},
		Source: "https://example.com/contract.go",
		Tokens: []MethodToken{{
			Hash:       util.Uint160{1, 2, 3},
			Method:     "method",
			ParamCount: 3,
			HasReturn:  true,
			CallFlag:   callflag.WriteStates,
		}},
		Script: []byte{12, 32, 84, 35, 14},
	}
}

func TestEncodeDecodeBinary(t *testing.T) {
	expected := newTestFile()

	t.Run("invalid Magic", func(t *testing.T) {
		expected.Header.Magic = 123
		checkDecodeError(t, expected)
	})

	t.Run("invalid checksum", func(t *testing.T) {
		expected.Header.Magic = Magic
		expected.Checksum = 123
		checkDecodeError(t, expected)
	})

	t.Run("zero-length script", func(t *testing.T) {
		expected.Script = make([]byte, 0)
		expected.Checksum = expected.CalculateChecksum()
		checkDecodeError(t, expected)
	})

	t.Run("invalid script length", func(t *testing.T) {
		newScript := make([]byte, MaxScriptLength+1)
		expected.Script = newScript
		expected.Checksum = expected.CalculateChecksum()
		checkDecodeError(t, expected)
	})

	t.Run("invalid tokens list", func(t *testing.T) {
		expected.Script = []byte{1}
		expected.Tokens[0].Method = "_reserved"
		expected.Checksum = expected.CalculateChecksum()
		checkDecodeError(t, expected)
	})

	t.Run("too long source", func(t *testing.T) {
		expected.Tokens[0].Method = "method"
		expected.Source = strings.Repeat("s", MaxSourceURLLength+1)
		expected.Checksum = expected.CalculateChecksum()
		checkDecodeError(t, expected)
	})

	t.Run("positive", func(t *testing.T) {
		expected.Source = "https://example.com/contract.go"
		expected.Script = []byte{1, 2, 3}
		expected.Checksum = expected.CalculateChecksum()
		testserdes.EncodeDecodeBinary(t, expected, &File{})
	})
}

func checkDecodeError(t *testing.T, expected *File) {
	bytes, err := testserdes.EncodeBinary(expected)
	require.NoError(t, err)
	_, err = FileFromBytes(bytes)
	require.ErrorIs(t, err, neoerr.ErrFormat)
}

func TestBytesFromBytes(t *testing.T) {
	expected := newTestFile()
	expected.Checksum = expected.CalculateChecksum()

	bytes, err := expected.Bytes()
	require.NoError(t, err)
	actual, err := FileFromBytes(bytes)
	require.NoError(t, err)
	require.Equal(t, *expected, actual)
}

func TestLayout(t *testing.T) {
	f, err := NewFile([]byte{0x40}, "neokit", "", nil)
	require.NoError(t, err)
	b, err := f.Bytes()
	require.NoError(t, err)

	// magic + compiler + source + reserved + tokens + reserved + script + checksum
	require.Len(t, b, 4+64+1+1+1+2+2+4)
	require.Equal(t, Magic, binary.LittleEndian.Uint32(b))
	require.Equal(t, "NEF3", string(b[:4]))
	require.Equal(t, []byte("neokit"), b[4:10])
	require.Equal(t, make([]byte, 58), b[10:68])
	require.Equal(t, []byte{0, 0, 0, 0, 0, 1, 0x40}, b[68:75])
	require.Equal(t, f.Checksum, binary.LittleEndian.Uint32(b[75:]))

	t.Run("corrupted checksum", func(t *testing.T) {
		for i := 75; i < 79; i++ {
			bad := append([]byte{}, b...)
			bad[i] ^= 0x01
			_, err := FileFromBytes(bad)
			require.ErrorIs(t, err, neoerr.ErrFormat)
		}
	})
	t.Run("nonzero reserved byte", func(t *testing.T) {
		bad := append([]byte{}, b...)
		bad[69] = 1
		_, err := FileFromBytes(bad)
		require.ErrorIs(t, err, neoerr.ErrFormat)
	})
	t.Run("nonzero reserved word", func(t *testing.T) {
		bad := append([]byte{}, b...)
		bad[72] = 1
		_, err := FileFromBytes(bad)
		require.ErrorIs(t, err, neoerr.ErrFormat)
	})
	t.Run("trailing data", func(t *testing.T) {
		_, err := FileFromBytes(append(append([]byte{}, b...), 0))
		require.ErrorIs(t, err, neoerr.ErrFormat)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := FileFromBytes(b[:len(b)-1])
		require.ErrorIs(t, err, neoerr.ErrFormat)
	})
}

func TestNewFile(t *testing.T) {
	t.Run("good", func(t *testing.T) {
		f, err := NewFile([]byte{1}, strings.Repeat("c", 64), strings.Repeat("s", MaxSourceURLLength), nil)
		require.NoError(t, err)
		require.NoError(t, f.Validate())
		require.Equal(t, f.CalculateChecksum(), f.Checksum)
	})
	testCases := map[string]struct {
		script   []byte
		compiler string
		source   string
		tokens   []MethodToken
	}{
		"too long compiler": {[]byte{1}, strings.Repeat("c", 65), "", nil},
		"too long source":   {[]byte{1}, "", strings.Repeat("s", MaxSourceURLLength+1), nil},
		"empty script":      {nil, "", "", nil},
		"too big script":    {make([]byte, MaxScriptLength+1), "", "", nil},
		"bad token":         {[]byte{1}, "", "", []MethodToken{{Method: "_init"}}},
		"bad token flags":   {[]byte{1}, "", "", []MethodToken{{Method: "m", CallFlag: ^callflag.All}}},
		"too many tokens":   {[]byte{1}, "", "", make([]MethodToken, MaxMethodTokens+1)},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := NewFile(tc.script, tc.compiler, tc.source, tc.tokens)
			require.ErrorIs(t, err, neoerr.ErrValidation)
		})
	}
}

func TestMarshalUnmarshalJSON(t *testing.T) {
	expected := newTestFile()
	expected.Checksum = expected.CalculateChecksum()

	data, err := json.Marshal(expected)
	require.NoError(t, err)
	require.Contains(t, string(data), `"magic":`+"860243278")
	require.Contains(t, string(data), `"script":"DCBUIw4="`)

	testserdes.MarshalUnmarshalJSON(t, expected, new(File))
}
