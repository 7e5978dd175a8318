package opcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringer(t *testing.T) {
	for o, s := range map[Opcode]string{
		PUSHDATA1:  "PUSHDATA1",
		PUSHINT256: "PUSHINT256",
		SYSCALL:    "SYSCALL",
		ASSERT:     "ASSERT",
		0xff:       "Opcode(255)",
	} {
		require.Equal(t, s, o.String())
	}
}

func TestFromString(t *testing.T) {
	_, err := FromString("abcdef")
	require.Error(t, err)

	for _, o := range []Opcode{PUSH0, PUSHDATA1, SYSCALL, RET} {
		actual, err := FromString(o.String())
		require.NoError(t, err)
		require.Equal(t, o, actual)
	}
}

func TestIsValid(t *testing.T) {
	for _, o := range []Opcode{PUSHINT8, PUSHDATA1, PUSHDATA2, PUSHDATA4, PUSH0, PUSH16, SYSCALL, CONVERT} {
		require.True(t, IsValid(o), o.String())
	}
	require.False(t, IsValid(0xff))
	require.False(t, IsValid(0xa7))
	// Values used in standard verification scripts.
	require.Equal(t, Opcode(0x0c), PUSHDATA1)
	require.Equal(t, Opcode(0x41), SYSCALL)
}
