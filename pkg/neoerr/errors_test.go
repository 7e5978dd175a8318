package neoerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefinedErrors(t *testing.T) {
	require.True(t, errors.Is(ErrChecksum, ErrFormat))
	require.True(t, errors.Is(ErrUnknownConditionType, ErrFormat))
	require.True(t, errors.Is(ErrDerivation, ErrCrypto))
	require.False(t, errors.Is(ErrDerivation, ErrFormat))

	wrapped := fmt.Errorf("%w: got %d, expected at most %d", ErrValidation, 17, 16)
	require.True(t, errors.Is(wrapped, ErrValidation))
	require.Contains(t, wrapped.Error(), "17")
}
