package keygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyLengthAndAlphabet(t *testing.T) {
	for _, length := range []int{1, 7, 21} {
		key, err := NewKey(length)
		require.NoError(t, err)
		assert.Len(t, key, length)
		for _, symbol := range key {
			assert.True(t, strings.ContainsRune(symbols, symbol))
		}
	}
}

func TestNewKeyRejectsNonPositiveLength(t *testing.T) {
	for _, length := range []int{0, -1} {
		_, err := NewKey(length)
		assert.ErrorIs(t, err, ErrNonPositiveLength)
	}
}

func TestNewKeyIsNotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key, err := NewKey(7)
		require.NoError(t, err)
		seen[key] = true
	}
	assert.Greater(t, len(seen), 1)
}
