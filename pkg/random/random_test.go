package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRandomString_Length(t *testing.T) {
	for _, length := range []int{1, 6, 7, 8, 32} {
		s, err := NewRandomString(length)
		require.NoError(t, err)
		assert.Len(t, s, length)
	}
}

func TestNewRandomString_Charset(t *testing.T) {
	for i := 0; i < 100; i++ {
		s, err := NewRandomString(8)
		require.NoError(t, err)
		for _, c := range s {
			assert.True(t, strings.ContainsRune(Alphabet, c), "unexpected character %q", c)
		}
	}
}

func TestNewRandomString_InvalidLength(t *testing.T) {
	_, err := NewRandomString(0)
	assert.Error(t, err)

	_, err = NewRandomString(-1)
	assert.Error(t, err)
}
