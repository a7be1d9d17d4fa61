package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	got, err := NormalizeUsername("  student.one+x@mail ")
	require.NoError(t, err)
	assert.Equal(t, "student.one+x@mail", got)

	_, err = NormalizeUsername("   ")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = NormalizeUsername("has space")
	assert.ErrorIs(t, err, ErrUsernameInvalid)

	_, err = NormalizeUsername(strings.Repeat("a", MaxUsernameLength+1))
	assert.ErrorIs(t, err, ErrUsernameTooLong)
}
