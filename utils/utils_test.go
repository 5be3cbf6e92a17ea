package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("other", hash))
}

func TestIsValidEmail(t *testing.T) {
	tests := map[string]bool{
		"guest@example.com":        true,
		"a.b+tag@mail.example.org": true,
		"":                         false,
		"no-at-sign":               false,
		"Name <guest@example.com>": false,
		" guest@example.com":       false,
		"guest@localhost":          false,
	}
	for email, want := range tests {
		assert.Equal(t, want, IsValidEmail(email), email)
	}
}
