package jwttoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse("not-a-token")
	assert.Error(t, err)
}
