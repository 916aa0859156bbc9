package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhub-app/clubhub/pkg/token"
)

const secret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	signed, err := token.Generate(42, token.TypeAccess, secret, 15)
	require.NoError(t, err)

	claims, err := token.Validate(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, token.TypeAccess, claims.TokenType)
}

func TestValidate_WrongSecret(t *testing.T) {
	signed, err := token.Generate(1, token.TypeAccess, secret, 15)
	require.NoError(t, err)

	_, err = token.Validate(signed, "other-secret")
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	signed, err := token.Generate(1, token.TypeRefresh, secret, -1)
	require.NoError(t, err)

	_, err = token.Validate(signed, secret)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidate_Garbage(t *testing.T) {
	_, err := token.Validate("not.a.jwt", secret)
	assert.Error(t, err)

	_, err = token.Validate("", secret)
	assert.Error(t, err)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := token.Generate(1, token.TypeAccess, "", 15)
	assert.Error(t, err)
}

// Two tokens of the same type for the same user minted within one second must
// still differ, or the unique index on persisted tokens rejects the second.
func TestGenerate_UniqueWithinSameSecond(t *testing.T) {
	first, err := token.Generate(7, token.TypeRefresh, secret, 60)
	require.NoError(t, err)
	second, err := token.Generate(7, token.TypeRefresh, secret, 60)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	claims, err := token.Validate(second, secret)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenTypeSurvivesRoundTrip(t *testing.T) {
	signed, err := token.Generate(7, token.TypeRefresh, secret, 60)
	require.NoError(t, err)

	claims, err := token.Validate(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, token.TypeRefresh, claims.TokenType)
}
