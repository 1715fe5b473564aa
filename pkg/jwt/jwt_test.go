package jwt

import (
	"testing"

	"github.com/mluqi/km-support/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("u1", constant.RoleUser, testSecret, 24)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserId)
	assert.Equal(t, constant.RoleUser, claims.Role)
	assert.Equal(t, "km-support", claims.Issuer)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("u1", constant.RoleUser, testSecret, 24)
	require.NoError(t, err)

	_, err = ParseToken(token, "another-secret")
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret)
	assert.Error(t, err)
}

func TestValidateToken_UserMismatch(t *testing.T) {
	token, err := GenerateToken("u1", constant.RoleUser, testSecret, 24)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret, "u1")
	assert.NoError(t, err)

	_, err = ValidateToken(token, testSecret, "u2")
	assert.Error(t, err)
}
