package authUtils_test

import (
	"testing"

	authUtils "grievance-portal-be/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndSetToken_CarriesIDAndRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	tokenString, err := authUtils.GenerateAndSetToken("64f000000000000000000001", "department")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("unit-test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "64f000000000000000000001", claims["user_id"])
	assert.Equal(t, "department", claims["role"])
	assert.NotNil(t, claims["exp"])
}

func TestGenerateAndSetToken_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := authUtils.GenerateAndSetToken("64f000000000000000000001", "student")

	assert.Error(t, err)
}
