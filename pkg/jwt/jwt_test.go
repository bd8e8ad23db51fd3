package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

func TestGenerateParse_AccessToken(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", "buyer", jwt.TokenAccess, "procurement-api", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, token, jwt.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "buyer", role)
}

func TestParse_RefreshNoSirveComoAccess(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", "buyer", jwt.TokenRefresh, "procurement-api", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, token, jwt.TokenAccess)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", "admin", jwt.TokenAccess, "procurement-api", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secreto", token, jwt.TokenAccess)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", "admin", jwt.TokenAccess, "procurement-api", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, token, jwt.TokenAccess)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "admin", jwt.TokenAccess, "procurement-api", 5)
	assert.Error(t, err)
}
