package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/coffeelink/marketplace-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testEmail  = "a@x.com"
	testIssuer = "coffeelink-test"
)

func TestJWT_GenerateAndParse_Access(t *testing.T) {
	tok, err := pkgjwt.GenerateAccess(testSecret, testUserID, testEmail, "CONSUMER", testIssuer, 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok, pkgjwt.UseAccess)
	require.NoError(t, err)

	assert.Equal(t, testUserID, claims.Subject)
	assert.Equal(t, testEmail, claims.Email)
	assert.Equal(t, "CONSUMER", claims.Role)
	assert.Equal(t, pkgjwt.UseAccess, claims.TokenUse)
}

func TestJWT_RefreshNoSirveComoAccess(t *testing.T) {
	tok, err := pkgjwt.GenerateRefresh(testSecret, testUserID, testEmail, "CONSUMER", testIssuer, 7)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.UseAccess)
	assert.Error(t, err, "un refresh token no debe validar como access token")

	claims, err := pkgjwt.Parse(testSecret, tok, pkgjwt.UseRefresh)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.UseRefresh, claims.TokenUse)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.GenerateAccess(testSecret, testUserID, testEmail, "CONSUMER", testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.UseAccess)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.GenerateAccess(testSecret, testUserID, testEmail, "ADMIN", testIssuer, 15)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok, pkgjwt.UseAccess)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestJWT_DosRefreshSonDistintos(t *testing.T) {
	a, err := pkgjwt.GenerateRefresh(testSecret, testUserID, testEmail, "CONSUMER", testIssuer, 7)
	require.NoError(t, err)
	b, err := pkgjwt.GenerateRefresh(testSecret, testUserID, testEmail, "CONSUMER", testIssuer, 7)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "cada refresh emitido debe ser una cadena distinta (JTI aleatorio)")
}
