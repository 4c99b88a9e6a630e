package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/vendedores-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "vendedores-api-test"
)

func TestGenerateAndParse_ConVendedor(t *testing.T) {
	id := pkgjwt.Identity{UserID: "u1", SellerID: "s1", Role: pkgjwt.RoleVendedor}
	tok, err := pkgjwt.Generate(testSecret, id, testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := pkgjwt.Parse(testSecret, testIssuer, tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.Identity{UserID: "u1", Role: pkgjwt.RoleAdmin}, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, testIssuer, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.Identity{UserID: "u1", Role: pkgjwt.RoleAdmin}, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", testIssuer, tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestParse_EmisorDistinto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.Identity{UserID: "u1", Role: pkgjwt.RoleAdmin}, "otro-emisor", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, testIssuer, tok)
	assert.Error(t, err)

	_, err = pkgjwt.Parse(testSecret, "", tok)
	assert.NoError(t, err, "sin emisor configurado no se valida")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", pkgjwt.Identity{UserID: "u1"}, testIssuer, 60)
	assert.Error(t, err)
}
