package jwt

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConRole(t *testing.T) {
	sub := Subject{UserID: "u-1", Role: "repartidor", Name: "Ana Ruiz", Email: "ana@mercado.test"}
	tok, err := Generate(testSecret, sub, "mercado-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, sub, got)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := Generate(testSecret, Subject{UserID: "u-1", Role: "empresa"}, "mercado-test", -1)
	require.NoError(t, err)

	_, err = Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := Generate(testSecret, Subject{UserID: "u-1", Role: "empresa"}, "mercado-test", 60)
	require.NoError(t, err)

	_, err = Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestParse_RechazaAlgoritmoNone(t *testing.T) {
	tok := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: "u-1", Role: "empresa"})
	s, err := tok.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Parse(testSecret, s)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", Subject{UserID: "u-1"}, "x", 1)
	assert.Error(t, err)
	_, err = Parse("", "a.b.c")
	assert.Error(t, err)
}
