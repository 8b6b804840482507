package token

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_GenerateValidate_roundTrip(t *testing.T) {
	assert := assert.New(t)

	secret := []byte("01234567890123456789012345678901")

	tok, err := Generate(secret)
	if !assert.NoError(err) {
		return
	}
	assert.NoError(Validate(tok, secret))
}

func Test_Validate_wrongSecret(t *testing.T) {
	secret := []byte("01234567890123456789012345678901")
	otherSecret := []byte("98765432109876543210987654321098")

	tok, err := Generate(secret)
	if !assert.NoError(t, err) {
		return
	}
	assert.Error(t, Validate(tok, otherSecret))
}

func Test_Validate_malformedToken(t *testing.T) {
	secret := []byte("01234567890123456789012345678901")
	assert.Error(t, Validate("not-a-jwt", secret))
}

func Test_Get_bearerToken(t *testing.T) {
	assert := assert.New(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")

	tok, err := Get(req)
	if assert.NoError(err) {
		assert.Equal("abc123", tok)
	}
}

func Test_Get_missingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := Get(req)
	assert.Error(t, err)
}

func Test_Get_notBearerFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	_, err := Get(req)
	assert.Error(t, err)
}

func Test_Get_emptyToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer ")
	_, err := Get(req)
	assert.Error(t, err)
}
