// Package token generates and validates the JWTs used to authenticate
// operator requests against a mata server. The server has exactly one
// credential, the operator API key configured at startup; a successful
// POST /login exchanges it for a short-lived JWT, which is then presented as
// a Bearer token on every mutating request.
package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "mataserver"
	// TTL is how long a token issued by Generate remains valid.
	TTL = time.Hour
)

// Generate creates a new signed JWT for the operator, valid for TTL from
// now, signed with secret using HS512.
func Generate(secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"iss": issuer,
		"sub": "operator",
		"exp": time.Now().Add(TTL).Unix(),
		"iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokStr, nil
}

// Validate checks that tok is a well-formed, unexpired JWT signed with
// secret and issued by this server. It returns a non-nil error if any of
// those checks fail.
func Validate(tok string, secret []byte) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return fmt.Errorf("token is invalid: %w", err)
	}
	return nil
}

// Get extracts the bearer token from the Authorization header of req. It
// returns an error if the header is missing or not in the expected
// "Bearer <token>" form.
func Get(req *http.Request) (string, error) {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("no Authorization header is present")
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", fmt.Errorf("Authorization header is not in Bearer format")
	}

	tok := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	if tok == "" {
		return "", fmt.Errorf("no token present in Authorization header")
	}

	return tok, nil
}
