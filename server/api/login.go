package api

import (
	"net/http"

	"github.com/dekarrin/mata/server/result"
	"github.com/dekarrin/mata/server/token"
	"golang.org/x/crypto/bcrypt"
)

// HTTPCreateLogin returns a HandlerFunc that exchanges the operator API key
// for a short-lived JWT.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.Endpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	var in LoginRequest
	if err := parseJSON(req, &in); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if in.APIKey == "" {
		return result.BadRequest("api_key: property is empty or missing from request", "empty api_key")
	}

	if err := bcrypt.CompareHashAndPassword(api.OperatorKeyHash, []byte(in.APIKey)); err != nil {
		return result.Unauthorized("The supplied API key is incorrect", "login attempt: %s", err.Error())
	}

	tok, err := token.Generate(api.Secret)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	return result.Created(LoginResponse{Token: tok}, "operator successfully logged in")
}
