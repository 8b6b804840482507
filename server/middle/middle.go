// Package middle contains middleware for use with the mata server.
package middle

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dekarrin/mata/server/result"
	"github.com/dekarrin/mata/server/token"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler
// which wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	// AuthLoggedIn is set to a bool indicating whether the request carried
	// a valid operator token.
	AuthLoggedIn AuthKey = iota
)

// AuthHandler is middleware that extracts the bearer token from a request
// and validates it against the server's operator secret. Since there is
// only one operator, a valid token is all that is needed to authorize the
// request; there is no user entity to look up.
type AuthHandler struct {
	secret        []byte
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tok, err := token.Get(req)
	if err == nil {
		err = token.Validate(tok, ah.secret)
	}

	if err != nil {
		r := result.Unauthorized("", err.Error())
		time.Sleep(ah.unauthedDelay)
		r.WriteResponse(w)
		return
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, true)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth returns a Middleware that rejects any request without a valid
// operator bearer token with an HTTP-401, after sleeping unauthDelay to
// deprioritize abusive clients.
func RequireAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			secret:        secret,
			unauthedDelay: unauthDelay,
			next:          next,
		}
	}
}

// DontPanic returns a Middleware that performs a panic check as it exits. If
// the wrapped handler panics, it writes out an HTTP-500 response with a
// generic message to the client and logs the panic and stack trace.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.WriteResponse(w)
		return true
	}
	return false
}
