package result

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testBody struct {
	Name string `json:"name"`
}

func Test_OK_writesJSONBody(t *testing.T) {
	assert := assert.New(t)

	r := OK(testBody{Name: "abb"}, "got %s", "abb")
	assert.Equal(http.StatusOK, r.Status)
	assert.False(r.IsErr)

	rec := httptest.NewRecorder()
	r.WriteResponse(rec)

	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("application/json", rec.Header().Get("Content-Type"))

	var out testBody
	assert.NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal("abb", out.Name)
}

func Test_NoContent_writesNoBody(t *testing.T) {
	assert := assert.New(t)

	r := NoContent()
	rec := httptest.NewRecorder()
	r.WriteResponse(rec)

	assert.Equal(http.StatusNoContent, rec.Code)
	assert.Empty(rec.Body.Bytes())
}

func Test_NotFound_writesErrorResponse(t *testing.T) {
	assert := assert.New(t)

	r := NotFound("automaton %s not found", "abc123")
	assert.True(r.IsErr)
	assert.Equal(http.StatusNotFound, r.Status)

	rec := httptest.NewRecorder()
	r.WriteResponse(rec)

	var out ErrorResponse
	assert.NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal("The requested automaton could not be found", out.Error)
	assert.Equal(http.StatusNotFound, out.Status)
}

func Test_Unauthorized_setsWWWAuthenticateHeader(t *testing.T) {
	assert := assert.New(t)

	r := Unauthorized("bad login")
	rec := httptest.NewRecorder()
	r.WriteResponse(rec)

	assert.Equal(http.StatusUnauthorized, rec.Code)
	assert.Contains(rec.Header().Get("WWW-Authenticate"), "Bearer")
}

func Test_Unauthorized_defaultUserMsg(t *testing.T) {
	assert := assert.New(t)

	r := Unauthorized("")
	rec := httptest.NewRecorder()
	r.WriteResponse(rec)

	var out ErrorResponse
	assert.NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal("You are not authorized to do that", out.Error)
}

func Test_TextErr_writesPlainText(t *testing.T) {
	assert := assert.New(t)

	r := TextErr(http.StatusInternalServerError, "boom", "panic: %s", "simulated")
	rec := httptest.NewRecorder()
	r.WriteResponse(rec)

	assert.Equal(http.StatusInternalServerError, rec.Code)
	assert.Equal("text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal("boom", rec.Body.String())
}

func Test_WriteResponse_panicsOnUnpopulatedResult(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Panics(t, func() {
		Result{}.WriteResponse(rec)
	})
}
