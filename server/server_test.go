package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/mata/server/api"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

const testAPIKey = "test-operator-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAPIKey), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash test API key: %s", err)
	}

	cfg := Config{
		DB:              Database{Type: DatabaseInMemory},
		TokenSecret:     []byte("01234567890123456789012345678901"),
		OperatorKeyHash: hash,
	}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}, tok string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %s", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, s *Server) string {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, api.PathPrefix+"/login", api.LoginRequest{APIKey: testAPIKey}, "")
	if !assert.Equal(t, http.StatusCreated, rec.Code) {
		t.FailNow()
	}

	var resp api.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal login response: %s", err)
	}
	return resp.Token
}

func Test_Server_GetInfo(t *testing.T) {
	assert := assert.New(t)
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, api.PathPrefix+"/info", nil, "")
	assert.Equal(http.StatusOK, rec.Code)
}

func Test_Server_Login(t *testing.T) {
	assert := assert.New(t)
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, api.PathPrefix+"/login", api.LoginRequest{APIKey: testAPIKey}, "")
	assert.Equal(http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, api.PathPrefix+"/login", api.LoginRequest{APIKey: "wrong-key"}, "")
	assert.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_Server_CreateAutomaton_requiresAuth(t *testing.T) {
	assert := assert.New(t)
	s := newTestServer(t)

	req := api.CreateAutomatonRequest{Name: "abb", Text: "@NFA-explicit\n"}

	rec := doJSON(t, s, http.MethodPost, api.PathPrefix+"/automata", req, "")
	assert.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_Server_CreateGetQueryDeleteAutomaton(t *testing.T) {
	assert := assert.New(t)
	s := newTestServer(t)
	tok := login(t, s)

	nfaText := "@NFA-explicit\n" +
		"%Alphabet-auto\n" +
		"%Initial 0\n" +
		"%Final 1\n" +
		"0 a 1\n" +
		"1 a 1\n"

	createReq := api.CreateAutomatonRequest{Name: "single-a", Text: nfaText}
	rec := doJSON(t, s, http.MethodPost, api.PathPrefix+"/automata", createReq, tok)
	if !assert.Equal(http.StatusCreated, rec.Code) {
		t.Logf("body: %s", rec.Body.String())
		t.FailNow()
	}

	var createResp api.AutomatonModel
	if err := json.Unmarshal(rec.Body.Bytes(), &createResp); err != nil {
		t.Fatalf("unmarshal create response: %s", err)
	}
	id := createResp.ID
	assert.NotEmpty(id)

	rec = doJSON(t, s, http.MethodGet, api.PathPrefix+"/automata/"+id, nil, "")
	assert.Equal(http.StatusOK, rec.Code)

	queryReq := api.QueryRequest{Op: "is_in_lang", Word: []string{"a"}}
	rec = doJSON(t, s, http.MethodPost, api.PathPrefix+"/automata/"+id+"/query", queryReq, "")
	if !assert.Equal(http.StatusOK, rec.Code) {
		t.Logf("body: %s", rec.Body.String())
		t.FailNow()
	}
	var queryResp api.QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &queryResp); err != nil {
		t.Fatalf("unmarshal query response: %s", err)
	}
	assert.True(queryResp.Result)

	emptyReq := api.QueryRequest{Op: "is_lang_empty"}
	rec = doJSON(t, s, http.MethodPost, api.PathPrefix+"/automata/"+id+"/query", emptyReq, "")
	assert.Equal(http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, api.PathPrefix+"/automata/"+id, nil, "")
	assert.Equal(http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, api.PathPrefix+"/automata/"+id, nil, tok)
	assert.Equal(http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, api.PathPrefix+"/automata/"+id, nil, "")
	assert.Equal(http.StatusNotFound, rec.Code)
}

func Test_Server_GetAutomaton_unknownID(t *testing.T) {
	assert := assert.New(t)
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, api.PathPrefix+"/automata/"+"00000000-0000-0000-0000-000000000000", nil, "")
	assert.Equal(http.StatusNotFound, rec.Code)
}
