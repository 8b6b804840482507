package api

// Note that these are *not* the dao models; those are distinct and closer to
// the storage format they are kept in. These are the models sent to and
// received from the client over JSON.

// InfoModel is returned by GET /api/v1/info.
type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Core   string `json:"core"`
	} `json:"version"`
}

// LoginRequest is the body of POST /api/v1/login.
type LoginRequest struct {
	APIKey string `json:"api_key"`
}

// LoginResponse is returned by a successful POST /api/v1/login.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateAutomatonRequest is the body of POST /api/v1/automata. Text is the
// Mata text representation (either an @NFA-explicit or @NFT-explicit
// document) of the automaton to store.
type CreateAutomatonRequest struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text"`
}

// AutomatonModel is the representation of a stored automaton returned from
// POST /api/v1/automata and GET /api/v1/automata/{id}.
type AutomatonModel struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Kind string `json:"kind"`
	Text string `json:"text"`
	Dot  string `json:"dot"`
}

// QueryRequest is the body of POST /api/v1/automata/{id}/query. Op selects
// the operation to run; Word and OtherID are used depending on which
// operation is named.
//
//   - is_lang_empty: no operands
//   - is_in_lang: Word
//   - is_universal: no operands
//   - is_included, are_equivalent: OtherID
type QueryRequest struct {
	Op      string   `json:"op"`
	Word    []string `json:"word,omitempty"`
	OtherID string   `json:"other_id,omitempty"`
}

// QueryResponse is returned by POST /api/v1/automata/{id}/query.
type QueryResponse struct {
	Result bool `json:"result"`
	// Witness is a word demonstrating the result, present for operations
	// that produce one (e.g. a word accepted in the case of is_in_lang, or a
	// symmetric-difference witness for is_included/are_equivalent).
	Witness []string `json:"witness,omitempty"`
}
