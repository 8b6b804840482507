package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/dekarrin/mata/internal/core/matatext"
	"github.com/dekarrin/mata/server/dao"
	"github.com/dekarrin/mata/server/result"
	"github.com/dekarrin/mata/server/serr"
	"github.com/google/uuid"
)

// HTTPCreateAutomaton returns a HandlerFunc that parses a Mata text document
// from the request body, stores it, and returns its assigned ID.
func (api API) HTTPCreateAutomaton() http.HandlerFunc {
	return api.Endpoint(api.epCreateAutomaton)
}

func (api API) epCreateAutomaton(req *http.Request) result.Result {
	var in CreateAutomatonRequest
	if err := parseJSON(req, &in); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if strings.TrimSpace(in.Text) == "" {
		return result.BadRequest("text: property is empty or missing from request", "empty automaton text")
	}

	kind, err := matatext.DetectKind(in.Text)
	if err != nil {
		return result.BadRequest(serr.ErrBadAutomatonText.Error(), "%s: %s", serr.ErrBadAutomatonText, err.Error())
	}

	// re-parsing here (rather than trusting the client's declared kind)
	// validates the text is actually well-formed before it is stored.
	kindStr := "nfa"
	if kind == matatext.KindNft {
		kindStr = "nft"
		if _, err := matatext.ParseNft(strings.NewReader(in.Text), alphabet.NewOnTheFlyAlphabet()); err != nil {
			return result.BadRequest(serr.ErrBadAutomatonText.Error(), "%s: %s", serr.ErrBadAutomatonText, err.Error())
		}
	} else {
		if _, err := matatext.ParseNfa(strings.NewReader(in.Text), alphabet.NewOnTheFlyAlphabet()); err != nil {
			return result.BadRequest(serr.ErrBadAutomatonText.Error(), "%s: %s", serr.ErrBadAutomatonText, err.Error())
		}
	}

	stored, err := api.Store.Create(req.Context(), dao.Automaton{
		Name: in.Name,
		Kind: kindStr,
		Text: in.Text,
	})
	if err != nil {
		return result.InternalServerError("could not store automaton: " + err.Error())
	}

	return result.Created(AutomatonModel{
		ID:   stored.ID.String(),
		Name: stored.Name,
		Kind: stored.Kind,
		Text: stored.Text,
	}, "automaton '%s' stored as %s", stored.ID, stored.Kind)
}

// HTTPGetAutomaton returns a HandlerFunc that retrieves a stored automaton's
// Mata text and DOT export.
func (api API) HTTPGetAutomaton() http.HandlerFunc {
	return api.Endpoint(api.epGetAutomaton)
}

func (api API) epGetAutomaton(req *http.Request) result.Result {
	id := requireIDParam(req)

	stored, err := api.Store.GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound("automaton %s not found", id)
		}
		return result.InternalServerError("could not retrieve automaton: " + err.Error())
	}

	dot, err := renderDot(stored)
	if err != nil {
		return result.InternalServerError("could not render DOT: " + err.Error())
	}

	return result.OK(AutomatonModel{
		ID:   stored.ID.String(),
		Name: stored.Name,
		Kind: stored.Kind,
		Text: stored.Text,
		Dot:  dot,
	}, "automaton %s retrieved", id)
}

// HTTPDeleteAutomaton returns a HandlerFunc that evicts a stored automaton.
func (api API) HTTPDeleteAutomaton() http.HandlerFunc {
	return api.Endpoint(api.epDeleteAutomaton)
}

func (api API) epDeleteAutomaton(req *http.Request) result.Result {
	id := requireIDParam(req)

	_, err := api.Store.Delete(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound("automaton %s not found", id)
		}
		return result.InternalServerError("could not delete automaton: " + err.Error())
	}

	return result.NoContent("automaton %s deleted", id)
}

// HTTPQueryAutomaton returns a HandlerFunc that runs a language-membership
// predicate on a stored automaton, possibly against a second stored
// automaton.
func (api API) HTTPQueryAutomaton() http.HandlerFunc {
	return api.Endpoint(api.epQueryAutomaton)
}

func (api API) epQueryAutomaton(req *http.Request) result.Result {
	id := requireIDParam(req)

	var in QueryRequest
	if err := parseJSON(req, &in); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	stored, err := api.Store.GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound("automaton %s not found", id)
		}
		return result.InternalServerError("could not retrieve automaton: " + err.Error())
	}
	if stored.Kind != "nfa" {
		return result.BadRequest("queries are only supported on NFAs, not NFTs", "automaton %s is a %s", id, stored.Kind)
	}

	a := alphabet.NewOnTheFlyAlphabet()
	n, err := matatext.ParseNfa(strings.NewReader(stored.Text), a)
	if err != nil {
		return result.InternalServerError("stored automaton %s failed to re-parse: %s", id, err.Error())
	}

	switch in.Op {
	case "is_lang_empty":
		empty, witness := automaton.IsLangEmpty(&n)
		if empty {
			witness = nil
		}
		return result.OK(queryResponse(a, !empty, witness), "is_lang_empty on %s", id)

	case "is_in_lang":
		word, err := wordFromNames(a, in.Word)
		if err != nil {
			return result.BadRequest(err.Error(), err.Error())
		}
		accepted := automaton.IsInLang(&n, word)
		return result.OK(QueryResponse{Result: accepted}, "is_in_lang on %s", id)

	case "is_universal":
		universal, witness, err := automaton.IsUniversal(&n, a.Symbols())
		if err != nil {
			return result.InternalServerError("is_universal: " + err.Error())
		}
		return result.OK(queryResponse(a, universal, witness), "is_universal on %s", id)

	case "is_included", "are_equivalent":
		if in.OtherID == "" {
			return result.BadRequest("other_id: property is empty or missing from request", "empty other_id")
		}
		otherID, err := uuid.Parse(in.OtherID)
		if err != nil {
			return result.BadRequest("other_id: not a valid automaton ID", err.Error())
		}
		otherStored, err := api.Store.GetByID(req.Context(), otherID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return result.NotFound("automaton %s not found", otherID)
			}
			return result.InternalServerError("could not retrieve automaton: " + err.Error())
		}
		if otherStored.Kind != "nfa" {
			return result.BadRequest("queries are only supported on NFAs, not NFTs", "automaton %s is a %s", otherID, otherStored.Kind)
		}

		// otherN is parsed against the SAME alphabet as n, so that a given
		// Symbol value names the same thing in both automata.
		otherN, err := matatext.ParseNfa(strings.NewReader(otherStored.Text), a)
		if err != nil {
			return result.InternalServerError("stored automaton %s failed to re-parse: %s", otherID, err.Error())
		}

		symbols := a.Symbols()

		if in.Op == "is_included" {
			included, witness, err := automaton.IsIncluded(&n, &otherN, symbols)
			if err != nil {
				return result.InternalServerError("is_included: " + err.Error())
			}
			return result.OK(queryResponse(a, included, witness), "is_included of %s in %s", id, otherID)
		}

		equiv, err := automaton.AreEquivalent(&n, &otherN, symbols)
		if err != nil {
			return result.InternalServerError("are_equivalent: " + err.Error())
		}
		return result.OK(QueryResponse{Result: equiv}, "are_equivalent of %s and %s", id, otherID)

	default:
		return result.BadRequest("op: unrecognized operation '"+in.Op+"'", "unknown query op %q", in.Op)
	}
}

func renderDot(stored dao.Automaton) (string, error) {
	opts := matatext.DotOptions{GraphName: "automaton", LabelWrapWidth: 40}
	if stored.Kind == "nft" {
		t, err := matatext.ParseNft(strings.NewReader(stored.Text), alphabet.NewOnTheFlyAlphabet())
		if err != nil {
			return "", err
		}
		return matatext.ExportNftDot(&t, opts)
	}
	n, err := matatext.ParseNfa(strings.NewReader(stored.Text), alphabet.NewOnTheFlyAlphabet())
	if err != nil {
		return "", err
	}
	return matatext.ExportDot(&n, opts)
}

func wordFromNames(a alphabet.Alphabet, names []string) ([]automaton.Symbol, error) {
	word := make([]automaton.Symbol, len(names))
	for i, name := range names {
		sym, err := a.TranslateName(name)
		if err != nil {
			return nil, err
		}
		word[i] = sym
	}
	return word, nil
}

func queryResponse(a alphabet.Alphabet, ok bool, witness []automaton.Symbol) QueryResponse {
	resp := QueryResponse{Result: ok}
	if len(witness) > 0 {
		resp.Witness = make([]string, len(witness))
		for i, sym := range witness {
			name, err := a.TranslateSymbol(sym)
			if err != nil {
				name = "?"
			}
			resp.Witness[i] = name
		}
	}
	return resp
}
