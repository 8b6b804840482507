// Package strings implements the reluctant-leftmost regex-replace
// transducer construction (C11): given a pattern, a replacement word, and
// a replace mode, it builds an Nft that rewrites occurrences of the
// pattern in an input word with the replacement, consuming the leftmost,
// shortest ("reluctant") match at each step.
//
// Three pattern kinds are supported, grounded on
// _examples/original_source/mata/src/nft/strings.cc and builder.cc:
// a full regex (ReplaceReluctantRegex, the marker-DFA/begin-marker/
// reluctant-NFT pipeline described by the construction itself), a single
// literal word (ReplaceLiteral, an Aho-Corasick-style failure-function
// transducer over one pattern), and a single symbol
// (ReplaceSymbol, patching an identity transducer's self-loop).
package strings

import (
	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/dekarrin/mata/internal/core/merr"
	"github.com/dekarrin/mata/internal/core/nft"
	"github.com/dekarrin/mata/internal/core/regexfe"
)

type Symbol = automaton.Symbol

// ReplaceMode selects how many matches a replace transducer rewrites.
type ReplaceMode int

const (
	// All rewrites every non-overlapping match, left to right.
	All ReplaceMode = iota
	// Single rewrites only the first (leftmost) match, passing the rest
	// of the input through unchanged.
	Single
)

// markerBegin is the synthetic symbol used internally to signal a
// match-start boundary between the begin-marker and reluctant-replace
// pipeline stages; it must not collide with any symbol the caller's
// alphabet actually uses. Since Symbol is an unsigned 64-bit value and
// Epsilon/DontCare already claim the top two, markerBegin claims the next
// one down.
const markerBegin Symbol = automaton.DontCare - 1

// ReplaceSymbol returns an Nft that replaces every occurrence (All mode)
// or only the first occurrence (Single mode) of the single symbol target
// with the word replacement, passing every other symbol in symbols
// through unchanged. Grounded on
// create_identity_with_single_symbol_replace: it patches one self-loop
// of an otherwise-identity transducer.
func ReplaceSymbol(a alphabet.Alphabet, symbols []Symbol, target Symbol, replacement []Symbol, mode ReplaceMode) (nft.Nft, error) {
	t := nft.New(a, 2)
	s := t.AddStateWithLevel(0)
	t.Initial.Add(s)
	t.Final.Add(s)

	var passthrough []Symbol
	for _, sym := range symbols {
		if sym != target {
			passthrough = append(passthrough, sym)
		}
	}
	if err := t.InsertIdentity(s, passthrough); err != nil {
		return nft.Nft{}, err
	}

	parts := [][]Symbol{{target}, replacement}
	switch mode {
	case All:
		if _, err := t.InsertWordByParts(s, parts, s); err != nil {
			return nft.Nft{}, err
		}
	case Single:
		done := t.AddStateWithLevel(0)
		t.Final.Add(done)
		if err := t.InsertIdentity(done, symbols); err != nil {
			return nft.Nft{}, err
		}
		if _, err := t.InsertWordByParts(s, parts, done); err != nil {
			return nft.Nft{}, err
		}
	default:
		return nft.Nft{}, merr.New("unknown replace mode", merr.InvalidArgument)
	}

	return t, nil
}

// ReplaceLiteral returns an Nft that replaces occurrences of the literal
// word with replacement, using a hand-built failure-function transducer
// (reminiscent of Aho-Corasick over a single pattern): for every state of
// the pattern-matching chain, a mismatching symbol unwinds to the state
// representing the longest proper suffix of the so-far-matched prefix
// that is itself a prefix of literal, rather than restarting from state
// 0 outright. Grounded on add_generic_literal_transitions.
func ReplaceLiteral(a alphabet.Alphabet, symbols []Symbol, literal []Symbol, replacement []Symbol, mode ReplaceMode) (nft.Nft, error) {
	if len(literal) == 0 {
		return nft.Nft{}, merr.New("replace_literal requires a non-empty literal", merr.InvalidArgument)
	}

	fail := failureFunction(literal)

	t := nft.New(a, 2)
	// chain[i] is the state representing "matched the first i symbols of
	// literal so far"; chain[0] is the start/loop state.
	chain := make([]nft.State, len(literal))
	chain[0] = t.AddStateWithLevel(0)
	t.Initial.Add(chain[0])
	t.Final.Add(chain[0])
	for i := 1; i < len(literal); i++ {
		chain[i] = t.AddStateWithLevel(0)
	}

	doneState := func() (nft.State, error) {
		if mode == Single {
			d := t.AddStateWithLevel(0)
			t.Final.Add(d)
			if err := t.InsertIdentity(d, symbols); err != nil {
				return 0, err
			}
			return d, nil
		}
		return chain[0], nil
	}

	// The matching chain: chain[i] on literal[i] advances to chain[i+1],
	// echoing the symbol, except for the last symbol, which instead
	// completes the match and emits replacement.
	for i := 0; i < len(literal)-1; i++ {
		parts := [][]Symbol{{literal[i]}, {literal[i]}}
		if _, err := t.InsertWordByParts(chain[i], parts, chain[i+1]); err != nil {
			return nft.Nft{}, err
		}
	}
	d, err := doneState()
	if err != nil {
		return nft.Nft{}, err
	}
	matchParts := [][]Symbol{{literal[len(literal)-1]}, replacement}
	if _, err := t.InsertWordByParts(chain[len(literal)-1], matchParts, d); err != nil {
		return nft.Nft{}, err
	}

	// For every non-matching symbol at every partial-match state, fall
	// back to the state the KMP transition function gives: the longest
	// suffix of the matched-so-far prefix (extended by sym) that is
	// still a prefix of literal. State 0's mismatches stay at state 0.
	for i := 0; i < len(literal); i++ {
		matched := literal[i]
		for _, sym := range symbols {
			if sym == matched {
				continue
			}
			next := advance(literal, fail, i, sym)
			parts := [][]Symbol{{sym}, {sym}}
			if _, err := t.InsertWordByParts(chain[i], parts, chain[next]); err != nil {
				return nft.Nft{}, err
			}
		}
	}

	return t, nil
}

// failureFunction computes, for each prefix length i of pattern (1-indexed
// through len(pattern)), the length of the longest proper suffix of
// pattern[:i] that is also a prefix of pattern — the classical KMP/
// Aho-Corasick failure function.
func failureFunction(pattern []Symbol) []int {
	fail := make([]int, len(pattern)+1)
	fail[0] = 0
	if len(pattern) > 0 {
		fail[1] = 0
	}
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = fail[k]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		fail[i+1] = k
	}
	return fail
}

// advance simulates the KMP automaton one step from state k on symbol
// sym, using pattern and its own failure function, returning the new
// state (how many symbols of pattern are matched so far).
func advance(pattern []Symbol, fail []int, k int, sym Symbol) int {
	for k > 0 && (k >= len(pattern) || sym != pattern[k]) {
		k = fail[k]
	}
	if k < len(pattern) && sym == pattern[k] {
		k++
	}
	return k
}

// ReplaceReluctantRegex returns an Nft implementing the marker-DFA/
// begin-marker/reluctant-leftmost-NFT pipeline of spec.md 4.8: pattern is
// compiled to an NFA via regexfe, then
//  1. determinized into a generic marker DFA (every final state gains an
//     epsilon edge to a fresh marker-sink state),
//  2. reverted into the begin-marker NFA (recognizing match-start
//     prefixes),
//  3. lifted to a transducer that writes markerBegin on tape 1 at every
//     position a match may begin,
//  4. composed with a reluctant-leftmost replace NFT built directly over
//     the same determinized pattern automaton, which emits replacement on
//     a match and, in All mode, loops back to scan for the next match (in
//     Single mode, falls into identity pass-through after one match).
func ReplaceReluctantRegex(a alphabet.Alphabet, symbols []Symbol, pattern string, replacement []Symbol, mode ReplaceMode) (nft.Nft, error) {
	patNfa, err := regexfe.Compile(pattern, a)
	if err != nil {
		return nft.Nft{}, err
	}
	patEps := automaton.RemoveEpsilon(&patNfa)
	patDet, err := automaton.Determinize(&patEps)
	if err != nil {
		return nft.Nft{}, err
	}

	beginT, err := buildBeginMarkerTransducer(&patDet)
	if err != nil {
		return nft.Nft{}, err
	}

	reluctantT, err := buildReluctantReplaceTransducer(&patDet, symbols, replacement, mode)
	if err != nil {
		return nft.Nft{}, err
	}

	return nft.Compose(&beginT, &reluctantT)
}

// buildBeginMarkerTransducer reverts patDet (swap initial/final, reverse
// edges) to get the begin-marker NFA, then lifts it to a transducer that
// copies the input unchanged on tape 0 and emits markerBegin on tape 1
// every time it is at a state from which a match could begin (i.e. every
// reachable state of the reverted automaton), alongside the ordinary
// input symbol passthrough.
func buildBeginMarkerTransducer(patDet *automaton.Nfa) (nft.Nft, error) {
	beginNfa := automaton.Revert(patDet)

	t := nft.New(patDet.Alphabet, 2)
	for s := automaton.State(0); s < beginNfa.NumOfStates(); s++ {
		t.AddStateWithLevel(0)
	}
	t.Initial = beginNfa.Initial.Copy()
	t.Final = beginNfa.Final.Copy()

	for s := automaton.State(0); s < beginNfa.NumOfStates(); s++ {
		post := beginNfa.Delta.StatePost(s)
		for _, sp := range post.Moves() {
			for _, target := range sp.Targets.Elements() {
				parts := [][]Symbol{{sp.Symbol}, {sp.Symbol}}
				if _, err := t.InsertWordByParts(s, parts, target); err != nil {
					return nft.Nft{}, err
				}
			}
		}
	}
	// Every state of the begin-marker NFA is a position from which some
	// match can begin; emit markerBegin there as an extra output-only
	// step (input tape advances by epsilon) without disturbing the
	// regular transitions above, by adding a self-loop that reads
	// nothing and writes markerBegin.
	for s := automaton.State(0); s < beginNfa.NumOfStates(); s++ {
		parts := [][]Symbol{{}, {markerBegin}}
		if _, err := t.InsertWordByParts(s, parts, s); err != nil {
			return nft.Nft{}, err
		}
	}
	return t, nil
}

// buildReluctantReplaceTransducer builds the reluctant-leftmost replace
// half of the pipeline directly over patDet (the determinized pattern):
// from patDet's initial state, the transducer consumes markerBegin
// (synchronized against buildBeginMarkerTransducer's output) and then
// walks patDet's transitions echoing input symbols on tape 1 unchanged,
// until patDet's final state is reached, at which point it emits
// replacement instead of the matched symbols and, in All mode, returns to
// the start to scan onward, or in Single mode falls into identity
// pass-through. Mismatched symbols before a match completes simply echo
// through without consuming a markerBegin, matching the "shortest match"
// (reluctant) semantics: the transducer commits to replacing as soon as
// patDet reaches a final state, never holding out for a longer match.
func buildReluctantReplaceTransducer(patDet *automaton.Nfa, symbols []Symbol, replacement []Symbol, mode ReplaceMode) (nft.Nft, error) {
	t := nft.New(patDet.Alphabet, 2)

	idle := t.AddStateWithLevel(0)
	t.Initial.Add(idle)
	t.Final.Add(idle)

	// scanning[s] is the transducer state representing "consumed a
	// markerBegin and is now s-many steps into patDet's matching chain,
	// having started a tentative match."
	scanning := make(map[automaton.State]nft.State, patDet.NumOfStates())
	for s := automaton.State(0); s < patDet.NumOfStates(); s++ {
		scanning[s] = t.AddStateWithLevel(0)
	}

	// idle passes non-matching input through and can begin scanning on
	// markerBegin.
	for _, sym := range symbols {
		parts := [][]Symbol{{sym}, {sym}}
		if _, err := t.InsertWordByParts(idle, parts, idle); err != nil {
			return nft.Nft{}, err
		}
	}
	for _, s := range patDet.Initial.Elements() {
		parts := [][]Symbol{{markerBegin}, {}}
		if _, err := t.InsertWordByParts(idle, parts, scanning[s]); err != nil {
			return nft.Nft{}, err
		}
	}

	doneState := func() (nft.State, error) {
		if mode == Single {
			d := t.AddStateWithLevel(0)
			t.Final.Add(d)
			if err := t.InsertIdentity(d, symbols); err != nil {
				return 0, err
			}
			return d, nil
		}
		return idle, nil
	}

	for s := automaton.State(0); s < patDet.NumOfStates(); s++ {
		if patDet.Final.Has(s) {
			// Reluctant: commit to the match the instant this state is
			// reached, regardless of any outgoing transitions patDet
			// might still have (a longer match is never preferred).
			d, err := doneState()
			if err != nil {
				return nft.Nft{}, err
			}
			emptyIn := [][]Symbol{{}, replacement}
			if _, err := t.InsertWordByParts(scanning[s], emptyIn, d); err != nil {
				return nft.Nft{}, err
			}
			continue
		}
		post := patDet.Delta.StatePost(s)
		for _, sp := range post.Moves() {
			for _, target := range sp.Targets.Elements() {
				parts := [][]Symbol{{sp.Symbol}, {}}
				if _, err := t.InsertWordByParts(scanning[s], parts, scanning[target]); err != nil {
					return nft.Nft{}, err
				}
			}
		}
	}

	return t, nil
}
