package automaton

import (
	"testing"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/stretchr/testify/assert"
)

// buildAbb returns the classic NFA over {a,b} accepting words ending in
// "abb", matching the 4-state minimized DFA used as a worked example.
func buildAbb(a alphabet.Alphabet) (Nfa, Symbol, Symbol) {
	n := New(a)
	s0 := n.AddState()
	s1 := n.AddState()
	s2 := n.AddState()
	s3 := n.AddState()

	symA := Symbol(0)
	symB := Symbol(1)

	n.Delta.Add(s0, symA, s1)
	n.Delta.Add(s0, symB, s0)
	n.Delta.Add(s1, symA, s1)
	n.Delta.Add(s1, symB, s2)
	n.Delta.Add(s2, symA, s1)
	n.Delta.Add(s2, symB, s3)
	n.Delta.Add(s3, symA, s1)
	n.Delta.Add(s3, symB, s0)

	n.Initial.Add(s0)
	n.Final.Add(s3)

	return n, symA, symB
}

func Test_IsInLang_abb(t *testing.T) {
	testCases := []struct {
		name   string
		word   []Symbol
		expect bool
	}{
		{name: "accepts abb", word: []Symbol{0, 1, 1}, expect: true},
		{name: "accepts babb", word: []Symbol{1, 0, 1, 1}, expect: true},
		{name: "rejects empty word", word: nil, expect: false},
		{name: "rejects ab", word: []Symbol{0, 1}, expect: false},
	}

	n, _, _ := buildAbb(alphabet.NewIntAlphabet())

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, IsInLang(&n, tc.word))
		})
	}
}

func Test_Determinize_Minimize_abb(t *testing.T) {
	assert := assert.New(t)

	n, symA, symB := buildAbb(alphabet.NewIntAlphabet())

	det, err := Determinize(&n)
	if !assert.NoError(err) {
		return
	}
	assert.True(det.IsDeterministic())

	min, err := Minimize(&det, []Symbol{symA, symB})
	if !assert.NoError(err) {
		return
	}

	// already-minimal 4-state DFA should minimize to exactly 4 states.
	assert.Equal(State(4), min.NumOfStates())
	assert.True(IsInLang(&min, []Symbol{0, 1, 1}))
	assert.False(IsInLang(&min, []Symbol{0, 1}))
}

func Test_ComplementDeterministic_singleSymbol(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()
	n := New(a)
	s0 := n.AddState()
	s1 := n.AddState()
	n.Delta.Add(s0, Symbol(0), s1)
	n.Delta.Add(s1, Symbol(0), s1)
	n.Initial.Add(s0)
	n.Final.Add(s1)

	comp, err := ComplementDeterministic(&n, []Symbol{0})
	if !assert.NoError(err) {
		return
	}

	assert.True(IsInLang(&n, []Symbol{0}))
	assert.False(IsInLang(&comp, []Symbol{0}))

	assert.False(IsInLang(&n, nil))
	assert.True(IsInLang(&comp, nil))
}

func Test_Intersection_product(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()

	// L1: accepts any word with at least one 'a' (symbol 0).
	n1 := New(a)
	p0 := n1.AddState()
	p1 := n1.AddState()
	n1.Delta.Add(p0, Symbol(0), p1)
	n1.Delta.Add(p0, Symbol(1), p0)
	n1.Delta.Add(p1, Symbol(0), p1)
	n1.Delta.Add(p1, Symbol(1), p1)
	n1.Initial.Add(p0)
	n1.Final.Add(p1)

	// L2: accepts any word with at least one 'b' (symbol 1).
	n2 := New(a)
	q0 := n2.AddState()
	q1 := n2.AddState()
	n2.Delta.Add(q0, Symbol(1), q1)
	n2.Delta.Add(q0, Symbol(0), q0)
	n2.Delta.Add(q1, Symbol(0), q1)
	n2.Delta.Add(q1, Symbol(1), q1)
	n2.Initial.Add(q0)
	n2.Final.Add(q1)

	prod := Intersection(&n1, &n2, map[ProductPair]State{})

	assert.True(IsInLang(&n1, []Symbol{0, 1}))
	assert.True(IsInLang(&n2, []Symbol{0, 1}))
	assert.True(IsInLang(&prod, []Symbol{0, 1}))

	assert.True(IsInLang(&n1, []Symbol{0}))
	assert.False(IsInLang(&n2, []Symbol{0}))
	assert.False(IsInLang(&prod, []Symbol{0}))
}

func Test_Trim_removesUnreachableAndDead(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()
	n := New(a)
	s0 := n.AddState()
	s1 := n.AddState()
	dead := n.AddState()    // reachable, but can never reach an accepting state
	unreachable := n.AddState() // never reachable from the initial state

	n.Delta.Add(s0, Symbol(0), s1)
	n.Delta.Add(s0, Symbol(1), dead)
	n.Delta.Add(dead, Symbol(0), dead)
	n.Delta.Add(unreachable, Symbol(0), s1)
	n.Initial.Add(s0)
	n.Final.Add(s1)

	trimmed, _ := Trim(&n)

	assert.Equal(State(2), trimmed.NumOfStates())
	assert.True(IsInLang(&trimmed, []Symbol{0}))
}

func Test_RemoveEpsilon(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()
	n := New(a)
	s0 := n.AddState()
	s1 := n.AddState()
	n.Delta.Add(s0, Epsilon, s1)
	n.Delta.Add(s1, Symbol(0), s1)
	n.Initial.Add(s0)
	n.Final.Add(s1)

	assert.True(IsInLang(&n, nil))

	noEps := RemoveEpsilon(&n)
	det, err := Determinize(&noEps)
	if !assert.NoError(err) {
		return
	}
	assert.True(det.IsDeterministic())
	assert.True(IsInLang(&noEps, nil))
	assert.True(IsInLang(&noEps, []Symbol{0}))
}

func Test_IsLangEmpty(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()

	empty := New(a)
	s0 := empty.AddState()
	empty.Initial.Add(s0)
	// no final states at all

	isEmpty, witness := IsLangEmpty(&empty)
	assert.True(isEmpty)
	assert.Nil(witness)

	n, _, _ := buildAbb(a)
	isEmpty, witness = IsLangEmpty(&n)
	assert.False(isEmpty)
	assert.True(IsInLang(&n, witness))
}

func Test_IsUniversal_IsIncluded_AreEquivalent(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()
	symbols := []Symbol{0, 1}

	// sigma*: accepts everything over {0,1}.
	sigmaStar := New(a)
	s0 := sigmaStar.AddState()
	sigmaStar.Delta.Add(s0, Symbol(0), s0)
	sigmaStar.Delta.Add(s0, Symbol(1), s0)
	sigmaStar.Initial.Add(s0)
	sigmaStar.Final.Add(s0)

	universal, _, err := IsUniversal(&sigmaStar, symbols)
	if assert.NoError(err) {
		assert.True(universal)
	}

	n, _, _ := buildAbb(a)
	universal, _, err = IsUniversal(&n, symbols)
	if assert.NoError(err) {
		assert.False(universal)
	}

	included, _, err := IsIncluded(&n, &sigmaStar, symbols)
	if assert.NoError(err) {
		assert.True(included)
	}

	included, _, err = IsIncluded(&sigmaStar, &n, symbols)
	if assert.NoError(err) {
		assert.False(included)
	}

	det, err := Determinize(&n)
	if !assert.NoError(err) {
		return
	}
	min, err := Minimize(&det, symbols)
	if !assert.NoError(err) {
		return
	}

	equiv, err := AreEquivalent(&n, &min, symbols)
	if assert.NoError(err) {
		assert.True(equiv)
	}

	equiv, err = AreEquivalent(&n, &sigmaStar, symbols)
	if assert.NoError(err) {
		assert.False(equiv)
	}
}

func Test_CreateSingleWordNfa(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()
	word := []Symbol{0, 1, 1}
	n := CreateSingleWordNfa(word, a)

	assert.True(IsInLang(&n, word))
	assert.False(IsInLang(&n, []Symbol{0, 1}))
	assert.False(IsInLang(&n, nil))
}
