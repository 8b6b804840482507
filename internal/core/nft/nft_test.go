package nft

import (
	"testing"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/stretchr/testify/assert"
)

// sigmaLoopNfa accepts every word over symbols via a single accepting state
// with a self-loop on each symbol.
func sigmaLoopNfa(a alphabet.Alphabet, symbols []automaton.Symbol) automaton.Nfa {
	n := automaton.New(a)
	s0 := n.AddState()
	for _, sym := range symbols {
		n.Delta.Add(s0, sym, s0)
	}
	n.Initial.Add(s0)
	n.Final.Add(s0)
	return n
}

// runWord evaluates t on word by composing it with an identity transducer
// lifted from the single-word NFA, then projecting the result onto the
// last tape; this is the same technique the interactive shell's RUN
// command uses.
func runWord(t *Nft, word []Symbol) (automaton.Nfa, error) {
	wordNfa := automaton.CreateSingleWordNfa(word, t.Alphabet)
	idWordT, err := CreateFromNfa(&wordNfa, t.NumOfLevels, 0, nil)
	if err != nil {
		return automaton.Nfa{}, err
	}
	composed, err := Compose(&idWordT, t)
	if err != nil {
		return automaton.Nfa{}, err
	}
	return ProjectTo(&composed, t.NumOfLevels-1), nil
}

func Test_CreateFromNfa_identityComposeProject(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()
	symbols := []Symbol{0, 1}

	sigma := sigmaLoopNfa(a, symbols)
	idT, err := CreateFromNfa(&sigma, 2, 0, nil)
	if !assert.NoError(err) {
		return
	}
	if !assert.NoError(idT.ValidateLevels()) {
		return
	}

	word := []Symbol{0, 1, 0}
	out, err := runWord(&idT, word)
	if !assert.NoError(err) {
		return
	}

	assert.True(automaton.IsInLang(&out, word))
	isEmpty, _ := automaton.IsLangEmpty(&out)
	assert.False(isEmpty)

	other := []Symbol{1, 0, 0}
	assert.False(automaton.IsInLang(&out, other))
}

func Test_InsertIdentity_selfLoop(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()
	tr := New(a, 2)
	s0 := tr.AddStateWithLevel(0)
	tr.Initial.Add(s0)
	tr.Final.Add(s0)

	if !assert.NoError(tr.InsertIdentity(s0, []Symbol{0, 1})) {
		return
	}
	if !assert.NoError(tr.ValidateLevels()) {
		return
	}

	out, err := runWord(&tr, []Symbol{0, 0, 1})
	if !assert.NoError(err) {
		return
	}
	assert.True(automaton.IsInLang(&out, []Symbol{0, 0, 1}))
}

func Test_InsertWord_requiresMultipleOfLevels(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()
	tr := New(a, 2)
	s0 := tr.AddStateWithLevel(0)

	_, err := tr.InsertWord(s0, []Symbol{0, 1, 2})
	assert.Error(err)
}

func Test_InsertWordByParts_differentLengthTapes(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewEnumAlphabet("a", "b", "x")
	symA, _ := a.TranslateName("a")
	symB, _ := a.TranslateName("b")
	symX, _ := a.TranslateName("x")

	tr := New(&a, 2)
	s0 := tr.AddStateWithLevel(0)
	tr.Initial.Add(s0)

	end, err := tr.InsertWordByParts(s0, [][]Symbol{{symA, symB}, {symX}})
	if !assert.NoError(err) {
		return
	}
	tr.Final.Add(end)

	if !assert.NoError(tr.ValidateLevels()) {
		return
	}

	out, err := runWord(&tr, []Symbol{symA, symB})
	if !assert.NoError(err) {
		return
	}
	assert.True(automaton.IsInLang(&out, []Symbol{symX}))
}

func Test_Compose_mismatchedLevels(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewIntAlphabet()
	t1 := New(a, 2)
	t2 := New(a, 3)

	_, err := Compose(&t1, &t2)
	assert.Error(err)
}
