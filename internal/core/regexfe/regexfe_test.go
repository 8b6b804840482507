package regexfe

import (
	"testing"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/stretchr/testify/assert"
)

func wordOf(t *testing.T, a alphabet.Alphabet, s string) []Symbol {
	t.Helper()
	word := make([]Symbol, len(s))
	for i, r := range s {
		sym, err := a.TranslateName(string(r))
		if err != nil {
			t.Fatalf("unregistered symbol %q: %s", r, err)
		}
		word[i] = sym
	}
	return word
}

func Test_Compile_concatenationAndAlternation(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewOnTheFlyAlphabet()
	n, err := Compile("(a|b)c", a)
	if !assert.NoError(err) {
		return
	}

	assert.True(automaton.IsInLang(&n, wordOf(t, a, "ac")))
	assert.True(automaton.IsInLang(&n, wordOf(t, a, "bc")))
	assert.False(automaton.IsInLang(&n, wordOf(t, a, "cc")))
}

func Test_Compile_star(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewOnTheFlyAlphabet()
	n, err := Compile("(a|b)*abb", a)
	if !assert.NoError(err) {
		return
	}

	assert.True(automaton.IsInLang(&n, wordOf(t, a, "abb")))
	assert.True(automaton.IsInLang(&n, wordOf(t, a, "aababb")))
	assert.False(automaton.IsInLang(&n, wordOf(t, a, "ab")))

	det, err := automaton.Determinize(&n)
	if !assert.NoError(err) {
		return
	}
	symA, _ := a.TranslateName("a")
	symB, _ := a.TranslateName("b")
	min, err := automaton.Minimize(&det, []Symbol{symA, symB})
	if !assert.NoError(err) {
		return
	}
	assert.Equal(automaton.State(4), min.NumOfStates())
}

func Test_Compile_plusRequiresAtLeastOne(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewOnTheFlyAlphabet()
	n, err := Compile("a+", a)
	if !assert.NoError(err) {
		return
	}

	assert.False(automaton.IsInLang(&n, nil))
	assert.True(automaton.IsInLang(&n, wordOf(t, a, "a")))
	assert.True(automaton.IsInLang(&n, wordOf(t, a, "aaa")))
}

func Test_Compile_questionMark(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewOnTheFlyAlphabet()
	n, err := Compile("ab?", a)
	if !assert.NoError(err) {
		return
	}

	assert.True(automaton.IsInLang(&n, wordOf(t, a, "a")))
	assert.True(automaton.IsInLang(&n, wordOf(t, a, "ab")))
	assert.False(automaton.IsInLang(&n, wordOf(t, a, "abb")))
}

func Test_Compile_unclosedGroupIsError(t *testing.T) {
	a := alphabet.NewOnTheFlyAlphabet()
	_, err := Compile("(ab", a)
	assert.Error(t, err)
}
