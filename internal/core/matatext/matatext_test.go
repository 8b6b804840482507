package matatext

import (
	"strings"
	"testing"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/dekarrin/mata/internal/core/nft"
	"github.com/stretchr/testify/assert"
)

func Test_DetectKind(t *testing.T) {
	assert := assert.New(t)

	kind, err := DetectKind("@NFA-explicit\n%Initial 0\n")
	if assert.NoError(err) {
		assert.Equal(KindNfa, kind)
	}

	kind, err = DetectKind("@NFT-explicit\n%LevelsNum 2\n")
	if assert.NoError(err) {
		assert.Equal(KindNft, kind)
	}

	_, err = DetectKind("not a mata section at all")
	assert.Error(err)
}

func Test_ParseNfa_rejectsEpsilonBodyLines(t *testing.T) {
	text := "@NFA-explicit\n%Alphabet-auto\n%Initial 0\n%Final 1\n0 1\n"
	_, err := ParseNfa(strings.NewReader(text), alphabet.NewOnTheFlyAlphabet())
	assert.Error(t, err)
}

func Test_ParseNfa_explicitText(t *testing.T) {
	assert := assert.New(t)

	text := "@NFA-explicit\n" +
		"%Alphabet-auto\n" +
		"%Initial 0\n" +
		"%Final 1\n" +
		"0 a 1\n" +
		"1 a 1\n"

	n, err := ParseNfa(strings.NewReader(text), alphabet.NewOnTheFlyAlphabet())
	if !assert.NoError(err) {
		return
	}

	symA, err := n.Alphabet.TranslateName("a")
	if !assert.NoError(err) {
		return
	}

	assert.True(automaton.IsInLang(&n, []automaton.Symbol{symA}))
	assert.True(automaton.IsInLang(&n, []automaton.Symbol{symA, symA, symA}))
	assert.False(automaton.IsInLang(&n, nil))
}

func Test_PrintNfa_ParseNfa_roundTrip(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewOnTheFlyAlphabet()
	n := automaton.New(a)
	s0 := n.AddState()
	s1 := n.AddState()
	symA, err := a.RegisterNew("a")
	if !assert.NoError(err) {
		return
	}
	symB, err := a.RegisterNew("b")
	if !assert.NoError(err) {
		return
	}
	n.Delta.Add(s0, symA, s1)
	n.Delta.Add(s1, symB, s0)
	n.Initial.Add(s0)
	n.Final.Add(s1)

	var buf strings.Builder
	if !assert.NoError(PrintNfa(&buf, &n)) {
		return
	}

	roundTripAlphabet := alphabet.NewOnTheFlyAlphabet()
	roundTripped, err := ParseNfa(strings.NewReader(buf.String()), roundTripAlphabet)
	if !assert.NoError(err) {
		return
	}

	rtA, _ := roundTripAlphabet.TranslateName("a")
	rtB, _ := roundTripAlphabet.TranslateName("b")

	assert.True(automaton.IsInLang(&roundTripped, []automaton.Symbol{rtA}))
	assert.True(automaton.IsInLang(&roundTripped, []automaton.Symbol{rtA, rtB, rtA}))
	assert.False(automaton.IsInLang(&roundTripped, []automaton.Symbol{rtB}))
}

func Test_PrintNft_ParseNft_roundTrip(t *testing.T) {
	assert := assert.New(t)

	a := alphabet.NewOnTheFlyAlphabet()
	tr := nft.New(a, 2)
	s0 := tr.AddStateWithLevel(0)
	tr.Initial.Add(s0)
	tr.Final.Add(s0)

	symA, err := a.RegisterNew("a")
	if !assert.NoError(err) {
		return
	}
	symX, err := a.RegisterNew("X")
	if !assert.NoError(err) {
		return
	}
	if !assert.NoError(tr.InsertIdentity(s0, []automaton.Symbol{symX})) {
		return
	}
	// add a rewriting self-loop a -> X across the 2-tape cycle
	_, err = tr.InsertWordByParts(s0, [][]automaton.Symbol{{symA}, {symX}}, s0)
	if !assert.NoError(err) {
		return
	}

	var buf strings.Builder
	if !assert.NoError(PrintNft(&buf, &tr)) {
		return
	}
	assert.Contains(buf.String(), "%LevelsNum 2")

	roundTripAlphabet := alphabet.NewOnTheFlyAlphabet()
	roundTripped, err := ParseNft(strings.NewReader(buf.String()), roundTripAlphabet)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(2, roundTripped.NumOfLevels)
	assert.NoError(roundTripped.ValidateLevels())
}
