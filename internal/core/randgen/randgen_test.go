package randgen

import (
	"testing"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/dekarrin/mata/internal/core/merr"
	"github.com/stretchr/testify/assert"
)

func Test_Generate_reproducibleWithSameSeed(t *testing.T) {
	assert := assert.New(t)

	p := Params{
		NumStates:                 10,
		NumSymbols:                3,
		StatesTransRatioPerSymbol: 1.5,
		FinalStateDensity:         0.3,
		Seed:                      42,
	}

	n1, err := Generate(p, alphabet.NewIntAlphabet())
	if !assert.NoError(err) {
		return
	}
	n2, err := Generate(p, alphabet.NewIntAlphabet())
	if !assert.NoError(err) {
		return
	}

	assert.Equal(n1.NumOfStates(), n2.NumOfStates())
	assert.Equal(n1.NumOfTransitions(), n2.NumOfTransitions())
	assert.True(n1.Delta.Equal(&n2.Delta))
	assert.Equal(n1.Initial.Elements(), n2.Initial.Elements())
	assert.Equal(n1.Final.Elements(), n2.Final.Elements())
}

func Test_Generate_differentSeedsDiffer(t *testing.T) {
	assert := assert.New(t)

	base := Params{
		NumStates:                 25,
		NumSymbols:                4,
		StatesTransRatioPerSymbol: 2,
		FinalStateDensity:         0.5,
	}

	p1 := base
	p1.Seed = 1
	p2 := base
	p2.Seed = 2

	n1, err := Generate(p1, alphabet.NewIntAlphabet())
	if !assert.NoError(err) {
		return
	}
	n2, err := Generate(p2, alphabet.NewIntAlphabet())
	if !assert.NoError(err) {
		return
	}

	sameDelta := n1.Delta.Equal(&n2.Delta)
	sameFinal := assert.ObjectsAreEqual(n1.Final.Elements(), n2.Final.Elements())
	assert.False(sameDelta && sameFinal, "different seeds should produce a different automaton")
}

func Test_Generate_validatesParams(t *testing.T) {
	assert := assert.New(t)

	_, err := Generate(Params{NumStates: 0, NumSymbols: 1}, alphabet.NewIntAlphabet())
	assert.ErrorIs(err, merr.InvalidArgument)

	_, err = Generate(Params{NumStates: 1, NumSymbols: 0}, alphabet.NewIntAlphabet())
	assert.ErrorIs(err, merr.InvalidArgument)

	_, err = Generate(Params{NumStates: 1, NumSymbols: 1, FinalStateDensity: 2}, alphabet.NewIntAlphabet())
	assert.ErrorIs(err, merr.InvalidArgument)

	_, err = Generate(Params{NumStates: 1, NumSymbols: 1, StatesTransRatioPerSymbol: -1}, alphabet.NewIntAlphabet())
	assert.ErrorIs(err, merr.InvalidArgument)
}

func Test_Generate_exactlyOneInitialState(t *testing.T) {
	assert := assert.New(t)

	p := Params{
		NumStates:                 8,
		NumSymbols:                2,
		StatesTransRatioPerSymbol: 1,
		FinalStateDensity:         0.25,
		Seed:                      7,
	}

	n, err := Generate(p, alphabet.NewIntAlphabet())
	if !assert.NoError(err) {
		return
	}
	assert.Equal(1, n.Initial.Len())
	assert.Equal(automaton.State(8), n.NumOfStates())
}
