// Package randgen implements the Tabakov-Vardi random NFA generator: given a
// state count, symbol count, and two density parameters, it builds an NFA
// whose transition density and acceptance density approximate the
// requested ratios, using an explicit PRNG seed so runs are reproducible.
//
// Grounded on the generator described narratively in spec.md's design
// notes and _examples/original_source (the Tabakov-Vardi model is the
// standard way the automata-theory literature benchmarks algorithms against
// "typical" nondeterministic automata at a given size/density).
package randgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/dekarrin/mata/internal/core/merr"
)

// Params configures Generate. All fields are validated on entry;
// out-of-range values raise merr.InvalidArgument rather than being
// silently clamped.
type Params struct {
	// NumStates is the number of states to allocate, >= 1.
	NumStates int
	// NumSymbols is the number of distinct symbols in the alphabet, >= 1.
	NumSymbols int
	// StatesTransRatioPerSymbol is the expected number of outgoing
	// transitions per (state, symbol) pair, >= 0. A value of 1 means each
	// state has, on average, one transition per symbol; the classical
	// Tabakov-Vardi "r" parameter.
	StatesTransRatioPerSymbol float64
	// FinalStateDensity is the probability that any given state is
	// accepting, in [0, 1].
	FinalStateDensity float64
	// Seed seeds the generator's PRNG explicitly, for reproducibility.
	Seed int64
}

func (p Params) validate() error {
	if p.NumStates < 1 {
		return merr.New(fmt.Sprintf("num_states must be >= 1, got %d", p.NumStates), merr.InvalidArgument)
	}
	if p.NumSymbols < 1 {
		return merr.New(fmt.Sprintf("num_symbols must be >= 1, got %d", p.NumSymbols), merr.InvalidArgument)
	}
	if p.StatesTransRatioPerSymbol < 0 {
		return merr.New(
			fmt.Sprintf("states_trans_ratio_per_symbol must be >= 0, got %f", p.StatesTransRatioPerSymbol),
			merr.InvalidArgument,
		)
	}
	if p.FinalStateDensity < 0 || p.FinalStateDensity > 1 {
		return merr.New(
			fmt.Sprintf("final_state_density must be in [0,1], got %f", p.FinalStateDensity),
			merr.InvalidArgument,
		)
	}
	return nil
}

// Generate builds a random NFA per the Tabakov-Vardi model: for every
// (state, symbol) pair, a Poisson(r)-distributed number of outgoing
// transitions is added to uniformly chosen targets (at least the
// transitions needed to keep the automaton connected are not guaranteed —
// this is a pure density model, not a reachability-preserving one). Exactly
// one state is chosen as initial; each other state becomes final
// independently with probability FinalStateDensity.
func Generate(p Params, a alphabet.Alphabet) (automaton.Nfa, error) {
	if err := p.validate(); err != nil {
		return automaton.Nfa{}, err
	}

	rng := rand.New(rand.NewSource(p.Seed))
	n := automaton.New(a)
	for i := 0; i < p.NumStates; i++ {
		n.AddState()
	}

	symbols := make([]automaton.Symbol, p.NumSymbols)
	for i := range symbols {
		sym, err := a.RegisterNew(fmt.Sprintf("%d", i))
		if err != nil {
			return automaton.Nfa{}, err
		}
		symbols[i] = sym
	}

	n.Initial.Add(automaton.State(rng.Intn(p.NumStates)))

	for s := 0; s < p.NumStates; s++ {
		if rng.Float64() < p.FinalStateDensity {
			n.Final.Add(automaton.State(s))
		}
		for _, sym := range symbols {
			count := poisson(rng, p.StatesTransRatioPerSymbol)
			for k := 0; k < count; k++ {
				target := automaton.State(rng.Intn(p.NumStates))
				n.Delta.Add(automaton.State(s), sym, target)
			}
		}
	}

	return n, nil
}

// poisson draws from a Poisson distribution with mean lambda via Knuth's
// algorithm. lambda == 0 always returns 0.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= rng.Float64()
		if p <= l {
			return k - 1
		}
	}
}
