package automaton

import (
	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/container"
)

// Nfa bundles a transition relation with its initial/final state sets and
// an alphabet handle. Automata are value objects: algorithmic operations
// are pure with respect to their inputs, returning a new Nfa, unless
// documented otherwise.
type Nfa struct {
	Delta    Delta
	Initial  container.StateIndicator
	Final    container.StateIndicator
	Alphabet alphabet.Alphabet

	numStates State // explicitly allocated via AddState; see NumOfStates.
}

// New returns an empty automaton using alphabet a (nil is permitted; many
// operations don't consult it).
func New(a alphabet.Alphabet) Nfa {
	return Nfa{Alphabet: a}
}

// AddState allocates a fresh state and returns its index.
func (n *Nfa) AddState() State {
	s := n.numStates
	n.numStates++
	return s
}

// NumOfStates is the maximum of the explicitly allocated state count and
// Delta's own high-water mark (a transition may reference a target beyond
// any state AddState produced).
func (n *Nfa) NumOfStates() State {
	if d := n.Delta.NumOfStates(); d > n.numStates {
		return d
	}
	return n.numStates
}

// NumOfTransitions delegates to Delta.
func (n *Nfa) NumOfTransitions() int { return n.Delta.NumOfTransitions() }

// IsDeterministic reports whether n has exactly one initial state and every
// StatePost has, for every symbol, exactly one target and no epsilon
// transitions.
func (n *Nfa) IsDeterministic() bool {
	if n.Initial.Len() != 1 {
		return false
	}
	for s := State(0); s < n.NumOfStates(); s++ {
		post := n.Delta.StatePost(s)
		for _, sp := range post.Moves() {
			if sp.Symbol == Epsilon {
				return false
			}
			if sp.Targets.Len() != 1 {
				return false
			}
		}
	}
	return true
}

// Copy returns an independent copy of n. The Alphabet handle itself is
// shared (it is borrowed, not owned, per the concurrency model).
func (n *Nfa) Copy() Nfa {
	return Nfa{
		Delta:     n.Delta.Copy(),
		Initial:   n.Initial.Copy(),
		Final:     n.Final.Copy(),
		Alphabet:  n.Alphabet,
		numStates: n.numStates,
	}
}

// CreateSingleWordNfa builds an automaton accepting exactly the one word
// given, as a simple chain of states.
func CreateSingleWordNfa(word []Symbol, a alphabet.Alphabet) Nfa {
	n := New(a)
	cur := n.AddState()
	n.Initial.Add(cur)
	for _, sym := range word {
		next := n.AddState()
		n.Delta.Add(cur, sym, next)
		cur = next
	}
	n.Final.Add(cur)
	return n
}

// CreateEmptyStringNfa builds an automaton accepting only the empty word.
func CreateEmptyStringNfa(a alphabet.Alphabet) Nfa {
	n := New(a)
	s := n.AddState()
	n.Initial.Add(s)
	n.Final.Add(s)
	return n
}

// CreateSigmaStarNfa builds an automaton over the given symbols accepting
// every word (Sigma*), as a single accepting state with a self-loop on
// every symbol.
func CreateSigmaStarNfa(symbols []Symbol, a alphabet.Alphabet) Nfa {
	n := New(a)
	s := n.AddState()
	n.Initial.Add(s)
	n.Final.Add(s)
	for _, sym := range symbols {
		n.Delta.Add(s, sym, s)
	}
	return n
}
