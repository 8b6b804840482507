// Package nft lifts the automaton package's Nfa/Delta machinery to the
// multi-tape (level-tagged) transducer extension: Nft carries a per-state
// "level" assignment alongside the usual Delta/Initial/Final/Alphabet, with
// the invariant that every non-epsilon transition advances the source
// state's level by one, modulo the transducer's tape count.
//
// Grounded on internal/core/automaton's Nfa shell, generalized the same way
// the teacher's DFA builds on its NFA: by adding one more piece of
// per-state bookkeeping (here, level instead of a name/number-map) without
// changing the underlying Delta representation.
package nft

import (
	"fmt"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/dekarrin/mata/internal/core/container"
	"github.com/dekarrin/mata/internal/core/merr"
)

type (
	Symbol = automaton.Symbol
	State  = automaton.State
)

const Epsilon = automaton.Epsilon

// Nft is a transducer: an Nfa whose states are each tagged with a tape
// index ("level") in [0, NumOfLevels).
type Nft struct {
	Delta        automaton.Delta
	Initial      container.StateIndicator
	Final        container.StateIndicator
	Alphabet     alphabet.Alphabet
	NumOfLevels  int
	Levels       map[State]int

	numStates State
}

// New returns an empty transducer with the given tape count.
func New(a alphabet.Alphabet, numOfLevels int) Nft {
	return Nft{
		Alphabet:    a,
		NumOfLevels: numOfLevels,
		Levels:      map[State]int{},
	}
}

// NumOfStates is the maximum of the explicitly allocated state count and
// Delta's own high-water mark, matching automaton.Nfa.NumOfStates.
func (t *Nft) NumOfStates() State {
	if d := t.Delta.NumOfStates(); d > t.numStates {
		return d
	}
	return t.numStates
}

// AddState allocates a fresh state at level 0.
func (t *Nft) AddState() State {
	return t.AddStateWithLevel(0)
}

// AddStateWithLevel allocates a fresh state and records its level.
func (t *Nft) AddStateWithLevel(level int) State {
	s := t.numStates
	t.numStates++
	t.Levels[s] = level
	return s
}

// LevelOf returns the level of s (0 if never explicitly assigned).
func (t *Nft) LevelOf(s State) int {
	return t.Levels[s]
}

// nextLevel returns (level+1) mod NumOfLevels.
func (t *Nft) nextLevel(level int) int {
	if t.NumOfLevels <= 0 {
		return 0
	}
	return (level + 1) % t.NumOfLevels
}

// InsertWord allocates a chain of states from "from" consuming word, whose
// length must be a multiple of NumOfLevels (one full tape-cycle per step),
// and returns the trailing (level-0) state. The chain's states cycle level
// 0..NumOfLevels-1 in step with the symbols consumed.
func (t *Nft) InsertWord(from State, word []Symbol) (State, error) {
	if t.NumOfLevels <= 0 {
		return 0, merr.New("insert_word requires num_of_levels > 0", merr.InvalidArgument)
	}
	if len(word)%t.NumOfLevels != 0 {
		return 0, merr.New(
			fmt.Sprintf("word length %d is not a multiple of num_of_levels %d", len(word), t.NumOfLevels),
			merr.InvalidArgument,
		)
	}

	cur := from
	level := t.LevelOf(from)
	for _, sym := range word {
		next := t.AddStateWithLevel(t.nextLevel(level))
		t.Delta.Add(cur, sym, next)
		cur = next
		level = t.nextLevel(level)
	}
	return cur, nil
}

// InsertWordByParts is like InsertWord but takes one sub-word per tape;
// tapes may differ in length (missing positions on a given cycle are
// filled with Epsilon on that tape). All parts need not be the same
// length; the chain runs for max(len(parts)) cycles. If to is given, the
// chain's last transition targets that state instead of a freshly
// allocated one (letting callers build a loop back to an existing state,
// e.g. for a self-looping replace-all transducer); to's level must equal
// the level the chain would otherwise have minted for its tail.
func (t *Nft) InsertWordByParts(from State, parts [][]Symbol, to ...State) (State, error) {
	if t.NumOfLevels <= 0 {
		return 0, merr.New("insert_word_by_parts requires num_of_levels > 0", merr.InvalidArgument)
	}
	if len(parts) != t.NumOfLevels {
		return 0, merr.New(
			fmt.Sprintf("expected %d parts (one per tape), got %d", t.NumOfLevels, len(parts)),
			merr.InvalidArgument,
		)
	}
	if len(to) > 1 {
		return 0, merr.New("insert_word_by_parts accepts at most one explicit target state", merr.InvalidArgument)
	}

	maxLen := 0
	for _, p := range parts {
		if len(p) > maxLen {
			maxLen = len(p)
		}
	}
	if maxLen == 0 {
		if len(to) == 1 {
			return to[0], nil
		}
		return from, nil
	}

	totalSteps := maxLen * t.NumOfLevels
	cur := from
	level := t.LevelOf(from)
	step := 0
	for i := 0; i < maxLen; i++ {
		for lvl := 0; lvl < t.NumOfLevels; lvl++ {
			sym := Epsilon
			if i < len(parts[lvl]) {
				sym = parts[lvl][i]
			}
			step++
			var next State
			if step == totalSteps && len(to) == 1 {
				next = to[0]
			} else {
				next = t.AddStateWithLevel(t.nextLevel(level))
			}
			t.Delta.Add(cur, sym, next)
			cur = next
			level = t.nextLevel(level)
		}
	}
	return cur, nil
}

// InsertIdentity adds, for every symbol in symbols, a self-loop chain at s
// that emits that same symbol on every tape and returns to s.
func (t *Nft) InsertIdentity(s State, symbols []Symbol) error {
	for _, sym := range symbols {
		parts := make([][]Symbol, t.NumOfLevels)
		for i := range parts {
			parts[i] = []Symbol{sym}
		}
		if _, err := t.InsertWordByParts(s, parts, s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLevels reports the first state found that violates level
// coherence: a non-epsilon transition (s, a, t) whose levels[t] is not
// (levels[s]+1) mod NumOfLevels. Returns nil if the whole transducer is
// coherent.
func (t *Nft) ValidateLevels() error {
	for s := State(0); s < t.NumOfStates(); s++ {
		post := t.Delta.StatePost(s)
		for _, sp := range post.Moves() {
			if sp.Symbol == Epsilon {
				continue
			}
			want := t.nextLevel(t.LevelOf(s))
			for _, target := range sp.Targets.Elements() {
				if t.LevelOf(target) != want {
					return merr.New(
						fmt.Sprintf(
							"state %d (level %d) --%d--> state %d has level %d, want %d",
							s, t.LevelOf(s), sp.Symbol, target, t.LevelOf(target), want,
						),
						merr.LevelMismatch,
					)
				}
			}
		}
	}
	return nil
}

// Copy returns an independent copy of t.
func (t *Nft) Copy() Nft {
	levels := make(map[State]int, len(t.Levels))
	for k, v := range t.Levels {
		levels[k] = v
	}
	return Nft{
		Delta:       t.Delta.Copy(),
		Initial:     t.Initial.Copy(),
		Final:       t.Final.Copy(),
		Alphabet:    t.Alphabet,
		NumOfLevels: t.NumOfLevels,
		Levels:      levels,
		numStates:   t.numStates,
	}
}

// asNfa views t as a plain Nfa, discarding level information (used to reuse
// automaton-package algorithms that don't need to know about tapes).
func (t *Nft) asNfa() automaton.Nfa {
	n := automaton.New(t.Alphabet)
	n.Delta = t.Delta.Copy()
	n.Initial = t.Initial.Copy()
	n.Final = t.Final.Copy()
	for s := State(0); s < t.NumOfStates(); s++ {
		n.AddState()
	}
	return n
}
