// Package automaton implements the sparse transition-relation data
// structure (Delta/StatePost/SymbolPost), the Nfa shell, and the classical
// automata algorithms the rest of the core builds on: traversal, subset
// construction, product construction, Hopcroft minimization, and the
// language predicates.
//
// It generalizes the shape of the teacher's
// internal/ictiobus/automaton.NFA[E]/DFA[E] (a map-of-string-state-name to
// transitions) into the sparse integer-indexed structure the spec requires:
// states are dense uint64 indices, and ordering of StatePost/targets is a
// load-bearing contract rather than an incidental map-iteration order.
package automaton

import (
	"fmt"
	"sort"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/container"
	"github.com/dekarrin/mata/internal/core/merr"
)

// Symbol and State are re-exported from container so callers of this
// package never need to import it directly.
type (
	Symbol = container.Symbol
	State  = container.State
)

// Epsilon is the silent transition marker; it is numerically the maximum
// Symbol value, so ordinary ascending order already places it last in any
// symbol-sorted sequence.
const Epsilon = container.Epsilon

// DontCare is the wildcard symbol reserved for the transducer builder.
const DontCare = container.DontCare

// Transition is one (source, symbol, target) triple of a Delta.
type Transition struct {
	Source State
	Symbol Symbol
	Target State
}

// SymbolPost is the set of targets reachable from some source by some
// symbol. Targets is always a strictly ordered, unique, non-empty sequence.
type SymbolPost struct {
	Symbol  Symbol
	Targets container.OrdSet[State]
}

// StatePost is the symbol-indexed collection of SymbolPosts outgoing from
// one state. It is kept sorted by symbol ascending, with no empty
// SymbolPost and no duplicate symbol.
type StatePost struct {
	posts []SymbolPost
}

func (sp *StatePost) search(sym Symbol) (int, bool) {
	i := sort.Search(len(sp.posts), func(i int) bool { return sp.posts[i].Symbol >= sym })
	if i < len(sp.posts) && sp.posts[i].Symbol == sym {
		return i, true
	}
	return i, false
}

// Find returns the SymbolPost for sym, if any.
func (sp *StatePost) Find(sym Symbol) (*SymbolPost, bool) {
	i, found := sp.search(sym)
	if !found {
		return nil, false
	}
	return &sp.posts[i], true
}

// add inserts t into the SymbolPost for sym, creating it at the correct
// sorted position if it does not yet exist. Reports whether t was newly
// added.
func (sp *StatePost) add(sym Symbol, t State) bool {
	i, found := sp.search(sym)
	if found {
		return sp.posts[i].Targets.Add(t)
	}
	newPost := SymbolPost{Symbol: sym}
	newPost.Targets.Add(t)
	sp.posts = append(sp.posts, SymbolPost{})
	copy(sp.posts[i+1:], sp.posts[i:])
	sp.posts[i] = newPost
	return true
}

// addTargets merges targets into the SymbolPost for sym.
func (sp *StatePost) addTargets(sym Symbol, targets container.OrdSet[State]) {
	i, found := sp.search(sym)
	if found {
		sp.posts[i].Targets.Merge(targets)
		return
	}
	newPost := SymbolPost{Symbol: sym, Targets: targets.Copy()}
	sp.posts = append(sp.posts, SymbolPost{})
	copy(sp.posts[i+1:], sp.posts[i:])
	sp.posts[i] = newPost
}

// remove deletes t from the SymbolPost for sym, removing the SymbolPost
// itself if it becomes empty. Returns merr.NotFound if sym or t is absent.
func (sp *StatePost) remove(sym Symbol, t State) error {
	i, found := sp.search(sym)
	if !found {
		return merr.New(fmt.Sprintf("no transitions on symbol %d", sym), merr.NotFound)
	}
	if !sp.posts[i].Targets.Remove(t) {
		return merr.New(fmt.Sprintf("no transition to state %d on symbol %d", t, sym), merr.NotFound)
	}
	if sp.posts[i].Targets.Empty() {
		sp.posts = append(sp.posts[:i], sp.posts[i+1:]...)
	}
	return nil
}

// Contains reports whether (sym, t) is present.
func (sp *StatePost) Contains(sym Symbol, t State) bool {
	post, ok := sp.Find(sym)
	if !ok {
		return false
	}
	return post.Targets.Has(t)
}

// Moves returns every SymbolPost in ascending symbol order. The caller must
// not mutate the returned slice.
func (sp *StatePost) Moves() []SymbolPost {
	return sp.posts
}

// MovesEpsilons returns the SymbolPosts whose symbol is >= bound. Since
// Epsilon sorts last, bound == Epsilon returns just the epsilon
// SymbolPost (if any); a lower bound also picks up any "high" symbols at or
// above it.
func (sp *StatePost) MovesEpsilons(bound Symbol) []SymbolPost {
	i := sort.Search(len(sp.posts), func(i int) bool { return sp.posts[i].Symbol >= bound })
	return sp.posts[i:]
}

// MovesSymbols returns the SymbolPosts whose symbol is < bound.
func (sp *StatePost) MovesSymbols(bound Symbol) []SymbolPost {
	i := sort.Search(len(sp.posts), func(i int) bool { return sp.posts[i].Symbol >= bound })
	return sp.posts[:i]
}

// Len returns the number of distinct symbols with outgoing transitions.
func (sp *StatePost) Len() int { return len(sp.posts) }

// Empty reports whether the StatePost has no outgoing transitions.
func (sp *StatePost) Empty() bool { return len(sp.posts) == 0 }

// Clear removes every outgoing transition.
func (sp *StatePost) Clear() { sp.posts = nil }

// PushBack appends a SymbolPost directly, bypassing the normal sorted
// insert. Callers (principally the NFT builders, which construct
// SymbolPosts with a symbol guaranteed greater than any already present)
// must maintain the sorted-unique invariant themselves.
func (sp *StatePost) PushBack(post SymbolPost) {
	sp.posts = append(sp.posts, post)
}

// Delta is the entire transition relation, indexed by source state.
type Delta struct {
	posts     []StatePost
	numStates State // 1 + the largest state index ever observed, as source or target
}

func (d *Delta) bumpNumStates(s State) {
	if s+1 > d.numStates {
		d.numStates = s + 1
	}
}

// NumOfStates returns one past the largest state index ever referenced by
// an Add, AddTargets, or MutableStatePost call, regardless of whether that
// StatePost has been materialized.
func (d *Delta) NumOfStates() State { return d.numStates }

// StatePost returns a read-only view of s's outgoing transitions. It never
// extends backing storage; states beyond the current vector length yield an
// empty StatePost.
func (d *Delta) StatePost(s State) StatePost {
	if int(s) >= len(d.posts) {
		return StatePost{}
	}
	return d.posts[s]
}

// MutableStatePost grows the backing vector to at least s+1 if necessary,
// lazily materializing empty StatePosts, and returns a pointer usable for
// in-place mutation.
func (d *Delta) MutableStatePost(s State) *StatePost {
	if int(s) >= len(d.posts) {
		grown := make([]StatePost, s+1)
		copy(grown, d.posts)
		d.posts = grown
	}
	d.bumpNumStates(s)
	return &d.posts[s]
}

// Add inserts (s, a, t). Idempotent.
func (d *Delta) Add(s State, a Symbol, t State) {
	d.MutableStatePost(s).add(a, t)
	d.bumpNumStates(t)
}

// AddTargets merges targets into the SymbolPost for (s, a).
func (d *Delta) AddTargets(s State, a Symbol, targets container.OrdSet[State]) {
	d.MutableStatePost(s).addTargets(a, targets)
	for _, t := range targets.Elements() {
		d.bumpNumStates(t)
	}
}

// Remove deletes (s, a, t). Returns merr.NotFound if absent.
func (d *Delta) Remove(s State, a Symbol, t State) error {
	if int(s) >= len(d.posts) {
		return merr.New(fmt.Sprintf("state %d has no outgoing transitions", s), merr.NotFound)
	}
	return d.posts[s].remove(a, t)
}

// Contains reports whether (s, a, t) is present.
func (d *Delta) Contains(s State, a Symbol, t State) bool {
	if int(s) >= len(d.posts) {
		return false
	}
	return d.posts[s].Contains(a, t)
}

// ContainsTransition reports whether tr is present.
func (d *Delta) ContainsTransition(tr Transition) bool {
	return d.Contains(tr.Source, tr.Symbol, tr.Target)
}

// Transitions returns every (source, symbol, target) triple in ascending
// lexicographic (source, symbol, target) order. Each call computes a fresh
// slice, so the result is restartable and finite.
func (d *Delta) Transitions() []Transition {
	var out []Transition
	for s, post := range d.posts {
		for _, sp := range post.posts {
			for _, t := range sp.Targets.Elements() {
				out = append(out, Transition{Source: State(s), Symbol: sp.Symbol, Target: t})
			}
		}
	}
	return out
}

// NumOfTransitions returns the sum of target-set sizes across the whole
// relation.
func (d *Delta) NumOfTransitions() int {
	n := 0
	for _, post := range d.posts {
		for _, sp := range post.posts {
			n += sp.Targets.Len()
		}
	}
	return n
}

// GetUsedSymbols returns the sorted, unique set of symbols appearing
// anywhere in the relation.
func (d *Delta) GetUsedSymbols() container.OrdSet[Symbol] {
	var syms container.OrdSet[Symbol]
	for _, post := range d.posts {
		for _, sp := range post.posts {
			syms.Add(sp.Symbol)
		}
	}
	return syms
}

// AddSymbolsTo registers every symbol used in the relation into target,
// under the symbol's decimal-string name.
func (d *Delta) AddSymbolsTo(target alphabet.Alphabet) error {
	for _, sym := range d.GetUsedSymbols().Elements() {
		if _, err := target.RegisterNew(fmt.Sprintf("%d", sym)); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether d and other have identical canonical transition
// sequences.
func (d *Delta) Equal(other *Delta) bool {
	a, b := d.Transitions(), other.Transitions()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Copy returns an independent copy of d.
func (d *Delta) Copy() Delta {
	posts := make([]StatePost, len(d.posts))
	for i, p := range d.posts {
		np := make([]SymbolPost, len(p.posts))
		for j, sp := range p.posts {
			np[j] = SymbolPost{Symbol: sp.Symbol, Targets: sp.Targets.Copy()}
		}
		posts[i] = StatePost{posts: np}
	}
	return Delta{posts: posts, numStates: d.numStates}
}
