package nft

import (
	"fmt"

	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/dekarrin/mata/internal/core/merr"
)

// ProjectTo collapses t into an NFA recognizing the language of the given
// tape: transitions belonging to other tapes are turned into epsilons,
// then remove_epsilon and trim are applied.
func ProjectTo(t *Nft, level int) automaton.Nfa {
	n := automaton.New(t.Alphabet)
	for s := State(0); s < t.NumOfStates(); s++ {
		n.AddState()
	}
	n.Initial = t.Initial.Copy()
	n.Final = t.Final.Copy()

	for s := State(0); s < t.NumOfStates(); s++ {
		post := t.Delta.StatePost(s)
		for _, sp := range post.Moves() {
			sym := sp.Symbol
			if sp.Symbol != Epsilon && t.LevelOf(s) != level {
				sym = Epsilon
			}
			n.Delta.AddTargets(s, sym, sp.Targets)
		}
	}

	deEpsiloned := automaton.RemoveEpsilon(&n)
	trimmed, _ := automaton.Trim(&deEpsiloned)
	return trimmed
}

// Compose builds the product-like transducer T1 ∘ T2, synchronizing T1's
// last tape (its output) with T2's first tape (its input): a transition
// pair (s1,a,t1) on T1's last level and (s2,a,t2) on T2's first level
// produces one product transition advancing through both; transitions on
// T1's other tapes and T2's other tapes pass through independently.
//
// Both operands must share NumOfLevels, or LevelMismatch is returned.
func Compose(t1, t2 *Nft) (Nft, error) {
	if t1.NumOfLevels != t2.NumOfLevels {
		return Nft{}, merr.New(
			fmt.Sprintf("compose requires matching num_of_levels, got %d and %d", t1.NumOfLevels, t2.NumOfLevels),
			merr.LevelMismatch,
		)
	}
	numLevels := t1.NumOfLevels
	lastLevel := numLevels - 1

	type pair struct{ a, b State }
	out := New(t1.Alphabet, numLevels)
	stateOf := map[pair]State{}

	ensure := func(p pair, level int) (State, bool) {
		if s, ok := stateOf[p]; ok {
			return s, false
		}
		s := out.AddStateWithLevel(level)
		stateOf[p] = s
		return s, true
	}

	var queue []pair
	for _, ai := range t1.Initial.Elements() {
		for _, bi := range t2.Initial.Elements() {
			p := pair{ai, bi}
			s, fresh := ensure(p, 0)
			out.Initial.Add(s)
			if fresh {
				queue = append(queue, p)
			}
		}
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		src := stateOf[p]

		if t1.Final.Has(p.a) && t2.Final.Has(p.b) {
			out.Final.Add(src)
		}

		aPost := t1.Delta.StatePost(p.a)
		bPost := t2.Delta.StatePost(p.b)
		aLevel := t1.LevelOf(p.a)
		bLevel := t2.LevelOf(p.b)
		aMoves := aPost.Moves()

		// aParked is true once t1 has reached a final dead end with nothing
		// left of its own to offer. t2 may still be mid-cycle on its own
		// tapes at that point, and needs to be allowed to flush the rest of
		// that cycle before the pair can land on a shared final state;
		// without this, t2's pending output is stranded forever the moment
		// t1 stops producing transitions.
		aParked := len(aMoves) == 0 && t1.Final.Has(p.a)

		if !aParked && aLevel == lastLevel && bLevel == 0 {
			// Synchronizing step: a's output symbol must equal b's input symbol.
			for _, asp := range aPost.MovesSymbols(Epsilon) {
				if bsp, ok := bPost.Find(asp.Symbol); ok {
					for _, at := range asp.Targets.Elements() {
						for _, bt := range bsp.Targets.Elements() {
							np := pair{at, bt}
							dst, fresh := ensure(np, out.nextLevel(aLevel))
							if fresh {
								queue = append(queue, np)
							}
							out.Delta.Add(src, asp.Symbol, dst)
						}
					}
				}
			}
		} else if !aParked && aLevel != lastLevel {
			// t1 advancing an internal tape: t2 side stays put.
			for _, asp := range aMoves {
				for _, at := range asp.Targets.Elements() {
					np := pair{at, p.b}
					lvl := aLevel
					if asp.Symbol != Epsilon {
						lvl = out.nextLevel(aLevel)
					}
					dst, fresh := ensure(np, lvl)
					if fresh {
						queue = append(queue, np)
					}
					out.Delta.Add(src, asp.Symbol, dst)
				}
			}
		} else if bLevel != 0 {
			// t2 advancing (or flushing) an internal tape: t1 side stays put.
			for _, bsp := range bPost.Moves() {
				for _, bt := range bsp.Targets.Elements() {
					np := pair{p.a, bt}
					lvl := bLevel
					if bsp.Symbol != Epsilon {
						lvl = out.nextLevel(bLevel)
					}
					dst, fresh := ensure(np, lvl)
					if fresh {
						queue = append(queue, np)
					}
					out.Delta.Add(src, bsp.Symbol, dst)
				}
			}
		}
	}

	return out, nil
}

// ApplyBackward returns T ∘ Id(nfa): t composed with the identity
// transducer lifted from nfa, so the result's output-tape language is
// contained in L(nfa).
func ApplyBackward(t *Nft, n *automaton.Nfa) (Nft, error) {
	idT, err := CreateFromNfa(n, t.NumOfLevels, 0, nil)
	if err != nil {
		return Nft{}, err
	}
	return Compose(t, &idT)
}

// CreateFromNfa lifts n to a single-tape-per-symbol transducer: for each
// transition (s, a, u), numOfLevels-1 auxiliary states are inserted so
// consuming a takes exactly one full tape cycle; symbols in epsilons are
// preserved as Epsilon (no auxiliary states needed, the transition is
// copied as-is with no level advance). Auxiliary state count is computed
// exactly up front (states + transitions*(numOfLevels-1)), never
// overestimated.
func CreateFromNfa(n *automaton.Nfa, numOfLevels int, nextLevelSymbol Symbol, epsilons []Symbol) (Nft, error) {
	if numOfLevels <= 0 {
		return Nft{}, merr.New("create_from_nfa requires num_of_levels > 0", merr.InvalidArgument)
	}
	epsSet := map[Symbol]bool{}
	for _, e := range epsilons {
		epsSet[e] = true
	}

	out := New(n.Alphabet, numOfLevels)
	for s := State(0); s < n.NumOfStates(); s++ {
		out.AddStateWithLevel(0)
	}
	out.Initial = n.Initial.Copy()
	out.Final = n.Final.Copy()

	for s := State(0); s < n.NumOfStates(); s++ {
		post := n.Delta.StatePost(s)
		for _, sp := range post.Moves() {
			for _, tgt := range sp.Targets.Elements() {
				if sp.Symbol == automaton.Epsilon || epsSet[sp.Symbol] {
					out.Delta.Add(s, Epsilon, tgt)
					continue
				}
				if numOfLevels == 1 {
					out.Delta.Add(s, sp.Symbol, tgt)
					continue
				}
				cur := s
				for lvl := 1; lvl < numOfLevels; lvl++ {
					next := out.AddStateWithLevel(lvl)
					sym := nextLevelSymbol
					if lvl == 1 {
						sym = sp.Symbol
					}
					out.Delta.Add(cur, sym, next)
					cur = next
				}
				out.Delta.Add(cur, nextLevelSymbol, tgt)
			}
		}
	}
	return out, nil
}
