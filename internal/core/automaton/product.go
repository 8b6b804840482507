package automaton

import (
	"sort"

	"github.com/dekarrin/mata/internal/core/container"
	"github.com/dekarrin/mata/internal/core/merr"
)

// ProductPair identifies one state of a product construction by the pair of
// component states it was built from.
type ProductPair struct {
	A, B State
}

// Product builds the synchronous product of a and b. For every symbol
// other than eps present in both automata's outgoing transitions at a
// frontier pair, and for every combination of their targets, a product
// transition is added. Epsilon transitions of either operand are copied
// through without requiring a matching epsilon on the other side (epsilons
// never synchronize). accept decides whether a product state is final,
// given whether its A- and B-components are each final; this lets the same
// construction serve intersection (final iff both final) and, with a
// complemented B, difference.
//
// If productMap is non-nil, it is populated with the pair -> product-state
// mapping.
func Product(a, b *Nfa, eps Symbol, accept func(aFinal, bFinal bool) bool, productMap map[ProductPair]State) Nfa {
	out := New(a.Alphabet)
	stateOf := map[ProductPair]State{}

	ensure := func(p ProductPair) (State, bool) {
		if s, ok := stateOf[p]; ok {
			return s, false
		}
		s := out.AddState()
		stateOf[p] = s
		if productMap != nil {
			productMap[p] = s
		}
		return s, true
	}

	var queue []ProductPair
	for _, ai := range a.Initial.Elements() {
		for _, bi := range b.Initial.Elements() {
			p := ProductPair{ai, bi}
			s, fresh := ensure(p)
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

		if accept(a.Final.Has(p.A), b.Final.Has(p.B)) {
			out.Final.Add(src)
		}

		aPost := a.Delta.StatePost(p.A)
		bPost := b.Delta.StatePost(p.B)

		for _, aSP := range aPost.MovesSymbols(eps) {
			bSP, ok := bPost.Find(aSP.Symbol)
			if !ok {
				continue
			}
			for _, at := range aSP.Targets.Elements() {
				for _, bt := range bSP.Targets.Elements() {
					np := ProductPair{at, bt}
					dst, fresh := ensure(np)
					if fresh {
						queue = append(queue, np)
					}
					out.Delta.Add(src, aSP.Symbol, dst)
				}
			}
		}

		if aEps, ok := aPost.Find(eps); ok {
			for _, at := range aEps.Targets.Elements() {
				np := ProductPair{at, p.B}
				dst, fresh := ensure(np)
				if fresh {
					queue = append(queue, np)
				}
				out.Delta.Add(src, eps, dst)
			}
		}
		if bEps, ok := bPost.Find(eps); ok {
			for _, bt := range bEps.Targets.Elements() {
				np := ProductPair{p.A, bt}
				dst, fresh := ensure(np)
				if fresh {
					queue = append(queue, np)
				}
				out.Delta.Add(src, eps, dst)
			}
		}
	}

	return out
}

// Intersection returns the automaton accepting L(a) ∩ L(b).
func Intersection(a, b *Nfa, productMap map[ProductPair]State) Nfa {
	return Product(a, b, Epsilon, func(af, bf bool) bool { return af && bf }, productMap)
}

// Concatenate returns the automaton accepting L(a)·L(b): a copy of a with
// an epsilon edge from every final state of a to every initial state of b
// (relabelled into the combined state space), final iff in b.
func Concatenate(a, b *Nfa) Nfa {
	out := New(a.Alphabet)
	offset := a.NumOfStates()

	for s := State(0); s < a.NumOfStates(); s++ {
		for _, sp := range a.Delta.StatePost(s).Moves() {
			out.Delta.AddTargets(s, sp.Symbol, sp.Targets)
		}
	}
	for s := State(0); s < b.NumOfStates(); s++ {
		for _, sp := range b.Delta.StatePost(s).Moves() {
			var shifted container.OrdSet[State]
			for _, t := range sp.Targets.Elements() {
				shifted.Add(t + offset)
			}
			out.Delta.AddTargets(s+offset, sp.Symbol, shifted)
		}
	}
	out.numStates = offset + b.NumOfStates()

	out.Initial = a.Initial.Copy()
	for _, af := range a.Final.Elements() {
		for _, bi := range b.Initial.Elements() {
			out.Delta.Add(af, Epsilon, bi+offset)
		}
	}
	for _, bf := range b.Final.Elements() {
		out.Final.Add(bf + offset)
	}
	return out
}

// UniteNondetWith returns the automaton accepting L(a) ∪ L(b), built as the
// disjoint union of a and b with a fresh initial state epsilon-linked to
// both operands' initial states.
func UniteNondetWith(a, b *Nfa) Nfa {
	out := New(a.Alphabet)
	offset := a.NumOfStates()

	for s := State(0); s < a.NumOfStates(); s++ {
		for _, sp := range a.Delta.StatePost(s).Moves() {
			out.Delta.AddTargets(s, sp.Symbol, sp.Targets)
		}
	}
	for s := State(0); s < b.NumOfStates(); s++ {
		for _, sp := range b.Delta.StatePost(s).Moves() {
			var shifted container.OrdSet[State]
			for _, t := range sp.Targets.Elements() {
				shifted.Add(t + offset)
			}
			out.Delta.AddTargets(s+offset, sp.Symbol, shifted)
		}
	}
	out.numStates = offset + b.NumOfStates()

	newInit := out.AddState()
	for _, ai := range a.Initial.Elements() {
		out.Delta.Add(newInit, Epsilon, ai)
	}
	for _, bi := range b.Initial.Elements() {
		out.Delta.Add(newInit, Epsilon, bi+offset)
	}
	out.Initial.Add(newInit)

	for _, af := range a.Final.Elements() {
		out.Final.Add(af)
	}
	for _, bf := range b.Final.Elements() {
		out.Final.Add(bf + offset)
	}
	return out
}

// ComplementDeterministic returns the automaton accepting symbols* \ L(d),
// for a deterministic d complete over symbols (missing transitions are
// routed to a fresh non-accepting sink state added for this purpose). d
// must be deterministic; an Unsupported error is returned otherwise.
func ComplementDeterministic(d *Nfa, symbols []Symbol) (Nfa, error) {
	if !d.IsDeterministic() {
		return Nfa{}, merr.New("complement_deterministic requires a deterministic automaton", merr.Unsupported)
	}

	out := d.Copy()
	sink := out.AddState()
	sinkNeeded := false

	for s := State(0); s < d.NumOfStates(); s++ {
		post := d.Delta.StatePost(s)
		for _, a := range symbols {
			if _, ok := post.Find(a); !ok {
				out.Delta.Add(s, a, sink)
				sinkNeeded = true
			}
		}
	}
	if sinkNeeded {
		for _, a := range symbols {
			out.Delta.Add(sink, a, sink)
		}
	}

	oldFinal := out.Final
	out.Final = container.StateIndicator{}
	for s := State(0); s < out.NumOfStates(); s++ {
		if !oldFinal.Has(s) {
			out.Final.Add(s)
		}
	}
	return out, nil
}

// signature identifies a state's merge-class for Reduce: its finality and
// the sorted list of (symbol, target-class) pairs it can reach. States
// with equal signatures are behaviorally interchangeable and are merged.
type stateSig struct {
	final bool
	moves string
}

// Reduce returns a simulation-based quotient of n: states with identical
// outgoing-transition signatures (same symbols, same target classes, same
// finality) are merged into one representative, iterated to a fixpoint.
// This merges exactly-bisimilar states; it is a sound (language-preserving)
// but not necessarily minimal reduction, matching the "reduce" entry of
// the external Transformation API.
func Reduce(n *Nfa) Nfa {
	numStates := n.NumOfStates()
	class := make([]int, numStates)
	for i := range class {
		class[i] = 0
		if n.Final.Has(State(i)) {
			class[i] = 1
		}
	}

	for {
		sigToClass := map[string]int{}
		newClass := make([]int, numStates)
		changed := false
		for s := State(0); s < numStates; s++ {
			sig := stateSig{final: n.Final.Has(s)}
			var sb []byte
			for _, sp := range n.Delta.StatePost(s).Moves() {
				sb = append(sb, []byte(formatMove(sp.Symbol, sp.Targets, class))...)
			}
			sig.moves = string(sb)
			key := formatSig(sig)
			c, ok := sigToClass[key]
			if !ok {
				c = len(sigToClass)
				sigToClass[key] = c
			}
			newClass[s] = c
			if newClass[s] != class[s] {
				changed = true
			}
		}
		class = newClass
		if !changed {
			break
		}
	}

	out := New(n.Alphabet)
	repOf := map[int]State{}
	for s := State(0); s < numStates; s++ {
		if _, ok := repOf[class[s]]; !ok {
			repOf[class[s]] = out.AddState()
		}
	}
	for s := State(0); s < numStates; s++ {
		rep := repOf[class[s]]
		if n.Final.Has(s) {
			out.Final.Add(rep)
		}
		if n.Initial.Has(s) {
			out.Initial.Add(rep)
		}
		for _, sp := range n.Delta.StatePost(s).Moves() {
			for _, t := range sp.Targets.Elements() {
				out.Delta.Add(rep, sp.Symbol, repOf[class[t]])
			}
		}
	}
	return out
}

func formatMove(sym Symbol, targets container.OrdSet[State], class []int) string {
	seen := map[int]bool{}
	var classes []int
	for _, t := range targets.Elements() {
		c := class[t]
		if !seen[c] {
			seen[c] = true
			classes = append(classes, c)
		}
	}
	sort.Ints(classes)

	var sb []byte
	sb = append(sb, '|')
	sb = append(sb, []byte(formatUint(uint64(sym)))...)
	sb = append(sb, ':')
	for _, c := range classes {
		sb = append(sb, []byte(formatUint(uint64(c)))...)
		sb = append(sb, ',')
	}
	return string(sb)
}

func formatSig(sig stateSig) string {
	if sig.final {
		return "F" + sig.moves
	}
	return "N" + sig.moves
}

func formatUint(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
