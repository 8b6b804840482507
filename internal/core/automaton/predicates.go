package automaton

import "github.com/dekarrin/mata/internal/core/container"

// IsLangEmpty reports whether n accepts no word. When it does not, it also
// returns a shortest accepted word as a witness, found via BFS over the
// transition relation (epsilons count as a zero-length hop).
func IsLangEmpty(n *Nfa) (bool, []Symbol) {
	type step struct {
		state State
		via   Symbol
		from  int // index into visited order, -1 for a seed
	}
	var order []step
	seen := make(map[State]int)

	for _, s := range n.Initial.Elements() {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = len(order)
		order = append(order, step{state: s, via: 0, from: -1})
	}

	reconstruct := func(idx int) []Symbol {
		var rev []Symbol
		for idx != -1 {
			st := order[idx]
			if st.from != -1 {
				rev = append(rev, st.via)
			}
			idx = st.from
		}
		word := make([]Symbol, len(rev))
		for i, sym := range rev {
			word[len(rev)-1-i] = sym
		}
		return word
	}

	for _, s := range n.Initial.Elements() {
		if n.Final.Has(s) {
			return false, reconstruct(seen[s])
		}
	}

	head := 0
	for head < len(order) {
		cur := order[head]
		post := n.Delta.StatePost(cur.state)
		for _, sp := range post.Moves() {
			for _, t := range sp.Targets.Elements() {
				if _, ok := seen[t]; ok {
					continue
				}
				seen[t] = len(order)
				order = append(order, step{state: t, via: sp.Symbol, from: head})
				if n.Final.Has(t) {
					return false, reconstruct(seen[t])
				}
			}
		}
		head++
	}

	return true, nil
}

// IsInLang reports whether n accepts word, by simulating all active NFA
// states (epsilon-closed) symbol by symbol.
func IsInLang(n *Nfa, word []Symbol) bool {
	var cur container.StateIndicator
	for _, s := range n.Initial.Elements() {
		for _, t := range epsilonClosure(&n.Delta, s).Elements() {
			cur.Add(t)
		}
	}

	for _, sym := range word {
		var nextClosed container.StateIndicator
		for _, s := range cur.Elements() {
			post := n.Delta.StatePost(s)
			if sp, ok := post.Find(sym); ok {
				for _, t := range sp.Targets.Elements() {
					for _, c := range epsilonClosure(&n.Delta, t).Elements() {
						nextClosed.Add(c)
					}
				}
			}
		}
		cur = nextClosed
	}

	for _, s := range cur.Elements() {
		if n.Final.Has(s) {
			return true
		}
	}
	return false
}

// IsUniversal reports whether n accepts every word over symbols. Computed
// by determinizing (after removing epsilons), complementing, and checking
// the complement's language for emptiness; when not universal, a shortest
// rejected word is returned as a witness.
func IsUniversal(n *Nfa, symbols []Symbol) (bool, []Symbol, error) {
	eps := RemoveEpsilon(n)
	det, err := Determinize(&eps)
	if err != nil {
		return false, nil, err
	}
	comp, err := ComplementDeterministic(&det, symbols)
	if err != nil {
		return false, nil, err
	}
	empty, witness := IsLangEmpty(&comp)
	return empty, witness, nil
}

// IsIncluded reports whether L(a) subseteq L(b). Computed as
// L(a) ∩ complement(determinize(b)) == ∅; when not included, a shortest
// word in L(a)\L(b) is returned as a witness.
func IsIncluded(a, b *Nfa, symbols []Symbol) (bool, []Symbol, error) {
	bEps := RemoveEpsilon(b)
	bDet, err := Determinize(&bEps)
	if err != nil {
		return false, nil, err
	}
	bComp, err := ComplementDeterministic(&bDet, symbols)
	if err != nil {
		return false, nil, err
	}
	diff := Intersection(a, &bComp, nil)
	empty, witness := IsLangEmpty(&diff)
	return empty, witness, nil
}

// AreEquivalent reports whether L(a) == L(b), via mutual inclusion.
func AreEquivalent(a, b *Nfa, symbols []Symbol) (bool, error) {
	aInB, _, err := IsIncluded(a, b, symbols)
	if err != nil {
		return false, err
	}
	if !aInB {
		return false, nil
	}
	bInA, _, err := IsIncluded(b, a, symbols)
	if err != nil {
		return false, err
	}
	return bInA, nil
}
