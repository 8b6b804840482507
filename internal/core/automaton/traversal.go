package automaton

import "github.com/dekarrin/mata/internal/core/container"

// forwardReachable returns every state reachable from seeds, following
// transitions in the direction they're stored.
func forwardReachable(d *Delta, numStates State, seeds []State) container.StateIndicator {
	var visited container.StateIndicator
	queue := append([]State{}, seeds...)
	for _, s := range seeds {
		visited.Add(s)
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if int(s) >= int(numStates) {
			continue
		}
		for _, sp := range d.StatePost(s).Moves() {
			for _, t := range sp.Targets.Elements() {
				if visited.Add(t) {
					queue = append(queue, t)
				}
			}
		}
	}
	return visited
}

// backwardReachable returns every state that can reach some seed, using the
// reverse adjacency built from the whole relation.
func backwardReachable(d *Delta, numStates State, seeds []State) container.StateIndicator {
	// Build reverse adjacency once; numStates bounds both dimensions.
	rev := make([][]State, numStates)
	for s := State(0); s < numStates; s++ {
		for _, sp := range d.StatePost(s).Moves() {
			for _, t := range sp.Targets.Elements() {
				rev[t] = append(rev[t], s)
			}
		}
	}

	var visited container.StateIndicator
	queue := append([]State{}, seeds...)
	for _, s := range seeds {
		visited.Add(s)
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, p := range rev[s] {
			if visited.Add(p) {
				queue = append(queue, p)
			}
		}
	}
	return visited
}

// Trim removes every state that is not both forward-reachable from some
// initial state and backward-reachable to some final state, renumbering the
// surviving states to a contiguous range starting at 0. It returns the new
// automaton and the mapping from old state to new state (states not in the
// mapping were removed).
func Trim(n *Nfa) (Nfa, map[State]State) {
	numStates := n.NumOfStates()
	fwd := forwardReachable(&n.Delta, numStates, n.Initial.Elements())
	bwd := backwardReachable(&n.Delta, numStates, n.Final.Elements())

	mapping := map[State]State{}
	var next State
	for s := State(0); s < numStates; s++ {
		if fwd.Has(s) && bwd.Has(s) {
			mapping[s] = next
			next++
		}
	}

	out := New(n.Alphabet)
	out.numStates = next
	for s := State(0); s < numStates; s++ {
		newS, ok := mapping[s]
		if !ok {
			continue
		}
		for _, sp := range n.Delta.StatePost(s).Moves() {
			for _, t := range sp.Targets.Elements() {
				newT, ok := mapping[t]
				if !ok {
					continue
				}
				out.Delta.Add(newS, sp.Symbol, newT)
			}
		}
	}
	for _, s := range n.Initial.Elements() {
		if newS, ok := mapping[s]; ok {
			out.Initial.Add(newS)
		}
	}
	for _, s := range n.Final.Elements() {
		if newS, ok := mapping[s]; ok {
			out.Final.Add(newS)
		}
	}
	return out, mapping
}

// Revert swaps initial and final and reverses every transition. The
// resulting automaton's language is the reverse of n's.
func Revert(n *Nfa) Nfa {
	out := New(n.Alphabet)
	out.numStates = n.NumOfStates()
	for s := State(0); s < n.NumOfStates(); s++ {
		for _, sp := range n.Delta.StatePost(s).Moves() {
			for _, t := range sp.Targets.Elements() {
				out.Delta.Add(t, sp.Symbol, s)
			}
		}
	}
	out.Initial = n.Final.Copy()
	out.Final = n.Initial.Copy()
	return out
}

// epsilonClosure returns the set of states reachable from seed via zero or
// more Epsilon transitions, including seed itself.
func epsilonClosure(d *Delta, seed State) container.StateIndicator {
	var closure container.StateIndicator
	queue := []State{seed}
	closure.Add(seed)
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		post := d.StatePost(s)
		for _, sp := range post.MovesEpsilons(Epsilon) {
			if sp.Symbol != Epsilon {
				continue
			}
			for _, t := range sp.Targets.Elements() {
				if closure.Add(t) {
					queue = append(queue, t)
				}
			}
		}
	}
	return closure
}

// RemoveEpsilon returns an equivalent automaton with no Epsilon
// transitions. For each non-epsilon edge (u, a, v) with u in the
// epsilon-closure of s, the result gains (s, a, v); s becomes final if any
// state in its closure is final.
func RemoveEpsilon(n *Nfa) Nfa {
	out := New(n.Alphabet)
	numStates := n.NumOfStates()
	out.numStates = numStates

	closures := make([]container.StateIndicator, numStates)
	for s := State(0); s < numStates; s++ {
		closures[s] = epsilonClosure(&n.Delta, s)
	}

	for s := State(0); s < numStates; s++ {
		for _, u := range closures[s].Elements() {
			for _, sp := range n.Delta.StatePost(u).MovesSymbols(Epsilon) {
				out.Delta.AddTargets(s, sp.Symbol, sp.Targets)
			}
			if n.Final.Has(u) {
				out.Final.Add(s)
			}
		}
	}
	out.Initial = n.Initial.Copy()
	return out
}
