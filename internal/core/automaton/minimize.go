package automaton

import (
	"github.com/dekarrin/mata/internal/core/container"
	"github.com/dekarrin/mata/internal/core/merr"
)

// complete returns a copy of d with a transition on every symbol in symbols
// from every state, routing anything missing to a shared sink state. It
// reports whether a sink was actually needed.
func complete(d *Nfa, symbols []Symbol) (Nfa, bool) {
	out := d.Copy()
	sink := out.AddState()
	used := false
	for s := State(0); s < d.NumOfStates(); s++ {
		post := d.Delta.StatePost(s)
		for _, a := range symbols {
			if _, ok := post.Find(a); !ok {
				out.Delta.Add(s, a, sink)
				used = true
			}
		}
	}
	if used {
		for _, a := range symbols {
			out.Delta.Add(sink, a, sink)
		}
	}
	return out, used
}

// Minimize returns the minimal DFA equivalent to d, via Hopcroft partition
// refinement. d must be deterministic; it is completed over symbols with a
// sink state first if it is not already total, and the sink is trimmed back
// out of the result afterwards if it turns out to be dead (unreachable, as
// it always is whenever d was already total).
func Minimize(d *Nfa, symbols []Symbol) (Nfa, error) {
	if !d.IsDeterministic() {
		return Nfa{}, merr.New("minimize requires a deterministic automaton", merr.Unsupported)
	}

	work, _ := complete(d, symbols)
	numStates := int(work.NumOfStates())
	if numStates == 0 {
		return work, nil
	}

	// predecessors[a][s] = set of states with a transition to s on symbol a.
	pred := make(map[Symbol][][]State, len(symbols))
	for _, a := range symbols {
		pred[a] = make([][]State, numStates)
	}
	for s := State(0); s < State(numStates); s++ {
		post := work.Delta.StatePost(s)
		for _, a := range symbols {
			if sp, ok := post.Find(a); ok {
				for _, t := range sp.Targets.Elements() {
					pred[a][t] = append(pred[a][t], s)
				}
			}
		}
	}

	// Initial partition: final vs non-final.
	var finalSet, nonFinalSet container.StateIndicator
	for s := State(0); s < State(numStates); s++ {
		if work.Final.Has(s) {
			finalSet.Add(s)
		} else {
			nonFinalSet.Add(s)
		}
	}

	type block = container.StateIndicator
	var partition []block
	if !finalSet.Empty() {
		partition = append(partition, finalSet)
	}
	if !nonFinalSet.Empty() {
		partition = append(partition, nonFinalSet)
	}

	var worklist []block
	if !finalSet.Empty() && !nonFinalSet.Empty() {
		if finalSet.Len() <= nonFinalSet.Len() {
			worklist = append(worklist, finalSet)
		} else {
			worklist = append(worklist, nonFinalSet)
		}
	} else {
		worklist = append(worklist, partition[0])
	}

	for len(worklist) > 0 {
		splitter := worklist[0]
		worklist = worklist[1:]

		for _, a := range symbols {
			var preimage container.StateIndicator
			for _, s := range splitter.Elements() {
				for _, p := range pred[a][s] {
					preimage.Add(p)
				}
			}
			if preimage.Empty() {
				continue
			}

			var newPartition []block
			for _, b := range partition {
				var inX, notInX container.StateIndicator
				for _, s := range b.Elements() {
					if preimage.Has(s) {
						inX.Add(s)
					} else {
						notInX.Add(s)
					}
				}
				if inX.Empty() || notInX.Empty() {
					newPartition = append(newPartition, b)
					continue
				}
				newPartition = append(newPartition, inX, notInX)

				replaced := false
				for i, w := range worklist {
					if sameBlock(w, b) {
						worklist[i] = inX
						worklist = append(worklist, notInX)
						replaced = true
						break
					}
				}
				if !replaced {
					if inX.Len() <= notInX.Len() {
						worklist = append(worklist, inX)
					} else {
						worklist = append(worklist, notInX)
					}
				}
			}
			partition = newPartition
		}
	}

	classOf := make([]int, numStates)
	for ci, b := range partition {
		for _, s := range b.Elements() {
			classOf[s] = ci
		}
	}

	out := New(d.Alphabet)
	for range partition {
		out.AddState()
	}
	seenSrc := make([]bool, len(partition))
	for s := State(0); s < State(numStates); s++ {
		c := classOf[s]
		if work.Initial.Has(s) {
			out.Initial.Add(State(c))
		}
		if work.Final.Has(s) {
			out.Final.Add(State(c))
		}
		if seenSrc[c] {
			continue
		}
		seenSrc[c] = true
		post := work.Delta.StatePost(s)
		for _, sp := range post.Moves() {
			for _, t := range sp.Targets.Elements() {
				out.Delta.Add(State(c), sp.Symbol, State(classOf[t]))
			}
		}
	}

	trimmed, _ := Trim(&out)
	return trimmed, nil
}

func sameBlock(a, b container.StateIndicator) bool {
	if a.Len() != b.Len() {
		return false
	}
	ae, be := a.Elements(), b.Elements()
	for i := range ae {
		if ae[i] != be[i] {
			return false
		}
	}
	return true
}
