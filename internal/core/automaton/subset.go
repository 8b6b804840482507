package automaton

import (
	"strconv"
	"strings"

	"github.com/dekarrin/mata/internal/core/container"
	"github.com/dekarrin/mata/internal/core/merr"
)

// macroKey canonicalizes a sorted-unique set of states into a comparable
// map key. States are already ascending in an OrdSet, so two macro-states
// with the same membership always produce the same key regardless of
// discovery order.
func macroKey(members container.OrdSet[State]) string {
	var sb strings.Builder
	for i, s := range members.Elements() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(s), 10))
	}
	return sb.String()
}

func intersectsFinal(members container.OrdSet[State], final container.StateIndicator) bool {
	for _, s := range members.Elements() {
		if final.Has(s) {
			return true
		}
	}
	return false
}

// Determinize builds the DFA accepting the same language as n via the
// classical worklist subset construction (purple dragon book, algorithm
// 3.20). n must not contain Epsilon transitions; call RemoveEpsilon first
// if it might.
func Determinize(n *Nfa) (Nfa, error) {
	if n.Delta.GetUsedSymbols().Has(Epsilon) {
		return Nfa{}, merr.New("determinize requires an epsilon-free automaton", merr.Unsupported)
	}

	symbols := n.Delta.GetUsedSymbols()
	out := New(n.Alphabet)

	var initMembers container.OrdSet[State]
	for _, s := range n.Initial.Elements() {
		initMembers.Add(s)
	}

	macroToState := map[string]State{}
	startState := out.AddState()
	out.Initial.Add(startState)
	startKey := macroKey(initMembers)
	macroToState[startKey] = startState

	type pending struct {
		key     string
		members container.OrdSet[State]
	}
	worklist := []pending{{key: startKey, members: initMembers}}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		qState := macroToState[cur.key]

		if intersectsFinal(cur.members, n.Final) {
			out.Final.Add(qState)
		}

		for _, a := range symbols.Elements() {
			var target container.OrdSet[State]
			for _, s := range cur.members.Elements() {
				post := n.Delta.StatePost(s)
				if sp, ok := post.Find(a); ok {
					target.Merge(sp.Targets)
				}
			}
			if target.Empty() {
				continue
			}
			tKey := macroKey(target)
			tState, seen := macroToState[tKey]
			if !seen {
				tState = out.AddState()
				macroToState[tKey] = tState
				worklist = append(worklist, pending{key: tKey, members: target})
			}
			out.Delta.Add(qState, a, tState)
		}
	}

	return out, nil
}
