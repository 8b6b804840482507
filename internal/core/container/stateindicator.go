package container

// StateIndicator is a set-like view over a state universe supporting O(1)
// membership and sorted iteration in O(n + k) for a universe of size n with
// k members. It backs the initial/final state sets of an automaton.
//
// The zero value is an empty indicator over an empty universe; it grows on
// demand as states are added.
type StateIndicator struct {
	dense []bool
	count int
}

// Add marks s as a member, growing the backing storage if needed. Reports
// whether s was newly added.
func (si *StateIndicator) Add(s State) bool {
	si.growTo(s)
	if si.dense[s] {
		return false
	}
	si.dense[s] = true
	si.count++
	return true
}

// AddAll adds every state in other to si.
func (si *StateIndicator) AddAll(other StateIndicator) {
	for _, s := range other.Elements() {
		si.Add(s)
	}
}

// Remove unmarks s as a member. Reports whether s had been a member.
func (si *StateIndicator) Remove(s State) bool {
	if int(s) >= len(si.dense) || !si.dense[s] {
		return false
	}
	si.dense[s] = false
	si.count--
	return true
}

// Has reports whether s is a member.
func (si StateIndicator) Has(s State) bool {
	return int(s) < len(si.dense) && si.dense[s]
}

// Len returns the number of members.
func (si StateIndicator) Len() int {
	return si.count
}

// Empty reports whether the indicator has no members.
func (si StateIndicator) Empty() bool {
	return si.count == 0
}

// Elements returns the members in ascending order.
func (si StateIndicator) Elements() []State {
	out := make([]State, 0, si.count)
	for i, set := range si.dense {
		if set {
			out = append(out, State(i))
		}
	}
	return out
}

// Intersects reports whether si and other share at least one member.
func (si StateIndicator) Intersects(other StateIndicator) bool {
	short, long := si, other
	if len(long.dense) < len(short.dense) {
		short, long = long, short
	}
	for i, set := range short.dense {
		if set && long.Has(State(i)) {
			return true
		}
	}
	return false
}

// Any reports whether any member satisfies predicate.
func (si StateIndicator) Any(predicate func(State) bool) bool {
	for i, set := range si.dense {
		if set && predicate(State(i)) {
			return true
		}
	}
	return false
}

// Copy returns an independent copy of si.
func (si StateIndicator) Copy() StateIndicator {
	dense := make([]bool, len(si.dense))
	copy(dense, si.dense)
	return StateIndicator{dense: dense, count: si.count}
}

// Clear removes every member without shrinking backing storage.
func (si *StateIndicator) Clear() {
	for i := range si.dense {
		si.dense[i] = false
	}
	si.count = 0
}

func (si *StateIndicator) growTo(s State) {
	if int(s) < len(si.dense) {
		return
	}
	grown := make([]bool, s+1)
	copy(grown, si.dense)
	si.dense = grown
}
