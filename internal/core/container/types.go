// Package container holds the two leaf data structures the rest of the
// automaton core is built on: a sorted-unique ordered set (used for sets of
// States and sets of Symbols alike) and a sparse-dense state indicator (used
// for the initial/final state sets of an automaton).
package container

// Symbol is an unsigned identifier for an alphabet symbol. The core never
// interprets a Symbol's value beyond equality and total order; name
// resolution is delegated to an alphabet handle.
type Symbol uint64

// State is an unsigned index into an automaton's state universe. States
// form a contiguous range [0, N); the universe grows by appending.
const (
	// Epsilon is the silent transition marker. It is numerically the
	// largest representable Symbol so that, in any symbol-sorted sequence,
	// it always sorts last.
	Epsilon Symbol = ^Symbol(0)

	// DontCare is a wildcard symbol reserved for the transducer builder. It
	// is guaranteed distinct from Epsilon but otherwise carries no special
	// meaning to the core.
	DontCare Symbol = Epsilon - 1
)

// State is an unsigned index identifying one state of an automaton.
type State uint64
