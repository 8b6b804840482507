// Package alphabet models the symbol-naming capability an automaton borrows
// from its front end. The core never interprets a container.Symbol beyond
// equality and order; translating between human-readable names and Symbol
// values is entirely delegated to the Alphabet interface implemented here.
//
// Three concrete variants are provided, matching the three styles of
// front end the Mata text format and the regex/string-constraint callers
// need: a decimal-integer alphabet, a fixed enumerated alphabet, and an
// on-the-fly alphabet that mints a new Symbol the first time it sees a
// name.
package alphabet

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dekarrin/mata/internal/core/container"
	"github.com/dekarrin/mata/internal/core/merr"
	"golang.org/x/text/unicode/norm"
)

// normalizeName puts a multi-character symbol name into Unicode NFC form,
// so that e.g. a precomposed "é" and the decomposed "e"+combining-acute
// from two different callers (or two different Mata text files) name the
// same symbol instead of silently minting two.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}

// Alphabet is the capability interface the core borrows from a front end.
// Implementations must give EPSILON and DONT_CARE their usual meaning where
// those names are recognized; the core itself never calls TranslateName or
// RegisterNew with those special values.
type Alphabet interface {
	// TranslateName resolves a symbol's display name to its Symbol value.
	// Returns an error wrapping merr.NotFound if name is unknown and the
	// alphabet does not mint new symbols on lookup.
	TranslateName(name string) (container.Symbol, error)

	// TranslateSymbol resolves a Symbol back to its display name.
	TranslateSymbol(sym container.Symbol) (string, error)

	// Symbols enumerates every symbol currently known to the alphabet, in
	// ascending order.
	Symbols() []container.Symbol

	// RegisterNew adds name to the alphabet if not already present and
	// returns its Symbol.
	RegisterNew(name string) (container.Symbol, error)
}

// IntAlphabet is an alphabet whose symbol names are the decimal string
// representation of the Symbol's numeric value. It never mints symbols:
// every decimal integer is already a valid member.
type IntAlphabet struct{}

// NewIntAlphabet returns a ready-to-use IntAlphabet.
func NewIntAlphabet() IntAlphabet { return IntAlphabet{} }

func (IntAlphabet) TranslateName(name string) (container.Symbol, error) {
	n, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return 0, merr.New(fmt.Sprintf("not an integer symbol name: %q", name), merr.InvalidArgument)
	}
	return container.Symbol(n), nil
}

func (IntAlphabet) TranslateSymbol(sym container.Symbol) (string, error) {
	return strconv.FormatUint(uint64(sym), 10), nil
}

// Symbols always returns nil: an IntAlphabet has no fixed enumeration, every
// non-negative integer is a potential member.
func (IntAlphabet) Symbols() []container.Symbol { return nil }

func (a IntAlphabet) RegisterNew(name string) (container.Symbol, error) {
	return a.TranslateName(name)
}

// EnumAlphabet is an alphabet over a fixed, finite, pre-registered set of
// named symbols. RegisterNew on an unknown name fails with
// merr.InvalidArgument: the enumeration is closed.
type EnumAlphabet struct {
	byName map[string]container.Symbol
	bySym  map[container.Symbol]string
}

// NewEnumAlphabet builds a closed alphabet assigning symbols 0..len(names)-1
// to names in the order given.
func NewEnumAlphabet(names ...string) EnumAlphabet {
	a := EnumAlphabet{byName: map[string]container.Symbol{}, bySym: map[container.Symbol]string{}}
	for i, n := range names {
		n = normalizeName(n)
		sym := container.Symbol(i)
		a.byName[n] = sym
		a.bySym[sym] = n
	}
	return a
}

func (a EnumAlphabet) TranslateName(name string) (container.Symbol, error) {
	sym, ok := a.byName[normalizeName(name)]
	if !ok {
		return 0, merr.New(fmt.Sprintf("symbol name not in alphabet: %q", name), merr.NotFound)
	}
	return sym, nil
}

func (a EnumAlphabet) TranslateSymbol(sym container.Symbol) (string, error) {
	name, ok := a.bySym[sym]
	if !ok {
		return "", merr.New(fmt.Sprintf("symbol not in alphabet: %d", sym), merr.NotFound)
	}
	return name, nil
}

func (a EnumAlphabet) Symbols() []container.Symbol {
	out := make([]container.Symbol, 0, len(a.bySym))
	for sym := range a.bySym {
		out = append(out, sym)
	}
	sortSymbols(out)
	return out
}

func (a EnumAlphabet) RegisterNew(name string) (container.Symbol, error) {
	if sym, ok := a.byName[normalizeName(name)]; ok {
		return sym, nil
	}
	return 0, merr.New(fmt.Sprintf("cannot register %q: enum alphabet is closed", name), merr.Unsupported)
}

// OnTheFlyAlphabet mints a new Symbol the first time RegisterNew (or
// TranslateName, which delegates to it) sees a name, matching the Mata text
// format's %Alphabet-auto directive.
type OnTheFlyAlphabet struct {
	byName map[string]container.Symbol
	bySym  map[container.Symbol]string
	next   container.Symbol
}

// NewOnTheFlyAlphabet returns an empty on-the-fly alphabet.
func NewOnTheFlyAlphabet() *OnTheFlyAlphabet {
	return &OnTheFlyAlphabet{byName: map[string]container.Symbol{}, bySym: map[container.Symbol]string{}}
}

func (a *OnTheFlyAlphabet) TranslateName(name string) (container.Symbol, error) {
	return a.RegisterNew(name)
}

func (a *OnTheFlyAlphabet) TranslateSymbol(sym container.Symbol) (string, error) {
	name, ok := a.bySym[sym]
	if !ok {
		return "", merr.New(fmt.Sprintf("symbol not registered: %d", sym), merr.NotFound)
	}
	return name, nil
}

func (a *OnTheFlyAlphabet) Symbols() []container.Symbol {
	out := make([]container.Symbol, 0, len(a.bySym))
	for sym := range a.bySym {
		out = append(out, sym)
	}
	sortSymbols(out)
	return out
}

func (a *OnTheFlyAlphabet) RegisterNew(name string) (container.Symbol, error) {
	name = normalizeName(name)
	if sym, ok := a.byName[name]; ok {
		return sym, nil
	}
	sym := a.next
	a.next++
	a.byName[name] = sym
	a.bySym[sym] = name
	return sym, nil
}

func sortSymbols(syms []container.Symbol) {
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
}
