// Package matatext is the external parser/printer collaborator for the Mata
// text format: it turns automaton.Nfa/nft.Nft values into the
// "@NFA-explicit"/"@NFT-explicit" section syntax and back, and renders
// either kind of automaton as DOT for visualization.
//
// The core (automaton, nft) never parses this format itself — per the
// spec's external-interfaces split, matatext is the only package that
// touches text I/O, and the only one permitted to raise merr.IoError.
package matatext

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/dekarrin/mata/internal/core/merr"
	"github.com/dekarrin/mata/internal/core/nft"
)

type (
	Symbol = automaton.Symbol
	State  = automaton.State
)

// Kind distinguishes the two section headers the format supports.
type Kind int

const (
	KindNfa Kind = iota
	KindNft
)

func (k Kind) String() string {
	if k == KindNft {
		return "@NFT-explicit"
	}
	return "@NFA-explicit"
}

// Document is a parsed Mata text section before it is lifted into a
// concrete Nfa or Nft: field names are resolved against the State's name
// map only when PrintNfa/PrintNft or ParseNfa/ParseNft actually build one.
type Document struct {
	Kind        Kind
	AlphabetAuto bool
	Initial     []string
	Final       []string
	LevelsNum   int
	Levels      map[string]int
	Transitions []textTransition
}

type textTransition struct {
	Source, Symbol, Target string
}

// ParseNfa reads one "@NFA-explicit" section from r and builds an Nfa over
// a. State names become States in first-appearance order.
func ParseNfa(r io.Reader, a alphabet.Alphabet) (automaton.Nfa, error) {
	doc, err := parseDocument(r)
	if err != nil {
		return automaton.Nfa{}, err
	}
	if doc.Kind != KindNfa {
		return automaton.Nfa{}, merr.New("section is not @NFA-explicit", merr.IoError)
	}
	n := automaton.New(a)
	names := newNameTable()

	for _, name := range doc.Initial {
		n.Initial.Add(names.stateFor(&n, name))
	}
	for _, name := range doc.Final {
		n.Final.Add(names.stateFor(&n, name))
	}
	for _, tr := range doc.Transitions {
		sym, err := resolveSymbol(a, tr.Symbol, doc.AlphabetAuto)
		if err != nil {
			return automaton.Nfa{}, err
		}
		s := names.stateFor(&n, tr.Source)
		t := names.stateFor(&n, tr.Target)
		n.Delta.Add(s, sym, t)
	}
	return n, nil
}

// ParseNft reads one "@NFT-explicit" section from r and builds an Nft over
// a.
func ParseNft(r io.Reader, a alphabet.Alphabet) (nft.Nft, error) {
	doc, err := parseDocument(r)
	if err != nil {
		return nft.Nft{}, err
	}
	if doc.Kind != KindNft {
		return nft.Nft{}, merr.New("section is not @NFT-explicit", merr.IoError)
	}
	if doc.LevelsNum <= 0 {
		return nft.Nft{}, merr.New("@NFT-explicit section missing a positive %LevelsNum", merr.IoError)
	}

	t := nft.New(a, doc.LevelsNum)
	names := newNftNameTable()

	stateFor := func(name string) State {
		level := 0
		if lv, ok := doc.Levels[name]; ok {
			level = lv
		}
		return names.stateFor(&t, name, level)
	}

	for _, name := range doc.Initial {
		t.Initial.Add(stateFor(name))
	}
	for _, name := range doc.Final {
		t.Final.Add(stateFor(name))
	}
	for _, tr := range doc.Transitions {
		sym, err := resolveSymbol(a, tr.Symbol, doc.AlphabetAuto)
		if err != nil {
			return nft.Nft{}, err
		}
		s := stateFor(tr.Source)
		target := stateFor(tr.Target)
		t.Delta.Add(s, sym, target)
	}
	return t, nil
}

func resolveSymbol(a alphabet.Alphabet, name string, auto bool) (Symbol, error) {
	if auto {
		return a.RegisterNew(name)
	}
	sym, err := a.TranslateName(name)
	if err != nil {
		return 0, merr.New(fmt.Sprintf("unknown symbol name %q", name), merr.IoError, err)
	}
	return sym, nil
}

type nameTable struct {
	byName map[string]State
}

func newNameTable() *nameTable { return &nameTable{byName: map[string]State{}} }

func (nt *nameTable) stateFor(n *automaton.Nfa, name string) State {
	if s, ok := nt.byName[name]; ok {
		return s
	}
	s := n.AddState()
	nt.byName[name] = s
	return s
}

type nftNameTable struct {
	byName map[string]State
}

func newNftNameTable() *nftNameTable { return &nftNameTable{byName: map[string]State{}} }

func (nt *nftNameTable) stateFor(t *nft.Nft, name string, level int) State {
	if s, ok := nt.byName[name]; ok {
		return s
	}
	s := t.AddStateWithLevel(level)
	nt.byName[name] = s
	return s
}

// parseDocument does the line-oriented tokenizing common to both NFA and
// NFT sections; field resolution into States happens in ParseNfa/ParseNft.
// DetectKind scans text for its section header line and reports whether it
// is an @NFA-explicit or @NFT-explicit document, without otherwise parsing
// it. Callers that receive Mata text from an untrusted source (e.g. an HTTP
// request body) and don't yet know which of ParseNfa/ParseNft to call use
// this first.
func DetectKind(text string) (Kind, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "@NFA-explicit":
			return KindNfa, nil
		case "@NFT-explicit":
			return KindNft, nil
		default:
			return 0, merr.New(fmt.Sprintf("expected a section header, got %q", line), merr.IoError)
		}
	}
	if err := sc.Err(); err != nil {
		return 0, merr.New("reading Mata text", merr.IoError, err)
	}
	return 0, merr.New("input has no @NFA-explicit/@NFT-explicit section header", merr.IoError)
}

func parseDocument(r io.Reader) (Document, error) {
	doc := Document{Levels: map[string]int{}}
	sc := bufio.NewScanner(r)
	sawHeader := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "@NFA-explicit":
			doc.Kind = KindNfa
			sawHeader = true
		case "@NFT-explicit":
			doc.Kind = KindNft
			sawHeader = true
		case "%Alphabet-auto":
			doc.AlphabetAuto = true
		case "%Initial":
			doc.Initial = append(doc.Initial, fields[1:]...)
		case "%Final":
			doc.Final = append(doc.Final, fields[1:]...)
		case "%LevelsNum":
			if len(fields) != 2 {
				return doc, merr.New("%LevelsNum takes exactly one integer", merr.IoError)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return doc, merr.New(fmt.Sprintf("invalid %%LevelsNum value %q", fields[1]), merr.IoError)
			}
			doc.LevelsNum = n
		case "%Levels":
			for _, pair := range fields[1:] {
				parts := strings.SplitN(pair, ":", 2)
				if len(parts) != 2 {
					return doc, merr.New(fmt.Sprintf("malformed %%Levels entry %q, want name:level", pair), merr.IoError)
				}
				lvl, err := strconv.Atoi(parts[1])
				if err != nil {
					return doc, merr.New(fmt.Sprintf("invalid level in %%Levels entry %q", pair), merr.IoError)
				}
				doc.Levels[parts[0]] = lvl
			}
		default:
			if !sawHeader {
				return doc, merr.New(fmt.Sprintf("expected a section header, got %q", line), merr.IoError)
			}
			switch len(fields) {
			case 2:
				return doc, merr.New(fmt.Sprintf("epsilon body lines are not allowed: %q", line), merr.IoError)
			case 3:
				doc.Transitions = append(doc.Transitions, textTransition{fields[0], fields[1], fields[2]})
			default:
				return doc, merr.New(fmt.Sprintf("body line has %d fields, want 3: %q", len(fields), line), merr.IoError)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return doc, merr.New("reading Mata text", merr.IoError, err)
	}
	if !sawHeader {
		return doc, merr.New("input has no @NFA-explicit/@NFT-explicit section header", merr.IoError)
	}
	return doc, nil
}

// PrintNfa renders n as an "@NFA-explicit" section. State names are their
// decimal indices; symbol names are resolved through n.Alphabet.
func PrintNfa(w io.Writer, n *automaton.Nfa) error {
	var b strings.Builder
	b.WriteString(KindNfa.String())
	b.WriteByte('\n')
	b.WriteString("%Alphabet-auto\n")
	writeStateList(&b, "%Initial", n.Initial)
	writeStateList(&b, "%Final", n.Final)

	for _, tr := range n.Delta.Transitions() {
		if tr.Symbol == automaton.Epsilon {
			continue
		}
		name, err := n.Alphabet.TranslateSymbol(tr.Symbol)
		if err != nil {
			return merr.New(fmt.Sprintf("symbol %d has no registered name", tr.Symbol), merr.IoError, err)
		}
		fmt.Fprintf(&b, "%d %s %d\n", tr.Source, name, tr.Target)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// PrintNft renders t as an "@NFT-explicit" section, including %LevelsNum
// and a %Levels directive naming every state's level.
func PrintNft(w io.Writer, t *nft.Nft) error {
	var b strings.Builder
	b.WriteString(KindNft.String())
	b.WriteByte('\n')
	b.WriteString("%Alphabet-auto\n")
	fmt.Fprintf(&b, "%%LevelsNum %d\n", t.NumOfLevels)
	writeStateList(&b, "%Initial", t.Initial)
	writeStateList(&b, "%Final", t.Final)

	b.WriteString("%Levels")
	for s := State(0); s < t.NumOfStates(); s++ {
		fmt.Fprintf(&b, " %d:%d", s, t.LevelOf(s))
	}
	b.WriteByte('\n')

	for _, tr := range t.Delta.Transitions() {
		if tr.Symbol == nft.Epsilon {
			continue
		}
		name, err := t.Alphabet.TranslateSymbol(tr.Symbol)
		if err != nil {
			return merr.New(fmt.Sprintf("symbol %d has no registered name", tr.Symbol), merr.IoError, err)
		}
		fmt.Fprintf(&b, "%d %s %d\n", tr.Source, name, tr.Target)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeStateList(b *strings.Builder, directive string, states interface{ Elements() []State }) {
	b.WriteString(directive)
	for _, s := range states.Elements() {
		fmt.Fprintf(b, " %d", s)
	}
	b.WriteByte('\n')
}

// DotOptions controls cosmetic details of ExportDot's output.
type DotOptions struct {
	// GraphName is used as the DOT digraph's identifier; defaults to "M".
	GraphName string
	// LabelWrapWidth wraps long edge labels via rosed; 0 disables wrapping.
	LabelWrapWidth int
}

// ExportDot renders n as a DOT digraph: each state is a node (doubly
// circled if final, with an invisible "start" arrow into initial states);
// each SymbolPost is one labeled edge per target. Symbol names are always
// fetched from n.Alphabet, so the output never leaks raw integer values
// the caller didn't also choose as a name.
func ExportDot(n *automaton.Nfa, opts DotOptions) (string, error) {
	name := opts.GraphName
	if name == "" {
		name = "M"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n\trankdir=LR;\n", name)

	for s := State(0); s < n.NumOfStates(); s++ {
		shape := "circle"
		if n.Final.Has(s) {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "\tn%d [shape=%s,label=\"%d\"];\n", s, shape, s)
	}
	for _, s := range n.Initial.Elements() {
		fmt.Fprintf(&b, "\tstart%d [shape=point,style=invis];\n\tstart%d -> n%d;\n", s, s, s)
	}
	for _, tr := range n.Delta.Transitions() {
		label, err := dotEdgeLabel(n.Alphabet, tr.Symbol)
		if err != nil {
			return "", err
		}
		if opts.LabelWrapWidth > 0 {
			label = rosed.Edit(label).Wrap(opts.LabelWrapWidth).String()
		}
		fmt.Fprintf(&b, "\tn%d -> n%d [label=%q];\n", tr.Source, tr.Target, label)
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// ExportNftDot is ExportDot's transducer counterpart; node labels include
// the state's level so multi-tape structure is visible in the render.
func ExportNftDot(t *nft.Nft, opts DotOptions) (string, error) {
	name := opts.GraphName
	if name == "" {
		name = "M"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n\trankdir=LR;\n", name)

	for s := State(0); s < t.NumOfStates(); s++ {
		shape := "circle"
		if t.Final.Has(s) {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "\tn%d [shape=%s,label=\"%d@%d\"];\n", s, shape, s, t.LevelOf(s))
	}
	for _, s := range t.Initial.Elements() {
		fmt.Fprintf(&b, "\tstart%d [shape=point,style=invis];\n\tstart%d -> n%d;\n", s, s, s)
	}
	for _, tr := range t.Delta.Transitions() {
		label, err := dotEdgeLabel(t.Alphabet, tr.Symbol)
		if err != nil {
			return "", err
		}
		if opts.LabelWrapWidth > 0 {
			label = rosed.Edit(label).Wrap(opts.LabelWrapWidth).String()
		}
		fmt.Fprintf(&b, "\tn%d -> n%d [label=%q];\n", tr.Source, tr.Target, label)
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func dotEdgeLabel(a alphabet.Alphabet, sym Symbol) (string, error) {
	if sym == automaton.Epsilon {
		return "ε", nil
	}
	name, err := a.TranslateSymbol(sym)
	if err != nil {
		return "", merr.New(fmt.Sprintf("symbol %d has no registered name", sym), merr.IoError, err)
	}
	return name, nil
}

// sortedNames is a small helper used by tests to get a deterministic
// iteration order over a name map.
func sortedNames(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
