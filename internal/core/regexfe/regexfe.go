// Package regexfe is a minimal regular-expression front end: it compiles a
// small ASCII regex syntax (literals, '|', '*', '+', '?', '(...)',
// concatenation) into an automaton.Nfa via Thompson construction. '.' is not
// a wildcard here; it is registered and matched as the literal character
// '.', same as any other non-metacharacter rune. It exists only to give the
// reluctant-replace builder and CLI/test demos a concrete way to produce an
// NFA from a pattern string; it is not a general-purpose regex engine (no
// character classes, anchors, wildcards, or backreferences).
package regexfe

import (
	"fmt"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/dekarrin/mata/internal/core/merr"
)

type Symbol = automaton.Symbol

// Compile parses pattern and returns the Thompson-construction NFA
// recognizing it, using a as the symbol alphabet for runes (each rune is
// registered by its decimal codepoint name).
func Compile(pattern string, a alphabet.Alphabet) (automaton.Nfa, error) {
	p := &parser{input: []rune(pattern), alphabet: a}
	n, err := p.parseAlt()
	if err != nil {
		return automaton.Nfa{}, err
	}
	if p.pos != len(p.input) {
		return automaton.Nfa{}, merr.New(fmt.Sprintf("unexpected %q at position %d", p.input[p.pos], p.pos), merr.InvalidArgument)
	}
	return n, nil
}

type parser struct {
	input    []rune
	pos      int
	alphabet alphabet.Alphabet
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) parseAlt() (automaton.Nfa, error) {
	left, err := p.parseConcat()
	if err != nil {
		return automaton.Nfa{}, err
	}
	for {
		c, ok := p.peek()
		if !ok || c != '|' {
			break
		}
		p.pos++
		right, err := p.parseConcat()
		if err != nil {
			return automaton.Nfa{}, err
		}
		left = automaton.UniteNondetWith(&left, &right)
	}
	return left, nil
}

func (p *parser) parseConcat() (automaton.Nfa, error) {
	result := automaton.CreateEmptyStringNfa(p.alphabet)
	first := true
	for {
		c, ok := p.peek()
		if !ok || c == '|' || c == ')' {
			break
		}
		term, err := p.parseTerm()
		if err != nil {
			return automaton.Nfa{}, err
		}
		if first {
			result = term
			first = false
		} else {
			result = automaton.Concatenate(&result, &term)
		}
	}
	return result, nil
}

func (p *parser) parseTerm() (automaton.Nfa, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return automaton.Nfa{}, err
	}
	for {
		c, ok := p.peek()
		if !ok {
			break
		}
		switch c {
		case '*':
			p.pos++
			atom = *star2(&atom, p.alphabet)
		case '+':
			p.pos++
			plus := atom.Copy()
			atom = automaton.Concatenate(&plus, star2(&atom, p.alphabet))
		case '?':
			p.pos++
			empty := automaton.CreateEmptyStringNfa(p.alphabet)
			atom = automaton.UniteNondetWith(&atom, &empty)
		default:
			return atom, nil
		}
	}
	return atom, nil
}

// star2 returns the Kleene closure of n, as a pointer so '+' can build
// atom·atom* without an extra intermediate copy.
func star2(n *automaton.Nfa, a alphabet.Alphabet) *automaton.Nfa {
	out := automaton.New(a)
	s := out.AddState()
	out.Initial.Add(s)
	out.Final.Add(s)

	offset := out.NumOfStates()
	inner := n.Copy()
	for st := automaton.State(0); st < inner.NumOfStates(); st++ {
		out.AddState()
	}
	for srcState := automaton.State(0); srcState < inner.NumOfStates(); srcState++ {
		for _, sp := range inner.Delta.StatePost(srcState).Moves() {
			for _, t := range sp.Targets.Elements() {
				out.Delta.Add(srcState+offset, sp.Symbol, t+offset)
			}
		}
	}
	for _, ii := range inner.Initial.Elements() {
		out.Delta.Add(s, automaton.Epsilon, ii+offset)
	}
	for _, fi := range inner.Final.Elements() {
		out.Delta.Add(fi+offset, automaton.Epsilon, s)
	}
	return &out
}

func (p *parser) parseAtom() (automaton.Nfa, error) {
	c, ok := p.peek()
	if !ok {
		return automaton.Nfa{}, merr.New("unexpected end of pattern", merr.InvalidArgument)
	}
	switch c {
	case '(':
		p.pos++
		inner, err := p.parseAlt()
		if err != nil {
			return automaton.Nfa{}, err
		}
		c2, ok := p.peek()
		if !ok || c2 != ')' {
			return automaton.Nfa{}, merr.New("unclosed group", merr.InvalidArgument)
		}
		p.pos++
		return inner, nil
	case '.':
		p.pos++
		sym, err := p.alphabet.RegisterNew(string(c))
		if err != nil {
			return automaton.Nfa{}, err
		}
		return automaton.CreateSingleWordNfa([]Symbol{sym}, p.alphabet), nil
	case '\\':
		p.pos++
		lit, ok := p.peek()
		if !ok {
			return automaton.Nfa{}, merr.New("dangling escape", merr.InvalidArgument)
		}
		p.pos++
		sym, err := p.alphabet.RegisterNew(string(lit))
		if err != nil {
			return automaton.Nfa{}, err
		}
		return automaton.CreateSingleWordNfa([]Symbol{sym}, p.alphabet), nil
	default:
		p.pos++
		sym, err := p.alphabet.RegisterNew(string(c))
		if err != nil {
			return automaton.Nfa{}, err
		}
		return automaton.CreateSingleWordNfa([]Symbol{sym}, p.alphabet), nil
	}
}
