// Package mata contains a CLI-driven engine for building, transforming, and
// querying automata from an interactive shell attached to an input stream
// and an output stream.
package mata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/mata/internal/core/alphabet"
	"github.com/dekarrin/mata/internal/core/automaton"
	"github.com/dekarrin/mata/internal/core/matatext"
	"github.com/dekarrin/mata/internal/core/merr"
	"github.com/dekarrin/mata/internal/core/nft"
	"github.com/dekarrin/mata/internal/core/randgen"
	"github.com/dekarrin/mata/internal/core/regexfe"
	mstrings "github.com/dekarrin/mata/internal/core/strings"
	"github.com/dekarrin/mata/internal/input"
	"github.com/dekarrin/mata/internal/util"
)

// commandReader is satisfied by both input.DirectCommandReader and
// input.InteractiveCommandReader.
type commandReader interface {
	ReadCommand() (string, error)
	AllowBlank(bool)
	Close() error
}

// Engine contains the things needed to run an interactive automaton-editing
// session attached to an input stream and an output stream.
type Engine struct {
	a alphabet.Alphabet
	n *automaton.Nfa
	t *nft.Nft

	in      commandReader
	out     *bufio.Writer
	running bool
}

// New creates a new Engine ready to operate on the given input and output
// streams.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin.
// If nil is given for the output stream, a bufio.Writer is opened on
// stdout. Unless forceDirectInput is set, readline-based input is used when
// attached directly to a TTY.
func New(inputStream io.Reader, outputStream io.Writer, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	eng := &Engine{
		a:   alphabet.NewOnTheFlyAlphabet(),
		out: bufio.NewWriter(outputStream),
	}

	var err error
	if !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout {
		eng.in, err = input.NewInteractiveReader("")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}
	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}
	return nil
}

func (eng *Engine) writeln(format string, a ...interface{}) {
	fmt.Fprintf(eng.out, format+"\n", a...)
	eng.out.Flush()
}

// RunUntilQuit begins reading commands from the input stream and applying
// them until the QUIT command is received or input reaches EOF. startCmds,
// if non-empty, are run first, in order, before reading further commands
// from the input stream.
func (eng *Engine) RunUntilQuit(startCmds []string) error {
	eng.writeln("mata interactive shell")
	eng.writeln("type HELP for a list of commands, QUIT to exit")
	eng.writeln("")

	eng.running = true
	defer func() { eng.running = false }()

	for _, line := range startCmds {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !eng.dispatch(line) {
			break
		}
	}

	for eng.running {
		line, err := eng.in.ReadCommand()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}
		if !eng.dispatch(line) {
			break
		}
	}

	eng.writeln("Goodbye")
	return nil
}

// dispatch runs a single command line. It returns false if the session
// should end.
func (eng *Engine) dispatch(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	verb := strings.ToUpper(fields[0])
	args := fields[1:]

	switch verb {
	case "QUIT", "EXIT":
		return false
	case "HELP":
		eng.cmdHelp()
	case "LOAD":
		eng.cmdLoad(args)
	case "SAVE":
		eng.cmdSave(args)
	case "REGEX":
		eng.cmdRegex(args)
	case "GEN":
		eng.cmdGen(args)
	case "DETERMINIZE":
		eng.cmdDeterminize()
	case "MINIMIZE":
		eng.cmdMinimize()
	case "TRIM":
		eng.cmdTrim()
	case "REVERT":
		eng.cmdRevert()
	case "EPSFREE":
		eng.cmdEpsFree()
	case "COMPLEMENT":
		eng.cmdComplement()
	case "EMPTY":
		eng.cmdEmpty()
	case "UNIVERSAL":
		eng.cmdUniversal()
	case "IN":
		eng.cmdIn(args)
	case "INCLUDED":
		eng.cmdIncluded(args)
	case "EQUIV":
		eng.cmdEquiv(args)
	case "REPLACE":
		eng.cmdReplace(args)
	case "RUN":
		eng.cmdRun(args)
	case "DOT":
		eng.cmdDot(args)
	case "PRINT":
		eng.cmdPrint()
	default:
		eng.writeln("unrecognized command %q; try HELP", verb)
	}
	return true
}

func (eng *Engine) cmdHelp() {
	eng.writeln(strings.TrimSpace(`
Commands:
  LOAD <file>                 load a Mata text document as the current automaton
  SAVE <file>                 write the current automaton as Mata text
  REGEX <pattern>             compile a regex into the current automaton (NFA)
  GEN <states> <syms> <ratio> <density> [<seed>]
                               generate a random NFA
  DETERMINIZE                 subset-construct the current NFA
  MINIMIZE                    Hopcroft-minimize the current NFA
  TRIM                        remove unreachable/dead states
  REVERT                      reverse all transitions
  EPSFREE                     remove epsilon transitions
  COMPLEMENT                  complement the current (deterministic) NFA
  EMPTY                       report whether the current language is empty
  UNIVERSAL                   report whether the current language is universal
  IN <symbols...>              report whether the word is in the language
  INCLUDED <file>              report whether current is included in the automaton in <file>
  EQUIV <file>                 report whether current is equivalent to the automaton in <file>
  REPLACE <pattern> <repl...>  build a reluctant-replace transducer as the current transducer
  RUN <symbols...>             run the current transducer on a word, printing its output
  DOT <file>                   export the current automaton/transducer as a DOT graph
  PRINT                        print the current automaton/transducer as Mata text
  QUIT                         exit the shell
`))
}

func (eng *Engine) requireNfa() (*automaton.Nfa, bool) {
	if eng.n == nil {
		eng.writeln("no current automaton; use LOAD, REGEX, or GEN first")
		return nil, false
	}
	return eng.n, true
}

func (eng *Engine) requireNft() (*nft.Nft, bool) {
	if eng.t == nil {
		eng.writeln("no current transducer; use REPLACE first")
		return nil, false
	}
	return eng.t, true
}

func (eng *Engine) cmdLoad(args []string) {
	if len(args) != 1 {
		eng.writeln("usage: LOAD <file>")
		return
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}

	kind, err := matatext.DetectKind(string(data))
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}

	eng.a = alphabet.NewOnTheFlyAlphabet()
	if kind == matatext.KindNft {
		t, err := matatext.ParseNft(strings.NewReader(string(data)), eng.a)
		if err != nil {
			eng.writeln("error: %s", err.Error())
			return
		}
		eng.t = &t
		eng.n = nil
		eng.writeln("loaded transducer with %d states", t.NumOfStates())
		return
	}

	n, err := matatext.ParseNfa(strings.NewReader(string(data)), eng.a)
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	eng.n = &n
	eng.t = nil
	eng.writeln("loaded automaton with %d states", n.NumOfStates())
}

func (eng *Engine) cmdSave(args []string) {
	if len(args) != 1 {
		eng.writeln("usage: SAVE <file>")
		return
	}

	var buf strings.Builder
	if eng.t != nil {
		if err := matatext.PrintNft(&buf, eng.t); err != nil {
			eng.writeln("error: %s", err.Error())
			return
		}
	} else if eng.n != nil {
		if err := matatext.PrintNfa(&buf, eng.n); err != nil {
			eng.writeln("error: %s", err.Error())
			return
		}
	} else {
		eng.writeln("no current automaton or transducer")
		return
	}

	if err := os.WriteFile(args[0], []byte(buf.String()), 0660); err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	eng.writeln("saved to %s", args[0])
}

func (eng *Engine) cmdRegex(args []string) {
	if len(args) != 1 {
		eng.writeln("usage: REGEX <pattern>")
		return
	}
	eng.a = alphabet.NewOnTheFlyAlphabet()
	n, err := regexfe.Compile(args[0], eng.a)
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	eng.n = &n
	eng.t = nil
	eng.writeln("compiled regex to automaton with %d states", n.NumOfStates())
}

func (eng *Engine) cmdGen(args []string) {
	if len(args) < 4 || len(args) > 5 {
		eng.writeln("usage: GEN <states> <syms> <ratio> <density> [<seed>]")
		return
	}
	numStates, err1 := strconv.Atoi(args[0])
	numSyms, err2 := strconv.Atoi(args[1])
	ratio, err3 := strconv.ParseFloat(args[2], 64)
	density, err4 := strconv.ParseFloat(args[3], 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		eng.writeln("usage: GEN <states> <syms> <ratio> <density> [<seed>]")
		return
	}
	var seed int64
	if len(args) == 5 {
		s, err := strconv.ParseInt(args[4], 10, 64)
		if err != nil {
			eng.writeln("error: seed must be an integer")
			return
		}
		seed = s
	}

	eng.a = alphabet.NewOnTheFlyAlphabet()
	for i := 0; i < numSyms; i++ {
		if _, err := eng.a.RegisterNew(fmt.Sprintf("s%d", i)); err != nil {
			eng.writeln("error: %s", err.Error())
			return
		}
	}

	n, err := randgen.Generate(randgen.Params{
		NumStates:                 numStates,
		NumSymbols:                numSyms,
		StatesTransRatioPerSymbol: ratio,
		FinalStateDensity:         density,
		Seed:                      seed,
	}, eng.a)
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	eng.n = &n
	eng.t = nil
	eng.writeln("generated automaton with %d states, %d transitions", n.NumOfStates(), n.NumOfTransitions())
}

func (eng *Engine) cmdDeterminize() {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	det, err := automaton.Determinize(n)
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	eng.n = &det
	eng.writeln("determinized to %d states", det.NumOfStates())
}

func (eng *Engine) cmdMinimize() {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	min, err := automaton.Minimize(n, eng.a.Symbols())
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	eng.n = &min
	eng.writeln("minimized to %d states", min.NumOfStates())
}

func (eng *Engine) cmdTrim() {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	trimmed, _ := automaton.Trim(n)
	eng.n = &trimmed
	eng.writeln("trimmed to %d states", trimmed.NumOfStates())
}

func (eng *Engine) cmdRevert() {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	rev := automaton.Revert(n)
	eng.n = &rev
	eng.writeln("reverted")
}

func (eng *Engine) cmdEpsFree() {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	free := automaton.RemoveEpsilon(n)
	eng.n = &free
	eng.writeln("epsilon transitions removed")
}

func (eng *Engine) cmdComplement() {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	comp, err := automaton.ComplementDeterministic(n, eng.a.Symbols())
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	eng.n = &comp
	eng.writeln("complemented to %d states", comp.NumOfStates())
}

func (eng *Engine) cmdEmpty() {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	empty, witness := automaton.IsLangEmpty(n)
	if empty {
		eng.writeln("EMPTY")
		return
	}
	eng.writeln("NOT EMPTY (witness: %s)", eng.wordString(witness))
}

func (eng *Engine) cmdUniversal() {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	universal, witness, err := automaton.IsUniversal(n, eng.a.Symbols())
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	if universal {
		eng.writeln("UNIVERSAL")
		return
	}
	eng.writeln("NOT UNIVERSAL (witness: %s)", eng.wordString(witness))
}

func (eng *Engine) cmdIn(args []string) {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	word, err := eng.wordFromNames(args)
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	if automaton.IsInLang(n, word) {
		eng.writeln("YES")
	} else {
		eng.writeln("NO")
	}
}

func (eng *Engine) loadOther(file string) (*automaton.Nfa, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	n, err := matatext.ParseNfa(strings.NewReader(string(data)), eng.a)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (eng *Engine) cmdIncluded(args []string) {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	if len(args) != 1 {
		eng.writeln("usage: INCLUDED <file>")
		return
	}
	other, err := eng.loadOther(args[0])
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	included, witness, err := automaton.IsIncluded(n, other, eng.a.Symbols())
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	if included {
		eng.writeln("YES")
		return
	}
	eng.writeln("NO (witness: %s)", eng.wordString(witness))
}

func (eng *Engine) cmdEquiv(args []string) {
	n, ok := eng.requireNfa()
	if !ok {
		return
	}
	if len(args) != 1 {
		eng.writeln("usage: EQUIV <file>")
		return
	}
	other, err := eng.loadOther(args[0])
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	equiv, err := automaton.AreEquivalent(n, other, eng.a.Symbols())
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	if equiv {
		eng.writeln("YES")
	} else {
		eng.writeln("NO")
	}
}

func (eng *Engine) cmdReplace(args []string) {
	if len(args) < 1 {
		eng.writeln("usage: REPLACE <pattern> <replacement...>")
		return
	}
	pattern := args[0]
	replacement, err := eng.wordFromNames(args[1:])
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}

	t, err := mstrings.ReplaceReluctantRegex(eng.a, eng.a.Symbols(), pattern, replacement, mstrings.All)
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	eng.t = &t
	eng.n = nil
	eng.writeln("built replace transducer with %d states", t.NumOfStates())
}

func (eng *Engine) cmdRun(args []string) {
	t, ok := eng.requireNft()
	if !ok {
		return
	}
	word, err := eng.wordFromNames(args)
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}

	wordNfa := automaton.CreateSingleWordNfa(word, eng.a)
	idWordT, err := nft.CreateFromNfa(&wordNfa, t.NumOfLevels, 0, nil)
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	composed, err := nft.Compose(&idWordT, t)
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	outNfa := nft.ProjectTo(&composed, t.NumOfLevels-1)

	empty, witness := automaton.IsLangEmpty(&outNfa)
	if empty {
		eng.writeln("no output (word not accepted)")
		return
	}
	eng.writeln("-> %s", eng.wordString(witness))
}

func (eng *Engine) cmdDot(args []string) {
	if len(args) != 1 {
		eng.writeln("usage: DOT <file>")
		return
	}
	opts := matatext.DotOptions{GraphName: "mata", LabelWrapWidth: 40}

	var dot string
	var err error
	if eng.t != nil {
		dot, err = matatext.ExportNftDot(eng.t, opts)
	} else if eng.n != nil {
		dot, err = matatext.ExportDot(eng.n, opts)
	} else {
		eng.writeln("no current automaton or transducer")
		return
	}
	if err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	if err := os.WriteFile(args[0], []byte(dot), 0660); err != nil {
		eng.writeln("error: %s", err.Error())
		return
	}
	eng.writeln("wrote DOT graph to %s", args[0])
}

func (eng *Engine) cmdPrint() {
	if eng.t != nil {
		if err := matatext.PrintNft(eng.out, eng.t); err != nil {
			eng.writeln("error: %s", err.Error())
		}
		eng.out.Flush()
		return
	}
	if eng.n != nil {
		if err := matatext.PrintNfa(eng.out, eng.n); err != nil {
			eng.writeln("error: %s", err.Error())
		}
		eng.out.Flush()
		return
	}
	eng.writeln("no current automaton or transducer")
}

func (eng *Engine) wordFromNames(names []string) ([]automaton.Symbol, error) {
	word := make([]automaton.Symbol, len(names))
	var unknown []string
	for i, name := range names {
		sym, err := eng.a.TranslateName(name)
		if err != nil {
			unknown = append(unknown, strconv.Quote(name))
			continue
		}
		word[i] = sym
	}
	if len(unknown) > 0 {
		return nil, merr.New(fmt.Sprintf("unknown symbol(s) %s", util.MakeTextList(unknown)), merr.InvalidArgument)
	}
	return word, nil
}

func (eng *Engine) wordString(word []automaton.Symbol) string {
	if len(word) == 0 {
		return "(empty word)"
	}
	names := make([]string, len(word))
	for i, sym := range word {
		name, err := eng.a.TranslateSymbol(sym)
		if err != nil {
			name = "?"
		}
		names[i] = name
	}
	return strings.Join(names, " ")
}
