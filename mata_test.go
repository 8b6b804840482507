package mata

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runSession(t *testing.T, input string) string {
	t.Helper()

	var out bytes.Buffer
	eng, err := New(strings.NewReader(input), &out, true)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	defer eng.Close()

	if err := eng.RunUntilQuit(nil); err != nil {
		t.Fatalf("RunUntilQuit: %s", err)
	}

	return out.String()
}

func Test_Engine_Regex_In(t *testing.T) {
	assert := assert.New(t)

	out := runSession(t, "REGEX (a|b)*abb\nIN a b b\nIN a b\nQUIT\n")

	assert.Contains(out, "compiled regex to automaton")
	assert.Contains(out, "YES")
	assert.Contains(out, "NO")
}

func Test_Engine_Regex_EmptyAndUniversal(t *testing.T) {
	assert := assert.New(t)

	out := runSession(t, "REGEX a\nEMPTY\nUNIVERSAL\nQUIT\n")

	assert.Contains(out, "NOT EMPTY")
	assert.Contains(out, "NOT UNIVERSAL")
}

func Test_Engine_Gen_producesAutomaton(t *testing.T) {
	assert := assert.New(t)

	out := runSession(t, "GEN 10 3 1.5 0.3 42\nQUIT\n")

	assert.Contains(out, "generated automaton with")
}

func Test_Engine_Replace_Run(t *testing.T) {
	assert := assert.New(t)

	out := runSession(t, "REPLACE a+ X\nRUN a a b\nQUIT\n")

	assert.Contains(out, "built replace transducer")
}

func Test_Engine_RequiresAutomatonBeforeOps(t *testing.T) {
	assert := assert.New(t)

	out := runSession(t, "EMPTY\nQUIT\n")

	assert.Contains(out, "no current automaton")
}

func Test_Engine_UnrecognizedCommand(t *testing.T) {
	assert := assert.New(t)

	out := runSession(t, "BOGUS\nQUIT\n")

	assert.Contains(out, "unrecognized command")
}

func Test_Engine_Help(t *testing.T) {
	assert := assert.New(t)

	out := runSession(t, "HELP\nQUIT\n")

	assert.Contains(out, "Commands:")
	assert.Contains(out, "QUIT")
}

func Test_Engine_PrintAfterRegex(t *testing.T) {
	assert := assert.New(t)

	out := runSession(t, "REGEX ab\nPRINT\nQUIT\n")

	assert.Contains(out, "@NFA-explicit")
}

func Test_Engine_EOFEndsSessionGracefully(t *testing.T) {
	assert := assert.New(t)

	out := runSession(t, "REGEX a\n")

	assert.Contains(out, "Goodbye")
}
