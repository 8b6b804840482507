/*
Matai starts an interactive mata shell session.

The shell lets you build, transform, and query automata and transducers
from the command line without going through the mata server's HTTP API. For
an explanation of the commands, type "HELP" once in a session. To exit the
interpreter, type "QUIT".

Usage:

	matai [flags]

The flags are:

	-v, --version
		Give the current version of mata and then exit.

	-f, --file FILE
		Immediately LOAD the given Mata text file at start.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input, even if launched
		in a tty with stdin and stdout.

	-c, --command COMMANDS
		Immediately run the given command(s) at start. Can be multiple
		commands separated by the ";" character.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/mata"
	"github.com/dekarrin/mata/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the engine.
	ExitInitError
)

var (
	returnCode   int     = ExitSuccess
	flagVersion  *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	startFile    *string = pflag.StringP("file", "f", "", "A Mata text file to LOAD immediately at start")
	forceDirect  *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	startCommand *string = pflag.StringP("command", "c", "", "Execute the given shell commands immediately at start and leave the interpreter open")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	var startCommands []string
	if *startFile != "" {
		startCommands = append(startCommands, "LOAD "+*startFile)
	}
	if *startCommand != "" {
		startCommands = append(startCommands, strings.Split(*startCommand, ";")...)
	}

	eng, initErr := mata.New(os.Stdin, os.Stdout, *forceDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	if err := eng.RunUntilQuit(startCommands); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}
