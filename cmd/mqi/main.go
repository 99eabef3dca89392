/*
Mqi starts an interactive MinnowQuest engine session.

It reads in a world file and starts the game in the designated starting room.
The interpreter will then start printing what is happening in the game to
stdout and will read user input from stdin until the game is over or the
"quit" command is input.

Usage:

	mqi [flags]

The flags are:

	-version
		Give the current version of MinnowQuest and then exit.

	-w/-world [FILE]
		Use the provided MQW resource file for the world. Defaults to the file
		"world.mqw" in the current working directory.

	-d/-direct
	    Force reading directly from the console as opposed to using GNU readline
		based routines for reading command input even if launched in a tty with
		stdin and stdout.

	-g/-debug
		Register the debug commands in addition to the normal set. These allow
		flags to be read and set directly and the current room to be changed
		without regard for exits.

Once a session has started, the user input will be matched against the
commands the world defines along with the standard set. For an explanation of
the commands, type "help" once in a session. To exit the interpreter, type
"quit".
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dekarrin/minnowquest"
	"github.com/dekarrin/minnowquest/internal/version"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGameError indicates an unsuccessful program execution due to a
	// problem during the game.
	ExitGameError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var (
	returnCode  int   = ExitSuccess
	flagVersion *bool = flag.Bool("version", false, "Gives the version info")
	worldFile   string
	forceDirect bool
	debugCmds   bool
)

func init() {
	const (
		defaultWorldFile = "world.mqw"
		worldUsage       = "the MQW world data or manifest file that contains the definition of the world"
		forceDirectUsage = "force reading directly from stdin instead of going through GNU readline where possible"
		debugUsage       = "register the debug commands along with the normal set"
	)
	flag.StringVar(&worldFile, "world", defaultWorldFile, worldUsage)
	flag.StringVar(&worldFile, "w", defaultWorldFile, worldUsage+" (shorthand)")
	flag.BoolVar(&forceDirect, "direct", false, forceDirectUsage)
	flag.BoolVar(&forceDirect, "d", false, forceDirectUsage+" (shorthand)")
	flag.BoolVar(&debugCmds, "debug", false, debugUsage)
	flag.BoolVar(&debugCmds, "g", false, debugUsage+" (shorthand)")
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic("unrecoverable panic occured")
		} else {
			os.Exit(returnCode)
		}
	}()

	flag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	gameEng, initErr := minnowquest.New(os.Stdin, os.Stdout, worldFile, forceDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer gameEng.Close()

	if debugCmds {
		if err := gameEng.EnableDebugCommands(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	err := gameEng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGameError
		return
	}
}
