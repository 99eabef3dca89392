// Package minnowquest contains a CLI-driven engine for getting commands and
// advancing the game state continuously until the player quits.
package minnowquest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/minnowquest/internal/game"
	"github.com/dekarrin/minnowquest/internal/input"
	"github.com/dekarrin/minnowquest/internal/mqerrors"
	"github.com/dekarrin/minnowquest/internal/mqw"
	"github.com/dekarrin/rosed"
)

// Engine contains the things needed to run a game from an interactive shell
// attached to an input stream and an output stream.
type Engine struct {
	state       *game.State
	in          input.Reader
	out         *bufio.Writer
	interactive bool
	forceDirect bool
	running     bool
}

const consoleOutputWidth = 80

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and
// a buffered writer on the output stream.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin. If
// nil is given for the output stream, a bufio.Writer is opened on stdout.
func New(inputStream io.Reader, outputStream io.Writer, worldFilePath string, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	// load world file
	worldData, err := mqw.LoadResourceBundle(worldFilePath)
	if err != nil {
		return nil, err
	}

	eng := &Engine{
		out:         bufio.NewWriter(outputStream),
		running:     false,
		forceDirect: forceDirectInput,
	}

	eng.interactive = !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if eng.interactive {
		eng.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	// create IODevice for use with the game engine
	ioDev := game.IODevice{
		Width: consoleOutputWidth,
		Output: func(s string, a ...interface{}) error {
			s = fmt.Sprintf(s, a...)
			if _, err := eng.out.WriteString(s); err != nil {
				return fmt.Errorf("could not write output: %w", err)
			}
			if err := eng.out.Flush(); err != nil {
				return fmt.Errorf("could not flush output: %w", err)
			}
			return nil
		},
	}

	state, err := game.New(worldData.Rooms, worldData.Start, worldData.Flags, worldData.Items, worldData.Commands, ioDev)
	if err != nil {
		return nil, fmt.Errorf("initializing game engine: %w", err)
	}
	eng.state = state

	return eng, nil
}

// EnableDebugCommands registers the world debugging commands with the game.
// It must be called before RunUntilQuit. It will fail if the loaded world
// defines a command that collides with one of the debug commands.
func (eng *Engine) EnableDebugCommands() error {
	return eng.state.EnableDebugCommands()
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	// TODO: make it so Close called on running engine actually shuts it down.
	// requirements: need to tell the Reader that it is time to stop reading
	// immediately and go EOF.
	if eng.running {
		return fmt.Errorf("cannot close a running game engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// RunUntilQuit begins reading commands from the streams and applying them to
// the game until the quit command is received or input runs out.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Welcome to MinnowQuest\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "======================\n"
	introMsg += "\n"

	if _, err := eng.out.WriteString(introMsg); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}

	if err := eng.state.PrintCurrentRoom(); err != nil {
		return fmt.Errorf("describe starting room: %w", err)
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	for eng.running {
		if !eng.interactive {
			if _, err := eng.out.WriteString("Enter command\n"); err != nil {
				return fmt.Errorf("could not write output: %w", err)
			}
			if err := eng.out.Flush(); err != nil {
				return fmt.Errorf("could not flush output: %w", err)
			}
		}

		line, err := eng.in.ReadCommand()
		if err != nil {
			if errors.Is(err, io.EOF) {
				eng.running = false
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		err = eng.state.Advance(line)
		if err != nil {
			consoleMessage := mqerrors.GameMessage(err)
			consoleMessage = rosed.Edit(consoleMessage).Wrap(consoleOutputWidth).String()
			if _, err := eng.out.WriteString(consoleMessage + "\n"); err != nil {
				return fmt.Errorf("could not write output: %w", err)
			}
			if err := eng.out.Flush(); err != nil {
				return fmt.Errorf("could not flush output: %w", err)
			}
		}

		// response state pairs only matter to remote frontends; the terminal
		// runner discards them
		eng.state.DrainExtras()

		if eng.state.QuitRequested() {
			eng.running = false
		}
	}

	if !eng.state.QuitRequested() {
		// input ran out before the player quit, so say goodbye on their
		// behalf
		if _, err := eng.out.WriteString("Goodbye\n"); err != nil {
			return fmt.Errorf("could not write output: %w", err)
		}
		if err := eng.out.Flush(); err != nil {
			return fmt.Errorf("could not flush output: %w", err)
		}
	}

	return nil
}
