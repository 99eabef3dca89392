package game

// File datacmd.go holds the commands contributed by world data rather than
// built into the engine. Worlds use them to add puzzle verbs and whole input
// sub-modes (a keypad, a phone) without any engine changes.

import (
	"github.com/dekarrin/minnowquest/internal/command"
	"github.com/dekarrin/rosed"
)

// DataCommand is a command defined in a world file. It is registered on the
// game's dispatcher at load and fires a fixed set of effects when matched.
type DataCommand struct {
	// Pattern is the command template registered with the dispatcher.
	Pattern string

	// Context is the context path the command is scoped to. Blank scopes the
	// command to the root context so it is usable everywhere.
	Context string

	// Help is the description shown for the command in the help table.
	Help string

	// Say is the response text. It has variable expansion applied with the
	// command's captures overlaid on the flag values.
	Say string

	// Set is the labels of flags set when the command fires.
	Set []string

	// Unset is the labels of flags unset when the command fires.
	Unset []string

	// Give is the label of an item added to the inventory when the command
	// fires. Blank means no item is given.
	Give string

	// Enter is a context path the dispatcher switches to after the command
	// runs. Blank leaves the context alone.
	Enter string

	// Leave returns the dispatcher to the root context after the command
	// runs. When both Leave and Enter are given, Enter wins.
	Leave bool

	// Match requires the command's single capture to equal this value for the
	// Say, flag, item, and state effects to fire. Blank means no check. The
	// loader guarantees a pattern using Match has exactly one placeholder.
	Match string

	// Otherwise is said in place of Say when Match is given and the capture
	// does not equal it. The Leave and Enter effects still apply.
	Otherwise string

	// State is response state pairs pushed into the response extras when the
	// command fires.
	State map[string]string
}

// registerDataCommand compiles the data command's pattern and adds it to the
// dispatcher with a handler that fires its effects.
func (gs *State) registerDataCommand(dc DataCommand) error {
	pat, err := command.Compile(dc.Pattern)
	if err != nil {
		return err
	}

	dcCopy := dc
	handler := command.Func(func(args command.Args) (string, error) {
		return gs.runDataCommand(dcCopy, args)
	}, pat.ArgNames()...)

	var opts []command.RegisterOption
	if dc.Context != "" {
		ctx, err := command.ParseContext(dc.Context)
		if err != nil {
			return err
		}
		opts = append(opts, command.InContext(ctx))
	}

	if err := gs.dispatcher.Register(dc.Pattern, handler, opts...); err != nil {
		return err
	}

	help := dc.Help
	if help == "" {
		help = "a special command of this world"
	}
	gs.helpText[dc.Pattern] = help

	return nil
}

func (gs *State) runDataCommand(dc DataCommand, args command.Args) (string, error) {
	matched := true
	if dc.Match != "" {
		// the loader has verified there is exactly one capture
		var capture string
		for _, v := range args {
			capture = v
		}
		matched = capture == dc.Match
	}

	say := dc.Say
	if matched {
		for _, fl := range dc.Set {
			gs.flags[fl] = true
		}
		for _, fl := range dc.Unset {
			gs.flags[fl] = false
		}
		if dc.Give != "" {
			gs.giveItem(dc.Give)
		}
		for k, v := range dc.State {
			gs.PushExtra(k, v)
		}
	} else {
		say = dc.Otherwise
	}

	if dc.Leave {
		gs.dispatcher.SetContext(command.Context{})
	}
	if dc.Enter != "" {
		ctx, err := command.ParseContext(dc.Enter)
		if err != nil {
			return "", err
		}
		gs.dispatcher.SetContext(ctx)
	}

	output := Expand(say, gs.expandVars(args))
	if output == "" {
		return "", nil
	}

	return rosed.Edit(output).WrapOpts(gs.io.Width, textFormatOptions).String(), nil
}
