package game

// This file contains functions for handling the debug commands of game.State.

import (
	"fmt"
	"strings"

	"github.com/dekarrin/minnowquest/internal/command"
	"github.com/dekarrin/minnowquest/internal/mqerrors"
	"github.com/dekarrin/minnowquest/internal/util"
	"github.com/dekarrin/rosed"
)

// EnableDebugCommands registers the development commands on the game's
// dispatcher. They are not registered by default so they never show up in
// help or match player input in a normal session.
func (gs *State) EnableDebugCommands() error {
	regs := []struct {
		pattern string
		help    string
		handler command.Handler
		opts    []command.RegisterOption
	}{
		{"debug room", "print info on the current room", command.Func(gs.cmdDebugRoom, "room"), []command.RegisterOption{command.WithArg("room", "")}},
		{"debug room ROOM", "teleport to the room with the given label", command.Func(gs.cmdDebugRoom, "room"), nil},
		{"debug flags", "print all flags and their values", command.Func(gs.cmdDebugFlags), nil},
		{"debug path ROOM", "show the shortest path to the room with the given label", command.Func(gs.cmdDebugPath, "room"), nil},
	}

	for _, reg := range regs {
		if err := gs.register(reg.pattern, reg.help, reg.handler, reg.opts...); err != nil {
			return fmt.Errorf("register %q: %w", reg.pattern, err)
		}
	}

	return nil
}

func (gs *State) cmdDebugRoom(args command.Args) (string, error) {
	label := strings.ToUpper(args.Get("room"))

	if label == "" {
		return gs.CurrentRoom.String() + "\n\n(Type 'debug room LABEL' to teleport to that room)", nil
	}

	if _, ok := gs.World[label]; !ok {
		return "", mqerrors.Gamef("There doesn't seem to be any room with label %q in this world.", label)
	}

	gs.CurrentRoom = gs.World[label]

	return fmt.Sprintf("Poof! You are now in %q.", label), nil
}

func (gs *State) cmdDebugFlags(args command.Args) (string, error) {
	// info on all flags
	data := [][]string{{"Flag", "Value"}}

	// we need to ensure a consistent ordering so sort the labels first
	for _, fl := range util.OrderedKeys(gs.flags) {
		val := "false"
		if gs.flags[fl] {
			val = "true"
		}

		data = append(data, []string{fl, val})
	}

	tableOpts := rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}

	output := rosed.Edit("").
		InsertTableOpts(0, data, gs.io.Width, tableOpts).
		String()

	return output, nil
}

func (gs *State) cmdDebugPath(args command.Args) (string, error) {
	label := strings.ToUpper(args.Get("room"))

	if _, ok := gs.World[label]; !ok {
		return "", mqerrors.Gamef("There doesn't seem to be any room with label %q in this world.", label)
	}

	if label == gs.CurrentRoom.Label {
		return "You are already there.", nil
	}

	path := gs.pf.Dijkstra(gs.CurrentRoom.Label, label)
	if len(path) == 0 {
		return fmt.Sprintf("No path exists from %q to %q.", gs.CurrentRoom.Label, label), nil
	}

	return "Shortest path: " + strings.Join(path, " -> "), nil
}
