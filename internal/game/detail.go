package game

import (
	"fmt"
	"strings"
)

// File detail.go holds symbols for room fixtures and the use actions shared by
// details and items.

// UseAction is one effect of using a thing in the world. A use command selects
// the action whose With matches the other thing given in the command (or the
// action with a blank With, for a bare use). Firing the action says its Say
// text and applies its flag, context, and inventory effects.
type UseAction struct {
	// With is the label of the other thing this action pairs with. Blank means
	// the action fires when the thing is used on its own.
	With string

	// Say is the message shown when the action fires.
	Say string

	// Set is the labels of flags set when the action fires.
	Set []string

	// Unset is the labels of flags unset when the action fires.
	Unset []string

	// Enter is the command context switched to when the action fires. Blank
	// means the context is left alone.
	Enter string

	// Give is the label of an item added to the inventory when the action
	// fires. Blank means no item is given.
	Give string
}

// Copy returns a deeply-copied UseAction.
func (ua UseAction) Copy() UseAction {
	uCopy := UseAction{
		With:  ua.With,
		Say:   ua.Say,
		Set:   make([]string, len(ua.Set)),
		Unset: make([]string, len(ua.Unset)),
		Enter: ua.Enter,
		Give:  ua.Give,
	}

	copy(uCopy.Set, ua.Set)
	copy(uCopy.Unset, ua.Unset)

	return uCopy
}

// Detail is a fixture of a room. It can be looked at and used but never picked
// up, and unlike an item it never moves.
type Detail struct {
	// Label is a name for the detail and canonical way to index it
	// programmatically. It should be upper case and MUST be unique within all
	// labels of the world.
	Label string

	// Description is what is shown when the player LOOKs at the detail.
	Description string

	// Aliases are all of the strings that can be used to refer to the detail.
	Aliases []string

	// Uses is the actions that fire when the detail is used, alone or with an
	// item.
	Uses []UseAction
}

func (det Detail) String() string {
	return fmt.Sprintf("Detail(%q, (%s))", det.Label, strings.Join(det.Aliases, ", "))
}

// Copy returns a deeply-copied Detail.
func (det Detail) Copy() Detail {
	dCopy := Detail{
		Label:       det.Label,
		Description: det.Description,
		Aliases:     make([]string, len(det.Aliases)),
		Uses:        make([]UseAction, len(det.Uses)),
	}

	copy(dCopy.Aliases, det.Aliases)
	for i := range det.Uses {
		dCopy.Uses[i] = det.Uses[i].Copy()
	}

	return dCopy
}

func (det Detail) GetLabel() string {
	return det.Label
}

func (det Detail) GetAliases() []string {
	return det.Aliases
}

func (det Detail) GetDescription() string {
	return det.Description
}

// GetUses returns the detail's use actions.
func (det Detail) GetUses() []UseAction {
	return det.Uses
}
