// Package game implements game state and advancement.
package game

// File room.go includes symbols for holding data on the rooms and exits between
// them.

import (
	"fmt"
	"strings"
)

// Egress is an egress point from a room. It contains both a description and the
// label it points to.
type Egress struct {
	// DestLabel is the label of the room this egress goes to.
	DestLabel string

	// Description is the long description of the egress point.
	Description string

	// TravelMessage is the message shown when the player uses this egress
	// point.
	TravelMessage string

	// Aliases is the list of aliases that the user can give to travel via this
	// egress. Note that the label is not included in this list by default to
	// prevent spoilerific room names.
	Aliases []string

	// NeedsFlag is the label of a flag that must be set before the egress can
	// be traveled. If empty, the egress is never locked.
	NeedsFlag string

	// LockedMessage is shown when travel is attempted while NeedsFlag is
	// unset. If empty, a generic message is used.
	LockedMessage string
}

func (egress Egress) String() string {
	return fmt.Sprintf("Egress(%q -> %s)", egress.Aliases, egress.DestLabel)
}

// Copy returns a deeply-copied Egress.
func (egress Egress) Copy() Egress {
	eCopy := Egress{
		DestLabel:     egress.DestLabel,
		Description:   egress.Description,
		TravelMessage: egress.TravelMessage,
		Aliases:       make([]string, len(egress.Aliases)),
		NeedsFlag:     egress.NeedsFlag,
		LockedMessage: egress.LockedMessage,
	}

	copy(eCopy.Aliases, egress.Aliases)

	return eCopy
}

func (egress Egress) GetLabel() string {
	return egress.DestLabel
}

func (egress Egress) GetAliases() []string {
	return egress.Aliases
}

func (egress Egress) GetDescription() string {
	return egress.Description
}

// DescExtra is a conditional addition to a room's description. Its Text is
// appended to the description when IfFlag names a flag that is currently set,
// or when IfNotFlag names a flag that is currently unset. At most one of the
// two conditions is given.
type DescExtra struct {
	// IfFlag makes the extra apply while the named flag is set.
	IfFlag string

	// IfNotFlag makes the extra apply while the named flag is unset.
	IfNotFlag string

	// Text is the text appended to the room description.
	Text string
}

// Room is a scene in the game. It contains a series of exits that lead to other
// rooms, a description, and the items and details that can be interacted with
// inside it.
type Room struct {
	// Label is how the room is referred to in the game. It must be unique from
	// all other Rooms.
	Label string

	// Name is used in short descriptions (prior to LOOK).
	Name string

	// Description is what is returned when LOOK is given with no arguments.
	Description string

	// FirstDescription, if set, replaces Description the first time the player
	// enters the room.
	FirstDescription string

	// Dark marks the room as unlit. While the light flag is unset, the player
	// sees DarkDescription instead of Description and may only travel via the
	// egress named by DarkExit.
	Dark bool

	// DarkDescription is what the player sees in the room while it is dark.
	DarkDescription string

	// DarkExit is the one egress alias that can be used while the room is
	// dark. Blank means no egress is usable in the dark.
	DarkExit string

	// Exits is a list of room labels and ways to describe them, pointing to
	// other rooms in the game.
	Exits []Egress

	// Items is the items on the ground. This can be changed over time.
	Items []Item

	// Details is the fixtures of the room that can be looked at and used but
	// never picked up.
	Details []Detail

	// Extras is the conditional description additions that apply based on
	// current flag values.
	Extras []DescExtra

	// visited is set once the player has entered the room.
	visited bool
}

// Copy returns a deeply-copied Room.
func (room Room) Copy() Room {
	rCopy := Room{
		Label:            room.Label,
		Name:             room.Name,
		Description:      room.Description,
		FirstDescription: room.FirstDescription,
		Dark:             room.Dark,
		DarkDescription:  room.DarkDescription,
		DarkExit:         room.DarkExit,
		Exits:            make([]Egress, len(room.Exits)),
		Items:            make([]Item, len(room.Items)),
		Details:          make([]Detail, len(room.Details)),
		Extras:           make([]DescExtra, len(room.Extras)),
		visited:          room.visited,
	}

	for i := range room.Exits {
		rCopy.Exits[i] = room.Exits[i].Copy()
	}

	for i := range room.Items {
		rCopy.Items[i] = room.Items[i].Copy()
	}

	for i := range room.Details {
		rCopy.Details[i] = room.Details[i].Copy()
	}

	copy(rCopy.Extras, room.Extras)

	return rCopy
}

func (room Room) String() string {
	var exits []string
	for _, eg := range room.Exits {
		exits = append(exits, eg.String())
	}
	exitsStr := strings.Join(exits, ", ")

	return fmt.Sprintf("Room<%s %q EXITS: %s>", room.Label, room.Name, exitsStr)
}

// GetEgressByAlias returns the egress from the room that is represented by the
// given alias. If no Egress has that alias, the returned egress is nil.
func (room Room) GetEgressByAlias(alias string) *Egress {
	foundIdx := -1

	for egIdx, eg := range room.Exits {
		for _, al := range eg.Aliases {
			if al == alias {
				foundIdx = egIdx
				break
			}
		}
		if foundIdx != -1 {
			break
		}
	}

	var foundEgress *Egress
	if foundIdx != -1 {
		foundEgress = &room.Exits[foundIdx]
	}
	return foundEgress
}

// GetItemByAlias returns the item from the room that is represented by the
// given alias. If no Item has that alias, the returned item is nil.
func (room Room) GetItemByAlias(alias string) *Item {
	foundIdx := -1

	for idx, it := range room.Items {
		for _, al := range it.Aliases {
			if al == alias {
				foundIdx = idx
				break
			}
		}
		if foundIdx != -1 {
			break
		}
	}

	var foundItem *Item
	if foundIdx != -1 {
		foundItem = &room.Items[foundIdx]
	}
	return foundItem
}

// GetDetailByAlias returns the detail from the room that is represented by the
// given alias. If no Detail has that alias, the returned detail is nil.
func (room Room) GetDetailByAlias(alias string) *Detail {
	foundIdx := -1

	for idx, det := range room.Details {
		for _, al := range det.Aliases {
			if al == alias {
				foundIdx = idx
				break
			}
		}
		if foundIdx != -1 {
			break
		}
	}

	var foundDetail *Detail
	if foundIdx != -1 {
		foundDetail = &room.Details[foundIdx]
	}
	return foundDetail
}

// GetTargetable returns the thing in the room referred to by the given alias,
// checking items first, then details, then egresses. If nothing in the room
// has that alias, nil is returned.
func (room Room) GetTargetable(alias string) Targetable {
	if item := room.GetItemByAlias(alias); item != nil {
		return item
	}
	if det := room.GetDetailByAlias(alias); det != nil {
		return det
	}
	if eg := room.GetEgressByAlias(alias); eg != nil {
		return eg
	}
	return nil
}

// RemoveItem removes the item of the given label from the room. If there is
// already no item with that label in the room, this has no effect.
func (room *Room) RemoveItem(label string) {
	itemIndex := -1

	for idx, it := range room.Items {
		if it.Label == label {
			itemIndex = idx
			break
		}
	}

	if itemIndex == -1 {
		// no item by that label is here
		return
	}

	// otherwise, rewrite items to not include that.
	room.Items = append(room.Items[:itemIndex], room.Items[itemIndex+1:]...)
}
