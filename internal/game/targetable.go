package game

// Targetable is something that can be targeted by a player command. All can be
// looked at.
type Targetable interface {
	// GetLabel returns the label the thing is indexed by in the world. For an
	// egress this is the label of the destination room.
	GetLabel() string

	// GetAliases returns all names that the player may use to refer to the
	// thing.
	GetAliases() []string

	// GetDescription returns the description to show when the player looks at
	// it.
	GetDescription() string
}

// Usable is a Targetable that carries use actions. Items and details are
// usable; egresses are not.
type Usable interface {
	Targetable

	// GetUses returns the use actions of the thing.
	GetUses() []UseAction
}

// IsItem returns whether the Targetable is an Item and thus can be picked
// up by the player and placed in inventory.
func IsItem(t Targetable) bool {
	_, ok := t.(Item)
	if !ok {
		_, ok = t.(*Item)
		if !ok {
			return false
		}
	}
	return true
}

// IsEgress returns whether the Targetable is an Egress and thus can be
// traversed by the player.
func IsEgress(t Targetable) bool {
	_, ok := t.(Egress)
	if !ok {
		_, ok = t.(*Egress)
		if !ok {
			return false
		}
	}
	return true
}

// IsDetail returns whether the Targetable is a room detail and thus is fixed
// in place.
func IsDetail(t Targetable) bool {
	_, ok := t.(Detail)
	if !ok {
		_, ok = t.(*Detail)
		if !ok {
			return false
		}
	}
	return true
}
