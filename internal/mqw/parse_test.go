package mqw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// minimalWorldTOML is the smallest world that passes every parse check.
const minimalWorldTOML = `
format = "minnow"
type = "data"

[world]
start = "cove"

[[room]]
label = "cove"
name = "Cove"
description = "A quiet cove."
`

func parseWorldTOML(t *testing.T, tomlStr string) (WorldData, error) {
	t.Helper()

	unmarshaled, err := unmarshalWorldData([]byte(tomlStr))
	if err != nil {
		t.Fatalf("unmarshaling test world: %v", err)
	}

	return parseWorldData(unmarshaled)
}

func Test_parseWorldData_minimalWorld(t *testing.T) {
	assert := assert.New(t)

	world, err := parseWorldTOML(t, minimalWorldTOML)

	if !assert.NoError(err) {
		return
	}
	assert.Equal("COVE", world.Start)
	assert.Len(world.Rooms, 1)
	assert.Contains(world.Rooms, "COVE")
	assert.Equal(map[string]bool{"LIGHT": false}, world.Flags)
	assert.Empty(world.Items)
	assert.Empty(world.Commands)
}

func Test_parseWorldData_fullWorld(t *testing.T) {
	assert := assert.New(t)

	world, err := parseWorldTOML(t, `
format = "minnow"
type = "data"

[world]
start = "beach"

[[flag]]
label = "gate_open"

[[flag]]
label = "tide_out"
default = true

[[room]]
label = "beach"
name = "Beach"
description = "Sand stretches in both directions."
first_description = "You wash ashore on a sandy beach."

[[room.exit]]
dest = "grotto"
aliases = ["north", "grotto"]
description = "a dim grotto to the north"
message = "You duck into the grotto."

[[room.exit]]
dest = "garden"
aliases = ["east", "gate"]
description = "a barred gate to the east"
message = "You slip through the gate."
needs_flag = "gate_open"
locked_message = "The gate is rusted shut."

[[room.detail]]
label = "statue"
aliases = ["statue", "old statue"]
description = "A statue worn smooth by salt wind."

[[room.detail.on_use]]
with = "crank"
say = "The statue pivots and the gate creaks open."
set = ["gate_open"]

[[room.extra]]
if_not_flag = "gate_open"
text = "A barred gate blocks the path east."

[[room]]
label = "grotto"
name = "Grotto"
description = "Wet stone walls curve overhead."
dark = true
dark_description = "It is pitch dark in here."
dark_exit = "south"

[[room.exit]]
dest = "beach"
aliases = ["south", "out"]
description = "daylight to the south"
message = "You climb back out to the beach."

[[room]]
label = "garden"
name = "Garden"
description = "Rows of kelp sway in neat lines."

[[room.exit]]
dest = "beach"
aliases = ["west"]
description = "the beach back west"
message = "You head back to the beach."

[[item]]
label = "crank"
name = "iron crank"
description = "A heavy iron crank."
aliases = ["crank", "iron crank"]
start = "beach"

[[item]]
label = "pearl"
name = "pearl"
description = "A softly glowing pearl."
aliases = ["pearl"]

[[command]]
pattern = "dive"
help = "dive into the surf"
say = "You dive in and surface with a pearl!"
give = "pearl"

[[command]]
pattern = "hum NOTES"
context = "Statue.Puzzle"
match = "Low Low High"
say = "The statue hums back."
otherwise = "Nothing happens."
set = ["gate_open"]
leave = true

[command.state]
statue = "humming"
`)

	if !assert.NoError(err) {
		return
	}

	// labels come out upper case and the start is resolved
	assert.Equal("BEACH", world.Start)
	assert.Len(world.Rooms, 3)
	beach := world.Rooms["BEACH"]
	if !assert.NotNil(beach) {
		return
	}

	// the light flag is always defined, declared flags keep their defaults
	assert.Equal(map[string]bool{
		"LIGHT":     false,
		"GATE_OPEN": false,
		"TIDE_OUT":  true,
	}, world.Flags)

	// exits keep lower-case aliases and upper-case references
	gateExit := beach.GetEgressByAlias("gate")
	if assert.NotNil(gateExit) {
		assert.Equal("GARDEN", gateExit.DestLabel)
		assert.Equal("GATE_OPEN", gateExit.NeedsFlag)
		assert.Equal("The gate is rusted shut.", gateExit.LockedMessage)
	}

	// detail use actions keep upper-case references
	statue := beach.GetDetailByAlias("old statue")
	if assert.NotNil(statue) && assert.Len(statue.Uses, 1) {
		assert.Equal("CRANK", statue.Uses[0].With)
		assert.Equal([]string{"GATE_OPEN"}, statue.Uses[0].Set)
	}

	// extras keep upper-case flag references
	if assert.Len(beach.Extras, 1) {
		assert.Equal("GATE_OPEN", beach.Extras[0].IfNotFlag)
	}

	// dark room properties survive, with the exit alias lower case
	grotto := world.Rooms["GROTTO"]
	if assert.NotNil(grotto) {
		assert.True(grotto.Dark)
		assert.Equal("It is pitch dark in here.", grotto.DarkDescription)
		assert.Equal("south", grotto.DarkExit)
	}

	// the crank starts on the ground at the beach; the pearl starts nowhere
	// but is still defined for the give effect to mint
	assert.NotNil(beach.GetItemByAlias("iron crank"))
	assert.Len(beach.Items, 1)
	assert.Len(world.Items, 2)
	assert.Contains(world.Items, "CRANK")
	assert.Contains(world.Items, "PEARL")

	// commands are converted with normalized case
	if assert.Len(world.Commands, 2) {
		dive := world.Commands[0]
		assert.Equal("dive", dive.Pattern)
		assert.Equal("PEARL", dive.Give)

		hum := world.Commands[1]
		assert.Equal("statue.puzzle", hum.Context)
		assert.Equal("low low high", hum.Match)
		assert.Equal("Nothing happens.", hum.Otherwise)
		assert.Equal([]string{"GATE_OPEN"}, hum.Set)
		assert.True(hum.Leave)
		assert.Equal(map[string]string{"statue": "humming"}, hum.State)
	}
}

func Test_parseWorldData_validation(t *testing.T) {
	testCases := []struct {
		name        string
		toml        string
		errContains string
	}{
		{
			name: "start names a room that does not exist",
			toml: `
format = "minnow"
type = "data"

[world]
start = "nowhere"

[[room]]
label = "cove"
name = "Cove"
description = "A quiet cove."
`,
			errContains: `no room with label "nowhere" exists`,
		},
		{
			name: "duplicate room label",
			toml: minimalWorldTOML + `
[[room]]
label = "cove"
name = "Other Cove"
description = "A second quiet cove."
`,
			errContains: "has already been used for a room",
		},
		{
			name: "room label with a bad character",
			toml: `
format = "minnow"
type = "data"

[world]
start = "cove"

[[room]]
label = "quiet cove"
name = "Cove"
description = "A quiet cove."
`,
			errContains: "not allowed for labels",
		},
		{
			name: "room with blank name",
			toml: `
format = "minnow"
type = "data"

[world]
start = "cove"

[[room]]
label = "cove"
description = "A quiet cove."
`,
			errContains: "must have non-blank 'name' field",
		},
		{
			name: "exit without aliases",
			toml: minimalWorldTOML + `
[[room.exit]]
dest = "cove"
description = "the long way around"
message = "You circle the cove."
`,
			errContains: "must have at least one alias",
		},
		{
			name: "exit dest names a room that does not exist",
			toml: minimalWorldTOML + `
[[room.exit]]
dest = "atlantis"
aliases = ["down"]
description = "the deeps"
message = "You swim down."
`,
			errContains: "dest: no room has label",
		},
		{
			name: "exit needs a flag that does not exist",
			toml: minimalWorldTOML + `
[[room.exit]]
dest = "cove"
aliases = ["around"]
description = "the long way around"
message = "You circle the cove."
needs_flag = "tide_out"
`,
			errContains: "needs_flag: no flag has label",
		},
		{
			name: "locked message without needs flag",
			toml: minimalWorldTOML + `
[[room.exit]]
dest = "cove"
aliases = ["around"]
description = "the long way around"
message = "You circle the cove."
locked_message = "The way is shut."
`,
			errContains: "'locked_message' is only used",
		},
		{
			name: "dark exit is not an exit alias",
			toml: `
format = "minnow"
type = "data"

[world]
start = "cove"

[[room]]
label = "cove"
name = "Cove"
description = "A quiet cove."
dark = true
dark_exit = "up"

[[room.exit]]
dest = "cove"
aliases = ["around"]
description = "the long way around"
message = "You circle the cove."
`,
			errContains: "dark_exit: no exit in the room has alias",
		},
		{
			name: "dark exit on a lit room",
			toml: `
format = "minnow"
type = "data"

[world]
start = "cove"

[[room]]
label = "cove"
name = "Cove"
description = "A quiet cove."
dark_exit = "around"

[[room.exit]]
dest = "cove"
aliases = ["around"]
description = "the long way around"
message = "You circle the cove."
`,
			errContains: "'dark_exit' is only used when 'dark' is true",
		},
		{
			name: "item starts in a room that does not exist",
			toml: minimalWorldTOML + `
[[item]]
label = "shell"
name = "shell"
description = "A spiral shell."
aliases = ["shell"]
start = "atlantis"
`,
			errContains: "start: no room with label",
		},
		{
			name: "item aliases conflict",
			toml: minimalWorldTOML + `
[[item]]
label = "shell"
name = "shell"
description = "A spiral shell."
aliases = ["shell"]

[[item]]
label = "conch"
name = "conch"
description = "A pink conch."
aliases = ["shell"]
`,
			errContains: "conflicts with another alias",
		},
		{
			name: "exit alias conflicts with item alias",
			toml: minimalWorldTOML + `
[[room.exit]]
dest = "cove"
aliases = ["shell"]
description = "a shell-lined path"
message = "You follow the shells around."

[[item]]
label = "shell"
name = "shell"
description = "A spiral shell."
aliases = ["shell"]
`,
			errContains: "conflicts with item alias",
		},
		{
			name: "alias with a leading space",
			toml: minimalWorldTOML + `
[[item]]
label = "shell"
name = "shell"
description = "A spiral shell."
aliases = [" shell"]
`,
			errContains: "aliases cannot start with a space",
		},
		{
			name: "use action with unknown target",
			toml: minimalWorldTOML + `
[[item]]
label = "shell"
name = "shell"
description = "A spiral shell."
aliases = ["shell"]

[[item.on_use]]
with = "kraken"
say = "You wave the shell at the kraken."
`,
			errContains: "with: no item, detail, or room has label",
		},
		{
			name: "use action gives an unknown item",
			toml: minimalWorldTOML + `
[[item]]
label = "shell"
name = "shell"
description = "A spiral shell."
aliases = ["shell"]

[[item.on_use]]
say = "Something rattles out of the shell."
give = "pearl"
`,
			errContains: "give: no item has label",
		},
		{
			name: "use action sets an unknown flag",
			toml: minimalWorldTOML + `
[[item]]
label = "shell"
name = "shell"
description = "A spiral shell."
aliases = ["shell"]

[[item.on_use]]
say = "The shell hums."
set = ["humming"]
`,
			errContains: "no flag has label",
		},
		{
			name: "command pattern does not compile",
			toml: minimalWorldTOML + `
[[command]]
pattern = "grab it2"
say = "Got it."
`,
			errContains: "pattern: ",
		},
		{
			name: "command context is invalid",
			toml: minimalWorldTOML + `
[[command]]
pattern = "whisper"
context = ".hidden"
say = "You whisper."
`,
			errContains: "may not start with",
		},
		{
			name: "match requires exactly one placeholder",
			toml: minimalWorldTOML + `
[[command]]
pattern = "open sesame"
match = "sesame"
say = "It opens."
`,
			errContains: "exactly one placeholder",
		},
		{
			name: "otherwise without match",
			toml: minimalWorldTOML + `
[[command]]
pattern = "knock"
say = "You knock."
otherwise = "Nothing happens."
`,
			errContains: "'otherwise' is only used",
		},
		{
			name: "unreachable room",
			toml: minimalWorldTOML + `
[[room]]
label = "isle"
name = "Isle"
description = "A distant isle."
`,
			errContains: "not reachable from starting room",
		},
		{
			name: "light flag redefined",
			toml: minimalWorldTOML + `
[[flag]]
label = "light"
`,
			errContains: "has already been used for a flag",
		},
		{
			name: "extra with both conditions",
			toml: minimalWorldTOML + `
[[room.extra]]
if_flag = "light"
if_not_flag = "light"
text = "The water glitters."
`,
			errContains: "cannot have both 'if_flag' and 'if_not_flag'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := parseWorldTOML(t, tc.toml)

			if !assert.Error(err) {
				return
			}
			assert.Contains(err.Error(), tc.errContains)
		})
	}
}
