package game

// File game.go holds the game State, its constructor, and the standard
// command set.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/minnowquest/internal/command"
	"github.com/dekarrin/minnowquest/internal/mqerrors"
	"github.com/dekarrin/minnowquest/internal/util"
	"github.com/dekarrin/rosed"
)

// LightFlag is the reserved flag label that lights dark rooms while it is set.
const LightFlag = "LIGHT"

var textFormatOptions = rosed.Options{
	PreserveParagraphs: true,
	IndentStr:          "  ",
}

// IODevice is the screen or stream that game output is written to.
type IODevice struct {
	// The width of each line of output.
	Width int

	// a function to send output. If s is empty, an empty line is sent.
	Output func(s string, a ...interface{}) error
}

// State is the game's entire state.
type State struct {
	// World is all rooms that exist and their current state.
	World map[string]*Room

	// CurrentRoom is the room that the player is in.
	CurrentRoom *Room

	// Inventory is the objects that the player currently has.
	Inventory Inventory

	// flags is the current value of every flag in the world.
	flags map[string]bool

	// itemDefs is every item defined in the world, whether placed in a room
	// or not, so that give effects can mint them.
	itemDefs map[string]Item

	// extras is response state pairs accumulated since the last drain.
	extras map[string]string

	// helpText maps registered command templates to their help descriptions.
	helpText map[string]string

	// quitRequested is set once the player asks to end the game.
	quitRequested bool

	dispatcher *command.Dispatcher
	pf         Pathfinder
	io         IODevice
}

// New creates a new State, loads the world into it, and registers the
// standard command set, the world's own commands, and the shorthand aliases.
// It performs basic sanity checks to ensure that a valid world is being
// passed in and normalizes it as needed.
//
// startingRoom is the label of the room to start in. flags is the initial
// value of every flag the world defines. items is every item definition in
// the world, keyed by label. commands is the world's data-defined commands.
// ioDev is the output device; its Width is how wide output should be, and if
// not set or < 2 it is assumed to be 80.
func New(world map[string]*Room, startingRoom string, flags map[string]bool, items map[string]Item, commands []DataCommand, ioDev IODevice) (*State, error) {
	if ioDev.Width < 2 {
		ioDev.Width = 80
	}
	if ioDev.Output == nil {
		return nil, fmt.Errorf("io device must define an Output function")
	}

	gs := &State{
		World:      world,
		Inventory:  make(Inventory),
		flags:      make(map[string]bool, len(flags)),
		itemDefs:   make(map[string]Item, len(items)),
		helpText:   make(map[string]string),
		dispatcher: command.NewDispatcher(),
		pf:         Pathfinder{World: world},
		io:         ioDev,
	}

	var startExists bool
	gs.CurrentRoom, startExists = gs.World[startingRoom]
	if !startExists {
		return nil, fmt.Errorf("starting room with label %q does not exist in passed-in rooms", startingRoom)
	}

	for fl, v := range flags {
		gs.flags[fl] = v
	}
	for label, it := range items {
		gs.itemDefs[label] = it.Copy()
	}

	if err := gs.registerStandardCommands(); err != nil {
		return nil, err
	}

	for _, dc := range commands {
		if err := gs.registerDataCommand(dc); err != nil {
			return nil, fmt.Errorf("world command %q: %w", dc.Pattern, err)
		}
	}

	shorthand := map[string]string{
		"?": "help",
		"n": "go north",
		"s": "go south",
		"e": "go east",
		"w": "go west",
		"i": "inventory",
		"x": "look at",
	}
	for from, to := range shorthand {
		if err := gs.dispatcher.Alias(from, to); err != nil {
			return nil, fmt.Errorf("register alias %q: %w", from, err)
		}
	}

	return gs, nil
}

// register adds one command to the dispatcher and records its help text.
func (gs *State) register(pattern, help string, h command.Handler, opts ...command.RegisterOption) error {
	if err := gs.dispatcher.Register(pattern, h, opts...); err != nil {
		return err
	}
	gs.helpText[pattern] = help
	return nil
}

func (gs *State) registerStandardCommands() error {
	regs := []struct {
		pattern string
		help    string
		handler command.Handler
		opts    []command.RegisterOption
	}{
		{"help", "show this help", command.Func(gs.cmdHelp), nil},
		{"go EXIT", "go to another room via one of the exits", command.Func(gs.cmdGo, "exit"), nil},
		{"move EXIT", "same as 'go'", command.Func(gs.cmdGo, "exit"), nil},
		{"exits", "show the names of all exits from the room", command.Func(gs.cmdExits), nil},
		{"look", "show the description of the room", command.Func(gs.cmdLook, "target"), []command.RegisterOption{command.WithArg("target", "")}},
		{"look at TARGET", "show the description of something in the room", command.Func(gs.cmdLook, "target"), nil},
		{"investigate TARGET", "same as 'look at'", command.Func(gs.cmdLook, "target"), nil},
		{"take ITEM", "pick up an object in the room", command.Func(gs.cmdTake, "item"), nil},
		{"drop ITEM", "put down an object in the room", command.Func(gs.cmdDrop, "item"), nil},
		{"use ITEM on TARGET", "use an object on something else in the room", command.Func(gs.cmdUseOn, "item", "target"), nil},
		{"use ITEM", "use an object by itself", command.Func(gs.cmdUse, "item"), nil},
		{"inventory", "show your current inventory", command.Func(gs.cmdInventory), nil},
		{"quit", "end the game", command.Func(gs.cmdQuit), nil},
	}

	for _, reg := range regs {
		if err := gs.register(reg.pattern, reg.help, reg.handler, reg.opts...); err != nil {
			return fmt.Errorf("register %q: %w", reg.pattern, err)
		}
	}

	return nil
}

// Advance advances the game state based on the given line of player input. If
// there is a problem executing the command, it is given in the error output
// and the game state is not advanced. If it is, the result of the command is
// written to the state's IO device.
//
// Input that matches no command is returned as a non-nil error as opposed to
// writing directly to the IO device; the caller can decide whether to show it.
func (gs *State) Advance(line string) error {
	res := gs.Dispatch(line)

	if !res.Matched {
		return mqerrors.Game(UnknownCommand(strings.TrimSpace(line)), fmt.Sprintf("input %q matched no command", line))
	}
	if res.Err != nil {
		return res.Err
	}

	output := res.Output
	if output == "" {
		output = "OK"
	}

	// IO to give output:
	return gs.io.Output("\n" + output + "\n\n")
}

// Dispatch runs one line of player input against the game's commands and
// returns the raw result, leaving misses and faults for the caller to
// present. Most callers want Advance instead.
func (gs *State) Dispatch(line string) command.Result {
	return gs.dispatcher.Dispatch(line)
}

// UnknownCommand returns the message shown to the player when input matches
// no command.
func UnknownCommand(line string) string {
	return fmt.Sprintf("I don't understand %q.", line)
}

// QuitRequested returns whether the player has asked to end the game.
func (gs *State) QuitRequested() bool {
	return gs.quitRequested
}

// FlagSet returns whether the flag with the given label is currently set.
func (gs *State) FlagSet(label string) bool {
	return gs.flags[strings.ToUpper(label)]
}

// PushExtra records a response state pair to accompany the output of the
// current command. Pairs accumulate until DrainExtras is called.
func (gs *State) PushExtra(key, value string) {
	if gs.extras == nil {
		gs.extras = make(map[string]string)
	}
	gs.extras[key] = value
}

// DrainExtras returns all response state pairs pushed since the last call and
// clears them. The returned map is never nil.
func (gs *State) DrainExtras() map[string]string {
	ex := gs.extras
	gs.extras = nil
	if ex == nil {
		ex = map[string]string{}
	}
	return ex
}

// PrintCurrentRoom writes the description of the current room to the IO
// device, as though the player had just arrived there.
func (gs *State) PrintCurrentRoom() error {
	look, err := gs.Look("")
	if err != nil {
		return err
	}

	output := rosed.Edit(look).WrapOpts(gs.io.Width, textFormatOptions).String()
	return gs.io.Output("\n" + output + "\n\n")
}

// ExpandText runs variable expansion over s using the current flag values.
func (gs *State) ExpandText(s string) string {
	return Expand(s, gs.expandVars(nil))
}

// expandVars builds the expansion variables: every flag label (lowercased)
// mapping to "true" or "false", overlaid with the given captures.
func (gs *State) expandVars(args command.Args) map[string]string {
	vars := make(map[string]string, len(gs.flags)+len(args))

	for fl, set := range gs.flags {
		val := "false"
		if set {
			val = "true"
		}
		vars[strings.ToLower(fl)] = val
	}
	for name, v := range args {
		vars[name] = v
	}

	return vars
}

// roomIsDark returns whether the player currently cannot see the room.
func (gs *State) roomIsDark() bool {
	return gs.CurrentRoom.Dark && !gs.flags[LightFlag]
}

// giveItem adds the item with the given label to the inventory, minting it
// from the item definitions. It does nothing if the player already has the
// item or if no item has that label.
func (gs *State) giveItem(label string) {
	if _, ok := gs.Inventory[label]; ok {
		return
	}
	if def, ok := gs.itemDefs[label]; ok {
		gs.Inventory[label] = def.Copy()
	}
}

// Look gets the look description as a single long string. It returns non-nil
// error if there are issues retrieving it. If alias is empty, the room is
// looked at. The returned string is not formatted except that any separate
// listings (such as items in a room) will be separated by "\n\n". The
// returned string has variable expansion applied.
func (gs *State) Look(alias string) (string, error) {
	if alias != "" {
		if gs.roomIsDark() {
			return "", mqerrors.Game("It's too dark to make anything out.", "")
		}

		lookTarget := gs.CurrentRoom.GetTargetable(alias)
		if lookTarget == nil {
			if it := gs.Inventory.GetItemByAlias(alias); it != nil {
				lookTarget = *it
			}
		}
		if lookTarget == nil {
			return "", mqerrors.Gamef("I don't see any %q here.", alias)
		}

		return gs.ExpandText(lookTarget.GetDescription()), nil
	}

	if gs.roomIsDark() {
		desc := gs.CurrentRoom.DarkDescription
		if desc == "" {
			desc = "It is pitch black. You can't see a thing."
		}
		return desc, nil
	}

	desc := gs.CurrentRoom.Description
	if !gs.CurrentRoom.visited && gs.CurrentRoom.FirstDescription != "" {
		desc = gs.CurrentRoom.FirstDescription
	}
	gs.CurrentRoom.visited = true

	desc = gs.ExpandText(desc)

	for _, ex := range gs.CurrentRoom.Extras {
		if ex.IfFlag != "" && !gs.flags[ex.IfFlag] {
			continue
		}
		if ex.IfNotFlag != "" && gs.flags[ex.IfNotFlag] {
			continue
		}
		desc += "\n\n" + gs.ExpandText(ex.Text)
	}

	if len(gs.CurrentRoom.Items) > 0 {
		var itemNames []string

		for _, it := range gs.CurrentRoom.Items {
			itemNames = append(itemNames, it.Name)
		}

		desc += "\n\n"
		desc += "On the ground, you can see "
		desc += util.MakeTextList(itemNames, true) + "."
	}

	return desc, nil
}

func (gs *State) cmdGo(args command.Args) (string, error) {
	exitName := args.Get("exit")

	egress := gs.CurrentRoom.GetEgressByAlias(exitName)
	if egress == nil {
		return "", mqerrors.Gamef("%q isn't a place you can go from here.", exitName)
	}

	if gs.roomIsDark() {
		darkEgress := gs.CurrentRoom.GetEgressByAlias(gs.CurrentRoom.DarkExit)
		if darkEgress == nil || darkEgress.DestLabel != egress.DestLabel {
			return "", mqerrors.Game("You can't see a thing. Stumbling around in the dark seems like a bad idea.", "")
		}
	}

	if egress.NeedsFlag != "" && !gs.flags[egress.NeedsFlag] {
		msg := egress.LockedMessage
		if msg == "" {
			msg = "You can't go that way right now."
		}
		return "", mqerrors.Game(gs.ExpandText(msg), "")
	}

	gs.CurrentRoom = gs.World[egress.DestLabel]

	lookText, err := gs.Look("")
	if err != nil {
		return "", err
	}

	output := lookText
	if egress.TravelMessage != "" {
		output = gs.ExpandText(egress.TravelMessage) + "\n\n" + lookText
	}

	return rosed.Edit(output).WrapOpts(gs.io.Width, textFormatOptions).String(), nil
}

func (gs *State) cmdExits(args command.Args) (string, error) {
	if gs.roomIsDark() {
		return "", mqerrors.Game("It's too dark to make out any exits.", "")
	}

	ed := rosed.Edit("You search for ways out of the room, ").WithOptions(textFormatOptions)
	if len(gs.CurrentRoom.Exits) < 1 {
		ed = ed.Insert(rosed.End, "but you can't seem to find any exits right now")
	} else {

		ed = ed.
			Insert(rosed.End, "and find:\n").
			CharsFrom(rosed.End)

		for _, eg := range gs.CurrentRoom.Exits {
			expanded := gs.ExpandText(eg.Description)
			ed = ed.Insert(rosed.End, "XX* "+eg.Aliases[0]+": "+expanded+"\n")
		}

		// from prior CharsFrom, this should only apply to the list of exits.
		ed = ed.
			WithOptions(ed.Options.WithParagraphSeparator("\n")).
			Wrap(gs.io.Width).
			ApplyParagraphs(func(_ int, para, _, _ string) []string {
				// set first two chars to spaces
				newPara := rosed.Edit(para).Overtype(0, "  ").String()
				return []string{newPara}
			}).
			Commit().
			Insert(rosed.End, "\n(You might be able to call them other things, too)")
	}

	return ed.String(), nil
}

func (gs *State) cmdLook(args command.Args) (string, error) {
	target := args.Get("target")

	output, err := gs.Look(target)
	if err != nil {
		return "", err
	}

	ed := rosed.Edit("").WithOptions(textFormatOptions)

	if target == "" {
		ed = ed.Insert(rosed.End, "You check your surroundings.\n\n")
	} else {
		ed = ed.Insert(rosed.End, fmt.Sprintf("You examine the %s.\n\n", target))
	}

	output = ed.
		Insert(rosed.End, output).
		Wrap(gs.io.Width).
		String()

	return output, nil
}

func (gs *State) cmdTake(args command.Args) (string, error) {
	itemName := args.Get("item")

	if gs.roomIsDark() {
		return "", mqerrors.Game("It's too dark to find anything in here.", "")
	}

	item := gs.CurrentRoom.GetItemByAlias(itemName)
	if item == nil {
		if gs.CurrentRoom.GetDetailByAlias(itemName) != nil {
			return "", mqerrors.Gamef("The %s isn't something you can carry around.", itemName)
		}
		return "", mqerrors.Gamef("I don't see any %q here.", itemName)
	}

	// first remove the item from the room
	taken := *item
	gs.CurrentRoom.RemoveItem(taken.Label)

	// then add it to inventory.
	gs.Inventory[taken.Label] = taken

	output := fmt.Sprintf("You pick up the %s and add it to your inventory.", taken.Name)
	return output, nil
}

func (gs *State) cmdDrop(args command.Args) (string, error) {
	itemName := args.Get("item")

	item := gs.Inventory.GetItemByAlias(itemName)
	if item == nil {
		return "", mqerrors.Gamef("You don't have a %q.", itemName)
	}

	// first remove item from inven
	delete(gs.Inventory, item.Label)

	// add to room
	gs.CurrentRoom.Items = append(gs.CurrentRoom.Items, *item)

	output := fmt.Sprintf("You drop the %s onto the ground.", item.Name)
	return output, nil
}

func (gs *State) cmdUse(args command.Args) (string, error) {
	return gs.useThing(args.Get("item"), "")
}

func (gs *State) cmdUseOn(args command.Args) (string, error) {
	return gs.useThing(args.Get("item"), args.Get("target"))
}

// useThing resolves a use command against the use actions of the used thing.
// The used thing may be a held item, an item on the ground, or a detail of
// the room. targetAlias is blank for a bare use.
func (gs *State) useThing(itemAlias, targetAlias string) (string, error) {
	var used Usable
	if it := gs.Inventory.GetItemByAlias(itemAlias); it != nil {
		used = *it
	} else if it := gs.CurrentRoom.GetItemByAlias(itemAlias); it != nil {
		used = *it
	} else if det := gs.CurrentRoom.GetDetailByAlias(itemAlias); det != nil {
		used = *det
	}
	if used == nil {
		return "", mqerrors.Gamef("I don't see any %q here.", itemAlias)
	}

	var withLabel string
	if targetAlias != "" {
		tgt := gs.CurrentRoom.GetTargetable(targetAlias)
		if tgt == nil {
			if it := gs.Inventory.GetItemByAlias(targetAlias); it != nil {
				tgt = *it
			}
		}
		if tgt == nil {
			return "", mqerrors.Gamef("I don't see any %q here.", targetAlias)
		}
		withLabel = tgt.GetLabel()
	}

	var action *UseAction
	uses := used.GetUses()
	for i := range uses {
		if uses[i].With == withLabel {
			action = &uses[i]
			break
		}
	}
	if action == nil {
		if targetAlias == "" {
			return "", mqerrors.Gamef("You can't think of a way to use the %s by itself.", itemAlias)
		}
		return "", mqerrors.Gamef("You can't think of a way to use the %s on the %s.", itemAlias, targetAlias)
	}

	return gs.fireUseAction(*action)
}

// fireUseAction applies the effects of a use action and returns its text.
func (gs *State) fireUseAction(act UseAction) (string, error) {
	for _, fl := range act.Set {
		gs.flags[fl] = true
	}
	for _, fl := range act.Unset {
		gs.flags[fl] = false
	}
	if act.Give != "" {
		gs.giveItem(act.Give)
	}

	if act.Enter != "" {
		ctx, err := command.ParseContext(act.Enter)
		if err != nil {
			return "", err
		}
		gs.dispatcher.SetContext(ctx)
	}

	output := gs.ExpandText(act.Say)
	if output == "" {
		return "", nil
	}

	return rosed.Edit(output).WrapOpts(gs.io.Width, textFormatOptions).String(), nil
}

func (gs *State) cmdInventory(args command.Args) (string, error) {
	var output string

	if len(gs.Inventory) < 1 {
		output = "You aren't carrying anything"
	} else {
		var itemNames []string
		for _, it := range gs.Inventory {
			itemNames = append(itemNames, it.Name)
		}

		output = "You currently have the following items:\n"
		output += util.MakeTextList(itemNames, true) + "."
	}

	output = rosed.Edit(output).WrapOpts(gs.io.Width, textFormatOptions).String()
	return output, nil
}

func (gs *State) cmdHelp(args command.Args) (string, error) {
	templates := gs.dispatcher.ActiveTemplates()
	sort.Strings(templates)

	helpData := make([][2]string, len(templates))
	for i, tmpl := range templates {
		desc := gs.helpText[tmpl]
		if desc == "" {
			desc = "a special command of this world"
		}
		helpData[i] = [2]string{tmpl, desc}
	}

	output := rosed.Edit("").WithOptions(
		textFormatOptions.
			WithParagraphSeparator("\n").
			WithNoTrailingLineSeparators(true)).
		Insert(rosed.End, "Here are the commands you can use:\n").
		InsertDefinitionsTable(rosed.End, helpData, gs.io.Width).String()

	return output, nil
}

func (gs *State) cmdQuit(args command.Args) (string, error) {
	gs.quitRequested = true
	gs.PushExtra("quit", "true")
	return "Goodbye!", nil
}
