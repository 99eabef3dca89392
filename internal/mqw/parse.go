package mqw

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dekarrin/minnowquest/internal/command"
	"github.com/dekarrin/minnowquest/internal/game"
)

// these are getting chucked into char classes so order matters. Labels are
// checked after conversion to upper case and aliases after conversion to
// lower case.
const labelChars = `]A-Z0-9_!?#%^&*().,<>/+=[|{}:;-`
const aliasEndChars = `]a-z0-9_!?#%^&*().,<>/+=[|{}:;-`
const aliasChars = `]a-z0-9_!?#%^&*().,<>/+=[|{}:; -`

var (
	labelRegexp        = regexp.MustCompile(fmt.Sprintf(`^[%s]+$`, labelChars))
	aliasRegexp        = regexp.MustCompile(fmt.Sprintf(`^(?:[%s][%s]*)?[%s]+$`, aliasEndChars, aliasChars, aliasEndChars))
	labelBadCharRegexp = regexp.MustCompile(fmt.Sprintf(`[^%s]`, labelChars))
	aliasBadCharRegexp = regexp.MustCompile(fmt.Sprintf(`[^%s]`, aliasChars))
)

func parseManifest(manif topLevelManifest) (Manifest, error) {
	parsed := Manifest{
		Files: manif.Files,
	}

	return parsed, nil
}

type stringSet map[string]bool

type worldSymbols struct {
	roomLabels   stringSet
	itemLabels   stringSet
	itemAliases  stringSet
	detailLabels stringSet
	flagLabels   stringSet
}

func parseWorldData(top topLevelWorldData) (WorldData, error) {
	var err error

	world := WorldData{
		Rooms: make(map[string]*game.Room),
		Flags: map[string]bool{game.LightFlag: false},
		Items: make(map[string]game.Item),
	}

	// first, get all of our game symbols so we can immediately check validity
	// of every reference as we go through it.
	symbols, err := scanSymbols(top)
	if err != nil {
		return world, err
	}

	// with all symbols pre-loaded, we can now immediately check validity of
	// every field, including those that are to be a reference to another game
	// object.

	// validate start
	if _, ok := symbols.roomLabels[strings.ToUpper(top.World.Start)]; !ok {
		return world, fmt.Errorf("world: start: no room with label %q exists", top.World.Start)
	}
	world.Start = strings.ToUpper(top.World.Start)

	// flag labels were already checked during the symbol scan
	for _, f := range top.Flags {
		world.Flags[strings.ToUpper(f.Label)] = f.Default
	}

	// validate rooms
	for _, r := range top.Rooms {
		if roomErr := validateRoomDef(r, symbols); roomErr != nil {
			return world, fmt.Errorf("rooms[%q]: %w", r.Label, roomErr)
		}

		room := r.toGameRoom()
		world.Rooms[room.Label] = &room
	}

	// validate items. The full definition of every one is kept so give
	// effects can mint them later; those with a start are also placed on the
	// ground in their room.
	for _, it := range top.Items {
		if itemErr := validateItemDef(it, symbols); itemErr != nil {
			return world, fmt.Errorf("items[%q]: %w", it.Label, itemErr)
		}

		gameItem := it.toGameItem()
		world.Items[gameItem.Label] = gameItem

		if it.Start != "" {
			startRoom := world.Rooms[strings.ToUpper(it.Start)]
			startRoom.Items = append(startRoom.Items, gameItem)
		}
	}

	// validate commands
	for _, c := range top.Commands {
		if cmdErr := validateCommandDef(c, symbols); cmdErr != nil {
			return world, fmt.Errorf("commands[%q]: %w", c.Pattern, cmdErr)
		}

		world.Commands = append(world.Commands, c.toGameDataCommand())
	}

	// every room must be enterable, or it is a mistake in the world data
	pf := game.Pathfinder{World: world.Rooms}
	reachable := pf.ReachableFrom(world.Start)
	roomLabels := make([]string, 0, len(world.Rooms))
	for label := range world.Rooms {
		roomLabels = append(roomLabels, label)
	}
	sort.Strings(roomLabels)
	for _, label := range roomLabels {
		if !reachable.Has(label) {
			return world, fmt.Errorf("rooms[%q]: not reachable from starting room %q", label, world.Start)
		}
	}

	return world, nil
}

// this builds up a pre-list of 'seen' labels and aliases so we can check for
// pointers later. All of them will be checked for conflicts within their own
// class of objects and all of them will be checked for validity as either a
// label or an alias.
//
// Despite not being returned here, detail and egress aliases will be checked
// for alias validity as well as conflict checked against the other detail and
// egress aliases in their room and against global item aliases.
//
// Error is returned if any alias or label fails to follow its naming rules or
// if any of them conflicts with another. Otherwise, global symbols are
// returned so that they can be used to check references to them. The labels
// returned will all be converted to upper case already, and the aliases to
// lower case.
func scanSymbols(top topLevelWorldData) (symbols worldSymbols, err error) {
	syms := worldSymbols{
		roomLabels:   make(stringSet),
		itemLabels:   make(stringSet),
		itemAliases:  make(stringSet),
		detailLabels: make(stringSet),

		// hard-code the flag reserved for lighting dark rooms
		flagLabels: stringSet{
			game.LightFlag: true,
		},
	}

	for _, r := range top.Rooms {
		rLabelUpper := strings.ToUpper(r.Label)
		if err := checkLabel(rLabelUpper, syms.roomLabels, "a room"); err != nil {
			return syms, fmt.Errorf("room %q: %w", r.Label, err)
		}
		syms.roomLabels[rLabelUpper] = true

		// detail labels only need to be unique within their own room, but
		// they are gathered globally so use actions can refer to them
		detailLabelsInRoom := make(stringSet)
		for _, det := range r.Details {
			detLabelUpper := strings.ToUpper(det.Label)
			if err := checkLabel(detLabelUpper, detailLabelsInRoom, "a detail in this room"); err != nil {
				return syms, fmt.Errorf("room %q: detail %q: %w", r.Label, det.Label, err)
			}
			detailLabelsInRoom[detLabelUpper] = true
			syms.detailLabels[detLabelUpper] = true
		}
	}

	// scan items
	for _, it := range top.Items {
		itLabelUpper := strings.ToUpper(it.Label)
		if err := checkLabel(itLabelUpper, syms.itemLabels, "an item"); err != nil {
			return syms, fmt.Errorf("item %q: %w", it.Label, err)
		}
		syms.itemLabels[itLabelUpper] = true

		for _, alias := range it.Aliases {
			aliasLower := strings.ToLower(alias)
			if err := checkAlias(aliasLower, syms.itemAliases); err != nil {
				return syms, fmt.Errorf("item %q: alias %q: %w", it.Label, alias, err)
			}
			syms.itemAliases[aliasLower] = true
		}
	}

	// scan flags
	for _, f := range top.Flags {
		fLabelUpper := strings.ToUpper(f.Label)
		if err := checkLabel(fLabelUpper, syms.flagLabels, "a flag"); err != nil {
			return syms, fmt.Errorf("flag %q: %w", f.Label, err)
		}
		syms.flagLabels[fLabelUpper] = true
	}

	// end of getting global symbols
	// now check the non-global ones

	// detail and egress aliases (against each other in the room and against
	// item aliases, since items can be dropped in any room)
	for _, r := range top.Rooms {
		aliasesInRoom := make(stringSet)

		for _, det := range r.Details {
			for _, alias := range det.Aliases {
				aliasLower := strings.ToLower(alias)

				if err := checkAlias(aliasLower, aliasesInRoom); err != nil {
					return syms, fmt.Errorf("room %q: detail %q: alias %q: %w", r.Label, det.Label, alias, err)
				}
				if err := checkAlias(aliasLower, syms.itemAliases); err != nil {
					// the first alias check would have caught an invalid
					// alias, so if this failed it MUST be due to matching the
					// conflict set
					return syms, fmt.Errorf("room %q: detail %q: alias %q conflicts with item alias", r.Label, det.Label, alias)
				}

				aliasesInRoom[aliasLower] = true
			}
		}

		for exitIdx, eg := range r.Exits {
			for _, alias := range eg.Aliases {
				aliasLower := strings.ToLower(alias)

				if err := checkAlias(aliasLower, aliasesInRoom); err != nil {
					return syms, fmt.Errorf("room %q: exit %d: alias %q: %w", r.Label, exitIdx, alias, err)
				}
				if err := checkAlias(aliasLower, syms.itemAliases); err != nil {
					return syms, fmt.Errorf("room %q: exit %d: alias %q conflicts with item alias", r.Label, exitIdx, alias)
				}

				aliasesInRoom[aliasLower] = true
			}
		}
	}

	return syms, nil
}

// validation does not check for symbol uniqueness or name rules violations,
// but it DOES check to ensure that valid symbols are being pointed to by
// references within the room (such as Dest attribute of an egress).
func validateRoomDef(r room, syms worldSymbols) error {
	if r.Label == "" {
		return fmt.Errorf("must have non-blank 'label' field")
	}
	if r.Name == "" {
		return fmt.Errorf("must have non-blank 'name' field")
	}
	if r.Description == "" {
		return fmt.Errorf("must have non-blank 'description' field")
	}

	if !r.Dark {
		if r.DarkDescription != "" {
			return fmt.Errorf("'dark_description' is only used when 'dark' is true")
		}
		if r.DarkExit != "" {
			return fmt.Errorf("'dark_exit' is only used when 'dark' is true")
		}
	} else if r.DarkExit != "" {
		// the dark exit must be an alias of one of the room's own exits
		darkExit := strings.ToLower(r.DarkExit)
		var found bool
		for _, eg := range r.Exits {
			for _, alias := range eg.Aliases {
				if strings.ToLower(alias) == darkExit {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return fmt.Errorf("dark_exit: no exit in the room has alias %q", r.DarkExit)
		}
	}

	// validate egresses
	for idx, eg := range r.Exits {
		egressErr := validateEgressDef(eg, syms)
		if egressErr != nil {
			return fmt.Errorf("exits[%d]: %w", idx, egressErr)
		}
	}

	// validate details
	for idx, det := range r.Details {
		detailErr := validateDetailDef(det, syms)
		if detailErr != nil {
			return fmt.Errorf("details[%d]: %w", idx, detailErr)
		}
	}

	// validate description extras
	for idx, ex := range r.Extras {
		extraErr := validateExtraDef(ex, syms)
		if extraErr != nil {
			return fmt.Errorf("extras[%d]: %w", idx, extraErr)
		}
	}

	return nil
}

func validateEgressDef(eg egress, syms worldSymbols) error {
	if eg.Dest == "" {
		return fmt.Errorf("must have non-blank 'dest' field")
	}
	if eg.Description == "" {
		return fmt.Errorf("must have non-blank 'description' field")
	}
	if eg.Message == "" {
		return fmt.Errorf("must have non-blank 'message' field")
	}
	if len(eg.Aliases) < 1 {
		return fmt.Errorf("must have at least one alias")
	}
	if eg.LockedMessage != "" && eg.NeedsFlag == "" {
		return fmt.Errorf("'locked_message' is only used when 'needs_flag' is set")
	}

	// do not check alias naming rules and uniqueness here, that has already
	// been done during the call to scanSymbols, but DO check to ensure that
	// dest and needs_flag are valid pointers
	if _, ok := syms.roomLabels[strings.ToUpper(eg.Dest)]; !ok {
		return fmt.Errorf("dest: no room has label %q", strings.ToUpper(eg.Dest))
	}
	if eg.NeedsFlag != "" {
		if _, ok := syms.flagLabels[strings.ToUpper(eg.NeedsFlag)]; !ok {
			return fmt.Errorf("needs_flag: no flag has label %q", strings.ToUpper(eg.NeedsFlag))
		}
	}

	return nil
}

func validateDetailDef(det detail, syms worldSymbols) error {
	if det.Label == "" {
		return fmt.Errorf("must have non-blank 'label' field")
	}
	if det.Description == "" {
		return fmt.Errorf("must have non-blank 'description' field")
	}
	if len(det.Aliases) < 1 {
		return fmt.Errorf("must have at least one alias")
	}

	for idx, ua := range det.OnUse {
		if err := validateUseActionDef(ua, syms); err != nil {
			return fmt.Errorf("on_use[%d]: %w", idx, err)
		}
	}

	return nil
}

func validateItemDef(it item, syms worldSymbols) error {
	if it.Label == "" {
		return fmt.Errorf("must have non-blank 'label' field")
	}
	if it.Name == "" {
		return fmt.Errorf("must have non-blank 'name' field")
	}
	if it.Description == "" {
		return fmt.Errorf("must have non-blank 'description' field")
	}
	if len(it.Aliases) < 1 {
		return fmt.Errorf("must have at least one alias")
	}

	if it.Start != "" {
		if _, ok := syms.roomLabels[strings.ToUpper(it.Start)]; !ok {
			return fmt.Errorf("start: no room with label %q exists", it.Start)
		}
	}

	for idx, ua := range it.OnUse {
		if err := validateUseActionDef(ua, syms); err != nil {
			return fmt.Errorf("on_use[%d]: %w", idx, err)
		}
	}

	return nil
}

func validateExtraDef(ex extra, syms worldSymbols) error {
	if ex.Text == "" {
		return fmt.Errorf("must have non-blank 'text' field")
	}
	if ex.IfFlag != "" && ex.IfNotFlag != "" {
		return fmt.Errorf("cannot have both 'if_flag' and 'if_not_flag' fields")
	}

	if ex.IfFlag != "" {
		if _, ok := syms.flagLabels[strings.ToUpper(ex.IfFlag)]; !ok {
			return fmt.Errorf("if_flag: no flag has label %q", strings.ToUpper(ex.IfFlag))
		}
	}
	if ex.IfNotFlag != "" {
		if _, ok := syms.flagLabels[strings.ToUpper(ex.IfNotFlag)]; !ok {
			return fmt.Errorf("if_not_flag: no flag has label %q", strings.ToUpper(ex.IfNotFlag))
		}
	}

	return nil
}

func validateUseActionDef(ua useAction, syms worldSymbols) error {
	// a with target can be an item, a detail, or a room that an egress leads
	// to, since egresses are addressed by the label of their destination
	if ua.With != "" {
		withUpper := strings.ToUpper(ua.With)
		_, isItem := syms.itemLabels[withUpper]
		_, isDetail := syms.detailLabels[withUpper]
		_, isRoom := syms.roomLabels[withUpper]
		if !isItem && !isDetail && !isRoom {
			return fmt.Errorf("with: no item, detail, or room has label %q", withUpper)
		}
	}

	return checkEffects(ua.Set, ua.Unset, ua.Give, ua.Enter, syms)
}

func validateCommandDef(c dataCommand, syms worldSymbols) error {
	if c.Pattern == "" {
		return fmt.Errorf("must have non-blank 'pattern' field")
	}

	pat, err := command.Compile(c.Pattern)
	if err != nil {
		return fmt.Errorf("pattern: %w", err)
	}

	if c.Context != "" {
		if _, err := command.ParseContext(strings.ToLower(c.Context)); err != nil {
			return fmt.Errorf("context: %w", err)
		}
	}

	if c.Match != "" && len(pat.ArgNames()) != 1 {
		return fmt.Errorf("match: pattern must have exactly one placeholder to be matched against")
	}
	if c.Otherwise != "" && c.Match == "" {
		return fmt.Errorf("'otherwise' is only used when 'match' is set")
	}

	return checkEffects(c.Set, c.Unset, c.Give, c.Enter, syms)
}

// checkEffects validates the flag, item, and context effects shared by use
// actions and world-defined commands.
func checkEffects(set []string, unset []string, give string, enter string, syms worldSymbols) error {
	for idx, fl := range set {
		if _, ok := syms.flagLabels[strings.ToUpper(fl)]; !ok {
			return fmt.Errorf("set[%d]: no flag has label %q", idx, strings.ToUpper(fl))
		}
	}
	for idx, fl := range unset {
		if _, ok := syms.flagLabels[strings.ToUpper(fl)]; !ok {
			return fmt.Errorf("unset[%d]: no flag has label %q", idx, strings.ToUpper(fl))
		}
	}
	if give != "" {
		if _, ok := syms.itemLabels[strings.ToUpper(give)]; !ok {
			return fmt.Errorf("give: no item has label %q", strings.ToUpper(give))
		}
	}
	if enter != "" {
		if _, err := command.ParseContext(strings.ToLower(enter)); err != nil {
			return fmt.Errorf("enter: %w", err)
		}
	}

	return nil
}

func checkAlias(alias string, conflictSet stringSet) error {
	if _, ok := conflictSet[alias]; ok {
		return fmt.Errorf("alias conflicts with another alias")
	}

	if alias == "" {
		return fmt.Errorf("aliases cannot be blank")
	}

	if !aliasRegexp.MatchString(alias) {
		// we know the alias is bad; first check if it's due to a space at
		// start or end so we can give a special message
		if strings.HasPrefix(alias, " ") {
			return fmt.Errorf("aliases cannot start with a space")
		}
		if strings.HasSuffix(alias, " ") {
			return fmt.Errorf("aliases cannot end with a space")
		}

		// if we got this far there's an invalid char somewhere in the string,
		// and it's not a leading or trailing space
		badChar := aliasBadCharRegexp.FindString(alias)
		if badChar == "" {
			// something has gone horribly wrong with coding of regular expressions
			panic(fmt.Sprintf("could not identify bad char in alias %q", alias))
		}

		return fmt.Errorf("aliases cannot contain the character %q", badChar)
	}

	return nil
}

func checkLabel(label string, conflictSet stringSet, labeled string) error {
	if _, ok := conflictSet[label]; ok {
		return fmt.Errorf("label %q has already been used for %s", label, labeled)
	}

	if label == "" {
		return fmt.Errorf("labels cannot be blank")
	}

	if !labelRegexp.MatchString(label) {
		badChar := labelBadCharRegexp.FindString(label)
		if badChar == "" {
			// something has gone horribly wrong with coding of regular expressions
			panic(fmt.Sprintf("could not identify bad char in label %q", label))
		}

		return fmt.Errorf("%q has the %q character in it which is not allowed for labels", label, badChar)
	}

	return nil
}
