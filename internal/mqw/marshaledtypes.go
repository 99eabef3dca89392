package mqw

import (
	"strings"

	"github.com/dekarrin/minnowquest/internal/game"
)

// Marshaled forms of world data. Converting one to its game type normalizes
// case: labels and references to labels become upper case, while aliases and
// command contexts become lower case to match the case of parsed input.

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelWorldData is the top-level structure containing all keys in a
// complete MQW 'DATA' type file.
type topLevelWorldData struct {
	Format   string        `toml:"format"`
	Type     string        `toml:"type"`
	World    world         `toml:"world"`
	Rooms    []room        `toml:"room"`
	Items    []item        `toml:"item"`
	Flags    []flag        `toml:"flag"`
	Commands []dataCommand `toml:"command"`
}

type world struct {
	Start string `toml:"start"`
}

type flag struct {
	Label   string `toml:"label"`
	Default bool   `toml:"default"`
}

type useAction struct {
	With  string   `toml:"with"`
	Say   string   `toml:"say"`
	Set   []string `toml:"set"`
	Unset []string `toml:"unset"`
	Enter string   `toml:"enter"`
	Give  string   `toml:"give"`
}

func (ua useAction) toGameUseAction() game.UseAction {
	gameAction := game.UseAction{
		With:  strings.ToUpper(ua.With),
		Say:   ua.Say,
		Set:   make([]string, len(ua.Set)),
		Unset: make([]string, len(ua.Unset)),
		Enter: strings.ToLower(ua.Enter),
		Give:  strings.ToUpper(ua.Give),
	}

	for i := range ua.Set {
		gameAction.Set[i] = strings.ToUpper(ua.Set[i])
	}
	for i := range ua.Unset {
		gameAction.Unset[i] = strings.ToUpper(ua.Unset[i])
	}

	return gameAction
}

type item struct {
	Label       string      `toml:"label"`
	Name        string      `toml:"name"`
	Description string      `toml:"description"`
	Aliases     []string    `toml:"aliases"`
	Start       string      `toml:"start"`
	OnUse       []useAction `toml:"on_use"`
}

func (ti item) toGameItem() game.Item {
	gameItem := game.Item{
		Label:       strings.ToUpper(ti.Label),
		Name:        ti.Name,
		Description: ti.Description,
		Aliases:     make([]string, len(ti.Aliases)),
		Uses:        make([]game.UseAction, len(ti.OnUse)),
	}

	for i := range ti.Aliases {
		gameItem.Aliases[i] = strings.ToLower(ti.Aliases[i])
	}
	for i := range ti.OnUse {
		gameItem.Uses[i] = ti.OnUse[i].toGameUseAction()
	}

	return gameItem
}

type egress struct {
	Dest          string   `toml:"dest"`
	Description   string   `toml:"description"`
	Message       string   `toml:"message"`
	Aliases       []string `toml:"aliases"`
	NeedsFlag     string   `toml:"needs_flag"`
	LockedMessage string   `toml:"locked_message"`
}

func (te egress) toGameEgress() game.Egress {
	eg := game.Egress{
		DestLabel:     strings.ToUpper(te.Dest),
		Description:   te.Description,
		TravelMessage: te.Message,
		Aliases:       make([]string, len(te.Aliases)),
		NeedsFlag:     strings.ToUpper(te.NeedsFlag),
		LockedMessage: te.LockedMessage,
	}

	for i := range te.Aliases {
		eg.Aliases[i] = strings.ToLower(te.Aliases[i])
	}

	return eg
}

type detail struct {
	Label       string      `toml:"label"`
	Aliases     []string    `toml:"aliases"`
	Description string      `toml:"description"`
	OnUse       []useAction `toml:"on_use"`
}

func (td detail) toGameDetail() game.Detail {
	det := game.Detail{
		Label:       strings.ToUpper(td.Label),
		Description: td.Description,
		Aliases:     make([]string, len(td.Aliases)),
		Uses:        make([]game.UseAction, len(td.OnUse)),
	}

	for i := range td.Aliases {
		det.Aliases[i] = strings.ToLower(td.Aliases[i])
	}
	for i := range td.OnUse {
		det.Uses[i] = td.OnUse[i].toGameUseAction()
	}

	return det
}

type extra struct {
	IfFlag    string `toml:"if_flag"`
	IfNotFlag string `toml:"if_not_flag"`
	Text      string `toml:"text"`
}

func (tx extra) toGameDescExtra() game.DescExtra {
	return game.DescExtra{
		IfFlag:    strings.ToUpper(tx.IfFlag),
		IfNotFlag: strings.ToUpper(tx.IfNotFlag),
		Text:      tx.Text,
	}
}

type room struct {
	Label            string   `toml:"label"`
	Name             string   `toml:"name"`
	Description      string   `toml:"description"`
	FirstDescription string   `toml:"first_description"`
	Dark             bool     `toml:"dark"`
	DarkDescription  string   `toml:"dark_description"`
	DarkExit         string   `toml:"dark_exit"`
	Exits            []egress `toml:"exit"`
	Details          []detail `toml:"detail"`
	Extras           []extra  `toml:"extra"`
}

func (tr room) toGameRoom() game.Room {
	r := game.Room{
		Label:            strings.ToUpper(tr.Label),
		Name:             tr.Name,
		Description:      tr.Description,
		FirstDescription: tr.FirstDescription,
		Dark:             tr.Dark,
		DarkDescription:  tr.DarkDescription,
		DarkExit:         strings.ToLower(tr.DarkExit),
		Exits:            make([]game.Egress, len(tr.Exits)),
		Details:          make([]game.Detail, len(tr.Details)),
		Extras:           make([]game.DescExtra, len(tr.Extras)),
	}

	for i := range tr.Exits {
		r.Exits[i] = tr.Exits[i].toGameEgress()
	}
	for i := range tr.Details {
		r.Details[i] = tr.Details[i].toGameDetail()
	}
	for i := range tr.Extras {
		r.Extras[i] = tr.Extras[i].toGameDescExtra()
	}

	return r
}

type dataCommand struct {
	Pattern   string            `toml:"pattern"`
	Context   string            `toml:"context"`
	Help      string            `toml:"help"`
	Say       string            `toml:"say"`
	Match     string            `toml:"match"`
	Otherwise string            `toml:"otherwise"`
	Set       []string          `toml:"set"`
	Unset     []string          `toml:"unset"`
	Give      string            `toml:"give"`
	Enter     string            `toml:"enter"`
	Leave     bool              `toml:"leave"`
	State     map[string]string `toml:"state"`
}

func (tc dataCommand) toGameDataCommand() game.DataCommand {
	cmd := game.DataCommand{
		Pattern:   tc.Pattern,
		Context:   strings.ToLower(tc.Context),
		Help:      tc.Help,
		Say:       tc.Say,
		Match:     strings.ToLower(tc.Match),
		Otherwise: tc.Otherwise,
		Set:       make([]string, len(tc.Set)),
		Unset:     make([]string, len(tc.Unset)),
		Give:      strings.ToUpper(tc.Give),
		Enter:     strings.ToLower(tc.Enter),
		Leave:     tc.Leave,
	}

	for i := range tc.Set {
		cmd.Set[i] = strings.ToUpper(tc.Set[i])
	}
	for i := range tc.Unset {
		cmd.Unset[i] = strings.ToUpper(tc.Unset[i])
	}

	if len(tc.State) > 0 {
		cmd.State = make(map[string]string, len(tc.State))
		for k, v := range tc.State {
			cmd.State[k] = v
		}
	}

	return cmd
}
