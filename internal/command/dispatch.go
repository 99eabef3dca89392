package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/minnowquest/internal/util"
)

// registration is one entry in a Dispatcher's command table.
type registration struct {
	pat    Pattern
	h      Handler
	extras Args
}

// Dispatcher holds the command registry and the active context, and routes
// lines of player input to handlers. Create one with NewDispatcher; the zero
// value is not usable.
//
// A Dispatcher is not safe for concurrent use. Registration happens once at
// startup and dispatching is strictly one command at a time; a concurrent
// host must confine each Dispatcher to a single goroutine or guard it with
// its own mutex.
type Dispatcher struct {
	commands []registration
	active   Context

	aliases       map[string]string
	maxAliasWords int
}

// NewDispatcher creates an empty Dispatcher with the root context active.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		aliases: map[string]string{},
	}
}

// RegisterOption modifies a single call to Register.
type RegisterOption func(reg *registration)

// InContext scopes the command being registered to ctx; it will only be
// eligible while the active context is ctx or a descendant of it.
func InContext(ctx Context) RegisterOption {
	return func(reg *registration) {
		reg.pat.ctx = ctx
	}
}

// WithArg statically binds an extra named argument that will be passed to
// the handler on every invocation. Captures from the pattern win if a
// placeholder shares the name.
func WithArg(name, value string) RegisterOption {
	return func(reg *registration) {
		if reg.extras == nil {
			reg.extras = Args{}
		}
		reg.extras[strings.ToLower(name)] = value
	}
}

// Register compiles template and appends it to the command table bound to
// handler h. Registration order is preserved and matters: among eligible
// patterns of equal context depth, earlier registrations are tried first.
//
// The handler's declared parameter names must be exactly the template's
// placeholder names plus the names bound with WithArg, in any order. A
// mismatch, a bad template, or a bad option is reported as a non-nil error
// and nothing is registered; these are programming errors in the command
// table and callers should treat them as fatal at startup.
func (d *Dispatcher) Register(template string, h Handler, opts ...RegisterOption) error {
	pat, err := Compile(template)
	if err != nil {
		return err
	}

	reg := registration{pat: pat, h: h}
	for _, opt := range opts {
		opt(&reg)
	}

	declared := util.StringSetOf(h.Params())
	provided := util.StringSetOf(reg.pat.argNames)
	for name := range reg.extras {
		provided.Add(name)
	}
	if !declared.Equal(provided) {
		return fmt.Errorf("%w %q: handler takes %s but pattern provides %s", ErrInvalidCommand, template, declared.StringOrdered(), provided.StringOrdered())
	}

	d.commands = append(d.commands, reg)
	return nil
}

// Alias registers a player shorthand. When a dispatched line begins with the
// words of alias, they are replaced by the words of expansion before
// matching; at most one substitution is made per line and expansions are not
// re-expanded. Aliases are matched case-insensitively and may contain
// non-letter words, which is how shorthands like "?" are offered without
// loosening template validation.
func (d *Dispatcher) Alias(alias, expansion string) error {
	aWords := strings.Fields(strings.ToLower(alias))
	eWords := strings.Fields(strings.ToLower(expansion))
	if len(aWords) == 0 {
		return fmt.Errorf("%w: alias must have at least one word", ErrInvalidCommand)
	}
	if len(eWords) == 0 {
		return fmt.Errorf("%w: expansion of alias %q must have at least one word", ErrInvalidCommand, alias)
	}

	d.aliases[strings.Join(aWords, " ")] = strings.Join(eWords, " ")
	if len(aWords) > d.maxAliasWords {
		d.maxAliasWords = len(aWords)
	}
	return nil
}

// SetContext replaces the active context. It cannot fail; any non-root
// Context was already validated by ParseContext.
func (d *Dispatcher) SetContext(ctx Context) {
	d.active = ctx
}

// Context returns the currently active context.
func (d *Dispatcher) Context() Context {
	return d.active
}

// ActiveTemplates returns the raw templates of every registered command
// eligible under the active context, in registration order.
func (d *Dispatcher) ActiveTemplates() []string {
	var templates []string
	for i := range d.commands {
		if d.commands[i].pat.ctx.Contains(d.active) {
			templates = append(templates, d.commands[i].pat.raw)
		}
	}
	return templates
}

// Dispatch runs one line of player input against the command table.
//
// The line is lowercased and tokenized, aliases are expanded, and every
// registration whose context contains the active context is tried in order
// of descending context depth (registration order among equals, so a
// command scoped to "using.phone" always beats an unscoped command that
// matches the same input). The first pattern to match has its handler
// invoked with the captures merged over any bound extra arguments, and no
// further patterns are tried.
//
// A line that tokenizes to nothing, or that no eligible pattern matches,
// yields a Result with Matched false.
func (d *Dispatcher) Dispatch(line string) Result {
	words := ExpandAliases(Words(line), d.aliases, d.maxAliasWords)
	if len(words) == 0 {
		return Result{}
	}

	eligible := make([]*registration, 0, len(d.commands))
	for i := range d.commands {
		if d.commands[i].pat.ctx.Contains(d.active) {
			eligible = append(eligible, &d.commands[i])
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].pat.ctx.Specificity() > eligible[j].pat.ctx.Specificity()
	})

	for _, reg := range eligible {
		caps, ok := reg.pat.Match(words)
		if !ok {
			continue
		}

		args := Args{}
		for name, val := range reg.extras {
			args[name] = val
		}
		for name, val := range caps {
			args[name] = val
		}
		return invoke(reg.h, args)
	}

	return Result{}
}

// invoke runs the handler inside a recover so a panicking handler is
// reported as a command fault instead of ending the session.
func invoke(h Handler, args Args) (res Result) {
	res.Matched = true
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("command handler panicked: %v", r)
		}
	}()

	res.Output, res.Err = h.HandleCommand(args)
	return res
}
