// Package command implements the command engine for MinnowQuest games. It
// compiles templated command patterns, matches tokenized player input against
// them under a hierarchical context system, and dispatches the first match to
// a registered handler.
//
// A pattern template is a space-separated sequence of words. Lowercase words
// are literals that input must contain verbatim; uppercase words are
// placeholders that capture one or more input words under the placeholder's
// lowercased name. "use ITEM on FIXTURE" matches "use small brass key on
// heavy wooden door" and captures item as "small brass key" and fixture as
// "heavy wooden door".
//
// Commands may be scoped to a Context so that only part of the registry is
// eligible at any time; deeper contexts win over shallower ones when more
// than one eligible pattern matches the same input.
package command

import "errors"

var (
	// ErrInvalidContext is the error returned when a context path string
	// does not meet the requirements for context names. It will never be
	// returned for the root context.
	ErrInvalidContext = errors.New("invalid context")

	// ErrInvalidPattern is the error returned when a command template cannot
	// be compiled into a Pattern.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidCommand is the error returned when a registration is
	// rejected, such as when a handler's declared parameters do not line up
	// with what its pattern will provide.
	ErrInvalidCommand = errors.New("invalid command")
)

// Args holds the named arguments passed to a command handler: the captures
// produced by matching a pattern against input, merged over any extra
// arguments statically bound at registration time. Keys are the lowercased
// placeholder names.
type Args map[string]string

// Get returns the value for the named argument, or the empty string if it
// was not provided.
func (a Args) Get(name string) string {
	if a == nil {
		return ""
	}
	return a[name]
}

// Handler is invoked when a dispatched command matches its pattern.
//
// Params gives the names of the arguments the handler expects to receive,
// in any order. At registration time it must exactly equal the set of the
// pattern's placeholder names plus any statically bound argument names; this
// is checked once and never again.
//
// HandleCommand performs the command. The returned string is narrative
// output for the player. A returned error indicates the command failed in a
// way the handler could not express as narration; it does not end the
// session.
type Handler interface {
	Params() []string
	HandleCommand(args Args) (string, error)
}

// Func adapts a plain function into a Handler that declares the given
// parameter names.
func Func(fn func(args Args) (string, error), params ...string) Handler {
	return funcHandler{fn: fn, params: params}
}

type funcHandler struct {
	fn     func(args Args) (string, error)
	params []string
}

func (fh funcHandler) Params() []string {
	return fh.params
}

func (fh funcHandler) HandleCommand(args Args) (string, error) {
	return fh.fn(args)
}

// Result is the outcome of dispatching one line of input.
//
// Matched false means no eligible pattern matched the input. This is the
// normal outcome for input the game does not understand, not an error; the
// caller owns the "I don't understand" messaging.
//
// When Matched is true, Output holds whatever the handler returned and Err
// holds the handler's error, if any. A panicking handler is recovered at the
// dispatch boundary and reported through Err, so one bad handler cannot end
// the command loop.
type Result struct {
	Matched bool
	Output  string
	Err     error
}
