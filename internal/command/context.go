package command

import (
	"fmt"
	"strings"
)

// ContextSeparator joins the segments of a context path.
const ContextSeparator = "."

// Context identifies a hierarchical scope that commands can be restricted
// to, written as separator-joined segments such as "using.phone". The zero
// value is the root context, which scopes nothing: a command registered in
// the root context is eligible everywhere, and a dispatcher whose active
// context is the root runs only root commands.
//
// Contexts are immutable values and are safe to copy and compare with ==.
// Any non-root Context must be obtained through ParseContext, which is the
// only place context paths are validated.
type Context struct {
	path string
}

// ParseContext validates path and returns it as a Context. The path must be
// non-empty, must not begin or end with the separator, and must not contain
// two separators in a row. On failure the returned error describes every
// violated requirement and matches ErrInvalidContext.
//
// The root context cannot be parsed from a string; use the zero Context.
func ParseContext(path string) (Context, error) {
	var probs []string

	if path == "" {
		probs = append(probs, "be empty")
	}
	if strings.HasPrefix(path, ContextSeparator) {
		probs = append(probs, fmt.Sprintf("start with %q", ContextSeparator))
	}
	if strings.HasSuffix(path, ContextSeparator) {
		probs = append(probs, fmt.Sprintf("end with %q", ContextSeparator))
	}
	if strings.Contains(path, ContextSeparator+ContextSeparator) {
		probs = append(probs, fmt.Sprintf("contain %q", ContextSeparator+ContextSeparator))
	}

	if len(probs) > 0 {
		msg := probs[len(probs)-1]
		if len(probs) > 1 {
			msg = strings.Join(probs[:len(probs)-1], ", ") + " or " + msg
		}
		return Context{}, fmt.Errorf("%w %q: may not %s", ErrInvalidContext, path, msg)
	}

	return Context{path: path}, nil
}

// MustContext is like ParseContext but panics if the path is invalid. Use it
// only for literal paths.
func MustContext(path string) Context {
	ctx, err := ParseContext(path)
	if err != nil {
		panic(err.Error())
	}
	return ctx
}

// IsRoot returns whether c is the root context.
func (c Context) IsRoot() bool {
	return c.path == ""
}

// String returns the context path. It is empty for the root context.
func (c Context) String() string {
	return c.path
}

// Specificity returns the number of segments in the context path. The root
// context has specificity 0. Deeper contexts are tried before shallower ones
// when dispatching.
func (c Context) Specificity() int {
	if c.path == "" {
		return 0
	}
	return strings.Count(c.path, ContextSeparator) + 1
}

// Contains returns whether c is other itself or an ancestor of other. The
// root context contains every context, including itself; no other context
// contains the root.
func (c Context) Contains(other Context) bool {
	if c.path == "" {
		return true
	}
	if other.path == "" {
		return false
	}
	if !strings.HasPrefix(other.path, c.path) {
		return false
	}

	rest := other.path[len(c.path):]
	return rest == "" || strings.HasPrefix(rest, ContextSeparator)
}
