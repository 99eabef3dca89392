package command

import (
	"fmt"
	"regexp"
	"strings"
)

var templateWordRegexp = regexp.MustCompile(`^[A-Za-z]+$`)

// patternToken is a single word of a compiled pattern's suffix. For
// placeholders, word holds the capture name rather than the template word.
type patternToken struct {
	word        string
	placeholder bool
}

// Pattern is a compiled command template. It is produced by Compile and is
// immutable afterward.
//
// Compilation splits the template into a prefix and a suffix. The prefix is
// the leading run of literal words and is used as a fast reject: input that
// does not begin with exactly those words cannot match. The suffix is
// everything from the first placeholder onward and is walked word by word
// during matching.
type Pattern struct {
	raw      string
	ctx      Context
	prefix   []string
	suffix   []patternToken
	argNames []string

	// fixed is the number of literal words in the suffix; every input word
	// past the prefix beyond this count must be absorbed by a placeholder.
	fixed int
}

// Compile compiles a command template into a Pattern. Each space-separated
// word of the template must consist only of letters and be either all
// lowercase (a literal word) or all uppercase (a placeholder). A placeholder
// name may appear only once per template. Violations are reported as errors
// matching ErrInvalidPattern.
func Compile(template string) (Pattern, error) {
	p := Pattern{raw: template}

	seen := map[string]bool{}
	var tokens []patternToken
	for _, w := range strings.Fields(template) {
		if !templateWordRegexp.MatchString(w) {
			return p, fmt.Errorf("%w %q: command words may contain letters only", ErrInvalidPattern, template)
		}

		switch {
		case w == strings.ToLower(w):
			tokens = append(tokens, patternToken{word: w})
		case w == strings.ToUpper(w):
			name := strings.ToLower(w)
			if seen[name] {
				return p, fmt.Errorf("%w %q: placeholder %q may only be used once", ErrInvalidPattern, template, name)
			}
			seen[name] = true
			p.argNames = append(p.argNames, name)
			tokens = append(tokens, patternToken{word: name, placeholder: true})
		default:
			return p, fmt.Errorf("%w %q: command words must be all lowercase or all capitals, not a mix", ErrInvalidPattern, template)
		}
	}

	split := 0
	for split < len(tokens) && !tokens[split].placeholder {
		split++
	}
	for _, tok := range tokens[:split] {
		p.prefix = append(p.prefix, tok.word)
	}
	p.suffix = tokens[split:]
	p.fixed = len(p.suffix) - len(p.argNames)

	return p, nil
}

// Template returns the raw template string the pattern was compiled from.
func (p Pattern) Template() string {
	return p.raw
}

// Context returns the context the pattern is scoped to. It is the root
// context unless one was attached at registration.
func (p Pattern) Context() Context {
	return p.ctx
}

// ArgNames returns the capture names of the pattern's placeholders, in
// template order.
func (p Pattern) ArgNames() []string {
	names := make([]string, len(p.argNames))
	copy(names, p.argNames)
	return names
}

// Match attempts to match the pattern against a tokenized line of input.
// The words must already be lowercased, as done by Words. On success it
// returns the placeholder captures; multi-word captures are joined with
// single spaces. A pattern with no placeholders matches only input equal to
// exactly its literal words.
//
// When input words could be split between placeholders more than one way,
// splits are tried with earlier placeholders taking more words first, and
// the first split whose literal words all line up wins. No other criterion
// is applied.
func (p Pattern) Match(words []string) (Args, bool) {
	if len(words) < len(p.argNames) {
		return nil, false
	}
	if len(words) < len(p.prefix) {
		return nil, false
	}
	for i, w := range p.prefix {
		if words[i] != w {
			return nil, false
		}
	}

	remaining := words[len(p.prefix):]
	if len(remaining) == 0 && len(p.suffix) == 0 {
		return Args{}, true
	}
	if len(remaining) == 0 || len(p.suffix) == 0 {
		return nil, false
	}

	// every word not claimed by a literal must go to a placeholder
	have := len(remaining) - p.fixed

	var captured Args
	wordCombinations(have, len(p.argNames), func(buckets []int) bool {
		args := Args{}
		pos := 0
		next := 0
		for _, tok := range p.suffix {
			if tok.placeholder {
				take := buckets[next]
				next++
				if pos+take > len(remaining) {
					return false
				}
				args[tok.word] = strings.Join(remaining[pos:pos+take], " ")
				pos += take
			} else {
				if pos >= len(remaining) || remaining[pos] != tok.word {
					return false
				}
				pos++
			}
		}
		captured = args
		return true
	})

	if captured == nil {
		return nil, false
	}
	return captured, true
}

// wordCombinations enumerates every way to split have words among groups
// placeholders such that each gets at least one word. Distributions are
// produced with the first group taking its largest possible share first,
// counting down, recursing the same way for the remaining groups; this
// ordering is what makes ambiguous matches resolve the same way every time.
// fn is called once per distribution and returning true stops the
// enumeration. The bucket slice is reused between calls to fn.
//
// With have less than groups there is no valid split and fn is never
// called.
func wordCombinations(have, groups int, fn func(buckets []int) bool) bool {
	return fillBuckets(make([]int, groups), 0, have, fn)
}

func fillBuckets(buckets []int, at, have int, fn func([]int) bool) bool {
	left := len(buckets) - at
	if have < left {
		return false
	}
	if left == 0 {
		return have == 0 && fn(buckets)
	}
	if left == 1 {
		buckets[at] = have
		return fn(buckets)
	}

	for take := have - (left - 1); take > 0; take-- {
		buckets[at] = take
		if fillBuckets(buckets, at+1, have-take, fn) {
			return true
		}
	}
	return false
}
