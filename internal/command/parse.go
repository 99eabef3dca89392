package command

import "strings"

// Words tokenizes one line of player input into lowercase words, collapsing
// all whitespace. It never returns an empty word; a blank line returns an
// empty slice.
func Words(line string) []string {
	return strings.Fields(strings.ToLower(line))
}

// ExpandAliases takes a slice of tokens of user input and runs alias
// expansion on it against the given alias table. It expects all strings in
// the given slice and all alias keys to be lower case; failure to ensure
// this may cause the expansion to not work properly. The returned slice
// contains the same tokens but with the alias expanded.
//
// The unexpanded tokens slice is not modified during this operation.
//
// Aliases up to aliasLimit words long are supported, checked shortest
// first, and only at the start of the tokens. If aliasLimit is less than 1
// the given tokens are returned unchanged.
//
// Aliases will not be multi-expanded; that is, expansion is not applied to
// the results of an expansion. If the caller needs it, they will need to
// call ExpandAliases again on its output.
func ExpandAliases(tokens []string, aliases map[string]string, aliasLimit int) []string {
	expandedTokens := append([]string{}, tokens...)
	if aliasLimit < 1 || len(aliases) == 0 {
		return expandedTokens
	}

	// only check runs up to the minimum of the limit and number of tokens
	if aliasLimit > len(tokens) {
		aliasLimit = len(tokens)
	}

	for curLimit := 1; curLimit <= aliasLimit; curLimit++ {
		checkStr := strings.Join(tokens[:curLimit], " ")
		expansion, ok := aliases[checkStr]
		if ok {
			replacementTokens := strings.Fields(expansion)

			// we know we are operating from the start of the tokens passed
			// in so we can just trash all those in the checkStr and replace
			// with the replacementTokens slice
			expandedTokens = append(replacementTokens, tokens[curLimit:]...)

			// only one single substitution, so we can immediately exit
			return expandedTokens
		}
	}

	return expandedTokens
}
