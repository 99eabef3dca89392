package game

import "strings"

// File expand.go holds the variable expansion applied to message text before
// it is shown to the player.

// Expand replaces $name references in s with values from vars. A name is a
// run of lowercase letters, digits, and underscores after the dollar sign,
// and names not present in vars expand to nothing. The sequence $$ produces a
// literal dollar sign, and a dollar sign that starts no name is left alone.
func Expand(s string, vars map[string]string) string {
	var sb strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '$' {
			sb.WriteByte(s[i])
			continue
		}

		if i+1 < len(s) && s[i+1] == '$' {
			sb.WriteByte('$')
			i++
			continue
		}

		nameEnd := i + 1
		for nameEnd < len(s) && isExpandNameChar(s[nameEnd]) {
			nameEnd++
		}

		if nameEnd == i+1 {
			// no name follows, keep the dollar sign as text
			sb.WriteByte('$')
			continue
		}

		name := s[i+1 : nameEnd]
		sb.WriteString(vars[name])
		i = nameEnd - 1
	}

	return sb.String()
}

func isExpandNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}
