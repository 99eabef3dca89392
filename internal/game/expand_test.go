package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Expand(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		vars   map[string]string
		expect string
	}{
		{
			name:   "no variables",
			input:  "plain text",
			vars:   nil,
			expect: "plain text",
		},
		{
			name:   "simple name",
			input:  "hello $name",
			vars:   map[string]string{"name": "bob"},
			expect: "hello bob",
		},
		{
			name:   "name mid sentence",
			input:  "the $color box",
			vars:   map[string]string{"color": "light blue"},
			expect: "the light blue box",
		},
		{
			name:   "unknown name expands to nothing",
			input:  "hi $who!",
			vars:   map[string]string{},
			expect: "hi !",
		},
		{
			name:   "double dollar is literal",
			input:  "costs $$5",
			vars:   map[string]string{},
			expect: "costs $5",
		},
		{
			name:   "bare dollar kept",
			input:  "just a $ sign",
			vars:   map[string]string{},
			expect: "just a $ sign",
		},
		{
			name:   "trailing dollar kept",
			input:  "end$",
			vars:   map[string]string{},
			expect: "end$",
		},
		{
			name:   "name stops at punctuation",
			input:  "$a-b",
			vars:   map[string]string{"a": "X"},
			expect: "X-b",
		},
		{
			name:   "underscores and digits allowed",
			input:  "$safe_2 says hi",
			vars:   map[string]string{"safe_2": "ok"},
			expect: "ok says hi",
		},
		{
			name:   "uppercase does not start a name",
			input:  "$NAME",
			vars:   map[string]string{"name": "bob"},
			expect: "$NAME",
		},
		{
			name:   "two names",
			input:  "$a and $b",
			vars:   map[string]string{"a": "salt", "b": "pepper"},
			expect: "salt and pepper",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Expand(tc.input, tc.vars)

			assert.Equal(tc.expect, actual)
		})
	}
}
