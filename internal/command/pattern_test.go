package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Compile(t *testing.T) {
	testCases := []struct {
		name       string
		template   string
		expectArgs []string
		expectErr  bool
	}{
		{
			name:       "single literal",
			template:   "quit",
			expectArgs: nil,
		},
		{
			name:       "literal plus placeholder",
			template:   "take ITEM",
			expectArgs: []string{"item"},
		},
		{
			name:       "placeholders split by literal",
			template:   "use ITEM on FIXTURE",
			expectArgs: []string{"item", "fixture"},
		},
		{
			name:       "placeholder only",
			template:   "DIGITS",
			expectArgs: []string{"digits"},
		},
		{
			name:       "multiple literals",
			template:   "turn on breaker",
			expectArgs: nil,
		},
		{
			name:      "mixed case word",
			template:  "take Item",
			expectErr: true,
		},
		{
			name:      "duplicate placeholder",
			template:  "trade ITEM for ITEM",
			expectErr: true,
		},
		{
			name:      "digits in word",
			template:  "take it3m",
			expectErr: true,
		},
		{
			name:      "punctuation in word",
			template:  "go-to EXIT",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			pat, err := Compile(tc.template)

			if tc.expectErr {
				assert.Error(err)
				assert.True(errors.Is(err, ErrInvalidPattern))
				return
			}
			assert.NoError(err)
			assert.Equal(tc.template, pat.Template())
			if tc.expectArgs == nil {
				assert.Empty(pat.ArgNames())
			} else {
				assert.Equal(tc.expectArgs, pat.ArgNames())
			}
		})
	}
}

func Test_Pattern_Match(t *testing.T) {
	testCases := []struct {
		name        string
		template    string
		input       string
		expectMatch bool
		expect      Args
	}{
		{
			name:        "exact literal",
			template:    "quit",
			input:       "quit",
			expectMatch: true,
			expect:      Args{},
		},
		{
			name:        "literal with trailing words",
			template:    "quit",
			input:       "quit now",
			expectMatch: false,
		},
		{
			name:        "multiword literal",
			template:    "turn on breaker",
			input:       "turn on breaker",
			expectMatch: true,
			expect:      Args{},
		},
		{
			name:        "multiword literal cut short",
			template:    "turn on breaker",
			input:       "turn on",
			expectMatch: false,
		},
		{
			name:        "placeholder absorbs one word",
			template:    "take ITEM",
			input:       "take key",
			expectMatch: true,
			expect:      Args{"item": "key"},
		},
		{
			name:        "placeholder absorbs all trailing words",
			template:    "take ITEM",
			input:       "take rusty old key",
			expectMatch: true,
			expect:      Args{"item": "rusty old key"},
		},
		{
			name:        "placeholder needs at least one word",
			template:    "take ITEM",
			input:       "take",
			expectMatch: false,
		},
		{
			name:        "wrong prefix",
			template:    "take ITEM",
			input:       "drop key",
			expectMatch: false,
		},
		{
			name:        "literal splits two multiword captures",
			template:    "use ITEM on FIXTURE",
			input:       "use small brass key on heavy wooden door",
			expectMatch: true,
			expect:      Args{"item": "small brass key", "fixture": "heavy wooden door"},
		},
		{
			name:        "separator literal absent",
			template:    "use ITEM on FIXTURE",
			input:       "use small brass key with wooden door",
			expectMatch: false,
		},
		{
			name:        "not enough words for both placeholders",
			template:    "use ITEM on FIXTURE",
			input:       "use on",
			expectMatch: false,
		},
		{
			name:        "repeated separator goes to first capture",
			template:    "use ITEM on FIXTURE",
			input:       "use can on table on legs",
			expectMatch: true,
			expect:      Args{"item": "can on table", "fixture": "legs"},
		},
		{
			name:        "adjacent placeholders split greedily",
			template:    "paint COLOR THING",
			input:       "paint light blue box",
			expectMatch: true,
			expect:      Args{"color": "light blue", "thing": "box"},
		},
		{
			name:        "bare placeholder takes whole line",
			template:    "DIGITS",
			input:       "nine three two four seven",
			expectMatch: true,
			expect:      Args{"digits": "nine three two four seven"},
		},
		{
			name:        "input shorter than prefix",
			template:    "look at DETAIL",
			input:       "look",
			expectMatch: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			pat, err := Compile(tc.template)
			if !assert.NoError(err) {
				return
			}

			args, ok := pat.Match(Words(tc.input))

			assert.Equal(tc.expectMatch, ok)
			if tc.expectMatch {
				assert.Equal(tc.expect, args)
			}
		})
	}
}

func Test_wordCombinations_order(t *testing.T) {
	testCases := []struct {
		name   string
		have   int
		groups int
		expect [][]int
	}{
		{
			name:   "five words two groups",
			have:   5,
			groups: 2,
			expect: [][]int{{4, 1}, {3, 2}, {2, 3}, {1, 4}},
		},
		{
			name:   "each group gets one",
			have:   3,
			groups: 3,
			expect: [][]int{{1, 1, 1}},
		},
		{
			name:   "single group takes all",
			have:   4,
			groups: 1,
			expect: [][]int{{4}},
		},
		{
			name:   "four words three groups",
			have:   4,
			groups: 3,
			expect: [][]int{{2, 1, 1}, {1, 2, 1}, {1, 1, 2}},
		},
		{
			name:   "not enough words",
			have:   2,
			groups: 3,
			expect: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var got [][]int
			wordCombinations(tc.have, tc.groups, func(buckets []int) bool {
				cp := make([]int, len(buckets))
				copy(cp, buckets)
				got = append(got, cp)
				return false
			})

			assert.Equal(tc.expect, got)
		})
	}
}

func Test_wordCombinations_stopsOnFirstAccepted(t *testing.T) {
	assert := assert.New(t)

	calls := 0
	found := wordCombinations(5, 2, func(buckets []int) bool {
		calls++
		return true
	})

	assert.True(found)
	assert.Equal(1, calls)
}
