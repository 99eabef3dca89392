package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MakeTextList(t *testing.T) {
	testCases := []struct {
		name     string
		items    []string
		articles bool
		expect   string
	}{
		{
			name:   "no items",
			items:  []string{},
			expect: "",
		},
		{
			name:   "one item",
			items:  []string{"spoon"},
			expect: "spoon",
		},
		{
			name:   "two items",
			items:  []string{"spoon", "fork"},
			expect: "spoon and fork",
		},
		{
			name:   "three items get an oxford comma",
			items:  []string{"spoon", "fork", "knife"},
			expect: "spoon, fork, and knife",
		},
		{
			name:     "one item with article",
			items:    []string{"spoon"},
			articles: true,
			expect:   "a spoon",
		},
		{
			name:     "vowel-initial item with article",
			items:    []string{"egg"},
			articles: true,
			expect:   "an egg",
		},
		{
			name:     "title-cased item is lowered after its article",
			items:    []string{"Egg"},
			articles: true,
			expect:   "An egg",
		},
		{
			name:     "all-caps item keeps its caps",
			items:    []string{"EGG"},
			articles: true,
			expect:   "AN EGG",
		},
		{
			name:     "two items with articles",
			items:    []string{"spoon", "egg"},
			articles: true,
			expect:   "a spoon and an egg",
		},
		{
			name:     "three items with articles",
			items:    []string{"spoon", "egg", "orb"},
			articles: true,
			expect:   "a spoon, an egg, and an orb",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := MakeTextList(tc.items, tc.articles)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ArticleFor(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		definite bool
		expect   string
	}{
		{
			name:   "indefinite consonant",
			input:  "spoon",
			expect: "a",
		},
		{
			name:   "indefinite vowel",
			input:  "egg",
			expect: "an",
		},
		{
			name:   "indefinite vowel, title case",
			input:  "Egg",
			expect: "An",
		},
		{
			name:   "indefinite vowel, all caps",
			input:  "EGG",
			expect: "AN",
		},
		{
			name:   "indefinite consonant, all caps",
			input:  "SPOON",
			expect: "A",
		},
		{
			name:     "definite",
			input:    "spoon",
			definite: true,
			expect:   "the",
		},
		{
			name:     "definite, title case",
			input:    "Spoon",
			definite: true,
			expect:   "The",
		},
		{
			name:     "definite, all caps",
			input:    "SPOON",
			definite: true,
			expect:   "THE",
		},
		{
			name:   "empty string",
			input:  "",
			expect: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := ArticleFor(tc.input, tc.definite)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_TitleCase(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "all caps",
			input:  "DARK ROOM",
			expect: "Dark Room",
		},
		{
			name:   "all lower",
			input:  "dark room",
			expect: "Dark Room",
		},
		{
			name:   "single word",
			input:  "cellar",
			expect: "Cellar",
		},
		{
			name:   "empty string",
			input:  "",
			expect: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := TitleCase(tc.input)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_OrderedKeys(t *testing.T) {
	testCases := []struct {
		name   string
		input  map[string]int
		expect []string
	}{
		{
			name:   "empty map",
			input:  map[string]int{},
			expect: []string{},
		},
		{
			name:   "one key",
			input:  map[string]int{"a": 1},
			expect: []string{"a"},
		},
		{
			name:   "keys come out alphabetized",
			input:  map[string]int{"banana": 2, "apple": 1, "cherry": 3},
			expect: []string{"apple", "banana", "cherry"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := OrderedKeys(tc.input)

			assert.Equal(tc.expect, actual)
		})
	}
}
