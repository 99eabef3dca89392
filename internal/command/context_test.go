package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseContext(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{
			name:  "single segment",
			input: "exploring",
		},
		{
			name:  "two segments",
			input: "using.phone",
		},
		{
			name:  "three segments",
			input: "a.b.c",
		},
		{
			name:      "empty string",
			input:     "",
			expectErr: true,
		},
		{
			name:      "leading separator",
			input:     ".a",
			expectErr: true,
		},
		{
			name:      "trailing separator",
			input:     "a.",
			expectErr: true,
		},
		{
			name:      "doubled separator",
			input:     "a..b",
			expectErr: true,
		},
		{
			name:      "separator only",
			input:     ".",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ctx, err := ParseContext(tc.input)

			if tc.expectErr {
				assert.Error(err)
				assert.True(errors.Is(err, ErrInvalidContext))
				return
			}
			assert.NoError(err)
			assert.Equal(tc.input, ctx.String())
			assert.False(ctx.IsRoot())
		})
	}
}

func Test_ParseContext_reportsAllProblems(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseContext(".bad.path.")
	assert.Error(err)
	assert.Contains(err.Error(), "start with")
	assert.Contains(err.Error(), "end with")
}

func Test_Context_Contains(t *testing.T) {
	testCases := []struct {
		name   string
		outer  string
		inner  string
		expect bool
	}{
		{
			name:   "same context",
			outer:  "x.y",
			inner:  "x.y",
			expect: true,
		},
		{
			name:   "direct child",
			outer:  "x.y",
			inner:  "x.y.z",
			expect: true,
		},
		{
			name:   "parent is not within child",
			outer:  "x.y",
			inner:  "x",
			expect: false,
		},
		{
			name:   "same leaf name under other parent",
			outer:  "y",
			inner:  "x.y",
			expect: false,
		},
		{
			name:   "root contains everything",
			outer:  "",
			inner:  "x.y.z",
			expect: true,
		},
		{
			name:   "root contains root",
			outer:  "",
			inner:  "",
			expect: true,
		},
		{
			name:   "non-root does not contain root",
			outer:  "x",
			inner:  "",
			expect: false,
		},
		{
			name:   "segment boundary is respected",
			outer:  "x",
			inner:  "xylophone",
			expect: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var outer, inner Context
			if tc.outer != "" {
				outer = MustContext(tc.outer)
			}
			if tc.inner != "" {
				inner = MustContext(tc.inner)
			}

			assert.Equal(tc.expect, outer.Contains(inner))
		})
	}
}

func Test_Context_Contains_reflexive(t *testing.T) {
	assert := assert.New(t)

	for _, path := range []string{"a", "a.b", "deep.deep.deep.down"} {
		ctx := MustContext(path)
		assert.True(ctx.Contains(ctx), "context %q should contain itself", path)
	}

	var root Context
	assert.True(root.Contains(root))
}

func Test_Context_Specificity(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect int
	}{
		{
			name:   "root",
			input:  "",
			expect: 0,
		},
		{
			name:   "one segment",
			input:  "a",
			expect: 1,
		},
		{
			name:   "two segments",
			input:  "a.b",
			expect: 2,
		},
		{
			name:   "three segments",
			input:  "a.b.c",
			expect: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var ctx Context
			if tc.input != "" {
				ctx = MustContext(tc.input)
			}

			assert.Equal(tc.expect, ctx.Specificity())
		})
	}
}

func Test_MustContext_panicsOnBadPath(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() {
		MustContext("a..b")
	})
}
