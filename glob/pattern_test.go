package glob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pattern string
		err     string
	}{
		{pattern: "foo"},
		{pattern: "foo/bar"},
		{pattern: "*.go"},
		{pattern: "foo/*/bar"},
		{pattern: "**"},
		{pattern: "**/foo/**"},
		{pattern: "f?o"},
		{pattern: ".hidden"},
		{pattern: "...weird"},
		{pattern: "", err: "pattern cannot be empty"},
		{pattern: "/foo", err: "pattern cannot be absolute"},
		{pattern: "foo//bar", err: "empty segment not permitted"},
		{pattern: "foo/", err: "empty segment not permitted"},
		{pattern: "./foo", err: "segment '.' not permitted"},
		{pattern: "foo/..", err: "segment '..' not permitted"},
		{pattern: "a**/b", err: "recursive wildcard must be its own segment"},
		{pattern: "a/**b", err: "recursive wildcard must be its own segment"},
		{pattern: "***", err: "recursive wildcard must be its own segment"},
	}
	for _, c := range cases {
		t.Run(c.pattern, func(t *testing.T) {
			t.Parallel()

			err := ValidatePattern(c.pattern)
			if c.err == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), c.err)
			}
		})
	}
}

func TestCheckAndSplitPatterns(t *testing.T) {
	t.Parallel()

	split, err := checkAndSplitPatterns([]string{"a/b", "**/c"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"**", "c"}}, split)

	_, err = checkAndSplitPatterns([]string{"a/b", "/c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pattern cannot be absolute")
}
