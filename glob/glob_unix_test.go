//go:build !windows

package glob

import (
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Special files are skipped when matched by a wildcard but are included when
// named literally: the stat-only branch accepts anything that exists, while
// the readdir branch never matches them.
func TestGlobSpecialFiles(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeTree(t, base, "a")
	require.NoError(t, syscall.Mkfifo(filepath.Join(base, "fifo"), 0o644))

	got, err := ForPath(base).AddPattern("*").Glob()
	require.NoError(t, err)
	assert.ElementsMatch(t, absPaths(base, "a"), got)

	got, err = ForPath(base).AddPattern("fifo").Glob()
	require.NoError(t, err)
	assert.ElementsMatch(t, absPaths(base, "fifo"), got)
}
