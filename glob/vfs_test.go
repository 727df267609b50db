package glob

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFSStat(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeTree(t, base, "file.txt", "dir/")

	attrs, err := OSFS{}.Stat(filepath.Join(base, "file.txt"))
	require.NoError(t, err)
	require.NotNil(t, attrs)
	assert.True(t, attrs.Regular)
	assert.False(t, attrs.Dir)

	attrs, err = OSFS{}.Stat(filepath.Join(base, "dir"))
	require.NoError(t, err)
	require.NotNil(t, attrs)
	assert.True(t, attrs.Dir)

	// Absent entries are not errors.
	attrs, err = OSFS{}.Stat(filepath.Join(base, "missing"))
	require.NoError(t, err)
	assert.Nil(t, attrs)

	// Neither is a path that traverses a regular file.
	attrs, err = OSFS{}.Stat(filepath.Join(base, "file.txt", "child"))
	require.NoError(t, err)
	assert.Nil(t, attrs)
}

func TestOSFSSymlinkAttributes(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	base := t.TempDir()
	writeTree(t, base, "target.txt")
	link := filepath.Join(base, "link.txt")
	require.NoError(t, os.Symlink("target.txt", link))

	// ReadAttributes reports the link itself; Stat reports its target.
	attrs, err := OSFS{}.ReadAttributes(link)
	require.NoError(t, err)
	assert.True(t, attrs.Symlink)
	assert.False(t, attrs.Regular)

	attrs, err = OSFS{}.Stat(link)
	require.NoError(t, err)
	require.NotNil(t, attrs)
	assert.False(t, attrs.Symlink)
	assert.True(t, attrs.Regular)

	// A dangling link stats as absent.
	dangling := filepath.Join(base, "dangling")
	require.NoError(t, os.Symlink("missing", dangling))
	attrs, err = OSFS{}.Stat(dangling)
	require.NoError(t, err)
	assert.Nil(t, attrs)
}

func TestOSFSList(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeTree(t, base, "a", "b", "sub/c")

	names, err := OSFS{}.List(base)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "sub"}, names)

	_, err = OSFS{}.List(filepath.Join(base, "missing"))
	assert.Error(t, err)
}
