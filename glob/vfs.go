package glob

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// Attributes describes the type of a filesystem entry. Other covers entries
// that are neither regular files, directories, nor symbolic links: fifos,
// sockets, and device files.
type Attributes struct {
	Dir     bool
	Regular bool
	Symlink bool
	Other   bool
}

// An FS supplies the filesystem operations used by a query. All three
// operations are synchronous and are called from worker goroutines; any
// error other than absence surfaces as the query's I/O failure.
type FS interface {
	// Stat follows symbolic links and returns the attributes of the entry at
	// path. It returns (nil, nil) if the entry does not exist or if the
	// parent chain cannot be traversed.
	Stat(path string) (*Attributes, error)

	// List returns the names of the immediate children of dir, in no
	// particular order.
	List(dir string) ([]string, error)

	// ReadAttributes returns the attributes of the entry at path without
	// following symbolic links.
	ReadAttributes(path string) (*Attributes, error)
}

// OSFS implements FS over the host filesystem.
type OSFS struct{}

const otherModes = fs.ModeNamedPipe | fs.ModeSocket | fs.ModeDevice | fs.ModeCharDevice | fs.ModeIrregular

func attributesOf(mode fs.FileMode) *Attributes {
	return &Attributes{
		Dir:     mode.IsDir(),
		Regular: mode.IsRegular(),
		Symlink: mode&fs.ModeSymlink != 0,
		Other:   mode&otherModes != 0,
	}
}

func (OSFS) Stat(path string) (*Attributes, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return attributesOf(info.Mode()), nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR), errors.Is(err, fs.ErrInvalid):
		// Absent, dangling, or reached through a non-directory.
		return nil, nil
	default:
		return nil, err
	}
}

func (OSFS) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	return names, nil
}

func (OSFS) ReadAttributes(path string) (*Attributes, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	return attributesOf(info.Mode()), nil
}
