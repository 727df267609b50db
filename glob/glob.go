// Package glob implements a subset of UNIX-style file globbing, expanding
// "*" and "?" as wildcards, but not [a-z] ranges.
//
// "**" gets special treatment in include patterns: when it is used as a
// complete path segment it matches zero or more intermediate path components,
// so "x/**" matches x itself and everything beneath it, and "**/y" matches y
// at any depth.
//
// A query walks the tree rooted at a base directory and collects every path
// whose relative path matches at least one include pattern. The walk is
// expressed as a graph of small tasks so that it can be fanned out across an
// Executor; on high-latency filesystems a single query may otherwise
// serialize on thousands of readdir calls.
//
// Matches are returned in an unspecified order.
package glob

import "errors"

// ErrCanceled is returned by Future.Wait and Builder.Glob when the query was
// canceled before it completed. Canceled queries never return partial
// results.
var ErrCanceled = errors.New("glob: query canceled")

// An Executor runs query tasks. Implementations may run tasks on a pool, on
// a single background goroutine, or inline on the submitting goroutine; the
// engine does not depend on any ordering between submitted tasks and does
// not require back-pressure. Tasks submit further tasks from within their
// own bodies.
type Executor interface {
	Execute(task func())
}

// A Builder collects the configuration for a single query.
type Builder struct {
	base               string
	patterns           []string
	excludeDirectories bool
	pathFilter         func(dir string) bool
	executor           Executor
	fsys               FS
}

// ForPath returns a query builder rooted at the given base directory. The
// base should be an absolute path; returned matches are formed by joining
// matched segments onto it.
func ForPath(base string) *Builder {
	return &Builder{base: base, fsys: OSFS{}}
}

// AddPattern adds a single include pattern to the query.
func (b *Builder) AddPattern(pattern string) *Builder {
	b.patterns = append(b.patterns, pattern)
	return b
}

// AddPatterns adds include patterns to the query. A query with no patterns
// returns no matches.
func (b *Builder) AddPatterns(patterns ...string) *Builder {
	b.patterns = append(b.patterns, patterns...)
	return b
}

// SetExcludeDirectories controls whether matched directories appear in the
// result. The default is to include them.
func (b *Builder) SetExcludeDirectories(exclude bool) *Builder {
	b.excludeDirectories = exclude
	return b
}

// SetPathFilter sets a predicate over directory paths. If the predicate
// returns false for a directory, the entire subtree beneath it is pruned
// from the walk.
func (b *Builder) SetPathFilter(pred func(dir string) bool) *Builder {
	b.pathFilter = pred
	return b
}

// SetExecutor sets the executor used for parallel query evaluation. If
// unset, evaluation runs on the calling goroutine.
func (b *Builder) SetExecutor(executor Executor) *Builder {
	b.executor = executor
	return b
}

// SetFileSystem sets the filesystem the query walks. The default is the host
// filesystem.
func (b *Builder) SetFileSystem(fsys FS) *Builder {
	b.fsys = fsys
	return b
}

// Glob runs the query to completion and returns its matches. Glob does not
// return partial results: on any failure the most severe error encountered
// by the walk is returned instead, and a panic captured from a worker is
// re-raised on the calling goroutine.
func (b *Builder) Glob() ([]string, error) {
	return b.GlobAsync().Wait()
}

// GlobAsync launches the query and returns a Future for its result.
func (b *Builder) GlobAsync() *Future {
	v := newVisitor(b.fsys, b.executor)
	return v.globAsync(b.base, b.patterns, b.excludeDirectories, b.pathFilter)
}
