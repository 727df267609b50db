package glob

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

type boxedError struct{ err error }

type boxedPanic struct{ value any }

// A visitor evaluates one query. It walks the tree as a graph of tasks that
// enqueue further tasks, which keeps many readdir calls in flight at once on
// high-latency filesystems.
type visitor struct {
	// These collections are shared across workers and must be safe for
	// concurrent use.
	results sync.Map // matched path -> struct{}
	cache   sync.Map // pattern segment -> *regexp.Regexp

	fsys     FS
	executor Executor
	result   *Future

	totalOps   atomic.Int64
	pendingOps atomic.Int64

	// Error slots, most severe last. Each slot keeps its first writer so
	// that severity ordering survives concurrent reports.
	ioFailure atomic.Pointer[boxedError]
	fault     atomic.Pointer[boxedPanic]
	fatal     atomic.Pointer[boxedPanic]

	canceled atomic.Bool
}

func newVisitor(fsys FS, executor Executor) *visitor {
	v := &visitor{fsys: fsys, executor: executor}
	v.result = &Future{visitor: v, done: make(chan struct{})}
	return v
}

func (v *visitor) globAsync(base string, patterns []string, excludeDirectories bool, dirPred func(string) bool) *Future {
	// Patterns are validated before the base is stat'ed so that a malformed
	// pattern fails the query without touching the filesystem.
	splitPatterns, err := checkAndSplitPatterns(patterns)
	if err != nil {
		return v.completeNow(nil, err)
	}

	baseStat, err := v.fsys.Stat(base)
	if err != nil {
		return v.completeNow(nil, err)
	}
	if baseStat == nil || len(patterns) == 0 {
		return v.completeNow(nil, nil)
	}

	if dirPred == nil {
		dirPred = func(string) bool { return true }
	}

	// A dumb loop over the patterns, even though it may duplicate logical
	// work when patterns share sub-patterns (consider [*/*.go, sub/*.go,
	// */*.txt]). Optimizing would require tracking which patterns share
	// prefixes.
	//
	// The bracketing increment ensures completion cannot fire until every
	// per-pattern root has been enqueued.
	v.pendingOps.Add(1)
	for _, segments := range splitPatterns {
		numRecursive := 0
		for _, segment := range segments {
			if isRecursiveSegment(segment) {
				numRecursive++
			}
		}

		cfg := globConfig{
			segments:           segments,
			excludeDirectories: excludeDirectories,
			dirPred:            dirPred,
		}
		var ctx taskContext
		if numRecursive > 1 {
			ctx = &recursiveContext{globContext: globContext{visitor: v, globConfig: cfg}}
		} else {
			ctx = &globContext{visitor: v, globConfig: cfg}
		}
		ctx.queueGlob(base, baseStat.Dir, 0)
	}
	v.decrementAndCheckDone()

	return v.result
}

func (v *visitor) cancel() {
	v.canceled.Store(true)
}

func (v *visitor) failed() bool {
	return v.fatal.Load() != nil || v.fault.Load() != nil || v.ioFailure.Load() != nil
}

func (v *visitor) recordPanic(p any) {
	if _, ok := p.(runtime.Error); ok {
		v.fatal.CompareAndSwap(nil, &boxedPanic{value: p})
		return
	}
	v.fault.CompareAndSwap(nil, &boxedPanic{value: p})
}

func (v *visitor) queueGlob(base string, baseIsDir bool, idx int, ctx taskContext) {
	v.enqueue(func() error { return v.reallyGlob(base, baseIsDir, idx, ctx) })
}

func (v *visitor) queueTask(task func() error) {
	v.enqueue(task)
}

// enqueue registers a task with the accountant and hands it to the executor.
// The pending count is incremented before the task is submitted and
// decremented on every exit path of the wrapper; once any error slot is
// populated or the query is canceled, task bodies are skipped but the
// bookkeeping still runs.
func (v *visitor) enqueue(task func() error) {
	v.totalOps.Add(1)
	v.pendingOps.Add(1)

	wrapped := func() {
		defer v.decrementAndCheckDone()
		if v.canceled.Load() || v.failed() {
			return
		}
		defer func() {
			if p := recover(); p != nil {
				v.recordPanic(p)
			}
		}()
		if err := task(); err != nil {
			v.ioFailure.CompareAndSwap(nil, &boxedError{err: err})
		}
	}

	if v.executor == nil {
		wrapped()
	} else {
		v.executor.Execute(wrapped)
	}
}

func (v *visitor) decrementAndCheckDone() {
	if v.pendingOps.Add(-1) != 0 {
		return
	}

	// Zero pending ops means all relevant work is done: the count is
	// incremented before each enqueue and not decremented until a task has
	// accounted for any additional tasks it enqueued itself.
	switch {
	case v.canceled.Load():
		v.complete(nil, ErrCanceled, nil)
	case v.fatal.Load() != nil:
		v.complete(nil, fmt.Errorf("glob: fatal error during query: %v", v.fatal.Load().value), nil)
	case v.fault.Load() != nil:
		v.complete(nil, nil, v.fault.Load())
	case v.ioFailure.Load() != nil:
		v.complete(nil, v.ioFailure.Load().err, nil)
	default:
		var paths []string
		v.results.Range(func(key, _ any) bool {
			paths = append(paths, key.(string))
			return true
		})
		v.complete(paths, nil, nil)
	}
}

func (v *visitor) complete(paths []string, err error, p *boxedPanic) {
	v.result.outcome = outcome{paths: paths, err: err, panicked: p}
	close(v.result.done)
}

func (v *visitor) completeNow(paths []string, err error) *Future {
	v.complete(paths, err, nil)
	return v.result
}

// A taskContext carries the pattern state shared by the subtasks of a
// single top-level glob task.
type taskContext interface {
	queueGlob(base string, baseIsDir bool, idx int)
	queueTask(task func() error)
	config() *globConfig
}

type globConfig struct {
	segments           []string
	excludeDirectories bool
	dirPred            func(dir string) bool
}

type globContext struct {
	visitor *visitor
	globConfig
}

func (c *globContext) queueGlob(base string, baseIsDir bool, idx int) {
	c.visitor.queueGlob(base, baseIsDir, idx, c)
}

func (c *globContext) queueTask(task func() error) {
	c.visitor.queueTask(task)
}

func (c *globContext) config() *globConfig {
	return &c.globConfig
}

// A globTask identifies the subtask "continue matching segments[idx:]
// starting at base".
type globTask struct {
	base string
	idx  int
}

// A recursiveContext dedupes glob subtasks. The naive expansion of
// recursive patterns enqueues the same logical subtask along multiple paths
// when a pattern contains more than one '**' segment.
type recursiveContext struct {
	globContext

	visited sync.Map // globTask -> struct{}
}

func (c *recursiveContext) queueGlob(base string, baseIsDir bool, idx int) {
	// For an example of how duplicates arise, consider glob(['**/a/**/foo.txt'])
	// with the only file being a/a/foo.txt: one route recursively globs
	// 'a/**/foo.txt' in the base directory, and another recursively globs
	// '**/a/**/foo.txt' in subdirectory 'a'.
	if _, dup := c.visited.LoadOrStore(globTask{base: base, idx: idx}, struct{}{}); !dup {
		c.visitor.queueGlob(base, baseIsDir, idx, c)
	}
}

// reallyGlob implements the recursion
//
//	reallyGlob base []     = { base }
//	reallyGlob base (x:xs) = union { reallyGlob f xs | f <- match(base/x) }
func (v *visitor) reallyGlob(base string, baseIsDir bool, idx int, ctx taskContext) error {
	cfg := ctx.config()
	if baseIsDir && !cfg.dirPred(base) {
		return nil
	}

	if idx == len(cfg.segments) { // Base case.
		if !(cfg.excludeDirectories && baseIsDir) {
			v.results.LoadOrStore(base, struct{}{})
		}
		return nil
	}

	if !baseIsDir {
		// Nothing to find here.
		return nil
	}

	segment := cfg.segments[idx]

	// ** is special: it can match nothing at all. For example, x/** matches
	// x, **/y matches y, and x/**/y matches x/y.
	if isRecursiveSegment(segment) {
		ctx.queueGlob(base, baseIsDir, idx+1)
	}

	if !strings.ContainsAny(segment, "*?") {
		// No need for a readdir in this case, just a stat.
		child := filepath.Join(base, segment)
		status, err := v.fsys.Stat(child)
		if err != nil {
			return err
		}
		if status == nil || !(status.Dir || status.Regular || status.Other) {
			// A dangling symlink, does not exist, etc.
			return nil
		}
		ctx.queueGlob(child, status.Dir, idx+1)
		return nil
	}

	names, err := v.fsys.List(base)
	if err != nil {
		return err
	}
	for _, name := range names {
		child := filepath.Join(base, name)
		attrs, err := v.fsys.ReadAttributes(child)
		if err != nil {
			return err
		}
		if attrs.Other {
			// A special file (fifo, etc.): no need to even match it.
			continue
		}
		if matches(segment, name, &v.cache) {
			if attrs.Symlink {
				v.processSymlink(child, idx, ctx)
			} else {
				v.processFileOrDirectory(child, attrs.Dir, idx, ctx)
			}
		}
	}
	return nil
}

// processSymlink stats symlink targets asynchronously. Following links
// during the readdir itself serializes link resolution on many filesystem
// implementations; when the filesystem is networked and a directory holds
// many links, that is substantially slower. Links whose target cannot be
// stat'ed are ignored, preserving the behavior of readdir with FOLLOW.
func (v *visitor) processSymlink(path string, idx int, ctx taskContext) {
	ctx.queueTask(func() error {
		status, err := v.fsys.Stat(path)
		if err != nil || status == nil {
			return nil
		}
		v.processFileOrDirectory(path, status.Dir, idx, ctx)
		return nil
	})
}

func (v *visitor) processFileOrDirectory(path string, isDir bool, idx int, ctx taskContext) {
	cfg := ctx.config()
	recursive := isRecursiveSegment(cfg.segments[idx])
	switch {
	case isDir && recursive:
		// A recursive segment stays at the same index when descending.
		ctx.queueGlob(path, true, idx)
	case isDir:
		ctx.queueGlob(path, true, idx+1)
	case idx+1 == len(cfg.segments):
		v.results.LoadOrStore(path, struct{}{})
	}
}
