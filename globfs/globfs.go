// Package globfs is the "host filesystem primitives" collaborator the
// glob core's list-tree walker consumes (spec.md §6): directory
// enumeration, sync and async, with symlink-following and a classified
// not-found error so the walker can silently drop "no such file" failures
// below a wildcard node while still propagating everything else.
package globfs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// Kind classifies a directory entry.
type Kind int

const (
	File Kind = iota
	Dir
	Link
)

// Entry is one filesystem entity returned by an Adapter, carrying its full
// path (relative to whatever root the caller requested) and kind.
type Entry struct {
	Path string
	Kind Kind
}

// Adapter is the contract the list-tree walker requires of a host
// filesystem. ListDirSync/Async list exactly one directory's immediate
// children; the Recursive variants list an entire subtree.
type Adapter interface {
	ListDirSync(path string, followLinks bool) ([]Entry, error)
	ListDirAsync(ctx context.Context, path string, followLinks bool) (<-chan Entry, <-chan error)
	ListDirRecursiveSync(path string, followLinks bool) ([]Entry, error)
	ListDirRecursiveAsync(ctx context.Context, path string, followLinks bool) (<-chan Entry, <-chan error)
}

// NotFoundError wraps an underlying filesystem error, classified per
// spec.md §7: "not found" (POSIX errno 2, Windows errno 3) vs other.
type NotFoundError struct {
	Op   string
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return "globfs: " + e.Op + " " + e.Path + ": not found"
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// IsNotFound reports whether err (possibly wrapped by pkg/errors) is a
// not-found classification.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	return errors.Is(errors.Cause(err), fs.ErrNotExist)
}

// OS is the default Adapter, backed by os.ReadDir (a manual recursive
// descent for the Recursive variants, since filepath.WalkDir won't follow
// a symlinked directory), grounded on pkg/swhttp/fs.go's dirList, which
// prefers fs.ReadDirFile over the legacy Readdir API for the same reason
// (no extra per-entry Stat on POSIX).
type OS struct{}

func kindOf(d fs.DirEntry, followLinks bool, fullPath string) (Kind, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		if !followLinks {
			return Link, nil
		}
		info, err := os.Stat(fullPath)
		if err != nil {
			return Link, wrapNotFound("stat", fullPath, err)
		}
		if info.IsDir() {
			return Dir, nil
		}
		return File, nil
	}
	if d.IsDir() {
		return Dir, nil
	}
	return File, nil
}

func wrapNotFound(op, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &NotFoundError{Op: op, Path: path, Err: err}
	}
	return errors.Wrapf(err, "globfs: %s %s", op, path)
}

func (OS) ListDirSync(path string, followLinks bool) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, wrapNotFound("readdir", path, err)
	}
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name() < dirEntries[j].Name() })

	out := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		full := filepath.Join(path, d.Name())
		kind, err := kindOf(d, followLinks, full)
		if err != nil {
			if IsNotFound(err) {
				continue // entry vanished between readdir and stat; drop it
			}
			return nil, err
		}
		out = append(out, Entry{Path: full, Kind: kind})
	}
	return out, nil
}

func (o OS) ListDirRecursiveSync(root string, followLinks bool) ([]Entry, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, wrapNotFound("stat", root, err)
	}

	visited := map[string]bool{}
	if followLinks {
		if real, err := filepath.EvalSymlinks(root); err == nil {
			visited[real] = true
		}
	}

	var out []Entry
	if err := walkRecursive(root, followLinks, visited, &out); err != nil {
		return nil, wrapNotFound("walk", root, err)
	}
	return out, nil
}

// walkRecursive lists dirPath and descends into every subdirectory entry,
// including a symlinked directory when followLinks is true. filepath.WalkDir
// can't do this: it classifies each entry from the parent directory's
// Lstat-derived fs.DirEntry and never re-stats a symlink to see what it
// points at, so it never descends into a symlinked directory regardless of
// followLinks. visited tracks each symlinked directory's resolved real path
// so a symlink cycle can't recurse forever.
func walkRecursive(dirPath string, followLinks bool, visited map[string]bool, out *[]Entry) error {
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name() < dirEntries[j].Name() })

	for _, d := range dirEntries {
		full := filepath.Join(dirPath, d.Name())
		kind, err := kindOf(d, followLinks, full)
		if err != nil {
			if IsNotFound(err) {
				continue // entry vanished between readdir and stat; drop it
			}
			return err
		}
		*out = append(*out, Entry{Path: full, Kind: kind})
		if kind != Dir {
			continue
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !followLinks {
				continue
			}
			real, err := filepath.EvalSymlinks(full)
			if err != nil {
				continue
			}
			if visited[real] {
				continue
			}
			visited[real] = true
		}

		if err := walkRecursive(full, followLinks, visited, out); err != nil {
			if IsNotFound(err) {
				continue
			}
			return err
		}
	}
	return nil
}

// ListDirAsync runs ListDirSync on a goroutine, streaming results over a
// channel so the async walker's cooperative-single-task model (spec.md
// §5) composes uniformly whether the underlying adapter is genuinely
// async or, as here, a synchronous implementation wrapped in a goroutine.
// Cancellation via ctx stops delivery; in-flight entries already read are
// discarded without leaking the goroutine (the send select always has a
// ctx.Done() case).
func (o OS) ListDirAsync(ctx context.Context, path string, followLinks bool) (<-chan Entry, <-chan error) {
	return runAsync(ctx, func() ([]Entry, error) { return o.ListDirSync(path, followLinks) })
}

func (o OS) ListDirRecursiveAsync(ctx context.Context, path string, followLinks bool) (<-chan Entry, <-chan error) {
	return runAsync(ctx, func() ([]Entry, error) { return o.ListDirRecursiveSync(path, followLinks) })
}

func runAsync(ctx context.Context, list func() ([]Entry, error)) (<-chan Entry, <-chan error) {
	entries := make(chan Entry)
	errs := make(chan error, 1)

	go func() {
		defer close(entries)
		defer close(errs)

		result, err := list()
		if err != nil {
			select {
			case errs <- err:
			case <-ctx.Done():
			}
			return
		}
		for _, e := range result {
			select {
			case entries <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	return entries, errs
}

var _ Adapter = OS{}
