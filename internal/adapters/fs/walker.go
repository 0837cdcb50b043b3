// Package fs provides file system adapters for snapshotting the working
// directory and hashing recipes.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.EntryLister = (*Walker)(nil)

// skipDirs are never descended into.
var skipDirs = map[string]struct{}{
	".git": {},
	".jj":  {},
}

// Walker lists filesystem entries below a root directory.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields the files and directories below root as slash-separated paths
// relative to root. Entries matching a gitignore-style pattern in ignores are
// skipped, and ignored directories are not descended into.
func (w *Walker) Walk(root string, ignores []string) iter.Seq2[string, error] {
	gi := ignore.CompileIgnoreLines(ignores...)

	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if _, skip := skipDirs[d.Name()]; skip {
					return filepath.SkipDir
				}
				if gi.MatchesPath(rel) || gi.MatchesPath(rel+"/") {
					return filepath.SkipDir
				}
			} else if gi.MatchesPath(rel) {
				return nil
			}

			if !yield(rel, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", zerr.With(zerr.Wrap(err, "failed to walk directory"), "root", root))
		}
	}
}

// ListEntries collects Walk into a sorted slice.
func (w *Walker) ListEntries(root string, ignores []string) ([]string, error) {
	var entries []string
	for entry, err := range w.Walk(root, ignores) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	sort.Strings(entries)
	return entries, nil
}
