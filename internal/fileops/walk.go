package fileops

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

var errFileTooLarge = errors.New("file exceeds buffer limit")

// lsRecursive walks the subtree under root and returns every entry,
// names given relative to root. fastwalk runs its callback from
// multiple goroutines, so the slice is guarded.
func (o *Ops) lsRecursive(root, pattern string) ([]Entry, error) {
	var (
		mu      sync.Mutex
		entries []Entry
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		if err != nil || p == root {
			return nil // unreadable entries are skipped, not fatal
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		if pattern != "" {
			ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel))
			if !ok {
				return nil
			}
		}
		e := Entry{Name: rel, Kind: kindOfMode(d.Type())}
		if info, infoErr := d.Info(); infoErr == nil {
			e.Size = info.Size()
			e.ModTime = info.ModTime()
			e.Mode = info.Mode()
		}
		mu.Lock()
		entries = append(entries, e)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, classified(root, err)
	}
	return entries, nil
}

// treeSize sums regular-file sizes under root. Used for byte accounting
// on directory copy/move/remove; walks the real filesystem directly.
func treeSize(root string) int64 {
	var (
		mu    sync.Mutex
		total int64
	)

	conf := fastwalk.Config{Follow: false}
	_ = fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, infoErr := d.Info(); infoErr == nil {
				mu.Lock()
				total += info.Size()
				mu.Unlock()
			}
		}
		return nil
	})
	return total
}
