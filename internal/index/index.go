package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"episync/internal/config"
	"episync/internal/media"

	"github.com/Digital-Shane/treeview"
)

// Entry is one file holding a key, with its preference score.
type Entry struct {
	Path  string
	Score int
}

// FileIndex maps each identity key to the files sharing it. Several entries
// under one key are duplicates for matching purposes.
type FileIndex map[media.Key][]Entry

// FileReport is the per-file diagnostic record: either the derived key or
// the reason extraction failed.
type FileReport struct {
	Name   string
	Key    media.Key
	Reason media.Reason
}

// DirReport lists what the indexer saw in one directory.
type DirReport struct {
	Dir   string
	Files []FileReport
}

// Result is a fully built index plus its diagnostic side channel. Indexes
// are ephemeral: rebuilt from a fresh walk on every run.
type Result struct {
	Index     FileIndex
	Reports   []DirReport
	Warnings  []string
	FilesSeen int
	Ignored   int
}

// WalkFilter is the traversal filter shared by every index build: hidden
// entries are skipped, everything else that is a directory or a regular
// file is kept. Filtering by media type happens later, during extraction,
// so that ignored files can still be reported in debug mode.
func WalkFilter(fi treeview.FileInfo) bool {
	if strings.HasPrefix(fi.Name(), ".") {
		return false
	}
	return fi.IsDir() || fi.FileInfo.Mode().IsRegular()
}

// Build walks root and indexes every file with a derivable key. Symlinked
// directories are not followed, so cycles cannot occur.
func Build(ctx context.Context, root string, tags []config.Tag) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	t, err := treeview.NewTreeFromFileSystem(ctx, absRoot, false,
		treeview.WithTraversalCap[treeview.FileInfo](2000000),
		treeview.WithFilterFunc(WalkFilter),
	)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	res := FromTree(t, absRoot)
	res.ApplyScores(tags)
	return res, nil
}

// FromTree keys every file node of an already built tree. root must be the
// absolute path the tree was built from.
func FromTree(t *treeview.Tree[treeview.FileInfo], root string) *Result {
	res := &Result{Index: FileIndex{}}

	for ni := range t.All(context.Background()) {
		node := ni.Node
		if !node.Data().IsDir() {
			continue
		}
		dirPath := node.Data().Path

		// The walker silently prunes directories it cannot list; probe each
		// one so unreadable directories surface as warnings instead of
		// disappearing.
		if _, err := os.ReadDir(dirPath); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping unreadable directory %s: %v", dirPath, err))
			continue
		}

		report := DirReport{Dir: dirPath}
		for _, child := range node.Children() {
			if child.Data().IsDir() {
				continue
			}
			res.FilesSeen++
			path := child.Data().Path
			key, reason := media.Extract(path, root)
			report.Files = append(report.Files, FileReport{Name: child.Name(), Key: key, Reason: reason})
			if reason != media.OK {
				res.Ignored++
				continue
			}
			res.Index[key] = append(res.Index[key], Entry{Path: path})
		}
		res.Reports = append(res.Reports, report)
	}

	for key := range res.Index {
		entries := res.Index[key]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
		res.Index[key] = entries
	}
	return res
}

// ApplyScores recomputes the preference score of every entry from the
// configured tags.
func (r *Result) ApplyScores(tags []config.Tag) {
	if len(tags) == 0 {
		return
	}
	for key, entries := range r.Index {
		for i := range entries {
			entries[i].Score = media.Score(filepath.Base(entries[i].Path), tags)
		}
		r.Index[key] = entries
	}
}

// Keys returns the index keys sorted by show, code, then type.
func (x FileIndex) Keys() []media.Key {
	keys := make([]media.Key, 0, len(x))
	for k := range x {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Show != b.Show {
			return a.Show < b.Show
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Type < b.Type
	})
	return keys
}
