package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"episync/internal/config"
	"episync/internal/media"

	"github.com/google/go-cmp/cmp"
)

func writeFixture(t *testing.T, root string, relPaths ...string) {
	t.Helper()
	for _, rel := range relPaths {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll(%s) error = %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte("content of "+rel), 0644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", path, err)
		}
	}
}

func TestBuildIndexesKeyedFiles(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root,
		"Show A/season_01/Show A - S01E01.mkv",
		"Show A/season_01/Show A - S01E01.srt",
		"Show A/season_01/Show A - S01E02.mkv",
		"Show B/Show B - s1e1.mp4",
	)

	res, err := Build(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}

	wantKeys := []media.Key{
		{Show: "show a", Code: "S01E01", Type: media.Video},
		{Show: "show a", Code: "S01E01", Type: media.Subtitle},
		{Show: "show a", Code: "S01E02", Type: media.Video},
		{Show: "show b", Code: "S01E01", Type: media.Video},
	}
	if len(res.Index) != len(wantKeys) {
		t.Fatalf("len(Index) = %d, want %d", len(res.Index), len(wantKeys))
	}
	for _, key := range wantKeys {
		if _, ok := res.Index[key]; !ok {
			t.Errorf("Index missing key %v", key)
		}
	}
	if res.Ignored != 0 {
		t.Errorf("Ignored = %d, want 0", res.Ignored)
	}
}

func TestBuildExcludesFilesWithoutKey(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root,
		"loose - S01E01.mkv",             // directly in root, no show folder
		"Show A/notes.txt",               // unknown extension
		"Show A/behind the scenes.mkv",   // no episode code
		"Show A/Show A - S01E01.mkv",     // the only indexable file
		"Show A/.hidden - S01E09.mkv",    // hidden files are skipped entirely
	)

	res, err := Build(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}

	if len(res.Index) != 1 {
		t.Fatalf("len(Index) = %d, want 1", len(res.Index))
	}
	if res.Ignored != 3 {
		t.Errorf("Ignored = %d, want 3", res.Ignored)
	}
}

func TestBuildGroupsDuplicatesSorted(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root,
		"Show A/b copy - S01E01.mkv",
		"Show A/a copy - S01E01.mkv",
	)

	res, err := Build(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}

	key := media.Key{Show: "show a", Code: "S01E01", Type: media.Video}
	entries := res.Index[key]
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	want := []string{
		filepath.Join(root, "Show A", "a copy - S01E01.mkv"),
		filepath.Join(root, "Show A", "b copy - S01E01.mkv"),
	}
	got := []string{entries[0].Path, entries[1].Path}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry order diff (-want +got):\n%s", diff)
	}
}

func TestBuildAppliesScores(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root,
		"Show A/plain - S01E01.mkv",
		"Show A/better - S01E01 [4k].mkv",
	)
	tags := []config.Tag{{Match: "4k", Score: 30}}

	res, err := Build(context.Background(), root, tags)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}

	key := media.Key{Show: "show a", Code: "S01E01", Type: media.Video}
	for _, e := range res.Index[key] {
		want := 0
		if filepath.Base(e.Path) == "better - S01E01 [4k].mkv" {
			want = 30
		}
		if e.Score != want {
			t.Errorf("Score(%s) = %d, want %d", e.Path, e.Score, want)
		}
	}
}

func TestBuildReportsDirectories(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root,
		"Show A/season_01/Show A - S01E01.mkv",
		"Show A/season_01/notes.txt",
	)

	res, err := Build(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}

	seasonDir := filepath.Join(root, "Show A", "season_01")
	var report *DirReport
	for i := range res.Reports {
		if res.Reports[i].Dir == seasonDir {
			report = &res.Reports[i]
		}
	}
	if report == nil {
		t.Fatalf("no report for %s; reports = %+v", seasonDir, res.Reports)
	}
	if len(report.Files) != 2 {
		t.Fatalf("len(report.Files) = %d, want 2", len(report.Files))
	}
	for _, f := range report.Files {
		switch f.Name {
		case "Show A - S01E01.mkv":
			if f.Reason != media.OK {
				t.Errorf("%s reason = %v, want OK", f.Name, f.Reason)
			}
		case "notes.txt":
			if f.Reason != media.UnknownExtension {
				t.Errorf("%s reason = %v, want UnknownExtension", f.Name, f.Reason)
			}
		}
	}
}

func TestKeysSorted(t *testing.T) {
	t.Parallel()
	idx := FileIndex{
		{Show: "b", Code: "S01E01", Type: media.Video}:    nil,
		{Show: "a", Code: "S02E01", Type: media.Video}:    nil,
		{Show: "a", Code: "S01E01", Type: media.Subtitle}: nil,
		{Show: "a", Code: "S01E01", Type: media.Video}:    nil,
	}
	want := []media.Key{
		{Show: "a", Code: "S01E01", Type: media.Video},
		{Show: "a", Code: "S01E01", Type: media.Subtitle},
		{Show: "a", Code: "S02E01", Type: media.Video},
		{Show: "b", Code: "S01E01", Type: media.Video},
	}
	if diff := cmp.Diff(want, idx.Keys()); diff != "" {
		t.Errorf("Keys() diff (-want +got):\n%s", diff)
	}
}
