package main

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/DarkbitNetwork/osu/journal"
)

func writeZip(t *testing.T, path string, files [][2]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, file := range files {
		w, err := zw.Create(file[0])
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, file[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func readZip(t *testing.T, path string) [][2]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	var files [][2]string
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		files = append(files, [2]string{f.Name, string(data)})
	}
	return files
}

func TestReverseOsz(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "set.osz")
	writeZip(t, in, [][2]string{
		{"audio.mp3", "not really audio"},
		{"Someone - Reverse (Mapper) [Hard].osu", testMap},
		{"bg.jpg", "\xff\xd8\xff"},
	})

	cfg := DefaultConfig()
	cfg.Input = in
	if err := reverseFile(context.Background(), cfg, nil); err != nil {
		t.Fatal(err)
	}

	diff(t, [][2]string{
		{"audio.mp3", "not really audio"},
		{"Someone - Reverse (Mapper) [Hard].osu", reversedMap},
		{"bg.jpg", "\xff\xd8\xff"},
	}, readZip(t, filepath.Join(dir, "set.reversed.osz")))
}

func memJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func journaled(t *testing.T, j *journal.Journal) int {
	t.Helper()
	entries, err := j.List(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestReverseOszJournalsWrittenEdits(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "set.osz")
	writeZip(t, in, [][2]string{{"map.osu", testMap}})
	j := memJournal(t)

	if err := reverseOsz(context.Background(), in, filepath.Join(dir, "out.osz"), DefaultConfig(), j); err != nil {
		t.Fatal(err)
	}
	diff(t, 2, journaled(t, j))
}

func TestReverseOszBrokenDifficulty(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "set.osz")
	writeZip(t, in, [][2]string{
		{"good.osu", testMap},
		{"bad.osu", "garbage"},
	})
	out := filepath.Join(dir, "out.osz")
	j := memJournal(t)

	if err := reverseOsz(context.Background(), in, out, DefaultConfig(), j); err == nil {
		t.Error("reversed an archive with a broken difficulty")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output written despite error: %v", err)
	}
	diff(t, 0, journaled(t, j))
}

func TestReverseOszUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "set.osz")
	writeZip(t, in, [][2]string{{"map.osu", testMap}})
	j := memJournal(t)

	out := filepath.Join(dir, "missing", "out.osz")
	if err := reverseOsz(context.Background(), in, out, DefaultConfig(), j); err == nil {
		t.Error("wrote into a missing directory")
	}
	diff(t, 0, journaled(t, j))
}

func TestReverseOszNotZip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "set.osz")
	if err := os.WriteFile(in, []byte(testMap), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := reverseOsz(context.Background(), in, filepath.Join(dir, "out.osz"), DefaultConfig(), nil); err == nil {
		t.Error("opened a beatmap as an archive")
	}
}
