package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/DarkbitNetwork/osu/journal"
)

type oszEntry struct {
	data  []byte
	key   string
	edits []Edit
}

// reverseOsz rewrites every .osu difficulty in the archive in and writes a
// new archive to out. Other entries are copied as they are. Edits are
// journaled only once out is complete; on error no output is left behind.
func reverseOsz(ctx context.Context, in, out string, cfg Config, j *journal.Journal) error {
	zr, err := zip.OpenReader(in)
	if err != nil {
		return fmt.Errorf("error opening osz (zip) %s: %w", in, err)
	}
	defer zr.Close()

	entries := make([]*oszEntry, len(zr.File))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(f.Name), ".osu") {
			continue
		}
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e, err := reverseEntry(f, cfg)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", in, f.Name, err)
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeOsz(out, zr.File, entries); err != nil {
		os.Remove(out)
		return err
	}

	for i, e := range entries {
		if e == nil {
			continue
		}
		slog.Info("reversed sliders", "beatmap", e.key, "file", zr.File[i].Name, "count", len(e.edits))
		if err := record(ctx, j, e.key, e.edits); err != nil {
			return err
		}
	}
	return nil
}

func writeOsz(out string, files []*zip.File, entries []*oszEntry) error {
	fo, err := os.Create(out)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(fo)
	for i, f := range files {
		if entries[i] == nil {
			if err := zw.Copy(f); err != nil {
				fo.Close()
				return fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified})
		if err != nil {
			fo.Close()
			return err
		}
		if _, err := w.Write(entries[i].data); err != nil {
			fo.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		fo.Close()
		return err
	}
	return fo.Close()
}

func reverseEntry(f *zip.File, cfg Config) (*oszEntry, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	key, edits, err := reverseBeatmap(rc, &buf, cfg)
	if err != nil {
		return nil, err
	}
	return &oszEntry{data: buf.Bytes(), key: key, edits: edits}, nil
}
