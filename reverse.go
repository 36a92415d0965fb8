package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/DarkbitNetwork/osu/dotosu"
	"github.com/DarkbitNetwork/osu/journal"
	"github.com/DarkbitNetwork/osu/sliderpath"
)

// Edit describes one reversed slider.
type Edit struct {
	Index        int
	Time         int
	Offset       sliderpath.Vec
	PointsBefore int
	PointsAfter  int
}

// ReverseSliders reverses every selected slider of b in place. Each slider's
// position moves to its old end so the reversed path covers the same ground.
func ReverseSliders(b *dotosu.Beatmap, sel Selection, fitLength bool) []Edit {
	var edits []Edit
	for i, ho := range b.HitObjects {
		s, ok := ho.(dotosu.Slider)
		if !ok || !sel.Matches(i, s.StartTime()) {
			continue
		}
		before := s.Path.Len()
		offset := sliderpath.Reverse(s.Path)
		s.PosXY = s.PosXY.Add(offset)
		if fitLength {
			sliderpath.SnapTo(s, nil)
		}
		b.HitObjects[i] = s

		edits = append(edits, Edit{
			Index:        i,
			Time:         s.StartTime(),
			Offset:       offset,
			PointsBefore: before,
			PointsAfter:  s.Path.Len(),
		})
	}
	return edits
}

// reverseBeatmap decodes an .osu file from r, reverses it and writes the
// result to w.
func reverseBeatmap(r io.Reader, w io.Writer, cfg Config) (string, []Edit, error) {
	b, err := dotosu.Decode(r)
	if err != nil {
		return "", nil, err
	}
	edits := ReverseSliders(b, cfg.Select, cfg.FitLength)
	if err := dotosu.Encode(w, b); err != nil {
		return "", nil, err
	}
	return b.Key(), edits, nil
}

// reverseFile runs one reverse pass over cfg.Input.
func reverseFile(ctx context.Context, cfg Config, j *journal.Journal) error {
	out := cfg.OutputPath()
	if strings.EqualFold(filepath.Ext(cfg.Input), ".osz") {
		return reverseOsz(ctx, cfg.Input, out, cfg, j)
	}

	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	key, edits, err := reverseBeatmap(bytes.NewReader(data), &buf, cfg)
	if err != nil {
		return fmt.Errorf("dotosu: %s: %w", cfg.Input, err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	slog.Info("reversed sliders", "beatmap", key, "count", len(edits), "out", out)
	return record(ctx, j, key, edits)
}

func record(ctx context.Context, j *journal.Journal, key string, edits []Edit) error {
	if j == nil {
		return nil
	}
	for _, e := range edits {
		_, err := j.Record(ctx, journal.Entry{
			Beatmap:      key,
			ObjectIndex:  e.Index,
			StartTime:    e.Time,
			OffsetX:      e.Offset.X,
			OffsetY:      e.Offset.Y,
			PointsBefore: e.PointsBefore,
			PointsAfter:  e.PointsAfter,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
