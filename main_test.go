package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DarkbitNetwork/osu/journal"
)

func TestHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "edits.db")

	j, err := journal.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	for _, e := range []journal.Entry{
		{Beatmap: "123", ObjectIndex: 1, StartTime: 2000, OffsetX: 100, OffsetY: 100, PointsBefore: 3, PointsAfter: 3, CreatedAt: at},
		{Beatmap: "456", ObjectIndex: 2, StartTime: 3000, OffsetX: 100, PointsBefore: 4, PointsAfter: 3, CreatedAt: at},
	} {
		if _, err := j.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := cmdHistory(ctx, []string{"-journal", path, "-beatmap", "123"}, &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and one entry:\n%s", len(lines), buf.String())
	}
	diff(t, []string{"1", "2024-05-01", "12:00:00", "123", "1", "2000", "(100,", "100)", "3->3"}, strings.Fields(lines[1]))

	buf.Reset()
	if err := cmdHistory(ctx, []string{"-journal", path}, &buf); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(strings.TrimSpace(buf.String()), "\n"); n != 2 {
		t.Errorf("got %d entries, want 2:\n%s", n, buf.String())
	}
}

func TestHistoryNeedsJournal(t *testing.T) {
	if err := cmdHistory(context.Background(), nil, &bytes.Buffer{}); err == nil {
		t.Error("listed history without a journal")
	}
}
