// Package journal records applied slider reversals in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS reversals (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	beatmap       TEXT    NOT NULL,
	object_index  INTEGER NOT NULL,
	start_time    INTEGER NOT NULL,
	offset_x      REAL    NOT NULL,
	offset_y      REAL    NOT NULL,
	points_before INTEGER NOT NULL,
	points_after  INTEGER NOT NULL,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS reversals_beatmap ON reversals (beatmap);
`

// Entry is one reversed slider.
type Entry struct {
	ID           int64
	Beatmap      string
	ObjectIndex  int
	StartTime    int
	OffsetX      float64
	OffsetY      float64
	PointsBefore int
	PointsAfter  int
	CreatedAt    time.Time
}

type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal at path. ":memory:" gives a private
// in-memory journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	// One connection: an in-memory database is private to its connection,
	// and sqlite serialises writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema in %s: %w", path, err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores e and returns its id. A zero CreatedAt is set to now.
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO reversals (beatmap, object_index, start_time, offset_x, offset_y, points_before, points_after, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Beatmap, e.ObjectIndex, e.StartTime, e.OffsetX, e.OffsetY, e.PointsBefore, e.PointsAfter, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("journal: record %s #%d: %w", e.Beatmap, e.ObjectIndex, err)
	}
	return res.LastInsertId()
}

// List returns the entries for beatmap, newest first. An empty beatmap lists
// every entry.
func (j *Journal) List(ctx context.Context, beatmap string) ([]Entry, error) {
	query := `SELECT id, beatmap, object_index, start_time, offset_x, offset_y, points_before, points_after, created_at
		FROM reversals`
	var args []any
	if beatmap != "" {
		query += ` WHERE beatmap = ?`
		args = append(args, beatmap)
	}
	query += ` ORDER BY id DESC`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Beatmap, &e.ObjectIndex, &e.StartTime, &e.OffsetX, &e.OffsetY, &e.PointsBefore, &e.PointsAfter, &created); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.CreatedAt = time.Unix(0, created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	return entries, nil
}
