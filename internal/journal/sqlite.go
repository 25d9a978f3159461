package journal

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	test_id    TEXT NOT NULL,
	state      TEXT NOT NULL,
	start_time TEXT NOT NULL,
	stop_time  TEXT NOT NULL,
	message    TEXT NOT NULL DEFAULT '',
	run_id     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entries_test_id ON entries(test_id, seq);
`

const selectColumns = `SELECT test_id, state, start_time, stop_time, message, run_id FROM entries`

// database is a SQLite journal. It serves as both Reader and Writer.
type database struct {
	db *sql.DB
}

func openDatabase(path string) (*database, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open journal database '%s'", path)
	}

	// SQLite serializes writers anyway; a single connection avoids busy errors
	// between workers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to initialize journal database '%s'", path)
	}

	return &database{db: db}, nil
}

func (d *database) Append(e Entry) error {
	_, err := d.db.Exec(`
		INSERT INTO entries (test_id, state, start_time, stop_time, message, run_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		e.TestID,
		e.State,
		e.Start.UTC().Format(time.RFC3339Nano),
		e.Stop.UTC().Format(time.RFC3339Nano),
		e.Message,
		e.RunID,
	)
	return errors.Wrapf(err, "failed to insert journal entry for '%s'", e.TestID)
}

func (d *database) Last(testID string) (*Entry, error) {
	row := d.db.QueryRow(selectColumns+` WHERE test_id = ? ORDER BY seq DESC LIMIT 1`, testID)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read last journal entry for '%s'", testID)
	}

	return &e, nil
}

func (d *database) Entries(testID string) ([]Entry, error) {
	rows, err := d.db.Query(selectColumns+` WHERE test_id = ? ORDER BY seq`, testID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query journal entries for '%s'", testID)
	}
	return scanEntries(rows)
}

func (d *database) All() ([]Entry, error) {
	rows, err := d.db.Query(selectColumns + ` ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query journal entries")
	}
	return scanEntries(rows)
}

func (d *database) Close() error {
	return d.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var start, stop string
	if err := s.Scan(&e.TestID, &e.State, &start, &stop, &e.Message, &e.RunID); err != nil {
		return e, err
	}

	var err error
	if e.Start, err = time.Parse(time.RFC3339Nano, start); err != nil {
		return e, errors.Wrapf(err, "invalid start time for '%s'", e.TestID)
	}
	if e.Stop, err = time.Parse(time.RFC3339Nano, stop); err != nil {
		return e, errors.Wrapf(err, "invalid stop time for '%s'", e.TestID)
	}

	return e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, errors.Wrap(rows.Err(), "failed to iterate journal entries")
}
