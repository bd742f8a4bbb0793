// Package state records which modules have been compiled, and from
// which version of their source, so that later runs can skip sources
// that have not changed since.
package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Record struct {
	Name          string    `json:"name"`
	Origin        string    `json:"origin"`
	FileName      string    `json:"file_name"`
	SourceModTime time.Time `json:"source_mtime"`
	// Zero when the source's platform reports no change time.
	SourceChangeTime time.Time `json:"source_ctime,omitzero"`
	StoredAt         time.Time `json:"stored_at"`
}

type Store struct {
	conn *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS modules (
    name         TEXT PRIMARY KEY,
    origin       TEXT NOT NULL,
    file_name    TEXT NOT NULL,
    source_mtime INTEGER NOT NULL,
    source_ctime INTEGER NOT NULL DEFAULT 0,
    stored_at    INTEGER NOT NULL
);
`

func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening state db %s: %w", path, err)
	}

	// Writers must be serialized.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("error initializing state db %s: %w", path, err)
	}

	if err := migrate(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("error migrating state db %s: %w", path, err)
	}

	return &Store{conn: conn, path: path}, nil
}

// Databases created before source_ctime existed gain the column with
// every change time unknown.
func migrate(conn *sql.DB) error {
	var count int
	err := conn.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('modules') WHERE name = 'source_ctime'`).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = conn.Exec(`ALTER TABLE modules ADD COLUMN source_ctime INTEGER NOT NULL DEFAULT 0`)
	return err
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// Get returns the record for name. The boolean is false if the module
// has never been stored.
func (s *Store) Get(name string) (Record, bool, error) {
	const query = `SELECT name, origin, file_name, source_mtime, source_ctime, stored_at FROM modules WHERE name = ?`

	row := s.conn.QueryRow(query, name)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("error reading state for %s: %w", name, err)
	}

	return record, true, nil
}

func (s *Store) Put(r Record) error {
	const query = `
INSERT INTO modules (name, origin, file_name, source_mtime, source_ctime, stored_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    origin = excluded.origin,
    file_name = excluded.file_name,
    source_mtime = excluded.source_mtime,
    source_ctime = excluded.source_ctime,
    stored_at = excluded.stored_at;
`

	if r.Name == "" {
		return fmt.Errorf("cannot record state for a module without a name")
	}

	_, err := s.conn.Exec(query, r.Name, r.Origin, r.FileName,
		r.SourceModTime.UnixNano(), unixNano(r.SourceChangeTime), r.StoredAt.UnixNano())
	if err != nil {
		return fmt.Errorf("error recording state for %s: %w", r.Name, err)
	}

	return nil
}

func (s *Store) Delete(name string) error {
	if _, err := s.conn.Exec(`DELETE FROM modules WHERE name = ?`, name); err != nil {
		return fmt.Errorf("error deleting state for %s: %w", name, err)
	}
	return nil
}

// List returns all records ordered by name.
func (s *Store) List() ([]Record, error) {
	const query = `SELECT name, origin, file_name, source_mtime, source_ctime, stored_at FROM modules ORDER BY name`

	rows, err := s.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Record

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return results, fmt.Errorf("error scanning rows: %w", err)
		}
		results = append(results, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning rows: %w", err)
	}

	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var r Record
	var sourceModTime int64
	var sourceChangeTime int64
	var storedAt int64

	if err := row.Scan(&r.Name, &r.Origin, &r.FileName, &sourceModTime, &sourceChangeTime, &storedAt); err != nil {
		return Record{}, err
	}

	r.SourceModTime = time.Unix(0, sourceModTime)
	if sourceChangeTime != 0 {
		r.SourceChangeTime = time.Unix(0, sourceChangeTime)
	}
	r.StoredAt = time.Unix(0, storedAt)

	return r, nil
}

// The zero time is stored as 0 so that it reads back as unknown.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
