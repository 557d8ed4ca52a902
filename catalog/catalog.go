/*
Package catalog keeps a SQLite record of exported screens.

Screen contents are stored once, keyed by their SHA-1, and every export
records which stored screen each of its screen files holds. This makes it
cheap to find screens that are repeated across a map, which a target
platform can then store only once.
*/
package catalog

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"fmt"
	"time"

	"github.com/bodgit/tilescreen/screen"
	_ "github.com/mattn/go-sqlite3"
)

// DB is a screen catalog.
type DB struct {
	db *sql.DB
}

// Entry is one screen file of an export.
type Entry struct {
	Base     string
	Index    int
	SHA1     string
	Exported time.Time
}

// Duplicate is a stored screen used by more than one screen file of the
// export Base.
type Duplicate struct {
	Base    string
	SHA1    string
	Indices []int
}

// Open opens or creates the catalog in file.
func Open(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS screen (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS export (base TEXT NOT NULL, idx INTEGER NOT NULL, screen_id INTEGER NOT NULL, exported INTEGER NOT NULL, PRIMARY KEY(base, idx), FOREIGN KEY(screen_id) REFERENCES screen(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the catalog.
func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) addScreen(width, height int, data []byte) (int64, string, error) {
	sha := fmt.Sprintf("%X", sha1.Sum(data))

	if _, err := db.db.Exec("INSERT OR IGNORE INTO screen (sha1, width, height, data) VALUES (?, ?, ?, ?)", sha, width, height, data); err != nil {
		return 0, "", err
	}

	var id int64
	if err := db.db.QueryRow("SELECT id FROM screen WHERE sha1 = ?", sha).Scan(&id); err != nil {
		return 0, "", err
	}

	return id, sha, nil
}

// Reset forgets every screen file previously recorded for base.
func (db *DB) Reset(base string) error {
	_, err := db.db.Exec("DELETE FROM export WHERE base = ?", base)
	return err
}

// Record stores data as screen index of the export base.
func (db *DB) Record(base string, index, width, height int, data []byte) (string, error) {
	id, sha, err := db.addScreen(width, height, data)
	if err != nil {
		return "", err
	}
	if _, err := db.db.Exec("INSERT OR REPLACE INTO export (base, idx, screen_id, exported) VALUES (?, ?, ?, ?)", base, index, id, time.Now().Unix()); err != nil {
		return "", err
	}
	return sha, nil
}

// Lookup returns the stored screen index of base, or nil when it has not
// been recorded.
func (db *DB) Lookup(base string, index int) (*screen.Screen, error) {
	var (
		width, height int
		data          []byte
	)
	switch err := db.db.QueryRow("SELECT s.width, s.height, s.data FROM export AS e JOIN screen AS s ON e.screen_id = s.id WHERE e.base = ? AND e.idx = ?", base, index).Scan(&width, &height, &data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
	default:
		return nil, err
	}

	s, err := screen.Decode(bytes.NewReader(data), width, height)
	if err != nil {
		return nil, fmt.Errorf("screen %d of %s: %w", index, base, err)
	}
	s.Index = index

	return s, nil
}

// Entries lists every recorded screen file of base in index order. An
// empty base lists every export.
func (db *DB) Entries(base string) ([]Entry, error) {
	rows, err := db.db.Query("SELECT e.base, e.idx, s.sha1, e.exported FROM export AS e JOIN screen AS s ON e.screen_id = s.id WHERE ? = '' OR e.base = ? ORDER BY e.base, e.idx", base, base)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var exported int64
		if err := rows.Scan(&e.Base, &e.Index, &e.SHA1, &exported); err != nil {
			return nil, err
		}
		e.Exported = time.Unix(exported, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Duplicates returns the stored screens used more than once within an
// export. An empty base checks every export separately.
func (db *DB) Duplicates(base string) ([]Duplicate, error) {
	entries, err := db.Entries(base)
	if err != nil {
		return nil, err
	}

	type key struct {
		base, sha string
	}

	var order []key
	seen := make(map[key][]int)
	for _, e := range entries {
		k := key{e.Base, e.SHA1}
		if _, ok := seen[k]; !ok {
			order = append(order, k)
		}
		seen[k] = append(seen[k], e.Index)
	}

	var dups []Duplicate
	for _, k := range order {
		if len(seen[k]) > 1 {
			dups = append(dups, Duplicate{Base: k.base, SHA1: k.sha, Indices: seen[k]})
		}
	}
	return dups, nil
}
