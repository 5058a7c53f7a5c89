/*
Package store keeps a library of compressed pixel art in an SQLite database.

Each literal is stored once, keyed by the SHA-1 of the source it was
compressed from, and may be known under any number of names.
*/
package store

import (
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RuralAir/pixelart/rectrun"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by Get for unknown names.
var ErrNotFound = errors.New("store: not found")

// Checksum returns the key under which art compressed from source is stored.
func Checksum(source []byte) string {
	return fmt.Sprintf("%X", sha1.Sum(source))
}

// Store is a library of compressed pixel art.
type Store struct {
	db *sql.DB
}

// Open opens, creating if necessary, the database in file.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS art (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, literal TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS name (name TEXT PRIMARY KEY NOT NULL, art_id INTEGER NOT NULL, FOREIGN KEY(art_id) REFERENCES art(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db: db,
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) addArt(sha string, art *rectrun.Art) (int64, error) {
	var id int64
	switch err := s.db.QueryRow("SELECT id FROM art WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		b, err := art.MarshalText()
		if err != nil {
			return 0, err
		}
		result, err := s.db.Exec("INSERT INTO art (sha1, literal) VALUES (?, ?)", sha, string(b))
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Put stores art under name, replacing whatever name referred to before.
// sha is the Checksum of the source art was compressed from.
func (s *Store) Put(name, sha string, art *rectrun.Art) error {
	id, err := s.addArt(sha, art)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec("INSERT OR REPLACE INTO name (name, art_id) VALUES (?, ?)", name, id); err != nil {
		return err
	}

	return nil
}

func decode(literal string) (*rectrun.Art, error) {
	art := new(rectrun.Art)
	if err := art.UnmarshalText([]byte(literal)); err != nil {
		return nil, err
	}
	return art, nil
}

// Get returns the art stored under name.
func (s *Store) Get(name string) (*rectrun.Art, error) {
	var literal string
	switch err := s.db.QueryRow("SELECT a.literal FROM name AS n JOIN art AS a ON n.art_id = a.id WHERE n.name = ?", name).Scan(&literal); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	case nil:
		return decode(literal)
	default:
		return nil, err
	}
}

// FindBySHA1 returns the art compressed from the source with checksum sha,
// or nil if there is none.
func (s *Store) FindBySHA1(sha string) (*rectrun.Art, error) {
	var literal string
	switch err := s.db.QueryRow("SELECT literal FROM art WHERE sha1 = ?", sha).Scan(&literal); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return decode(literal)
	default:
		return nil, err
	}
}

// Names returns every name in the store, sorted.
func (s *Store) Names() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM name ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
