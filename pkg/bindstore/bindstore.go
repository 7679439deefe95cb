// Package bindstore persists user-chosen chord->binding overrides in an
// embedded key-value database, so an embedder can save a rebinding once
// and have it reapplied on every future session. It is an opt-in layer:
// pkg/bind does not use it, and pkg/lineedit opens a store only when
// Desc.BindStorePath is set, adding each saved binding whose chord is not
// already bound. No file is touched unless a path is given.
package bindstore

import (
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketBindings = []byte("bindings")

// Record is a single saved chord override: backend names the registered
// Backend it targets (stable across restarts, unlike an in-process
// table index), Chord is the chord text in pkg/chord's notation, and ID
// is the id that backend's OnInput should receive for Chord.
type Record struct {
	Backend string
	Chord   string
	ID      byte
}

// Store is a bind-store database. The zero value is not usable; use
// Open.
type Store struct {
	db *bolt.DB
}

// Open opens, creating if necessary, the bind-store database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBindings)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns every saved Record in bbolt's ForEach order, which is the
// bucket's byte-key sort order (by backend name, then chord).
func (s *Store) Load() ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBindings)
		return b.ForEach(func(k, v []byte) error {
			backend, chord := splitKey(k)
			if len(v) != 1 {
				// A record written by a future, incompatible version of
				// this package; skip it rather than fail the whole load.
				return nil
			}
			records = append(records, Record{Backend: backend, Chord: chord, ID: v[0]})
			return nil
		})
	})
	return records, err
}

// Save persists backend/chord -> id, replacing any existing override
// for the same backend and chord.
func (s *Store) Save(backend, chord string, id byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBindings)
		return b.Put(joinKey(backend, chord), []byte{id})
	})
}

// Delete removes a saved override for backend/chord, if one exists.
func (s *Store) Delete(backend, chord string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBindings)
		return b.Delete(joinKey(backend, chord))
	})
}

// joinKey and splitKey encode the (backend, chord) pair as a single
// bbolt key, NUL-separated since chord text is ASCII-only (pkg/chord
// rejects non-ASCII) and backend names are expected to be plain
// identifiers, so neither side can contain a NUL byte in practice.
func joinKey(backend, chord string) []byte {
	return []byte(backend + "\x00" + chord)
}

func splitKey(k []byte) (backend, chord string) {
	s := string(k)
	i := strings.IndexByte(s, 0)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}
