package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors returned by the store. Callers translate them into the
// application error taxonomy.
var (
	// ErrNotFound is returned when no record exists at (collection, id).
	ErrNotFound = errors.New("store: record not found")
	// ErrExists is returned by Create when a record already occupies the key.
	ErrExists = errors.New("store: record already exists")
)

const tmpPrefix = ".tmp-"

// Store persists JSON documents as one file per record, grouped into named
// collection directories under a single base directory. Every write lands in
// a temp file first and reaches its final path through an atomic link or
// rename, so a crash never leaves a truncated record behind.
//
// Individual operations are atomic on their own. Read-modify-write sequences
// spanning several calls are the caller's responsibility to serialize via
// Lock.
type Store struct {
	baseDir string
	locks   *keyLock
}

// New creates the base directory and one subdirectory per collection.
func New(baseDir string, collections ...string) (*Store, error) {
	for _, c := range collections {
		if err := os.MkdirAll(filepath.Join(baseDir, c), 0o755); err != nil {
			return nil, fmt.Errorf("create collection dir %q: %w", c, err)
		}
	}
	return &Store{baseDir: baseDir, locks: newKeyLock()}, nil
}

// Lock acquires the per-key mutex for (collection, id) and returns the
// unlock function. Two goroutines doing read-modify-write against the same
// key race without it; the later write wins and silently drops the earlier
// one.
func (s *Store) Lock(collection, id string) (unlock func()) {
	return s.locks.lock(collection + "/" + id)
}

// Create persists doc at (collection, id). It fails with ErrExists if a
// record is already stored under that key; it never silently overwrites.
func (s *Store) Create(collection, id string, doc any) error {
	tmpName, err := s.writeTemp(collection, doc)
	if err != nil {
		return err
	}
	defer os.Remove(tmpName)

	// Linking the temp file into place is atomic and fails if the key is
	// already taken, which gives conflict detection without a check-then-act
	// window.
	if err := os.Link(tmpName, s.path(collection, id)); err != nil {
		if os.IsExist(err) {
			return ErrExists
		}
		return fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	return nil
}

// Read loads the record at (collection, id) into out.
func (s *Store) Read(collection, id string, out any) error {
	data, err := os.ReadFile(s.path(collection, id))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update replaces the whole document at (collection, id). Fields absent from
// doc are lost; callers must read-modify-write the complete record.
func (s *Store) Update(collection, id string, doc any) error {
	path := s.path(collection, id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("stat %s/%s: %w", collection, id, err)
	}

	tmpName, err := s.writeTemp(collection, doc)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes the record at (collection, id). Deleting a missing id is an
// error, not a no-op.
func (s *Store) Delete(collection, id string) error {
	if err := os.Remove(s.path(collection, id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// List returns the ids present in a collection, excluding dotfiles and
// leftover temp files.
func (s *Store) List(collection string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, collection))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *Store) path(collection, id string) string {
	return filepath.Join(s.baseDir, collection, id+".json")
}

// writeTemp marshals doc into a temp file inside the collection directory
// and returns its name. The temp file is fully written and synced before it
// is linked or renamed into place.
func (s *Store) writeTemp(collection string, doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Join(s.baseDir, collection), tmpPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmpName, nil
}
