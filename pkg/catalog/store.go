// Package catalog implements the durable event store. The catalog is a
// single JSON document holding the full event collection; every read
// re-parses the file so external edits are visible without restart, and
// every write atomically replaces the whole document.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/confradar/confradar/pkg/errors"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
	"github.com/confradar/confradar/pkg/reconcile"
)

// File permissions for the catalog file and its parent directory.
const (
	filePermissions = 0o644
	dirPermissions  = 0o755
)

// Store is a JSON-file-backed event collection. Merge is the sole write
// path. The store assumes a single writer: concurrent merges from separate
// processes are a lost-update risk accepted for this single-operator tool.
type Store struct {
	path string
}

// New creates a store backed by the JSON document at path. The file is
// created on first merge if it does not exist.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the full event collection. A missing backing file is an empty
// collection, not an error. A malformed file is a ParseError: the run has
// no data to operate on.
func (s *Store) Load() ([]events.Event, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", s.path, err)
	}

	var evts []events.Event
	if err := json.Unmarshal(data, &evts); err != nil {
		return nil, errors.WrapParse("json", s.path, err)
	}
	return evts, nil
}

// Merge combines new events with the persisted collection, re-applies
// deduplication across old and new data, and atomically replaces the
// backing file. Merging the same set twice does not grow the collection.
// On any failure the prior file content remains intact.
func (s *Store) Merge(newEvents []events.Event) error {
	existing, err := s.Load()
	if err != nil {
		return err
	}

	combined := make([]events.Event, 0, len(existing)+len(newEvents))
	combined = append(combined, existing...)
	combined = append(combined, newEvents...)

	merged := reconcile.Deduplicate(combined)
	reconcile.SortByStart(merged)

	if err := s.write(merged); err != nil {
		return err
	}

	logging.Debug().
		Int("existing", len(existing)).
		Int("incoming", len(newEvents)).
		Int("merged", len(merged)).
		Str("path", s.path).
		Msg("Catalog merged")

	return nil
}

// write serializes the collection to a temp file in the catalog's directory
// and renames it over the backing file, so readers never observe a partial
// document.
func (s *Store) write(evts []events.Event) error {
	if evts == nil {
		evts = []events.Event{}
	}

	data, err := json.MarshalIndent(evts, "", "  ")
	if err != nil {
		return errors.WrapParse("json", s.path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapIO("close", tmpName, err)
	}
	if err := os.Chmod(tmpName, filePermissions); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapIO("chmod", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapIO("rename", s.path, err)
	}
	return nil
}
