// Package blob stores JSON documents on the filesystem, one directory per
// namespace, one pretty-printed UTF-8 file per document named <id>.json.
//
// There is no locking: concurrent writers to the same id race and the last
// write wins. A missing document on read is absence, not an error; a missing
// document on delete is tolerated and logged.
package blob

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one listed document with its id.
type Entry struct {
	ID  string
	Doc map[string]any
}

// Store is a filesystem-backed document store rooted at a data directory.
type Store struct {
	root string
	log  *slog.Logger
}

// NewStore creates a store rooted at the given directory, creating it if
// needed. A nil logger falls back to slog.Default().
func NewStore(root string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", root, err)
	}
	return &Store{root: root, log: logger}, nil
}

// Root returns the store's data directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) dir(namespace string) string {
	return filepath.Join(s.root, namespace)
}

func (s *Store) path(namespace, id string) string {
	return filepath.Join(s.root, namespace, id+".json")
}

// Save writes the document, overwriting any previous content for the id.
func (s *Store) Save(namespace, id string, doc map[string]any) error {
	if err := os.MkdirAll(s.dir(namespace), 0o755); err != nil {
		return fmt.Errorf("create namespace %s: %w", namespace, err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", namespace, id, err)
	}
	if err := os.WriteFile(s.path(namespace, id), data, 0o644); err != nil {
		return fmt.Errorf("write %s/%s: %w", namespace, id, err)
	}
	return nil
}

// Load reads the document with the given id. Returns (nil, nil) when the
// document does not exist.
func (s *Store) Load(namespace, id string) (map[string]any, error) {
	data, err := os.ReadFile(s.path(namespace, id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", namespace, id, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", namespace, id, err)
	}
	return doc, nil
}

// Delete removes the document. Absence is tolerated.
func (s *Store) Delete(namespace, id string) error {
	err := os.Remove(s.path(namespace, id))
	if os.IsNotExist(err) {
		s.log.Debug("delete of absent document", "namespace", namespace, "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, id, err)
	}
	return nil
}

// List returns every document in the namespace, sorted by id. Documents
// that cannot be decoded are skipped with a warning. A namespace that does
// not exist yet lists as empty.
func (s *Store) List(namespace string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir(namespace))
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", namespace, err)
	}

	entries := []Entry{}
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		doc, err := s.Load(namespace, id)
		if err != nil {
			s.log.Warn("skipping unreadable document", "namespace", namespace, "id", id, "error", err)
			continue
		}
		if doc == nil {
			continue
		}
		entries = append(entries, Entry{ID: id, Doc: doc})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// Count returns the number of documents in the namespace without decoding
// them.
func (s *Store) Count(namespace string) (int, error) {
	dirEntries, err := os.ReadDir(s.dir(namespace))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", namespace, err)
	}
	n := 0
	for _, de := range dirEntries {
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".json") {
			n++
		}
	}
	return n, nil
}

// Clear removes every document in the namespace. Individual failures are
// logged and do not stop the sweep.
func (s *Store) Clear(namespace string) error {
	dirEntries, err := os.ReadDir(s.dir(namespace))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clear %s: %w", namespace, err)
	}
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir(namespace), de.Name())); err != nil {
			s.log.Warn("failed to remove document", "namespace", namespace, "file", de.Name(), "error", err)
		}
	}
	return nil
}
