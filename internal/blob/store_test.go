package blob

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	doc := map[string]any{"label": "Home", "order": float64(1)}
	require.NoError(t, s.Save("menu-items", "123", doc))

	got, err := s.Load("menu-items", "123")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestSave_PrettyPrintedJSON(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("users", "u1", map[string]any{"username": "ada"}))

	data, err := os.ReadFile(filepath.Join(s.Root(), "users", "u1.json"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  \"username\""), "document should be indented")
}

func TestSave_Overwrites(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("users", "u1", map[string]any{"v": "old"}))
	require.NoError(t, s.Save("users", "u1", map[string]any{"v": "new"}))

	got, err := s.Load("users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", got["v"])
}

func TestLoad_AbsentIsNil(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Load("users", "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete_AbsentIsTolerated(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Delete("users", "missing"))
}

func TestDelete_RemovesDocument(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("tokens", "t1", map[string]any{"apiKey": "k"}))
	require.NoError(t, s.Delete("tokens", "t1"))

	got, err := s.Load("tokens", "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestList_SortedAndSkipsCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("users", "b", map[string]any{"n": "2"}))
	require.NoError(t, s.Save("users", "a", map[string]any{"n": "1"}))

	// A corrupt file must not poison the scan.
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "users", "bad.json"), []byte("{not json"), 0o644))
	// Non-JSON files are ignored entirely.
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "users", "README.txt"), []byte("hi"), 0o644))

	entries, err := s.List("users")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
}

func TestList_MissingNamespaceIsEmpty(t *testing.T) {
	s := newTestStore(t)
	entries, err := s.List("nothing-here")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestCount(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, 0, mustCount(t, s, "passwords"))

	require.NoError(t, s.Save("passwords", "p1", map[string]any{}))
	require.NoError(t, s.Save("passwords", "p2", map[string]any{}))
	assert.Equal(t, 2, mustCount(t, s, "passwords"))
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("menu-items", "1", map[string]any{}))
	require.NoError(t, s.Save("menu-items", "2", map[string]any{}))

	require.NoError(t, s.Clear("menu-items"))
	assert.Equal(t, 0, mustCount(t, s, "menu-items"))

	// Clearing an absent namespace is a no-op.
	assert.NoError(t, s.Clear("never-created"))
}

func mustCount(t *testing.T, s *Store, namespace string) int {
	t.Helper()
	n, err := s.Count(namespace)
	require.NoError(t, err)
	return n
}
