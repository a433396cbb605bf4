// Package testutil provides shared test doubles for the service packages.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/roach88/linkstore/internal/links"
)

// MemoryStore is an in-memory links.Store. Ids are assigned sequentially
// from 1 and enumeration follows id order, which makes service tests
// deterministic without a backend binary.
//
// FailDelete, when set, makes Delete of that id fail; cascades are expected
// to log and continue past it.
type MemoryStore struct {
	mu         sync.Mutex
	nextID     int64
	links      map[int64]links.Link
	FailDelete map[int64]error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[int64]links.Link)}
}

// Create inserts a link with the next sequential id.
func (m *MemoryStore) Create(_ context.Context, source, target int64) (links.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	link := links.Link{ID: m.nextID, Source: source, Target: target}
	m.links[link.ID] = link
	return link, nil
}

// ReadAll returns every link in id order.
func (m *MemoryStore) ReadAll(_ context.Context) ([]links.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]links.Link, 0, len(m.links))
	for _, link := range m.links {
		all = append(all, link)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// ReadOne returns the link with the given id, or nil.
func (m *MemoryStore) ReadOne(_ context.Context, id int64) (*links.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[id]
	if !ok {
		return nil, nil
	}
	return &link, nil
}

// Update replaces source and target for the given id.
func (m *MemoryStore) Update(_ context.Context, id, source, target int64) (links.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link := links.Link{ID: id, Source: source, Target: target}
	if _, ok := m.links[id]; ok {
		m.links[id] = link
	}
	return link, nil
}

// Delete removes the link. Deleting an absent id succeeds.
func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailDelete[id]; ok {
		return err
	}
	delete(m.links, id)
	return nil
}

// Clear removes every link.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = make(map[int64]links.Link)
	return nil
}

// Len reports the current number of links.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.links)
}

var _ links.Store = (*MemoryStore)(nil)
