package menu

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkstore/internal/blob"
	"github.com/roach88/linkstore/internal/ident"
	"github.com/roach88/linkstore/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *testutil.MemoryStore, *blob.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	blobs, err := blob.NewStore(t.TempDir(), logger)
	require.NoError(t, err)
	store := testutil.NewMemoryStore()
	return New(store, blobs, logger), store, blobs
}

func sampleTree() []map[string]any {
	return []map[string]any{
		{
			"label": "Home",
			"icon":  "house",
			"to":    "/",
		},
		{
			"label": "Admin",
			"icon":  "gear",
			"items": []any{
				map[string]any{"label": "Users", "to": "/admin/users"},
				map[string]any{"label": "Settings", "to": "/admin/settings"},
			},
		},
	}
}

func TestStoreTree_PreOrderIDs(t *testing.T) {
	s, _, _ := newTestService(t)

	ids, err := s.StoreTree(context.Background(), sampleTree(), RootParent)
	require.NoError(t, err)
	require.Len(t, ids, 4, "two roots plus two children")

	// Parent before children, siblings in input order.
	homeID, err := ident.ItemID(map[string]any{"label": "Home", "icon": "house", "to": "/"})
	require.NoError(t, err)
	adminID, err := ident.ItemID(map[string]any{"label": "Admin", "icon": "gear"})
	require.NoError(t, err)
	usersID, err := ident.ItemID(map[string]any{"label": "Users", "to": "/admin/users"})
	require.NoError(t, err)

	assert.Equal(t, homeID, ids[0])
	assert.Equal(t, adminID, ids[1])
	assert.Equal(t, usersID, ids[2])
}

func TestStoreTree_MaterializeRoundTrip(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)

	roots, err := s.Materialize(ctx, RootParent)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	assert.Equal(t, "Home", roots[0].Item["label"])
	assert.Empty(t, roots[0].Children)

	assert.Equal(t, "Admin", roots[1].Item["label"])
	_, hasItems := roots[1].Item[childrenKey]
	assert.False(t, hasItems, "stored content must not carry the children field")
	require.Len(t, roots[1].Children, 2)
	assert.Equal(t, "Users", roots[1].Children[0].Item["label"])
	assert.Equal(t, "Settings", roots[1].Children[1].Item["label"])
}

func TestStoreTree_RestoreIsIdempotent(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)
	firstCount := store.Len()

	_, err = s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)
	assert.Equal(t, firstCount, store.Len(), "re-storing identical content must not create duplicate links")
}

func TestMaterialize_SkipsDanglingLinks(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)

	// A link with no document behind it must be skipped, not fail the read.
	_, err = store.Create(ctx, 424242, RootParent)
	require.NoError(t, err)

	roots, err := s.Materialize(ctx, RootParent)
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestAllItems_IncludesParentBookkeeping(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	ids, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)

	items, err := s.AllItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)

	byItemID := map[int64]FlatItem{}
	for _, item := range items {
		byItemID[item.ItemID] = item
	}
	adminID := ids[1]
	assert.Equal(t, RootParent, byItemID[adminID].ParentID)
	assert.Equal(t, adminID, byItemID[ids[2]].ParentID, "child's parent id is the admin item")
}

func TestDeleteSubtree_RemovesDescendants(t *testing.T) {
	s, store, blobs := newTestService(t)
	ctx := context.Background()

	ids, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)
	adminID := ids[1]

	require.NoError(t, s.DeleteSubtree(ctx, adminID))

	roots, err := s.Materialize(ctx, RootParent)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Home", roots[0].Item["label"])

	// Descendant links and documents are gone.
	assert.Equal(t, 1, store.Len(), "only the Home link remains")
	count, err := blobs.Count(Namespace)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteSubtree_BestEffortPastFailures(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	ids, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)
	adminID := ids[1]

	// Make one child link undeletable; siblings and the parent must still go.
	all, err := store.ReadAll(ctx)
	require.NoError(t, err)
	var stuckLink int64
	for _, link := range all {
		if link.Source == ids[2] {
			stuckLink = link.ID
		}
	}
	require.NotZero(t, stuckLink)
	store.FailDelete = map[int64]error{stuckLink: assert.AnError}

	require.NoError(t, s.DeleteSubtree(ctx, adminID))

	roots, err := s.Materialize(ctx, RootParent)
	require.NoError(t, err)
	require.Len(t, roots, 1, "admin subtree no longer materializes")
}

func TestClearAll(t *testing.T) {
	s, store, blobs := newTestService(t)
	ctx := context.Background()

	_, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(ctx))
	assert.Equal(t, 0, store.Len())
	count, err := blobs.Count(Namespace)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStats(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalLinks)
	assert.Equal(t, 4, stats.TotalFiles)
	assert.Equal(t, 2, stats.RootItems)
}

func TestNode_MarshalJSON(t *testing.T) {
	node := Node{
		Item:   map[string]any{"label": "Admin"},
		LinkID: 7,
		ItemID: 1234,
		Children: []Node{
			{Item: map[string]any{"label": "Users"}, LinkID: 8, ItemID: 5678},
		},
	}
	data, err := node.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"_linkId":7`)
	assert.Contains(t, string(data), `"_itemId":1234`)
	assert.Contains(t, string(data), `"items":[`)

	leaf := Node{Item: map[string]any{"label": "Home"}, LinkID: 1, ItemID: 2}
	data, err = leaf.MarshalJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"items"`, "children list only when non-empty")
}
