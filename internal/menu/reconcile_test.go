package menu

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_CleanStoreIsNoOp(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)

	report, err := s.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.DanglingLinks)
	assert.Zero(t, report.OrphanBlobs)
}

func TestReconcile_RemovesDanglingLink(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)

	// Manufacture a link whose document never existed.
	_, err = store.Create(ctx, 999999, RootParent)
	require.NoError(t, err)
	before := store.Len()

	report, err := s.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.DanglingLinks)
	assert.Equal(t, before-1, store.Len())
}

func TestReconcile_RemovesOrphanBlob(t *testing.T) {
	s, _, blobs := newTestService(t)
	ctx := context.Background()

	_, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)

	// Manufacture a document no link points at.
	require.NoError(t, blobs.Save(Namespace, strconv.Itoa(555555), map[string]any{"label": "ghost"}))

	report, err := s.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrphanBlobs)

	ghost, err := blobs.Load(Namespace, strconv.Itoa(555555))
	require.NoError(t, err)
	assert.Nil(t, ghost)
}

func TestReconcile_Idempotent(t *testing.T) {
	s, store, blobs := newTestService(t)
	ctx := context.Background()

	_, err := s.StoreTree(ctx, sampleTree(), RootParent)
	require.NoError(t, err)
	_, err = store.Create(ctx, 999999, RootParent)
	require.NoError(t, err)
	require.NoError(t, blobs.Save(Namespace, "555555", map[string]any{"label": "ghost"}))

	_, err = s.Reconcile(ctx)
	require.NoError(t, err)

	again, err := s.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.DanglingLinks)
	assert.Zero(t, again.OrphanBlobs)
}
