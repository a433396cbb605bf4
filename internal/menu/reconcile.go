package menu

import (
	"context"
	"fmt"
	"strconv"
)

// ReconcileReport counts what a reconciliation pass removed.
type ReconcileReport struct {
	DanglingLinks int `json:"danglingLinks"`
	OrphanBlobs   int `json:"orphanBlobs"`
}

// Reconcile is the on-demand consistency pass between the link graph and
// the blob store: links whose item document is missing are deleted, and
// documents no link points at are deleted. There is no cross-store
// transaction, so a crash mid-pass leaves the same tolerable divergence the
// pass exists to remove; running it again finishes the job.
func (s *Service) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return report, fmt.Errorf("reconcile menus: %w", err)
	}

	surviving := map[int64]bool{}
	for _, link := range all {
		item, err := s.blobs.Load(Namespace, itemKey(link.Source))
		if err != nil {
			return report, fmt.Errorf("reconcile menus: %w", err)
		}
		if item != nil {
			surviving[link.Source] = true
			continue
		}
		if err := s.store.Delete(ctx, link.ID); err != nil {
			s.log.Warn("failed to delete dangling link", "linkId", link.ID, "error", err)
			continue
		}
		s.log.Info("removed dangling link", "linkId", link.ID, "itemId", link.Source)
		report.DanglingLinks++
	}

	entries, err := s.blobs.List(Namespace)
	if err != nil {
		return report, fmt.Errorf("reconcile menus: %w", err)
	}
	for _, entry := range entries {
		itemID, err := strconv.ParseInt(entry.ID, 10, 64)
		if err != nil || surviving[itemID] {
			continue
		}
		if err := s.blobs.Delete(Namespace, entry.ID); err != nil {
			s.log.Warn("failed to delete orphan document", "itemId", entry.ID, "error", err)
			continue
		}
		s.log.Info("removed orphan document", "itemId", entry.ID)
		report.OrphanBlobs++
	}

	return report, nil
}
