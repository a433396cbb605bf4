package auth

import (
	"context"
	"fmt"

	"github.com/roach88/linkstore/internal/ident"
)

// ReconcileReport counts what a reconciliation pass removed.
type ReconcileReport struct {
	DanglingLinks int `json:"danglingLinks"`
	OrphanBlobs   int `json:"orphanBlobs"`
}

// Reconcile removes links with no backing document and documents with no
// backing link, across all three namespaces. Because links carry only the
// numeric fold of a document id, membership is established by folding every
// document id and comparing; a fold collision can make a genuinely dangling
// link look backed, which is accepted: the fold is lossy.
func (s *Service) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	userNums, err := s.numericIndex(UsersNamespace)
	if err != nil {
		return report, err
	}
	tokenNums, err := s.numericIndex(TokensNamespace)
	if err != nil {
		return report, err
	}
	passwordNums, err := s.numericIndex(PasswordsNamespace)
	if err != nil {
		return report, err
	}

	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return report, fmt.Errorf("reconcile auth: %w", err)
	}

	linkedSources := map[int64]bool{}
	for _, link := range all {
		backed := false
		if link.Target == UserTypeTag {
			backed = userNums[link.Source] != ""
		} else {
			backed = tokenNums[link.Source] != "" || passwordNums[link.Source] != ""
		}
		if backed {
			linkedSources[link.Source] = true
			continue
		}
		if err := s.store.Delete(ctx, link.ID); err != nil {
			s.log.Warn("failed to delete dangling link", "linkId", link.ID, "error", err)
			continue
		}
		s.log.Info("removed dangling link", "linkId", link.ID, "source", link.Source)
		report.DanglingLinks++
	}

	for _, namespace := range []string{UsersNamespace, TokensNamespace, PasswordsNamespace} {
		entries, err := s.blobs.List(namespace)
		if err != nil {
			return report, fmt.Errorf("reconcile auth: %w", err)
		}
		for _, entry := range entries {
			if linkedSources[ident.IDToNumber(entry.ID)] {
				continue
			}
			if err := s.blobs.Delete(namespace, entry.ID); err != nil {
				s.log.Warn("failed to delete orphan document", "namespace", namespace, "id", entry.ID, "error", err)
				continue
			}
			s.log.Info("removed orphan document", "namespace", namespace, "id", entry.ID)
			report.OrphanBlobs++
		}
	}

	return report, nil
}

// numericIndex maps the numeric fold of every document id in a namespace
// back to the id.
func (s *Service) numericIndex(namespace string) (map[int64]string, error) {
	entries, err := s.blobs.List(namespace)
	if err != nil {
		return nil, fmt.Errorf("reconcile auth: %w", err)
	}
	index := make(map[int64]string, len(entries))
	for _, entry := range entries {
		index[ident.IDToNumber(entry.ID)] = entry.ID
	}
	return index, nil
}
