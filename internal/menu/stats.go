package menu

import (
	"context"
	"fmt"
)

// Stats summarizes the two substrates for the menu namespace. Derived on
// demand, never cached.
type Stats struct {
	TotalLinks int `json:"totalLinks"`
	TotalFiles int `json:"totalFiles"`
	RootItems  int `json:"rootItems"`
}

// Stats counts links, item documents, and root-level items.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("menu stats: %w", err)
	}
	files, err := s.blobs.Count(Namespace)
	if err != nil {
		return Stats{}, fmt.Errorf("menu stats: %w", err)
	}

	roots := 0
	for _, link := range all {
		if link.Target == RootParent {
			roots++
		}
	}
	return Stats{TotalLinks: len(all), TotalFiles: files, RootItems: roots}, nil
}
