package auth

import (
	"context"
	"fmt"
)

// KindStats pairs link and document counts for one entity kind.
type KindStats struct {
	Links int `json:"links"`
	Files int `json:"files"`
}

// FileStats counts documents for a kind whose links cannot be attributed.
type FileStats struct {
	Files int `json:"files"`
}

// Stats summarizes the auth substrates. The token link count is an
// estimate, not an exact figure: token and password links both target a
// user's numeric id, so any non-user link in the low numeric range counts
// as a token here and passwords report files only.
type Stats struct {
	TotalLinks int       `json:"totalLinks"`
	Users      KindStats `json:"users"`
	Tokens     KindStats `json:"tokens"`
	Passwords  FileStats `json:"passwords"`
}

// Stats derives counts on demand; nothing is cached.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("auth stats: %w", err)
	}

	var stats Stats
	stats.TotalLinks = len(all)
	for _, link := range all {
		switch {
		case link.Target == UserTypeTag:
			stats.Users.Links++
		case link.Target < 1_000_000_000:
			stats.Tokens.Links++
		}
	}

	for namespace, count := range map[string]*int{
		UsersNamespace:     &stats.Users.Files,
		TokensNamespace:    &stats.Tokens.Files,
		PasswordsNamespace: &stats.Passwords.Files,
	} {
		n, err := s.blobs.Count(namespace)
		if err != nil {
			return Stats{}, fmt.Errorf("auth stats: %w", err)
		}
		*count = n
	}
	return stats, nil
}
