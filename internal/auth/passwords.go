package auth

import (
	"context"
	"fmt"

	"github.com/roach88/linkstore/internal/ident"
)

// SetPassword enforces at most one active password per user: every prior
// password pair for the user is deleted first, then the new pair is
// created. The two phases are sequential, not atomic; an interruption
// between them leaves the user with zero passwords, which a retry repairs.
func (s *Service) SetPassword(ctx context.Context, userID string, data map[string]any) (map[string]any, error) {
	existing, err := s.UserPasswords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("set password for %s: %w", userID, err)
	}
	for _, pwd := range existing {
		if id, ok := pwd["passwordId"].(string); ok {
			if err := s.DeletePassword(ctx, id); err != nil {
				s.log.Warn("failed to delete prior password", "passwordId", id, "error", err)
			}
		}
	}

	passwordID, err := s.ids.GenerateID(data, "pwd")
	if err != nil {
		return nil, fmt.Errorf("set password for %s: %w", userID, err)
	}

	doc := withFields(data, map[string]any{
		"passwordId": passwordID,
		"userId":     userID,
		"createdAt":  s.timestamp(),
	})
	if err := s.blobs.Save(PasswordsNamespace, passwordID, doc); err != nil {
		return nil, fmt.Errorf("set password for %s: %w", userID, err)
	}

	if _, err := s.store.Create(ctx, ident.IDToNumber(passwordID), ident.IDToNumber(userID)); err != nil {
		s.log.Error("failed to create password link", "passwordId", passwordID, "userId", userID, "error", err)
		return nil, fmt.Errorf("set password for %s: %w", userID, err)
	}
	s.log.Info("password set", "passwordId", passwordID, "userId", userID)
	return doc, nil
}

// UserPassword returns the user's active password document, or nil. By
// service-level convention there is at most one.
func (s *Service) UserPassword(ctx context.Context, userID string) (map[string]any, error) {
	passwords, err := s.UserPasswords(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(passwords) == 0 {
		return nil, nil
	}
	return passwords[0], nil
}

// UserPasswords returns every password document carrying the user's id.
// Normally at most one; more indicates an interrupted SetPassword.
func (s *Service) UserPasswords(_ context.Context, userID string) ([]map[string]any, error) {
	entries, err := s.blobs.List(PasswordsNamespace)
	if err != nil {
		return nil, fmt.Errorf("list passwords: %w", err)
	}
	passwords := []map[string]any{}
	for _, entry := range entries {
		if entry.Doc["userId"] == userID {
			passwords = append(passwords, entry.Doc)
		}
	}
	return passwords, nil
}

// DeletePassword removes the first link whose source is the password's
// numeric id, then the password document.
func (s *Service) DeletePassword(ctx context.Context, passwordID string) error {
	passwordNumeric := ident.IDToNumber(passwordID)
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("delete password %s: %w", passwordID, err)
	}
	for _, link := range all {
		if link.Source == passwordNumeric {
			if err := s.store.Delete(ctx, link.ID); err != nil {
				s.log.Warn("failed to delete password link", "passwordId", passwordID, "linkId", link.ID, "error", err)
			}
			break
		}
	}

	if err := s.blobs.Delete(PasswordsNamespace, passwordID); err != nil {
		s.log.Warn("failed to delete password document", "passwordId", passwordID, "error", err)
	}
	return nil
}
