package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/linkstore/internal/ident"
)

// NewAPIKey returns a fresh API key for callers that do not supply one.
func NewAPIKey() string {
	return uuid.NewString()
}

// CreateToken derives a fresh token id, saves the token document with its
// user back-reference, and creates the (tokenNumeric, userNumeric) link.
func (s *Service) CreateToken(ctx context.Context, userID string, data map[string]any) (map[string]any, error) {
	tokenID, err := s.ids.GenerateID(data, "token")
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	doc := withFields(data, map[string]any{
		"tokenId":   tokenID,
		"userId":    userID,
		"createdAt": s.timestamp(),
	})
	if err := s.blobs.Save(TokensNamespace, tokenID, doc); err != nil {
		return nil, fmt.Errorf("create token %s: %w", tokenID, err)
	}

	if _, err := s.store.Create(ctx, ident.IDToNumber(tokenID), ident.IDToNumber(userID)); err != nil {
		s.log.Error("failed to create token link", "tokenId", tokenID, "userId", userID, "error", err)
		return nil, fmt.Errorf("create token %s: %w", tokenID, err)
	}
	s.log.Info("token created", "tokenId", tokenID, "userId", userID)
	return doc, nil
}

// GetToken returns the token document, or nil when absent.
func (s *Service) GetToken(_ context.Context, tokenID string) (map[string]any, error) {
	return s.blobs.Load(TokensNamespace, tokenID)
}

// UserTokens returns every token document carrying the user's id. Documents
// are the source of truth here: a token whose user was cascade-deleted has
// no surviving document and never resurfaces through its leftover link.
func (s *Service) UserTokens(_ context.Context, userID string) ([]map[string]any, error) {
	entries, err := s.blobs.List(TokensNamespace)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	tokens := []map[string]any{}
	for _, entry := range entries {
		if entry.Doc["userId"] == userID {
			tokens = append(tokens, entry.Doc)
		}
	}
	return tokens, nil
}

// DeleteToken removes the first link whose source is the token's numeric
// id, then the token document.
func (s *Service) DeleteToken(ctx context.Context, tokenID string) error {
	tokenNumeric := ident.IDToNumber(tokenID)
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("delete token %s: %w", tokenID, err)
	}
	for _, link := range all {
		if link.Source == tokenNumeric {
			if err := s.store.Delete(ctx, link.ID); err != nil {
				s.log.Warn("failed to delete token link", "tokenId", tokenID, "linkId", link.ID, "error", err)
			}
			break
		}
	}

	if err := s.blobs.Delete(TokensNamespace, tokenID); err != nil {
		s.log.Warn("failed to delete token document", "tokenId", tokenID, "error", err)
	}
	s.log.Info("token deleted", "tokenId", tokenID)
	return nil
}

// FindTokenByAPIKey scans every token document for a matching apiKey. O(n).
func (s *Service) FindTokenByAPIKey(_ context.Context, apiKey string) (map[string]any, error) {
	entries, err := s.blobs.List(TokensNamespace)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	for _, entry := range entries {
		if entry.Doc["apiKey"] == apiKey {
			return entry.Doc, nil
		}
	}
	return nil, nil
}
