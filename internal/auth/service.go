package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/linkstore/internal/blob"
	"github.com/roach88/linkstore/internal/ident"
	"github.com/roach88/linkstore/internal/links"
)

const (
	// UsersNamespace holds user profile documents.
	UsersNamespace = "users"
	// TokensNamespace holds token documents.
	TokensNamespace = "tokens"
	// PasswordsNamespace holds hashed password documents.
	PasswordsNamespace = "passwords"

	// UserTypeTag is the reserved link target marking a user entity.
	UserTypeTag int64 = 2000
)

// ErrNotFound marks a logical miss where the caller required existence.
var ErrNotFound = errors.New("not found")

// Service stores authentication entities.
type Service struct {
	store links.Store
	blobs *blob.Store
	ids   ident.Deriver
	now   func() time.Time
	log   *slog.Logger
}

// New creates an auth service. A nil logger falls back to slog.Default().
func New(store links.Store, blobs *blob.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, blobs: blobs, now: time.Now, log: logger}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// CreateUser derives a fresh user id from the profile, saves the profile
// document, and creates the typed (userNumeric, UserTypeTag) link. Returns
// the stored document including the injected userId and createdAt.
func (s *Service) CreateUser(ctx context.Context, profile map[string]any) (map[string]any, error) {
	userID, err := s.ids.GenerateID(profile, "user")
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	doc := withFields(profile, map[string]any{
		"userId":    userID,
		"createdAt": s.timestamp(),
	})
	if err := s.blobs.Save(UsersNamespace, userID, doc); err != nil {
		return nil, fmt.Errorf("create user %s: %w", userID, err)
	}

	if _, err := s.store.Create(ctx, ident.IDToNumber(userID), UserTypeTag); err != nil {
		s.log.Error("failed to create user link", "userId", userID, "error", err)
		return nil, fmt.Errorf("create user %s: %w", userID, err)
	}
	s.log.Info("user created", "userId", userID)
	return doc, nil
}

// GetUser returns the user document, or nil when absent.
func (s *Service) GetUser(_ context.Context, userID string) (map[string]any, error) {
	return s.blobs.Load(UsersNamespace, userID)
}

// AllUsers returns every user document.
func (s *Service) AllUsers(_ context.Context) ([]map[string]any, error) {
	entries, err := s.blobs.List(UsersNamespace)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		users = append(users, entry.Doc)
	}
	return users, nil
}

// UpdateUser merges updates into an existing user document, preserving the
// userId and stamping updatedAt. Updating a missing user is an error.
func (s *Service) UpdateUser(ctx context.Context, userID string, updates map[string]any) (map[string]any, error) {
	existing, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", userID, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("update user %s: %w", userID, ErrNotFound)
	}

	doc := withFields(existing, updates)
	doc["userId"] = userID
	doc["updatedAt"] = s.timestamp()

	if err := s.blobs.Save(UsersNamespace, userID, doc); err != nil {
		return nil, fmt.Errorf("update user %s: %w", userID, err)
	}
	s.log.Info("user updated", "userId", userID)
	return doc, nil
}

// DeleteUser cascades: the user's tokens, then passwords, then the user's
// own typed link (first match from a full scan), then the user document.
// Dependents go before the owning document so an interruption never leaves
// a live user with missing dependents. File-level failures are logged and
// the cascade continues.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	tokens, err := s.UserTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	for _, token := range tokens {
		if id, ok := token["tokenId"].(string); ok {
			if err := s.DeleteToken(ctx, id); err != nil {
				s.log.Warn("failed to delete token during cascade", "tokenId", id, "error", err)
			}
		}
	}

	passwords, err := s.UserPasswords(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	for _, pwd := range passwords {
		if id, ok := pwd["passwordId"].(string); ok {
			if err := s.DeletePassword(ctx, id); err != nil {
				s.log.Warn("failed to delete password during cascade", "passwordId", id, "error", err)
			}
		}
	}

	userNumeric := ident.IDToNumber(userID)
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	for _, link := range all {
		if link.Source == userNumeric && link.Target == UserTypeTag {
			if err := s.store.Delete(ctx, link.ID); err != nil {
				s.log.Warn("failed to delete user link", "userId", userID, "linkId", link.ID, "error", err)
			}
			break
		}
	}

	if err := s.blobs.Delete(UsersNamespace, userID); err != nil {
		s.log.Warn("failed to delete user document", "userId", userID, "error", err)
	}
	s.log.Info("user deleted", "userId", userID)
	return nil
}

// FindUserByUsername scans every user document for a matching username.
// O(n); no index is maintained.
func (s *Service) FindUserByUsername(ctx context.Context, username string) (map[string]any, error) {
	return s.findUser(ctx, "username", username)
}

// FindUserByEmail scans every user document for a matching email.
func (s *Service) FindUserByEmail(ctx context.Context, email string) (map[string]any, error) {
	return s.findUser(ctx, "email", email)
}

func (s *Service) findUser(ctx context.Context, field, value string) (map[string]any, error) {
	users, err := s.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if user[field] == value {
			return user, nil
		}
	}
	return nil, nil
}

// ClearAll removes every link and every document in all three namespaces.
func (s *Service) ClearAll(ctx context.Context) error {
	s.log.Warn("clearing all authentication data")
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear auth data: %w", err)
	}
	for _, namespace := range []string{UsersNamespace, TokensNamespace, PasswordsNamespace} {
		if err := s.blobs.Clear(namespace); err != nil {
			s.log.Warn("failed to clear namespace", "namespace", namespace, "error", err)
		}
	}
	return nil
}

// withFields returns a copy of base with overlay merged on top.
func withFields(base, overlay map[string]any) map[string]any {
	doc := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		doc[k] = v
	}
	for k, v := range overlay {
		doc[k] = v
	}
	return doc
}
