package links

import "context"

// Link is one record in the associative backend.
//
// ID is backend-assigned at creation and immutable; Source and Target are
// mutable via Update. The backend guarantees ID uniqueness, nothing else.
type Link struct {
	ID     int64 `json:"id"`
	Source int64 `json:"source"`
	Target int64 `json:"target"`
}

// Store is the triple-store contract. Two implementations exist: the
// clink-backed client (one external invocation per call, no transactions)
// and litestore (SQLite, for deployments without the clink binary).
//
// Semantics all implementations must honor:
//   - Create returns the backend-assigned link.
//   - ReadOne returns nil for an absent id; absence is not an error.
//   - Delete of an absent id succeeds (idempotent).
//   - Clear removes every link; it need not be atomic.
type Store interface {
	Create(ctx context.Context, source, target int64) (Link, error)
	ReadAll(ctx context.Context) ([]Link, error)
	ReadOne(ctx context.Context, id int64) (*Link, error)
	Update(ctx context.Context, id, source, target int64) (Link, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}
