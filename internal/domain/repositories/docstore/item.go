package docstore

import (
	"context"
	"time"

	"docvault/internal/domain/models/docstore"
)

// ChildRef is the minimal projection of a child row used by subtree
// traversal: enough to collect the id and decide whether to expand further.
type ChildRef struct {
	ID       string
	ItemType docstore.ItemType
}

// ItemRepository defines data access operations for items.
type ItemRepository interface {
	// Create inserts a new item row.
	Create(ctx context.Context, item *docstore.Item) error

	// GetByID retrieves an item by id only (no user scoping; callers
	// authorize separately). Wraps domain.ErrNotFound when missing.
	GetByID(ctx context.Context, id string) (*docstore.Item, error)

	// UpdateStatus updates a file's status and optionally replaces its
	// extracted text. A nil pages slice leaves extracted text unchanged.
	// Returns the updated row.
	UpdateStatus(ctx context.Context, id string, status docstore.Status, pages []docstore.ExtractedPage, updatedAt time.Time) (*docstore.Item, error)

	// List returns one page of a user's items under a parent, ordered by
	// the composite (itemType, sortField, id) key with seek pagination.
	List(ctx context.Context, userID string, opts *docstore.ListOptions) (*docstore.ListResult, error)

	// ListChildRefs returns the direct children of all given parent ids in
	// a single query (one round-trip per traversal level).
	ListChildRefs(ctx context.Context, parentIDs []string) ([]ChildRef, error)

	// DeleteByIDs removes all rows in the id set, returning the number of
	// rows deleted. Missing ids are skipped, not errors.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}
