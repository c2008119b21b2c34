package docstore

import (
	"context"

	models "docvault/internal/domain/models/docstore"
)

// CreateDocumentRequest carries the fields for a new file item.
type CreateDocumentRequest struct {
	UserID        string                 `json:"-"`
	ParentID      *string                `json:"parent_id"`
	Name          string                 `json:"name"`
	MimeType      string                 `json:"type"`
	Size          int64                  `json:"size"`
	Status        *models.Status         `json:"status"` // nil = UPLOADED
	ExtractedText []models.ExtractedPage `json:"extracted_text,omitempty"`
}

// CreateFolderRequest carries the fields for a new folder item.
// Folders get no status, zero size and the "folder" type tag.
type CreateFolderRequest struct {
	UserID   string  `json:"-"`
	ParentID *string `json:"parent_id"`
	Name     string  `json:"name"`
}

// UpdateDocumentRequest patches a file's extraction state.
type UpdateDocumentRequest struct {
	Status        models.Status          `json:"status"`
	ExtractedText []models.ExtractedPage `json:"extracted_text,omitempty"`
	// Error is a pipeline failure message forwarded to the update
	// notification; it is not persisted on the item.
	Error string `json:"error,omitempty"`
}

// ItemService is the operation surface consumed by the action layer.
type ItemService interface {
	// ListItems returns one page of the user's items under a parent.
	ListItems(ctx context.Context, userID string, opts *models.ListOptions) (*models.ListResult, error)

	// GetItem retrieves a single item scoped to the user. A missing item
	// (or another user's item) is a nil result, not an error; callers that
	// require existence build their own not-found failure on top.
	GetItem(ctx context.Context, userID, id string) (*models.Item, error)

	// CreateDocument inserts a file item.
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Item, error)

	// CreateFolder inserts a folder item.
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Item, error)

	// UpdateDocument updates a file's status/extracted text and emits a
	// fire-and-forget update notification.
	UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) (*models.Item, error)

	// DeleteItem removes an item; for a folder, the whole subtree.
	// Deleting a missing id is a successful no-op.
	DeleteItem(ctx context.Context, id string) error
}
