package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"docvault/internal/config"
	"docvault/internal/domain"
	models "docvault/internal/domain/models/docstore"
	"docvault/internal/domain/repositories"
	docstoreRepo "docvault/internal/domain/repositories/docstore"
	docstoreSvc "docvault/internal/domain/services/docstore"
	"docvault/internal/notify"
)

var itemNamePattern = regexp.MustCompile(`^[^/]+$`)

type itemService struct {
	itemRepo  docstoreRepo.ItemRepository
	txManager repositories.TransactionManager
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewItemService creates a new item service
func NewItemService(
	itemRepo docstoreRepo.ItemRepository,
	txManager repositories.TransactionManager,
	notifier notify.Notifier,
	logger *slog.Logger,
) docstoreSvc.ItemService {
	return &itemService{
		itemRepo:  itemRepo,
		txManager: txManager,
		notifier:  notifier,
		logger:    logger,
	}
}

// ListItems returns one page of the user's items under a parent.
// Defaults are applied here; a structurally broken cursor is rejected with
// a validation error rather than silently serving the first page.
func (s *itemService) ListItems(ctx context.Context, userID string, opts *models.ListOptions) (*models.ListResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if opts == nil {
		opts = &models.ListOptions{}
	}

	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	return s.itemRepo.List(ctx, userID, opts)
}

// GetItem retrieves a single item scoped to the user. Missing items and
// other users' items both come back as a nil result, never an error.
func (s *itemService) GetItem(ctx context.Context, userID, id string) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, nil
	}
	return item, nil
}

// CreateDocument inserts a file item
func (s *itemService) CreateDocument(ctx context.Context, req *docstoreSvc.CreateDocumentRequest) (*models.Item, error) {
	if err := s.validateCreateDocument(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	status := models.StatusUploaded
	if req.Status != nil {
		status = *req.Status
	}

	name := strings.TrimSpace(req.Name)
	path, err := s.resolvePath(ctx, req.UserID, req.ParentID, name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := &models.Item{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		ParentID:      req.ParentID,
		ItemType:      models.ItemTypeFile,
		Name:          name,
		Path:          path,
		MimeType:      req.MimeType,
		Size:          req.Size,
		Status:        &status,
		ExtractedText: req.ExtractedText,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", item.ID,
		"name", item.Name,
		"user_id", item.UserID,
		"parent_id", item.ParentID,
		"status", status,
	)

	return item, nil
}

// CreateFolder inserts a folder item. The no-status/zero-size shape of a
// folder is fixed here, not taken from the request.
func (s *itemService) CreateFolder(ctx context.Context, req *docstoreSvc.CreateFolderRequest) (*models.Item, error) {
	if err := s.validateCreateFolder(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	name := strings.TrimSpace(req.Name)
	path, err := s.resolvePath(ctx, req.UserID, req.ParentID, name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := &models.Item{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		ParentID:  req.ParentID,
		ItemType:  models.ItemTypeFolder,
		Name:      name,
		Path:      path,
		MimeType:  "folder",
		Size:      0,
		Status:    nil,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", item.ID,
		"name", item.Name,
		"user_id", item.UserID,
		"parent_id", item.ParentID,
		"path", item.Path,
	)

	return item, nil
}

// UpdateDocument updates a file's extraction state and notifies the update
// channel after the row change has gone through. A dropped notification is
// the accepted failure mode; a phantom status is not possible.
func (s *itemService) UpdateDocument(ctx context.Context, id string, req *docstoreSvc.UpdateDocumentRequest) (*models.Item, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, req.Status)
	}

	item, err := s.itemRepo.UpdateStatus(ctx, id, req.Status, req.ExtractedText, time.Now())
	if err != nil {
		return nil, err
	}

	s.notifier.DocumentUpdated(ctx, item.UserID, notify.DocumentUpdate{
		ID:     item.ID,
		Status: req.Status,
		Error:  req.Error,
	})

	s.logger.Info("document updated",
		"id", item.ID,
		"status", req.Status,
		"pages", len(req.ExtractedText),
	)

	return item, nil
}

// DeleteItem removes an item. Files are single-row deletes; folders are
// swept by collecting the whole subtree breadth-first (one child lookup per
// level, so round-trips scale with depth, not node count) and removing the
// collected set in one transaction - no orphaned children either way.
// Deleting a missing id is a successful no-op.
func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("delete of missing item ignored", "id", id)
			return nil
		}
		return err
	}

	if item.ItemType == models.ItemTypeFile {
		if _, err := s.itemRepo.DeleteByIDs(ctx, []string{id}); err != nil {
			return err
		}
		s.logger.Info("document deleted", "id", id, "user_id", item.UserID)
		return nil
	}

	ids, err := s.collectSubtree(ctx, id)
	if err != nil {
		return err
	}

	var deleted int64
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		n, err := s.itemRepo.DeleteByIDs(txCtx, ids)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete folder subtree: %w", err)
	}

	s.logger.Info("folder subtree deleted",
		"id", id,
		"user_id", item.UserID,
		"items", deleted,
	)

	return nil
}

// collectSubtree gathers the folder's id and every descendant id. The
// traversal only reads; an insert racing into the subtree may be missed,
// which is acceptable since the folder is going away regardless.
func (s *itemService) collectSubtree(ctx context.Context, folderID string) ([]string, error) {
	ids := []string{folderID}
	frontier := []string{folderID}

	for len(frontier) > 0 {
		refs, err := s.itemRepo.ListChildRefs(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("expand folder level: %w", err)
		}

		var next []string
		for _, ref := range refs {
			ids = append(ids, ref.ID)
			if ref.ItemType == models.ItemTypeFolder {
				next = append(next, ref.ID)
			}
		}
		frontier = next
	}

	return ids, nil
}

// resolvePath derives the display path for a new item and, as a side
// effect, enforces that a given parent exists, is a folder and belongs to
// the same user.
func (s *itemService) resolvePath(ctx context.Context, userID string, parentID *string, name string) (string, error) {
	if parentID == nil {
		return name, nil
	}

	parent, err := s.itemRepo.GetByID(ctx, *parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: parent folder %s does not exist", domain.ErrValidation, *parentID)
		}
		return "", err
	}
	if parent.UserID != userID {
		return "", fmt.Errorf("%w: parent folder %s does not exist", domain.ErrValidation, *parentID)
	}
	if parent.ItemType != models.ItemTypeFolder {
		return "", fmt.Errorf("%w: parent %s is not a folder", domain.ErrValidation, *parentID)
	}

	return parent.Path + "/" + name, nil
}

// validateCreateDocument validates a document creation request
func (s *itemService) validateCreateDocument(req *docstoreSvc.CreateDocumentRequest) error {
	if req.Status != nil && !req.Status.Valid() {
		return fmt.Errorf("invalid status %q", *req.Status)
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxItemNameLength),
			validation.Match(itemNamePattern).Error("name cannot contain slashes"),
		),
		validation.Field(&req.MimeType, validation.Required),
		validation.Field(&req.Size, validation.Min(int64(0))),
	)
}

// validateCreateFolder validates a folder creation request
func (s *itemService) validateCreateFolder(req *docstoreSvc.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxItemNameLength),
			validation.Match(itemNamePattern).Error("folder name cannot contain slashes"),
		),
	)
}
