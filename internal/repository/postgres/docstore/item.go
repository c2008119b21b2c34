package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docstore"
	docstoreRepo "docvault/internal/domain/repositories/docstore"
	"docvault/internal/repository/postgres"
)

// PostgresItemRepository implements the ItemRepository interface
type PostgresItemRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(config *postgres.RepositoryConfig) docstoreRepo.ItemRepository {
	return &PostgresItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanItem scans one item row in itemColumns order
func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var itemType string
	var status *string

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ParentID,
		&itemType,
		&item.Name,
		&item.Path,
		&item.MimeType,
		&item.Size,
		&status,
		&item.ExtractedText,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.ItemType = models.ItemType(itemType)
	if status != nil {
		s := models.Status(*status)
		item.Status = &s
	}
	return &item, nil
}

// Create inserts a new item row
func (r *PostgresItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, parent_id, item_type, name, path, mime_type, size_bytes, status, extracted_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.tables.Items)

	var status *string
	if item.Status != nil {
		s := string(*item.Status)
		status = &s
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.ParentID,
		string(item.ItemType),
		item.Name,
		item.Path,
		item.MimeType,
		item.Size,
		status,
		item.ExtractedText,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("%w: parent folder for item %q does not exist", domain.ErrValidation, item.Name)
		}
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("item %s: %w", item.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by id only (no user scoping; callers authorize
// separately before acting on the result)
func (r *PostgresItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, itemColumns, r.tables.Items)

	executor := postgres.GetExecutor(ctx, r.pool)
	item, err := scanItem(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return item, nil
}

// UpdateStatus updates a file's status and optionally its extracted text.
// The item_type guard means a folder id never picks up a status, whatever
// the caller passes.
func (r *PostgresItemRepository) UpdateStatus(ctx context.Context, id string, status models.Status, pages []models.ExtractedPage, updatedAt time.Time) (*models.Item, error) {
	var query string
	var args []interface{}

	if pages == nil {
		query = fmt.Sprintf(`
			UPDATE %s
			SET status = $1, updated_at = $2
			WHERE id = $3 AND item_type = 'file'
			RETURNING %s
		`, r.tables.Items, itemColumns)
		args = []interface{}{string(status), updatedAt, id}
	} else {
		query = fmt.Sprintf(`
			UPDATE %s
			SET status = $1, extracted_text = $2, updated_at = $3
			WHERE id = $4 AND item_type = 'file'
			RETURNING %s
		`, r.tables.Items, itemColumns)
		args = []interface{}{string(status), pages, updatedAt, id}
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	item, err := scanItem(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update item status: %w", err)
	}

	return item, nil
}

// List returns one page of a user's items under a parent
func (r *PostgresItemRepository) List(ctx context.Context, userID string, opts *models.ListOptions) (*models.ListResult, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	query, args, err := buildListQuery(r.tables.Items, userID, opts)
	if err != nil {
		return nil, err
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return models.NewListResult(items, opts), nil
}

// ListChildRefs returns the direct children of all given parents in one query
func (r *PostgresItemRepository) ListChildRefs(ctx context.Context, parentIDs []string) ([]docstoreRepo.ChildRef, error) {
	if len(parentIDs) == 0 {
		return []docstoreRepo.ChildRef{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, item_type
		FROM %s
		WHERE parent_id = ANY($1)
	`, r.tables.Items)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("list child refs: %w", err)
	}
	defer rows.Close()

	var refs []docstoreRepo.ChildRef
	for rows.Next() {
		var ref docstoreRepo.ChildRef
		var itemType string
		if err := rows.Scan(&ref.ID, &itemType); err != nil {
			return nil, fmt.Errorf("scan child ref: %w", err)
		}
		ref.ItemType = models.ItemType(itemType)
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate child refs: %w", err)
	}

	if refs == nil {
		refs = []docstoreRepo.ChildRef{}
	}

	return refs, nil
}

// DeleteByIDs removes all rows in the id set
func (r *PostgresItemRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = ANY($1)
	`, r.tables.Items)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete items: %w", err)
	}

	return result.RowsAffected(), nil
}
