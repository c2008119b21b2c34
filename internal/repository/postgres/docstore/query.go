package docstore

import (
	"fmt"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docstore"
)

// itemColumns is the canonical select list for item rows.
const itemColumns = "id, user_id, parent_id, item_type, name, path, mime_type, size_bytes, status, extracted_text, created_at, updated_at"

// sortColumn maps a sort field to its SQL expression. Status is nullable
// (folders), and a NULL inside a composite comparison poisons the whole
// predicate, so the status sort key is coalesced to the empty string. Empty
// string orders before every real status value in both directions, which
// keeps the order total and the seek predicate well-defined.
func sortColumn(field models.SortField) string {
	switch field {
	case models.SortFieldCreatedAt:
		return "created_at"
	case models.SortFieldUpdatedAt:
		return "updated_at"
	case models.SortFieldName:
		return "name"
	case models.SortFieldStatus:
		return "COALESCE(status, '')"
	default:
		// Validate() rejects unknown fields before queries are built.
		return "created_at"
	}
}

// cursorSortArg converts the cursor's string-encoded sort value into the
// typed query argument the column expects. Timestamp fields carry RFC 3339
// values; anything unparseable means the token was not minted by us.
func cursorSortArg(field models.SortField, value string) (interface{}, error) {
	switch field {
	case models.SortFieldCreatedAt, models.SortFieldUpdatedAt:
		ts, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return nil, fmt.Errorf("%w: cursor value %q is not a valid timestamp", domain.ErrValidation, value)
		}
		return ts, nil
	default:
		return value, nil
	}
}

// buildListQuery assembles the single-level listing query: user and parent
// scoping, optional name/status filters, the composite-key seek predicate,
// and the (item_type, sortField, id) ORDER BY. The LIMIT asks for one row
// more than the page size so the caller can detect a further page without a
// COUNT query.
//
// The seek predicate expands the mixed-direction composite comparison
// explicitly - item_type always ascends while the sort column and id follow
// the caller's direction, so a single row-value comparison cannot express it:
//
//	item_type > $t
//	OR (item_type = $t AND col CMP $v)
//	OR (item_type = $t AND col = $v AND id CMP $id)
//
// Being purely value-based, the predicate stays correct even if the cursor's
// row has been deleted between pages.
func buildListQuery(table, userID string, opts *models.ListOptions) (string, []interface{}, error) {
	query := fmt.Sprintf("SELECT %s\nFROM %s\nWHERE user_id = $1", itemColumns, table)
	args := []interface{}{userID}
	paramIndex := 2

	if opts.ParentID == nil {
		query += " AND parent_id IS NULL"
	} else {
		query += fmt.Sprintf(" AND parent_id = $%d", paramIndex)
		args = append(args, *opts.ParentID)
		paramIndex++
	}

	if opts.NameContains != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", paramIndex)
		args = append(args, "%"+opts.NameContains+"%")
		paramIndex++
	}

	// A status filter never matches folders: their status is NULL and
	// NULL = $n is not true.
	if opts.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", paramIndex)
		args = append(args, *opts.Status)
		paramIndex++
	}

	col := sortColumn(opts.SortField)
	cmp := ">"
	dir := "ASC"
	if opts.SortDirection == models.SortDesc {
		cmp = "<"
		dir = "DESC"
	}

	if opts.Cursor != nil {
		value, err := cursorSortArg(opts.SortField, opts.Cursor.Value)
		if err != nil {
			return "", nil, err
		}
		typeParam, valueParam, idParam := paramIndex, paramIndex+1, paramIndex+2
		query += fmt.Sprintf(
			" AND (item_type > $%d OR (item_type = $%d AND %s %s $%d) OR (item_type = $%d AND %s = $%d AND id %s $%d))",
			typeParam,
			typeParam, col, cmp, valueParam,
			typeParam, col, valueParam, cmp, idParam,
		)
		args = append(args, opts.Cursor.ItemType, value, opts.Cursor.ID)
		paramIndex += 3
	}

	query += fmt.Sprintf("\nORDER BY item_type ASC, %s %s, id %s", col, dir, dir)

	// limit+1: the extra row only signals that another page exists.
	query += fmt.Sprintf("\nLIMIT $%d", paramIndex)
	args = append(args, opts.Limit+1)

	return query, args, nil
}
