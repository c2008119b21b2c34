package docstore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// SortField selects the caller-facing secondary sort column.
// The primary order is always item type (files before folders).
type SortField string

const (
	SortFieldCreatedAt SortField = "createdAt"
	SortFieldUpdatedAt SortField = "updatedAt"
	SortFieldName      SortField = "name"
	SortFieldStatus    SortField = "status"
)

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool {
	switch f {
	case SortFieldCreatedAt, SortFieldUpdatedAt, SortFieldName, SortFieldStatus:
		return true
	}
	return false
}

// SortDirection is the direction applied to the secondary sort column and
// the id tie-breaker.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Valid reports whether d is a known sort direction.
func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

// Default list configuration values
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// Cursor marks a position in the composite (itemType, sortValue, id) order.
// It is a plain serializable record so it can cross the API boundary; it is
// positional, not a row reference, so it stays valid even if the row it was
// minted from has since been deleted.
type Cursor struct {
	ItemType ItemType `json:"item_type"`
	Value    string   `json:"value"`
	ID       string   `json:"id"`
}

// Validate checks the cursor is structurally complete. An incomplete cursor
// is rejected outright rather than silently treated as "first page".
func (c *Cursor) Validate() error {
	if !c.ItemType.Valid() {
		return fmt.Errorf("cursor item_type %q is not a valid item type", c.ItemType)
	}
	if c.ID == "" {
		return fmt.Errorf("cursor id cannot be empty")
	}
	return nil
}

// Encode serializes the cursor into an opaque URL-safe token.
func (c *Cursor) Encode() string {
	payload, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(payload)
}

// DecodeCursor parses a token produced by Cursor.Encode.
func DecodeCursor(token string) (*Cursor, error) {
	payload, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode cursor token: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("parse cursor token: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListOptions configures a single-level listing of a user's items.
type ListOptions struct {
	// ParentID selects the direct children of that folder; nil = tree root.
	ParentID *string

	// NameContains filters by case-insensitive substring match on name.
	NameContains string

	// Status filters to files with exactly this status. Folders have no
	// status and never match a status filter.
	Status *Status

	SortField     SortField
	SortDirection SortDirection

	// Limit is the page size (default 10, max 100).
	Limit int

	// Cursor resumes after a previous page. Only meaningful with the same
	// parent/filter/sort combination it was issued under.
	Cursor *Cursor
}

// ApplyDefaults fills in default values for unset fields.
func (o *ListOptions) ApplyDefaults() {
	if o.SortField == "" {
		o.SortField = SortFieldCreatedAt
	}
	if o.SortDirection == "" {
		o.SortDirection = SortDesc
	}
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
}

// Validate checks that field values are usable.
func (o *ListOptions) Validate() error {
	if !o.SortField.Valid() {
		return fmt.Errorf("invalid sort field: %q (supported: createdAt, updatedAt, name, status)", o.SortField)
	}
	if !o.SortDirection.Valid() {
		return fmt.Errorf("invalid sort direction: %q (supported: asc, desc)", o.SortDirection)
	}
	if o.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if o.Limit > MaxListLimit {
		return fmt.Errorf("limit cannot exceed %d (requested: %d)", MaxListLimit, o.Limit)
	}
	if o.Status != nil && !o.Status.Valid() {
		return fmt.Errorf("invalid status filter: %q", *o.Status)
	}
	if o.Cursor != nil {
		if err := o.Cursor.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ListResult is one page of items plus the continuation state.
type ListResult struct {
	Items      []Item  `json:"items"`
	HasMore    bool    `json:"has_more"`
	NextCursor *Cursor `json:"next_cursor"`
}

// NewListResult assembles a page from rows fetched with limit+1. If the
// extra row came back, it is dropped and a cursor is minted from the last
// returned row's composite key.
func NewListResult(items []Item, opts *ListOptions) *ListResult {
	if items == nil {
		items = []Item{}
	}

	hasMore := len(items) > opts.Limit
	if hasMore {
		items = items[:opts.Limit]
	}

	var next *Cursor
	if hasMore {
		last := items[len(items)-1]
		next = &Cursor{
			ItemType: last.ItemType,
			Value:    last.SortValue(opts.SortField),
			ID:       last.ID,
		}
	}

	return &ListResult{
		Items:      items,
		HasMore:    hasMore,
		NextCursor: next,
	}
}
