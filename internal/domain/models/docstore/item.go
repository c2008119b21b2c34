package docstore

import (
	"time"
)

// ItemType tags a tree node as a file or a folder.
// Stored as lowercase text; "file" sorts before "folder", which is what
// gives listings their files-first primary order.
type ItemType string

const (
	ItemTypeFile   ItemType = "file"
	ItemTypeFolder ItemType = "folder"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemTypeFile || t == ItemTypeFolder
}

// Status is the extraction pipeline state of a file.
// Folders never carry a status (the column stays NULL).
type Status string

const (
	StatusUploaded          Status = "UPLOADED"
	StatusExtracting        Status = "EXTRACTING"
	StatusExtractingUnknown Status = "EXTRACTING_UNKNOWN"
	StatusCompleted         Status = "COMPLETED"
	StatusFailed            Status = "FAILED"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusUploaded, StatusExtracting, StatusExtractingUnknown, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// ExtractedPage is one page of OCR/extraction output attached to a file.
type ExtractedPage struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Item is a node in a user's file tree: either an uploaded file or a folder.
type Item struct {
	ID       string   `json:"id" db:"id"`
	UserID   string   `json:"user_id" db:"user_id"`
	ParentID *string  `json:"parent_id" db:"parent_id"` // NULL = root level
	ItemType ItemType `json:"item_type" db:"item_type"`
	Name     string   `json:"name" db:"name"`
	Path     string   `json:"path" db:"path"` // Display path, derived at creation
	MimeType string   `json:"type" db:"mime_type"`
	Size     int64    `json:"size" db:"size_bytes"`
	// Status is nil for folders and set for files.
	Status        *Status         `json:"status" db:"status"`
	ExtractedText []ExtractedPage `json:"extracted_text,omitempty" db:"extracted_text"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// SortValue returns the item's value for the given sort field as the string
// form used inside cursors. Timestamps use RFC 3339 with nanoseconds so the
// value survives an API round-trip without precision loss; a nil status maps
// to the empty string, mirroring the COALESCE used by the store.
func (i *Item) SortValue(field SortField) string {
	switch field {
	case SortFieldCreatedAt:
		return i.CreatedAt.UTC().Format(time.RFC3339Nano)
	case SortFieldUpdatedAt:
		return i.UpdatedAt.UTC().Format(time.RFC3339Nano)
	case SortFieldName:
		return i.Name
	case SortFieldStatus:
		if i.Status == nil {
			return ""
		}
		return string(*i.Status)
	default:
		return ""
	}
}
