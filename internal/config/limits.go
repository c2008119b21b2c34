package config

const (
	// MaxItemNameLength is the maximum length for file and folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxItemNameLength = 255

	// MaxItemPathLength is the maximum length for full display paths.
	// Longer paths indicate overly deep hierarchies.
	MaxItemPathLength = 500
)
