package http

import (
	"github.com/opdshelf/opdshelf/internal/database"
	"github.com/opdshelf/opdshelf/internal/library"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router. This replaces a long parameter list in
// NewRouter for better maintainability.
type RouterConfig struct {
	// Library index serving every catalog query
	Index *library.Index

	// Sync store backing the KOReader endpoints
	Database *database.Database

	// Catalog pagination
	PageSize    int
	MaxPage     int
	RecentLimit int

	// Sync account hashing
	BcryptCost int

	// Application info
	Version string
}
