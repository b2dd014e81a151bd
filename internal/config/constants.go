package config

// Default paths for the library and the sync database
const (
	// DefaultLibraryDir is the default content root for book files
	DefaultLibraryDir = "./books"

	// DefaultSyncDatabasePath is the default path for the KOReader sync database
	DefaultSyncDatabasePath = "./koreader_sync.db"
)
