package library

import "time"

// UnknownLabel is the sentinel used for authors and publication years that
// could not be determined from the book's metadata.
const UnknownLabel = "Unknown"

// BookEntry describes a single book file. RelativePath is the stable
// identity key (root-relative, unique per file); Path is the absolute
// location on disk.
type BookEntry struct {
	Path         string    `json:"-"`
	RelativePath string    `json:"relative_path"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Year         string    `json:"publication_year"`
	ModTime      time.Time `json:"last_modified"`
}

// FolderEntry describes an immediate subdirectory in a folder listing.
type FolderEntry struct {
	Name         string `json:"name"`
	RelativePath string `json:"relative_path"`
}

type EntryKind string

const (
	EntryKindFolder EntryKind = "folder"
	EntryKindBook   EntryKind = "book"
)

// CatalogEntry is a tagged variant over folder and book entries as they
// appear in folder listings. Exactly one of Folder and Book is set,
// matching Kind.
type CatalogEntry struct {
	Kind   EntryKind    `json:"kind"`
	Folder *FolderEntry `json:"folder,omitempty"`
	Book   *BookEntry   `json:"book,omitempty"`
}

// YearCount is a publication year with the number of books attributed to it.
type YearCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// AuthorCount is an author with the number of books attributed to them.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}
