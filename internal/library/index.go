package library

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

// ErrFolderNotFound is returned by GetFolderContentPaginated when the
// requested folder does not exist, is not a directory, or escapes the
// content root.
var ErrFolderNotFound = errors.New("folder not found")

// Index owns the enumerated file set and the derived lookup structures for
// one content root. All caches build lazily on first access; Invalidate
// drops every one of them wholesale. Each cache field is guarded by its own
// mutex so a rebuild stalls only requests needing that cache, and published
// slices/maps are never mutated afterwards, so callers may keep reading a
// snapshot after invalidation.
type Index struct {
	root        string
	recentLimit int
	recentTTL   time.Duration
	extractor   *Extractor
	now         func() time.Time

	pathsMu  sync.Mutex
	allPaths []string

	idxMu       sync.Mutex
	yearIndex   map[string][]string
	authorIndex map[string][]string

	recentMu sync.Mutex
	recent   []BookEntry
	recentAt time.Time
}

// NewIndex creates an index over the content root. recentLimit bounds the
// recency view; recentTTL is how long a recency scan stays cached.
func NewIndex(root string, recentLimit int, recentTTL time.Duration) (*Index, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Index{
		root:        abs,
		recentLimit: recentLimit,
		recentTTL:   recentTTL,
		extractor:   NewExtractor(),
		now:         time.Now,
	}, nil
}

// Root returns the absolute content root the index was built over.
func (idx *Index) Root() string {
	return idx.root
}

// Invalidate drops every cached structure unconditionally. It is called
// administratively and whenever a previously cached path is found missing
// during hydration; the next query rebuilds from a fresh enumeration.
func (idx *Index) Invalidate() {
	idx.pathsMu.Lock()
	idx.allPaths = nil
	idx.pathsMu.Unlock()

	idx.idxMu.Lock()
	idx.yearIndex = nil
	idx.authorIndex = nil
	idx.idxMu.Unlock()

	idx.recentMu.Lock()
	idx.recent = nil
	idx.recentAt = time.Time{}
	idx.recentMu.Unlock()
}

// GetAllBooksPaginated returns one page of the full library plus the total
// book count. Only the requested page is hydrated with metadata.
func (idx *Index) GetAllBooksPaginated(page, size int) ([]BookEntry, int) {
	paths := idx.paths()
	total := len(paths)

	start, end := PageBounds(page, size, total)
	items := make([]BookEntry, 0, end-start)
	for _, p := range paths[start:end] {
		if entry, ok := idx.hydrate(p); ok {
			items = append(items, entry)
		}
	}
	return items, total
}

// GetFolderContentPaginated lists one folder non-recursively: immediate
// subdirectories first (sorted by name, hidden excluded), then immediate
// book files (sorted by title), paginated over the combined sequence with
// a single page cursor.
func (idx *Index) GetFolderContentPaginated(folderPath string, page, size int) ([]CatalogEntry, int, error) {
	rel := strings.Trim(filepath.ToSlash(folderPath), "/")
	if rel != "" && HasTraversal(rel) {
		return nil, 0, ErrFolderNotFound
	}

	full := filepath.Join(idx.root, filepath.FromSlash(rel))
	if !Contains(idx.root, full) {
		return nil, 0, ErrFolderNotFound
	}
	info, err := os.Stat(full)
	if err != nil || !info.IsDir() {
		return nil, 0, ErrFolderNotFound
	}

	var entries []CatalogEntry
	for _, folder := range idx.listSubfolders(full, rel) {
		f := folder
		entries = append(entries, CatalogEntry{Kind: EntryKindFolder, Folder: &f})
	}
	for _, book := range idx.listFolderBooks(full) {
		b := book
		entries = append(entries, CatalogEntry{Kind: EntryKindBook, Book: &b})
	}

	total := len(entries)
	start, end := PageBounds(page, size, total)
	return entries[start:end], total, nil
}

// TopLevelFolders returns the immediate subdirectories of the content root
// for the root navigation catalog.
func (idx *Index) TopLevelFolders() []FolderEntry {
	return idx.listSubfolders(idx.root, "")
}

// ScanRecent returns the limit most-recently-modified books, newest first.
// The scan keeps a bounded min-heap of capacity limit while walking, and
// the result is cached until the TTL elapses; expiry is checked lazily on
// each call, there is no eviction timer.
func (idx *Index) ScanRecent(limit int) []BookEntry {
	if limit <= 0 || limit > idx.recentLimit {
		limit = idx.recentLimit
	}

	idx.recentMu.Lock()
	defer idx.recentMu.Unlock()

	now := idx.now()
	if idx.recent != nil && now.Sub(idx.recentAt) < idx.recentTTL {
		return truncate(idx.recent, limit)
	}

	top := newTopRecent(idx.recentLimit)
	idx.scanForRecent(idx.root, top)

	stamps := top.Descending()
	entries := make([]BookEntry, 0, len(stamps))
	for _, s := range stamps {
		if entry, ok := idx.hydrateScanned(s.path, s.modTime); ok {
			entries = append(entries, entry)
		}
	}

	idx.recent = entries
	idx.recentAt = now
	return truncate(entries, limit)
}

// GetYearsWithCounts returns every publication year with its book count,
// sorted numerically descending with Unknown last.
func (idx *Index) GetYearsWithCounts() []YearCount {
	years, _ := idx.indexes()

	counts := make([]YearCount, 0, len(years))
	for year, paths := range years {
		counts = append(counts, YearCount{Year: year, Count: len(paths)})
	}
	sort.Slice(counts, func(i, j int) bool {
		yi, yj := counts[i].Year, counts[j].Year
		if yi == UnknownLabel {
			return false
		}
		if yj == UnknownLabel {
			return true
		}
		ni, _ := strconv.Atoi(yi)
		nj, _ := strconv.Atoi(yj)
		return ni > nj
	})
	return counts
}

// GetAuthorsWithCounts returns every author with their book count, sorted
// case-insensitively with Unknown last.
func (idx *Index) GetAuthorsWithCounts() []AuthorCount {
	_, authors := idx.indexes()

	counts := make([]AuthorCount, 0, len(authors))
	for author, paths := range authors {
		counts = append(counts, AuthorCount{Author: author, Count: len(paths)})
	}
	sort.Slice(counts, func(i, j int) bool {
		ai, aj := counts[i].Author, counts[j].Author
		if ai == UnknownLabel {
			return false
		}
		if aj == UnknownLabel {
			return true
		}
		li, lj := strings.ToLower(ai), strings.ToLower(aj)
		if li == lj {
			return ai < aj
		}
		return li < lj
	})
	return counts
}

// GetAuthorsByLetter returns one page of the authors whose name starts
// with the given letter (case-insensitive). The sentinel letter "#"
// matches Unknown and any author whose first character is not a letter.
func (idx *Index) GetAuthorsByLetter(letter string, page, size int) ([]AuthorCount, int) {
	all := idx.GetAuthorsWithCounts()

	filtered := make([]AuthorCount, 0, len(all))
	for _, ac := range all {
		if authorMatchesLetter(ac.Author, letter) {
			filtered = append(filtered, ac)
		}
	}

	total := len(filtered)
	start, end := PageBounds(page, size, total)
	return filtered[start:end], total
}

// GetBooksForYear returns one page of the books published in the given
// year. Only the requested page is hydrated.
func (idx *Index) GetBooksForYear(year string, page, size int) ([]BookEntry, int) {
	years, _ := idx.indexes()
	return idx.hydratePage(years[year], page, size)
}

// GetBooksForAuthor returns one page of the books attributed to the given
// author. Only the requested page is hydrated.
func (idx *Index) GetBooksForAuthor(author string, page, size int) ([]BookEntry, int) {
	_, authors := idx.indexes()
	return idx.hydratePage(authors[author], page, size)
}

// SearchBooks matches the query case-insensitively against title and
// author. A blank query is equivalent to GetAllBooksPaginated. Matching
// requires a full metadata pass over every path; the requested page is
// then hydrated in a second pass.
func (idx *Index) SearchBooks(query string, page, size int) ([]BookEntry, int) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return idx.GetAllBooksPaginated(page, size)
	}

	var matched []string
	for _, p := range idx.paths() {
		md := idx.extractor.Extract(p)
		title := md.Title
		if title == "" {
			title = filepath.Base(p)
		}
		author := md.Author
		if author == "" {
			author = UnknownLabel
		}
		if strings.Contains(strings.ToLower(title), q) || strings.Contains(strings.ToLower(author), q) {
			matched = append(matched, p)
		}
	}

	return idx.hydratePage(matched, page, size)
}

// paths returns the cached enumeration, building it on first access. The
// returned slice is treated as immutable once published.
func (idx *Index) paths() []string {
	idx.pathsMu.Lock()
	defer idx.pathsMu.Unlock()
	if idx.allPaths == nil {
		idx.allPaths = idx.collectPaths()
	}
	return idx.allPaths
}

// collectPaths walks the content root recursively collecting all book
// files, sorted by filename case-insensitively with the relative path as
// tiebreaker. Unreadable subdirectories are skipped, never fatal.
func (idx *Index) collectPaths() []string {
	paths := []string{}
	_ = filepath.WalkDir(idx.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && isBookFile(d.Name()) {
			paths = append(paths, p)
		}
		return nil
	})

	sort.Slice(paths, func(i, j int) bool {
		bi := strings.ToLower(filepath.Base(paths[i]))
		bj := strings.ToLower(filepath.Base(paths[j]))
		if bi == bj {
			return paths[i] < paths[j]
		}
		return bi < bj
	})
	return paths
}

// indexes returns the year and author indexes, building both in a single
// pass on first access. The build extracts only author and date, never
// titles; per-query title extraction happens later for the requested page
// only. Value lists inherit the filename order of the enumeration.
func (idx *Index) indexes() (years, authors map[string][]string) {
	paths := idx.paths()

	idx.idxMu.Lock()
	defer idx.idxMu.Unlock()
	if idx.yearIndex != nil && idx.authorIndex != nil {
		return idx.yearIndex, idx.authorIndex
	}

	years = make(map[string][]string)
	authors = make(map[string][]string)
	for _, p := range paths {
		author, date := idx.extractor.ExtractAuthorDate(p)
		if author == "" {
			author = UnknownLabel
		}
		year := yearFromDate(date)
		years[year] = append(years[year], p)
		authors[author] = append(authors[author], p)
	}

	idx.yearIndex = years
	idx.authorIndex = authors
	return years, authors
}

// hydrate resolves identity and full metadata for one enumerated path.
// A missing file invalidates every cache: the entry is dropped from this
// response and the next query rebuilds from a fresh enumeration.
func (idx *Index) hydrate(path string) (BookEntry, bool) {
	rel, err := filepath.Rel(idx.root, path)
	if err != nil || HasTraversal(filepath.ToSlash(rel)) {
		return BookEntry{}, false
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			idx.Invalidate()
		}
		return BookEntry{}, false
	}

	if !Contains(idx.root, path) {
		return BookEntry{}, false
	}

	entry := idx.buildEntry(path, rel, info.ModTime())
	return entry, true
}

// hydrateScanned hydrates a path found during the recency walk, reusing
// the modification time already observed. It never invalidates: the walk
// just saw the file, so a failure here is a race with deletion, not a
// stale cache.
func (idx *Index) hydrateScanned(path string, modTime time.Time) (BookEntry, bool) {
	rel, err := filepath.Rel(idx.root, path)
	if err != nil || HasTraversal(filepath.ToSlash(rel)) || !Contains(idx.root, path) {
		return BookEntry{}, false
	}
	return idx.buildEntry(path, rel, modTime), true
}

func (idx *Index) buildEntry(path, rel string, modTime time.Time) BookEntry {
	md := idx.extractor.Extract(path)
	title := md.Title
	if title == "" {
		title = filepath.Base(path)
	}
	author := md.Author
	if author == "" {
		author = UnknownLabel
	}
	return BookEntry{
		Path:         path,
		RelativePath: filepath.ToSlash(rel),
		Title:        title,
		Author:       author,
		Year:         yearFromDate(md.Date),
		ModTime:      modTime,
	}
}

func (idx *Index) hydratePage(paths []string, page, size int) ([]BookEntry, int) {
	total := len(paths)
	start, end := PageBounds(page, size, total)
	items := make([]BookEntry, 0, end-start)
	for _, p := range paths[start:end] {
		if entry, ok := idx.hydrate(p); ok {
			items = append(items, entry)
		}
	}
	return items, total
}

// scanForRecent walks the tree feeding every book file's modification time
// into the bounded heap. Hidden directories and unreadable ones are
// skipped.
func (idx *Index) scanForRecent(dir string, top *topRecent) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if !strings.HasPrefix(name, ".") {
				idx.scanForRecent(filepath.Join(dir, name), top)
			}
			continue
		}
		if !isBookFile(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		top.Offer(filepath.Join(dir, name), info.ModTime())
	}
}

// listSubfolders returns the immediate non-hidden subdirectories of dir,
// sorted by name.
func (idx *Index) listSubfolders(dir, relBase string) []FolderEntry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	folders := make([]FolderEntry, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		rel := name
		if relBase != "" {
			rel = relBase + "/" + name
		}
		folders = append(folders, FolderEntry{Name: name, RelativePath: rel})
	}
	return folders
}

// listFolderBooks hydrates the immediate book files of dir, sorted by
// title case-insensitively.
func (idx *Index) listFolderBooks(dir string) []BookEntry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	books := make([]BookEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isBookFile(entry.Name()) {
			continue
		}
		if book, ok := idx.hydrate(filepath.Join(dir, entry.Name())); ok {
			books = append(books, book)
		}
	}
	sort.Slice(books, func(i, j int) bool {
		ti, tj := strings.ToLower(books[i].Title), strings.ToLower(books[j].Title)
		if ti == tj {
			return books[i].RelativePath < books[j].RelativePath
		}
		return ti < tj
	})
	return books
}

func truncate(entries []BookEntry, limit int) []BookEntry {
	if limit < len(entries) {
		return entries[:limit]
	}
	return entries
}

func isBookFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".epub")
}

// yearFromDate derives a publication year from a dc:date value, which is
// usually an ISO date or a bare year. Anything else is Unknown.
func yearFromDate(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return UnknownLabel
	}
	year := date[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return UnknownLabel
		}
	}
	return year
}

func authorMatchesLetter(author, letter string) bool {
	if letter == "#" {
		if author == UnknownLabel {
			return true
		}
		first, _ := utf8.DecodeRuneInString(author)
		return !unicode.IsLetter(first)
	}
	if author == UnknownLabel {
		return false
	}
	return strings.HasPrefix(strings.ToLower(author), strings.ToLower(letter))
}
