package http

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opdshelf/opdshelf/internal/library"
)

// CatalogController serves every OPDS catalog view off the library index.
type CatalogController struct {
	index       *library.Index
	pageSize    int
	maxPage     int
	recentLimit int
}

func NewCatalogController(index *library.Index, pageSize, maxPage, recentLimit int) *CatalogController {
	return &CatalogController{
		index:       index,
		pageSize:    pageSize,
		maxPage:     maxPage,
		recentLimit: recentLimit,
	}
}

// page parses and clamps the page query parameter. Invalid values fall
// back to page 1.
func (cc *CatalogController) page(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	return library.ClampPage(page, cc.maxPage)
}

// Redirect sends the site root to the OPDS root catalog.
func (cc *CatalogController) Redirect(c *gin.Context) {
	c.Redirect(http.StatusFound, "/opds")
}

// Root serves the navigation catalog: the fixed views plus one entry per
// top-level folder.
func (cc *CatalogController) Root(c *gin.Context) {
	links := []atomLink{
		{Rel: "self", Href: "/opds", Type: typeNavigation},
		{Rel: relStart, Href: "/opds", Type: typeNavigation},
	}

	entries := []atomEntry{
		navEntry("All Books", "urn:all-books", "/opds/books?page=1"),
		navEntry("Recent Books", "urn:recent-books", "/opds/recent"),
		navEntry("By Year", "urn:by-year", "/opds/years"),
		navEntry("By Author", "urn:by-author", "/opds/authors"),
	}
	for _, folder := range cc.index.TopLevelFolders() {
		entries = append(entries, navEntry(
			folder.Name,
			folderID(folder.RelativePath),
			fmt.Sprintf("/opds/folder/%s?page=1", escapeRelPath(folder.RelativePath)),
		))
	}

	sendFeed(c, newFeed("My Library", "urn:library-root", links, entries), typeNavigation)
}

// AllBooks serves the paginated acquisition feed over the whole library.
func (cc *CatalogController) AllBooks(c *gin.Context) {
	page := cc.page(c)

	books, total := cc.index.GetAllBooksPaginated(page, cc.pageSize)

	links := paginatedLinks("/opds/books", page, cc.pageSize, total)
	totalPages := library.TotalPages(total, cc.pageSize)
	title := fmt.Sprintf("All Books (Page %d of %d)", page, totalPages)

	sendFeed(c, newFeed(title, "urn:all-books", links, bookEntries(books)), typeAcquisition)
}

// Recent serves the most-recently-modified books.
func (cc *CatalogController) Recent(c *gin.Context) {
	links := []atomLink{
		{Rel: "self", Href: "/opds/recent", Type: typeAcquisition},
		{Rel: relStart, Href: "/opds", Type: typeNavigation},
	}

	books := cc.index.ScanRecent(cc.recentLimit)

	sendFeed(c, newFeed("Recent Books", "urn:recent-books", links, bookEntries(books)), typeAcquisition)
}

// Folder serves one folder's combined subfolders-then-books catalog.
func (cc *CatalogController) Folder(c *gin.Context) {
	folderPath := strings.TrimPrefix(c.Param("path"), "/")
	page := cc.page(c)

	entries, total, err := cc.index.GetFolderContentPaginated(folderPath, page, cc.pageSize)
	if err != nil {
		sendOPDSError(c, http.StatusNotFound, "Folder not found or access denied")
		return
	}

	feedEntries := make([]atomEntry, 0, len(entries))
	for _, entry := range entries {
		switch entry.Kind {
		case library.EntryKindFolder:
			feedEntries = append(feedEntries, navEntry(
				entry.Folder.Name,
				folderID(entry.Folder.RelativePath),
				fmt.Sprintf("/opds/folder/%s?page=1", escapeRelPath(entry.Folder.RelativePath)),
			))
		case library.EntryKindBook:
			feedEntries = append(feedEntries, bookEntry(*entry.Book))
		}
	}

	base := "/opds/folder/" + escapeRelPath(folderPath)
	links := paginatedLinks(base, page, cc.pageSize, total)

	title := path.Base(folderPath)
	if title == "." || title == "/" || title == "" {
		title = "Library"
	}
	totalPages := library.TotalPages(total, cc.pageSize)
	if totalPages > 1 {
		title = fmt.Sprintf("%s (Page %d of %d)", title, page, totalPages)
	}

	sendFeed(c, newFeed(title, folderID(folderPath), links, feedEntries), typeAcquisition)
}

// Search serves the paginated search feed. A blank query lists the whole
// library, matching the all-books view.
func (cc *CatalogController) Search(c *gin.Context) {
	query := c.Query("q")
	page := cc.page(c)

	books, total := cc.index.SearchBooks(query, page, cc.pageSize)

	base := "/opds/search"
	if strings.TrimSpace(query) != "" {
		base += "?q=" + url.QueryEscape(query)
	}
	links := paginatedLinks(base, page, cc.pageSize, total)
	totalPages := library.TotalPages(total, cc.pageSize)
	title := fmt.Sprintf("Search Results (Page %d of %d)", page, totalPages)
	if strings.TrimSpace(query) != "" {
		title = fmt.Sprintf("Search %q (Page %d of %d)", query, page, totalPages)
	}

	sendFeed(c, newFeed(title, "urn:search", links, bookEntries(books)), typeAcquisition)
}

// navEntry builds a navigation entry pointing at a subsection feed.
func navEntry(title, id, href string) atomEntry {
	return atomEntry{
		Title: title,
		ID:    id,
		Links: []atomLink{{Rel: relSubsection, Href: href, Type: typeAcquisition}},
	}
}

// bookEntry builds an acquisition entry with download and cover links.
func bookEntry(book library.BookEntry) atomEntry {
	escaped := escapeRelPath(book.RelativePath)
	return atomEntry{
		Title:  book.Title,
		ID:     bookID(book.RelativePath),
		Author: &atomAuthor{Name: book.Author},
		Links: []atomLink{
			{Rel: relAcquisition, Href: "/download/" + escaped, Type: typeEpub},
			{Rel: relImage, Href: "/cover/" + escaped, Type: "image/jpeg"},
		},
	}
}

func bookEntries(books []library.BookEntry) []atomEntry {
	entries := make([]atomEntry, 0, len(books))
	for _, book := range books {
		entries = append(entries, bookEntry(book))
	}
	return entries
}

// paginatedLinks renders the pager's link relations as catalog links and
// appends the start relation back to the root.
func paginatedLinks(base string, page, size, total int) []atomLink {
	pagerLinks := library.PaginationLinks(base, page, size, total)
	links := make([]atomLink, 0, len(pagerLinks)+1)
	for _, l := range pagerLinks {
		links = append(links, atomLink{Rel: l.Rel, Href: l.Href, Type: typeAcquisition})
	}
	links = append(links, atomLink{Rel: relStart, Href: "/opds", Type: typeNavigation})
	return links
}
