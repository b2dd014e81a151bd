package http

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/opdshelf/opdshelf/internal/library"
)

// authorLetters is the navigation alphabet: A-Z plus the "#" bucket for
// Unknown and non-alphabetic names.
var authorLetters = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z", "#",
}

// Years serves the year navigation feed, one entry per publication year
// with its book count.
func (cc *CatalogController) Years(c *gin.Context) {
	links := []atomLink{
		{Rel: "self", Href: "/opds/years", Type: typeNavigation},
		{Rel: relStart, Href: "/opds", Type: typeNavigation},
	}

	years := cc.index.GetYearsWithCounts()
	entries := make([]atomEntry, 0, len(years))
	for _, yc := range years {
		entries = append(entries, navEntry(
			fmt.Sprintf("%s (%d)", yc.Year, yc.Count),
			"urn:year:"+yc.Year,
			fmt.Sprintf("/opds/years/%s?page=1", url.PathEscape(yc.Year)),
		))
	}

	sendFeed(c, newFeed("By Year", "urn:by-year", links, entries), typeNavigation)
}

// YearBooks serves the paginated acquisition feed for one year.
func (cc *CatalogController) YearBooks(c *gin.Context) {
	year := c.Param("year")
	page := cc.page(c)

	books, total := cc.index.GetBooksForYear(year, page, cc.pageSize)

	base := "/opds/years/" + url.PathEscape(year)
	links := paginatedLinks(base, page, cc.pageSize, total)
	totalPages := library.TotalPages(total, cc.pageSize)
	title := fmt.Sprintf("Year %s (Page %d of %d)", year, page, totalPages)

	sendFeed(c, newFeed(title, "urn:year:"+year, links, bookEntries(books)), typeAcquisition)
}

// Authors serves the letter navigation feed for browsing by author.
func (cc *CatalogController) Authors(c *gin.Context) {
	links := []atomLink{
		{Rel: "self", Href: "/opds/authors", Type: typeNavigation},
		{Rel: relStart, Href: "/opds", Type: typeNavigation},
	}

	entries := make([]atomEntry, 0, len(authorLetters))
	for _, letter := range authorLetters {
		entries = append(entries, navEntry(
			letter,
			"urn:authors:"+letter,
			fmt.Sprintf("/opds/authors/%s?page=1", url.PathEscape(letter)),
		))
	}

	sendFeed(c, newFeed("By Author", "urn:by-author", links, entries), typeNavigation)
}

// AuthorsByLetter serves one page of the authors under a letter, each
// linking to that author's books.
func (cc *CatalogController) AuthorsByLetter(c *gin.Context) {
	letter := c.Param("letter")
	page := cc.page(c)

	authors, total := cc.index.GetAuthorsByLetter(letter, page, cc.pageSize)

	base := "/opds/authors/" + url.PathEscape(letter)
	links := paginatedLinks(base, page, cc.pageSize, total)

	entries := make([]atomEntry, 0, len(authors))
	for _, ac := range authors {
		entries = append(entries, navEntry(
			fmt.Sprintf("%s (%d)", ac.Author, ac.Count),
			"urn:author:"+ac.Author,
			fmt.Sprintf("/opds/author?name=%s&page=1", url.QueryEscape(ac.Author)),
		))
	}

	totalPages := library.TotalPages(total, cc.pageSize)
	title := fmt.Sprintf("Authors: %s (Page %d of %d)", letter, page, totalPages)

	sendFeed(c, newFeed(title, "urn:authors:"+letter, links, entries), typeNavigation)
}

// AuthorBooks serves the paginated acquisition feed for one author.
func (cc *CatalogController) AuthorBooks(c *gin.Context) {
	author := c.Query("name")
	if author == "" {
		sendOPDSError(c, http.StatusBadRequest, "Missing author name")
		return
	}
	page := cc.page(c)

	books, total := cc.index.GetBooksForAuthor(author, page, cc.pageSize)

	base := "/opds/author?name=" + url.QueryEscape(author)
	links := paginatedLinks(base, page, cc.pageSize, total)
	totalPages := library.TotalPages(total, cc.pageSize)
	title := fmt.Sprintf("%s (Page %d of %d)", author, page, totalPages)

	sendFeed(c, newFeed(title, "urn:author:"+author, links, bookEntries(books)), typeAcquisition)
}
