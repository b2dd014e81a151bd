package library

import (
	"fmt"
	"strings"
)

// Link is a pagination link relation for a catalog page. The serving layer
// attaches media types when rendering.
type Link struct {
	Rel  string
	Href string
}

// TotalPages returns the number of pages needed for count items at the
// given page size. An empty result set still has one (empty) page.
func TotalPages(count, size int) int {
	if size <= 0 {
		return 1
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage forces page into [1, maxPage].
func ClampPage(page, maxPage int) int {
	if page < 1 {
		return 1
	}
	if maxPage > 0 && page > maxPage {
		return maxPage
	}
	return page
}

// PageBounds returns the half-open slice bounds [start, end) for the given
// page over count items. Out-of-range pages yield an empty interval.
func PageBounds(page, size, count int) (start, end int) {
	start = (page - 1) * size
	if start > count {
		start = count
	}
	if start < 0 {
		start = 0
	}
	end = start + size
	if end > count {
		end = count
	}
	return start, end
}

// PaginationLinks computes the link relations for a page: self always,
// first/last only when there is more than one page, next/previous only
// when a page exists in that direction.
func PaginationLinks(basePath string, page, size, count int) []Link {
	totalPages := TotalPages(count, size)

	links := []Link{{Rel: "self", Href: pageHref(basePath, page)}}
	if totalPages > 1 {
		links = append(links, Link{Rel: "first", Href: pageHref(basePath, 1)})
	}
	if page < totalPages {
		links = append(links, Link{Rel: "next", Href: pageHref(basePath, page+1)})
	}
	if page > 1 {
		links = append(links, Link{Rel: "previous", Href: pageHref(basePath, page-1)})
	}
	if totalPages > 1 {
		links = append(links, Link{Rel: "last", Href: pageHref(basePath, totalPages)})
	}
	return links
}

// pageHref appends the page parameter, respecting a query string already
// present in the base (e.g. a search query).
func pageHref(basePath string, page int) string {
	sep := "?"
	if strings.Contains(basePath, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", basePath, sep, page)
}
