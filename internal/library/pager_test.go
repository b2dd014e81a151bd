package library

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 25, 1},
		{1, 25, 1},
		{25, 25, 1},
		{26, 25, 2},
		{100, 25, 4},
		{101, 25, 5},
		{10, 0, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d items size %d", tt.count, tt.size), func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.count, tt.size))
		})
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 100))
	assert.Equal(t, 1, ClampPage(-5, 100))
	assert.Equal(t, 1, ClampPage(1, 100))
	assert.Equal(t, 100, ClampPage(100, 100))
	assert.Equal(t, 100, ClampPage(101, 100))
	assert.Equal(t, 7, ClampPage(7, 100))
}

func TestPageBounds(t *testing.T) {
	t.Run("first page", func(t *testing.T) {
		start, end := PageBounds(1, 25, 60)
		assert.Equal(t, 0, start)
		assert.Equal(t, 25, end)
	})

	t.Run("partial last page", func(t *testing.T) {
		start, end := PageBounds(3, 25, 60)
		assert.Equal(t, 50, start)
		assert.Equal(t, 60, end)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		start, end := PageBounds(4, 25, 60)
		assert.Equal(t, start, end)
	})

	t.Run("empty collection", func(t *testing.T) {
		start, end := PageBounds(1, 25, 0)
		assert.Equal(t, 0, start)
		assert.Equal(t, 0, end)
	})
}

// Walking the pages in order must visit every item exactly once.
func TestPageBounds_CoversAllItemsExactlyOnce(t *testing.T) {
	for _, count := range []int{0, 1, 24, 25, 26, 99, 100} {
		size := 25
		seen := 0
		for page := 1; page <= TotalPages(count, size); page++ {
			start, end := PageBounds(page, size, count)
			require.LessOrEqual(t, start, end)
			seen += end - start
		}
		assert.Equal(t, count, seen, "count=%d", count)
	}
}

func TestPaginationLinks(t *testing.T) {
	rels := func(links []Link) []string {
		out := make([]string, len(links))
		for i, l := range links {
			out[i] = l.Rel
		}
		return out
	}

	t.Run("single page has only self", func(t *testing.T) {
		links := PaginationLinks("/opds/books", 1, 25, 10)
		assert.Equal(t, []string{"self"}, rels(links))
		assert.Equal(t, "/opds/books?page=1", links[0].Href)
	})

	t.Run("first of several pages", func(t *testing.T) {
		links := PaginationLinks("/opds/books", 1, 25, 60)
		assert.Equal(t, []string{"self", "first", "next", "last"}, rels(links))
	})

	t.Run("middle page has every relation", func(t *testing.T) {
		links := PaginationLinks("/opds/books", 2, 25, 60)
		assert.Equal(t, []string{"self", "first", "next", "previous", "last"}, rels(links))
	})

	t.Run("last page has no next", func(t *testing.T) {
		links := PaginationLinks("/opds/books", 3, 25, 60)
		assert.Equal(t, []string{"self", "first", "previous", "last"}, rels(links))
	})

	t.Run("base with existing query keeps it", func(t *testing.T) {
		links := PaginationLinks("/opds/search?q=tolstoy", 1, 25, 60)
		assert.Equal(t, "/opds/search?q=tolstoy&page=1", links[0].Href)
		assert.Equal(t, "/opds/search?q=tolstoy&page=2", links[2].Href)
	})
}
