package library

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopRecent_Offer(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("keeps everything under capacity", func(t *testing.T) {
		top := newTopRecent(5)
		top.Offer("a", base.Add(1*time.Hour))
		top.Offer("b", base.Add(2*time.Hour))

		stamps := top.Descending()
		require.Len(t, stamps, 2)
		assert.Equal(t, "b", stamps[0].path)
		assert.Equal(t, "a", stamps[1].path)
	})

	t.Run("evicts the oldest at capacity", func(t *testing.T) {
		top := newTopRecent(2)
		top.Offer("old", base)
		top.Offer("mid", base.Add(1*time.Hour))
		top.Offer("new", base.Add(2*time.Hour))

		stamps := top.Descending()
		require.Len(t, stamps, 2)
		assert.Equal(t, "new", stamps[0].path)
		assert.Equal(t, "mid", stamps[1].path)
	})

	t.Run("older file never displaces a newer one", func(t *testing.T) {
		top := newTopRecent(1)
		top.Offer("new", base.Add(1*time.Hour))
		top.Offer("old", base)

		stamps := top.Descending()
		require.Len(t, stamps, 1)
		assert.Equal(t, "new", stamps[0].path)
	})

	t.Run("zero limit retains nothing", func(t *testing.T) {
		top := newTopRecent(0)
		top.Offer("a", base)
		assert.Empty(t, top.Descending())
	})
}

// The bounded heap must agree with sorting the full list and taking the
// newest entries.
func TestTopRecent_MatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, limit := range []int{1, 5, 25} {
		t.Run(fmt.Sprintf("limit %d", limit), func(t *testing.T) {
			n := 200
			stamps := make([]fileStamp, n)
			top := newTopRecent(limit)
			for i := 0; i < n; i++ {
				// Distinct offsets so ordering is unambiguous.
				s := fileStamp{
					path:    fmt.Sprintf("book-%03d.epub", i),
					modTime: base.Add(time.Duration(rng.Intn(1_000_000)*n+i) * time.Second),
				}
				stamps[i] = s
				top.Offer(s.path, s.modTime)
			}

			sort.Slice(stamps, func(i, j int) bool {
				return stamps[i].modTime.After(stamps[j].modTime)
			})
			want := stamps[:limit]

			got := top.Descending()
			require.Len(t, got, limit)
			for i := range want {
				assert.Equal(t, want[i].path, got[i].path)
			}
		})
	}
}
