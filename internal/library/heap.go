package library

import (
	"container/heap"
	"time"
)

// fileStamp pairs a path with its modification time during recency scans.
type fileStamp struct {
	path    string
	modTime time.Time
}

// stampHeap is a min-heap of fileStamps ordered by modification time.
type stampHeap []fileStamp

func (h stampHeap) Len() int            { return len(h) }
func (h stampHeap) Less(i, j int) bool  { return h[i].modTime.Before(h[j].modTime) }
func (h stampHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *stampHeap) Push(x any) { *h = append(*h, x.(fileStamp)) }
func (h *stampHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// topRecent keeps the limit most-recently-modified files seen so far.
// Cost per offer is O(log limit), so a full scan stays O(n log limit)
// instead of O(n log n) for sorting everything.
type topRecent struct {
	limit int
	h     stampHeap
}

func newTopRecent(limit int) *topRecent {
	return &topRecent{limit: limit}
}

// Offer considers a file for the top set: push while under capacity, then
// replace the heap minimum whenever a newer file shows up. Ties at equal
// modification time keep whichever was inserted first.
func (t *topRecent) Offer(path string, modTime time.Time) {
	if t.limit <= 0 {
		return
	}
	if t.h.Len() < t.limit {
		heap.Push(&t.h, fileStamp{path: path, modTime: modTime})
		return
	}
	if modTime.After(t.h[0].modTime) {
		t.h[0] = fileStamp{path: path, modTime: modTime}
		heap.Fix(&t.h, 0)
	}
}

// Descending drains the heap and returns the retained files ordered from
// newest to oldest. The heap is empty afterwards.
func (t *topRecent) Descending() []fileStamp {
	result := make([]fileStamp, t.h.Len())
	for i := t.h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&t.h).(fileStamp)
	}
	return result
}
