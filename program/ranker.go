package main

import (
	"sort"
	"time"

	"github.com/keilerkonzept/topk/heap"
)

// rankSource is what the ranker reads from. Both methods take their own locks.
type rankSource interface {
	sorted() []heap.Item
	updateCounts(items []heap.Item, limit int)
}

// ranker keeps the leaderboard of busiest series. Between full refreshes
// from the sketch it only re-counts and re-sorts the head of the list.
type ranker struct {
	k           int
	fullRefresh time.Duration
	partialSize int

	lastFull time.Time
	items    []heap.Item
}

func newRanker(k int, fullRefresh time.Duration, partialSize int) *ranker {
	if k < 1 {
		k = 1
	}
	if fullRefresh < 0 {
		fullRefresh = 2 * time.Second
	}
	if partialSize < 0 {
		partialSize = 0
	}
	return &ranker{k: k, fullRefresh: fullRefresh, partialSize: partialSize}
}

func (r *ranker) refresh(now time.Time, visible int, src rankSource) (items []heap.Item, full bool) {
	if now.IsZero() {
		now = time.Now()
	}
	if len(r.items) == 0 || r.lastFull.IsZero() || r.fullRefresh == 0 || now.Sub(r.lastFull) >= r.fullRefresh {
		r.items = src.sorted()
		if len(r.items) > r.k {
			r.items = r.items[:r.k]
		}
		r.lastFull = now
		return cloneItems(r.items), true
	}

	limit := len(r.items)
	if visible > 0 && visible < limit {
		limit = visible
	}
	if r.partialSize > 0 && r.partialSize < limit {
		limit = r.partialSize
	}
	src.updateCounts(r.items, limit)
	sort.SliceStable(r.items[:limit], func(i, j int) bool {
		if r.items[i].Count != r.items[j].Count {
			return r.items[i].Count > r.items[j].Count
		}
		return r.items[i].Item < r.items[j].Item
	})
	return cloneItems(r.items), false
}

func cloneItems(in []heap.Item) []heap.Item {
	out := make([]heap.Item, len(in))
	copy(out, in)
	return out
}
