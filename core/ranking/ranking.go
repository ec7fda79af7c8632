// Package ranking implements the bounded top-R candidate set that every
// search worker maintains locally, and the cutoff-safe merge that
// combines per-worker rankings into a single global top-R without a
// second scan of every fit.
package ranking

import (
	"container/heap"
	"math"
	"sort"

	"github.com/tanaka-yuki/glmsubset/core/enumerator"
)

// ScoredCombination pairs a feature subset with its fit score. Lower
// scores are better throughout this package.
type ScoredCombination struct {
	Score       float64
	Combination enumerator.Combination
}

// rankingHeap is the container/heap.Interface implementation backing
// Ranking. Less is inverted (descending score) so the worst candidate
// sits at index 0, ready for O(log R) eviction.
type rankingHeap []ScoredCombination

func (h rankingHeap) Len() int            { return len(h) }
func (h rankingHeap) Less(i, j int) bool  { return h[i].Score > h[j].Score }
func (h rankingHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *rankingHeap) Push(x interface{}) { *h = append(*h, x.(ScoredCombination)) }
func (h *rankingHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Ranking is a bounded max-heap ordered so the worst (highest-score)
// element sits at the top. It is not safe for concurrent use; each
// worker owns one Ranking.
type Ranking struct {
	capacity int
	heap     rankingHeap
}

// New returns an empty Ranking with the given capacity. Capacity must be
// at least 1.
func New(capacity int) *Ranking {
	return &Ranking{capacity: capacity, heap: make(rankingHeap, 0, capacity)}
}

// Len returns the number of candidates currently held.
func (r *Ranking) Len() int { return len(r.heap) }

// Capacity returns R, the maximum number of candidates ever held.
func (r *Ranking) Capacity() int { return r.capacity }

// Push inserts candidate when there is spare capacity, or when it beats
// the current worst survivor; otherwise it is discarded.
func (r *Ranking) Push(candidate ScoredCombination) {
	if len(r.heap) < r.capacity {
		heap.Push(&r.heap, candidate)
		return
	}
	if len(r.heap) == 0 {
		return
	}
	if candidate.Score < r.heap[0].Score {
		r.heap[0] = candidate
		heap.Fix(&r.heap, 0)
	}
}

// PeekWorst returns the current worst-scoring survivor without removing
// it. The second return is false when the ranking is empty.
func (r *Ranking) PeekWorst() (ScoredCombination, bool) {
	if len(r.heap) == 0 {
		return ScoredCombination{}, false
	}
	return r.heap[0], true
}

// PopWorst removes and returns the current worst-scoring survivor.
func (r *Ranking) PopWorst() (ScoredCombination, bool) {
	if len(r.heap) == 0 {
		return ScoredCombination{}, false
	}
	item, _ := heap.Pop(&r.heap).(ScoredCombination)
	return item, true
}

// DrainSorted empties the ranking and returns its contents sorted
// ascending by score (best first).
func (r *Ranking) DrainSorted() []ScoredCombination {
	out := make([]ScoredCombination, len(r.heap))
	copy(out, r.heap)
	sort.Slice(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	r.heap = r.heap[:0]
	return out
}

// Merge implements the topworst cutoff: given every worker's local
// ranking and each worker's batch size, it returns the global top-R
// ascending by score. Only workers whose batch was larger than R
// contribute to the topworst cutoff, since a worker that never filled
// its ranking never discarded anything and its worst element is not a
// reliable bound.
func Merge(capacity int, locals []*Ranking, batchSizes []int) []ScoredCombination {
	topworst := math.Inf(1)
	haveCutoff := false
	for i, local := range locals {
		if batchSizes[i] <= capacity {
			continue
		}
		worst, ok := local.PeekWorst()
		if !ok {
			continue
		}
		if !haveCutoff || worst.Score < topworst {
			topworst = worst.Score
			haveCutoff = true
		}
	}

	global := New(capacity)
	for _, local := range locals {
		for _, c := range local.heap {
			if haveCutoff && c.Score > topworst {
				continue
			}
			global.Push(c)
		}
	}
	return global.DrainSorted()
}
