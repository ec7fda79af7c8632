package enumerator

import (
	"github.com/tanaka-yuki/glmsubset/pkg/errors"
)

// ErrExhausted is returned by Next when the cursor is already the last
// combination of length KMax: there is nowhere left to advance to.
var ErrExhausted = errors.New("enumeration exhausted")

// Batch is a contiguous slice of the overall enumeration order, described
// by an exclusive start cursor and an inclusive stop cursor: the batch's
// first element is Next(Start), and its last element is Stop itself.
// Consecutive batches satisfy batches[i].Stop.Equal(batches[i+1].Start).
type Batch struct {
	Start Combination
	Stop  Combination
	Size  int
}

// Enumerator walks canonical subsets of {1,...,N} with size 1..KMax.
type Enumerator struct {
	N    int
	KMax int
}

// New validates N and KMax and returns an Enumerator over them.
func New(n, kMax int) (*Enumerator, error) {
	if n < 1 {
		return nil, errors.NewConfigError("enumerator.New", "N", "must be at least 1")
	}
	if kMax < 1 || kMax > n {
		return nil, errors.NewConfigError("enumerator.New", "KMax", "must be between 1 and N")
	}
	return &Enumerator{N: n, KMax: kMax}, nil
}

// Total returns the number of combinations this Enumerator walks over:
// sum_{L=1}^{KMax} C(N, L).
func (e *Enumerator) Total() int64 {
	return totalCombinations(e.N, e.KMax)
}

// Sentinel returns the cursor that precedes the first combination: Next
// applied to it yields (1).
func (e *Enumerator) Sentinel() Combination {
	return Combination{0}
}

// Next advances c in place to the next combination in canonical order.
// Given the sentinel [0] it produces the true first combination, (1).
// Given the last combination of length KMax it returns ErrExhausted and
// leaves c unchanged.
func (e *Enumerator) Next(c *Combination) error {
	cur := *c
	l := len(cur)
	n := e.N

	p := -1
	for i := l - 1; i >= 0; i-- {
		if cur[i] < n-l+1+i {
			p = i
			break
		}
	}

	if p >= 0 {
		next := cur.Clone()
		next[p]++
		for i := p + 1; i < l; i++ {
			next[i] = next[p] + (i - p)
		}
		*c = next
		return nil
	}

	if l < e.KMax {
		next := make(Combination, l+1)
		for i := range next {
			next[i] = i + 1
		}
		*c = next
		return nil
	}

	return ErrExhausted
}

// Batches splits the enumeration order into at most nBatches contiguous
// batches of near-equal size. It never materializes the sequence: batch
// boundaries are located directly via combinationAtRank.
//
// The target batch size T is ceil(total/nBatches), reduced by one when
// T*(nBatches-1) would already cover the whole order (which would leave
// the final batch empty); nBatches is capped at total so no batch is
// empty when the caller asks for more batches than there are elements.
// The first nBatches-1 batches hold T combinations each and the final
// batch holds the remainder.
func (e *Enumerator) Batches(nBatches int) []Batch {
	total := e.Total()
	if nBatches < 1 {
		nBatches = 1
	}
	if int64(nBatches) > total {
		nBatches = int(total)
	}
	if nBatches < 1 {
		nBatches = 1
	}

	target := (total + int64(nBatches) - 1) / int64(nBatches)
	if target*(int64(nBatches)-1) >= total {
		target--
	}
	if target < 1 {
		target = 1
	}

	boundaries := make([]int64, 0, nBatches+1)
	for i := 0; i < nBatches; i++ {
		boundaries = append(boundaries, int64(i)*target)
	}
	boundaries = append(boundaries, total)

	batches := make([]Batch, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		startRank, stopRank := boundaries[i], boundaries[i+1]
		start := combinationAtRank(e.N, e.KMax, startRank)
		stop := combinationAtRank(e.N, e.KMax, stopRank)
		batches = append(batches, Batch{Start: start, Stop: stop, Size: int(stopRank - startRank)})
	}
	return batches
}
