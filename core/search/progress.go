package search

import "sync/atomic"

// ProgressState is the single shared fit counter every worker advances in
// coarse-grained batches, and the cooperative cancel flag the status
// reporter sets on a host interrupt.
type ProgressState struct {
	completed atomic.Uint64
	total     uint64
	cancel    atomic.Bool
}

func newProgressState(total uint64) *ProgressState {
	return &ProgressState{total: total}
}

// Add advances the completed counter by delta and returns the new total.
func (p *ProgressState) Add(delta uint64) uint64 {
	return p.completed.Add(delta)
}

// Completed returns the number of fits counted so far.
func (p *ProgressState) Completed() uint64 { return p.completed.Load() }

// Total returns the number of fits the search is expected to perform.
func (p *ProgressState) Total() uint64 { return p.total }

// Cancelled reports whether cancellation has been requested.
func (p *ProgressState) Cancelled() bool { return p.cancel.Load() }

// RequestCancel sets the cooperative cancel flag.
func (p *ProgressState) RequestCancel() { p.cancel.Store(true) }
