package pinoutbot

import (
	"sync"

	"github.com/webspiderteam/pinoutbot/pkg/sources"
)

// Hook function types for merge events
type (
	// RecordAddedHook is called for every candidate appended to the collection
	RecordAddedHook func(c sources.Candidate)

	// DuplicateHook is called for every candidate skipped as a duplicate
	DuplicateHook func(c sources.Candidate)

	// RejectedHook is called for every malformed submission skipped
	RejectedHook func(r sources.Rejected)
)

// hooks manages event callbacks for merge outcomes
type hooks struct {
	mu          sync.RWMutex
	onAdded     []RecordAddedHook
	onDuplicate []DuplicateHook
	onRejected  []RejectedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnRecordAdded registers a callback for accepted candidates
func (h *hooks) OnRecordAdded(fn RecordAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAdded = append(h.onAdded, fn)
}

// OnDuplicate registers a callback for skipped duplicates
func (h *hooks) OnDuplicate(fn DuplicateHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDuplicate = append(h.onDuplicate, fn)
}

// OnRejected registers a callback for malformed submissions
func (h *hooks) OnRejected(fn RejectedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRejected = append(h.onRejected, fn)
}

// trigger fires the hooks for one merged batch. duplicates holds the
// candidate indexes that were skipped, in ascending order.
func (h *hooks) trigger(batch *sources.Batch, duplicates []int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, r := range batch.Rejected {
		for _, hook := range h.onRejected {
			hook(r)
		}
	}

	d := 0
	for i, c := range batch.Candidates {
		if d < len(duplicates) && duplicates[d] == i {
			d++
			for _, hook := range h.onDuplicate {
				hook(c)
			}
			continue
		}
		for _, hook := range h.onAdded {
			hook(c)
		}
	}
}
