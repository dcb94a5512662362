package move

import (
	"iter"
	"slices"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/movement/assert"
)

// DefaultMaxHistory is the amount of unacknowledged moves kept before the oldest are dropped.
const DefaultMaxHistory = 96

type historyEntry struct {
	move Snapshot
	sent bool
}

// History is the ordered buffer of saved moves kept by the predicting side. Moves are keyed by
// their sequence number and stay oldest-first: they are replayed in that order after a
// correction and pruned once the authoritative side acknowledges them.
type History struct {
	moves *orderedmap.OrderedMap[uint32, *historyEntry]
	max   int

	lastAcked uint32
	dropped   uint64
}

// NewHistory returns an empty history holding at most max moves. A max of zero or less uses
// DefaultMaxHistory.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &History{
		moves: orderedmap.NewOrderedMap[uint32, *historyEntry](),
		max:   max,
	}
}

// Add appends a move to the history. If the newest buffered move has not been sent yet and the
// two can be combined, the new move is merged into it instead and true is returned.
func (h *History) Add(m Snapshot, maxDelta float32) (merged bool) {
	seq := m.Base().Sequence
	if back := h.moves.Back(); back != nil {
		assert.IsTrue(seq > back.Key, "move %d added after move %d", seq, back.Key)

		if last := back.Value; !last.sent && last.move.CanCombineWith(m, maxDelta) {
			last.move.Merge(m)
			// The merged move now ends at the new sequence, re-key it so acknowledgements of
			// the later tick prune it.
			h.moves.Delete(back.Key)
			h.moves.Set(seq, last)
			return true
		}
	}

	h.moves.Set(seq, &historyEntry{move: m})
	for h.moves.Len() > h.max {
		h.moves.Delete(h.moves.Front().Key)
		h.dropped++
	}
	return false
}

// Unsent returns every move not marked as sent yet, oldest first. The moves stay unsent, and the
// newest of them may still be merged with later moves, until MarkSent is called.
func (h *History) Unsent() []Snapshot {
	var pending []Snapshot
	for el := h.moves.Back(); el != nil && !el.Value.sent; el = el.Prev() {
		pending = append(pending, el.Value.move)
	}
	slices.Reverse(pending)
	return pending
}

// MarkSent marks every unsent move up to and including the sequence given as sent. Sent moves
// are no longer merged with newer ones.
func (h *History) MarkSent(seq uint32) {
	for el := h.moves.Back(); el != nil && !el.Value.sent; el = el.Prev() {
		if el.Key <= seq {
			el.Value.sent = true
		}
	}
}

// Acknowledge prunes every move up to and including the sequence given. Acknowledgements older
// than the last one seen are ignored.
func (h *History) Acknowledge(seq uint32) {
	if seq < h.lastAcked {
		return
	}
	h.lastAcked = seq
	for el := h.moves.Front(); el != nil && el.Key <= seq; el = h.moves.Front() {
		h.moves.Delete(el.Key)
	}
}

// Unacknowledged iterates over the moves not yet acknowledged, oldest first.
func (h *History) Unacknowledged() iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		for el := h.moves.Front(); el != nil; el = el.Next() {
			if !yield(el.Value.move) {
				return
			}
		}
	}
}

// Get returns the move ending at the sequence given.
func (h *History) Get(seq uint32) (Snapshot, bool) {
	e, ok := h.moves.Get(seq)
	if !ok {
		return nil, false
	}
	return e.move, true
}

// Latest returns the newest buffered move.
func (h *History) Latest() (Snapshot, bool) {
	back := h.moves.Back()
	if back == nil {
		return nil, false
	}
	return back.Value.move, true
}

// LastAcknowledged returns the highest sequence acknowledged so far.
func (h *History) LastAcknowledged() uint32 {
	return h.lastAcked
}

// Dropped returns the amount of moves discarded because the history was full.
func (h *History) Dropped() uint64 {
	return h.dropped
}

// Len returns the amount of buffered moves.
func (h *History) Len() int {
	return h.moves.Len()
}

// Clear drops every buffered move.
func (h *History) Clear() {
	h.moves = orderedmap.NewOrderedMap[uint32, *historyEntry]()
}
