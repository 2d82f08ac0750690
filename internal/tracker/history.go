package tracker

import "slices"

// HistoryCapacity is the number of records kept in memory.
const HistoryCapacity = 100

// History keeps the most recent records. Once it is full, adding a
// record evicts the oldest one.
type History struct {
	capacity int
	records  []Record // oldest first
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistoryCapacity
	}
	return &History{
		capacity: capacity,
		records:  make([]Record, 0, capacity),
	}
}

func (h *History) Add(r Record) {
	h.records = append(h.records, r)
	if len(h.records) > h.capacity {
		h.records = append(h.records[:0], h.records[1:]...)
	}
}

// Records returns a copy of the history, newest first.
func (h *History) Records() []Record {
	records := slices.Clone(h.records)
	slices.Reverse(records)
	return records
}

func (h *History) Len() int {
	return len(h.records)
}

func (h *History) Clear() {
	h.records = h.records[:0]
}

// KindCounts counts the held records per kind.
func (h *History) KindCounts() map[Kind]int {
	counts := map[Kind]int{}
	for _, r := range h.records {
		counts[r.Kind]++
	}
	return counts
}
