package order

import (
	"sort"
	"time"
)

// TimelineEntry is one row of the customer-facing order timeline.
type TimelineEntry struct {
	Status    Status    `json:"status"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
	Location  string    `json:"location,omitempty"`
}

// Timeline derives the customer-facing timeline from the order's status
// history. It is a pure projection: the order is never mutated.
func Timeline(o *Order) []TimelineEntry {
	return TimelineFromHistory(o.History())
}

// TimelineFromHistory renders history entries as timeline rows sorted
// ascending by timestamp. Entries from rows written before the timestamp
// clamp existed may be out of order, so the sort is always applied.
func TimelineFromHistory(history []HistoryEntry) []TimelineEntry {
	entries := make([]TimelineEntry, len(history))
	for i, h := range history {
		entries[i] = TimelineEntry{
			Status:    h.Status,
			Label:     h.Status.Label(),
			Timestamp: h.Timestamp,
			Notes:     h.Notes,
			Location:  h.Location,
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries
}
