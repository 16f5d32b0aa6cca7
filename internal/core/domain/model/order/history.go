package order

import "time"

// HistoryEntry is one element of the append-only status audit trail.
// Entries are immutable once appended; the sequence always contains at least
// the initial "pending" entry and its timestamps are non-decreasing.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
	Location  string    `json:"location,omitempty"`
}
