package domain

import "time"

// WorkLogEntry records actual work performed against a work item.
// Minutes is whole work minutes, truncated, pauses and breaks excluded.
type WorkLogEntry struct {
	ID        string
	ItemID    string
	StartedAt time.Time
	EndedAt   time.Time
	Minutes   int
	Note      string
	CreatedAt time.Time
}
