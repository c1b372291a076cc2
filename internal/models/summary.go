package models

import "time"

// SummaryMessage links a user's day to the channel message that announced
// that day's tasks. Written once after a successful post and read back when
// the message needs to be rewritten. Duplicate posts on the same day leave
// duplicate rows; lookups take the most recent.
type SummaryMessage struct {
	ID        string
	UserID    string
	DateKey   string
	MessageID string
	CreatedAt time.Time
}
