package models

import "time"

// TaskRecord is one submitted task for a user's day. Within a day a task is
// identified by (user_id, date_key, task_name); the ID is a ULID, so sorting
// by ID reproduces submission order.
type TaskRecord struct {
	ID            string
	UserID        string
	DateKey       string
	Name          string
	Priority      string
	Description   string
	EstimatedTime string
	Completed     bool
	CreatedAt     time.Time
}
