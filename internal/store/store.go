package store

import (
	"context"

	"github.com/tasktally/tasktally/internal/models"
)

// DataStore defines the interface for persistent storage of task records and
// summary messages. Both PostgresStore and SQLiteStore implement this
// interface.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Task operations
	InsertTasks(ctx context.Context, tasks []models.TaskRecord) error
	ListTasks(ctx context.Context, userID, dateKey string) ([]models.TaskRecord, error)
	// CompleteTasks sets completed on every open task matching
	// (userID, dateKey, name in names) and returns the number of rows that
	// changed; already-completed rows are not counted. An empty names slice
	// is a no-op.
	CompleteTasks(ctx context.Context, userID, dateKey string, names []string) (int64, error)

	// Summary message operations
	InsertSummary(ctx context.Context, summary *models.SummaryMessage) error
	// LatestSummary returns the most recently created summary row for
	// (userID, dateKey), or nil if the day was never announced.
	LatestSummary(ctx context.Context, userID, dateKey string) (*models.SummaryMessage, error)
}
