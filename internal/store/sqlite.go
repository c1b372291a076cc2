package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tasktally/tasktally/internal/models"
)

// SQLiteStore handles SQLite database operations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/tasktally.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/tasktally.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date_key TEXT NOT NULL,
		task_name TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		estimated_time TEXT NOT NULL DEFAULT '',
		completed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS summary_messages (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date_key TEXT NOT NULL,
		message_id TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user_day ON tasks(user_id, date_key);
	CREATE INDEX IF NOT EXISTS idx_summary_user_day ON summary_messages(user_id, date_key);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InsertTasks stores a batch of task records in one transaction.
func (s *SQLiteStore) InsertTasks(ctx context.Context, tasks []models.TaskRecord) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, user_id, date_key, task_name, priority, description, estimated_time, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tasks {
		completed := 0
		if t.Completed {
			completed = 1
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.UserID, t.DateKey, t.Name, t.Priority, t.Description, t.EstimatedTime, completed, t.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListTasks retrieves a user's tasks for a day in submission order.
func (s *SQLiteStore) ListTasks(ctx context.Context, userID, dateKey string) ([]models.TaskRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date_key, task_name, priority, description, estimated_time, completed, created_at
		FROM tasks
		WHERE user_id = ? AND date_key = ?
		ORDER BY id ASC
	`, userID, dateKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.TaskRecord
	for rows.Next() {
		var t models.TaskRecord
		var completed int
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.DateKey,
			&t.Name,
			&t.Priority,
			&t.Description,
			&t.EstimatedTime,
			&completed,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		t.Completed = completed == 1
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// CompleteTasks marks the named tasks complete for (userID, dateKey) and
// returns how many rows actually changed. Already-completed rows are
// excluded so repeated selections do not inflate the count.
func (s *SQLiteStore) CompleteTasks(ctx context.Context, userID, dateKey string, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]interface{}, 0, len(names)+2)
	args = append(args, userID, dateKey)
	for _, name := range names {
		args = append(args, name)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET completed = 1
		WHERE user_id = ? AND date_key = ? AND completed = 0 AND task_name IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertSummary records the channel message announcing a user's day.
func (s *SQLiteStore) InsertSummary(ctx context.Context, summary *models.SummaryMessage) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summary_messages (id, user_id, date_key, message_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, summary.ID, summary.UserID, summary.DateKey, summary.MessageID, summary.CreatedAt)
	return err
}

// LatestSummary retrieves the most recent summary row for (userID, dateKey).
func (s *SQLiteStore) LatestSummary(ctx context.Context, userID, dateKey string) (*models.SummaryMessage, error) {
	summary := &models.SummaryMessage{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, date_key, message_id, created_at
		FROM summary_messages
		WHERE user_id = ? AND date_key = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID, dateKey).Scan(
		&summary.ID,
		&summary.UserID,
		&summary.DateKey,
		&summary.MessageID,
		&summary.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return summary, nil
}
