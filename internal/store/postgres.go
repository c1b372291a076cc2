package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasktally/tasktally/internal/models"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool}

	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date_key TEXT NOT NULL,
		task_name TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		estimated_time TEXT NOT NULL DEFAULT '',
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS summary_messages (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date_key TEXT NOT NULL,
		message_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user_day ON tasks(user_id, date_key);
	CREATE INDEX IF NOT EXISTS idx_summary_user_day ON summary_messages(user_id, date_key);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// InsertTasks stores a batch of task records in one transaction.
func (s *PostgresStore) InsertTasks(ctx context.Context, tasks []models.TaskRecord) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, t := range tasks {
		_, err := tx.Exec(ctx, `
			INSERT INTO tasks (id, user_id, date_key, task_name, priority, description, estimated_time, completed, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, t.ID, t.UserID, t.DateKey, t.Name, t.Priority, t.Description, t.EstimatedTime, t.Completed, t.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListTasks retrieves a user's tasks for a day in submission order.
func (s *PostgresStore) ListTasks(ctx context.Context, userID, dateKey string) ([]models.TaskRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, date_key, task_name, priority, description, estimated_time, completed, created_at
		FROM tasks
		WHERE user_id = $1 AND date_key = $2
		ORDER BY id ASC
	`, userID, dateKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.TaskRecord
	for rows.Next() {
		var t models.TaskRecord
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.DateKey,
			&t.Name,
			&t.Priority,
			&t.Description,
			&t.EstimatedTime,
			&t.Completed,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// CompleteTasks marks the named tasks complete for (userID, dateKey) and
// returns how many rows actually changed. Already-completed rows are
// excluded so repeated selections do not inflate the count.
func (s *PostgresStore) CompleteTasks(ctx context.Context, userID, dateKey string, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE tasks SET completed = TRUE
		WHERE user_id = $1 AND date_key = $2 AND NOT completed AND task_name = ANY($3)
	`, userID, dateKey, names)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InsertSummary records the channel message announcing a user's day.
func (s *PostgresStore) InsertSummary(ctx context.Context, summary *models.SummaryMessage) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO summary_messages (id, user_id, date_key, message_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, summary.ID, summary.UserID, summary.DateKey, summary.MessageID, summary.CreatedAt)
	return err
}

// LatestSummary retrieves the most recent summary row for (userID, dateKey).
func (s *PostgresStore) LatestSummary(ctx context.Context, userID, dateKey string) (*models.SummaryMessage, error) {
	summary := &models.SummaryMessage{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, date_key, message_id, created_at
		FROM summary_messages
		WHERE user_id = $1 AND date_key = $2
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return summary, nil
}
