package tasks

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/tasktally/tasktally/internal/discord"
	"github.com/tasktally/tasktally/internal/metrics"
	"github.com/tasktally/tasktally/internal/models"
)

// ErrNoSummary means no summary message was ever posted for the user's day,
// either because nothing was submitted or because the announcement failed.
var ErrNoSummary = errors.New("no task summary posted for today")

// MaxSelectOptions is the Discord ceiling on string-select entries.
const MaxSelectOptions = 25

// Store is the persistence surface the service needs.
type Store interface {
	InsertTasks(ctx context.Context, tasks []models.TaskRecord) error
	ListTasks(ctx context.Context, userID, dateKey string) ([]models.TaskRecord, error)
	CompleteTasks(ctx context.Context, userID, dateKey string, names []string) (int64, error)
	InsertSummary(ctx context.Context, summary *models.SummaryMessage) error
	LatestSummary(ctx context.Context, userID, dateKey string) (*models.SummaryMessage, error)
}

// Poster posts and edits summary messages in the channel.
type Poster interface {
	PostEmbed(ctx context.Context, embed discord.Embed) (string, error)
	EditMessage(ctx context.Context, messageID string, embed discord.Embed) error
}

// Entry is one task as submitted through the form.
type Entry struct {
	Name          string
	Priority      string
	Description   string
	EstimatedTime string
}

// Service implements submission intake, the channel announcement, the
// completion selector and the completion updater.
type Service struct {
	store  Store
	hook   Poster
	logger zerolog.Logger
	now    func() time.Time

	mu       sync.Mutex
	entropy  *ulid.MonotonicEntropy
	dayLocks map[string]*sync.Mutex
}

// NewService creates the task service.
func NewService(store Store, hook Poster, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		hook:     hook,
		logger:   logger,
		now:      time.Now,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		dayLocks: make(map[string]*sync.Mutex),
	}
}

// newID returns a ULID for the given instant. Monotonic entropy keeps IDs
// within one batch strictly increasing, so ID order is submission order.
func (s *Service) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// dayLock returns the mutex serializing mutations of one (user, day). Two
// concurrent completion updates for the same day would otherwise race on the
// read-recompute-rewrite sequence and silently drop one of them.
func (s *Service) dayLock(userID, dateKey string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID + "|" + dateKey
	lock, ok := s.dayLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.dayLocks[key] = lock
	}
	return lock
}

// Submit persists one record per entry and announces the batch in the
// channel. Announcement failures are logged, not returned: the records are
// already stored, and the caller's submission has succeeded.
func (s *Service) Submit(ctx context.Context, userID string, entries []Entry) error {
	now := s.now()
	dateKey := DateKey(now)

	records := make([]models.TaskRecord, len(entries))
	for i, e := range entries {
		records[i] = models.TaskRecord{
			ID:            s.newID(now),
			UserID:        userID,
			DateKey:       dateKey,
			Name:          e.Name,
			Priority:      e.Priority,
			Description:   e.Description,
			EstimatedTime: e.EstimatedTime,
			Completed:     false,
			CreatedAt:     now,
		}
	}

	if err := s.store.InsertTasks(ctx, records); err != nil {
		return fmt.Errorf("store tasks: %w", err)
	}
	metrics.TasksSubmitted.Add(float64(len(records)))

	s.announce(ctx, userID, dateKey, records)
	return nil
}

// announce posts the summary embed and records the resulting message ID.
func (s *Service) announce(ctx context.Context, userID, dateKey string, records []models.TaskRecord) {
	messageID, err := s.hook.PostEmbed(ctx, summaryEmbed(userID, dateKey, records))
	if err != nil {
		metrics.SummariesPosted.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("date_key", dateKey).
			Msg("failed to post task summary")
		return
	}

	summary := &models.SummaryMessage{
		UserID:    userID,
		DateKey:   dateKey,
		MessageID: messageID,
		CreatedAt: s.now(),
	}
	if err := s.store.InsertSummary(ctx, summary); err != nil {
		metrics.SummariesPosted.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("message_id", messageID).
			Msg("failed to record summary message")
		return
	}
	metrics.SummariesPosted.WithLabelValues("ok").Inc()
}

// CompletionOptions returns the user's still-open tasks for today as select
// menu options, capped at the Discord limit.
func (s *Service) CompletionOptions(ctx context.Context, userID string) ([]discord.SelectOption, error) {
	dateKey := DateKey(s.now())

	records, err := s.store.ListTasks(ctx, userID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var options []discord.SelectOption
	for i, t := range records {
		if t.Completed {
			continue
		}
		options = append(options, discord.SelectOption{
			Label: fmt.Sprintf("Task %d: %s", i+1, t.Name),
			Value: fmt.Sprintf("%d: %s", i+1, t.Name),
		})
		if len(options) == MaxSelectOptions {
			break
		}
	}
	return options, nil
}

// SelectedNames extracts task names from select values of the form
// "index: name". Only the first ": " is treated as the delimiter, so names
// containing colons come back intact. Malformed values are skipped.
func SelectedNames(values []string) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		if _, name, ok := strings.Cut(v, ": "); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Complete marks the selected tasks done and rewrites the day's summary
// message with updated checkmarks and completion percentage.
//
// The store mutation deliberately happens before the summary lookup: if the
// posted message has since been deleted, the completion state still lands.
// The whole sequence holds the per-(user, day) lock so concurrent selections
// cannot interleave their read-recompute-rewrite steps.
func (s *Service) Complete(ctx context.Context, userID string, values []string) error {
	dateKey := DateKey(s.now())

	lock := s.dayLock(userID, dateKey)
	lock.Lock()
	defer lock.Unlock()

	names := SelectedNames(values)
	affected, err := s.store.CompleteTasks(ctx, userID, dateKey, names)
	if err != nil {
		return fmt.Errorf("update tasks: %w", err)
	}
	metrics.TasksCompleted.Add(float64(affected))

	summary, err := s.store.LatestSummary(ctx, userID, dateKey)
	if err != nil {
		return fmt.Errorf("resolve summary: %w", err)
	}
	if summary == nil {
		return ErrNoSummary
	}

	records, err := s.store.ListTasks(ctx, userID, dateKey)
	if err != nil {
		return fmt.Errorf("reload tasks: %w", err)
	}

	if err := s.hook.EditMessage(ctx, summary.MessageID, progressEmbed(userID, dateKey, records)); err != nil {
		metrics.SummaryEdits.WithLabelValues("error").Inc()
		return err
	}
	metrics.SummaryEdits.WithLabelValues("ok").Inc()
	return nil
}
