// Package scheduler fires the fixed daily reminder notifications. Each
// configured time of day runs on its own goroutine with a timer to the next
// occurrence; delivery failures are logged and never affect anything else.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasktally/tasktally/internal/metrics"
)

// fireTimeout bounds one reminder delivery.
const fireTimeout = 10 * time.Second

// Notifier delivers a reminder to the channel.
type Notifier interface {
	PostText(ctx context.Context, content string) error
}

// TimeOfDay is a wall-clock time in the local timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimes parses "HH:MM" entries.
func ParseTimes(specs []string) ([]TimeOfDay, error) {
	times := make([]TimeOfDay, 0, len(specs))
	for _, spec := range specs {
		hh, mm, ok := strings.Cut(strings.TrimSpace(spec), ":")
		if !ok {
			return nil, fmt.Errorf("invalid reminder time %q", spec)
		}
		hour, err := strconv.Atoi(hh)
		if err != nil || hour < 0 || hour > 23 {
			return nil, fmt.Errorf("invalid reminder time %q", spec)
		}
		minute, err := strconv.Atoi(mm)
		if err != nil || minute < 0 || minute > 59 {
			return nil, fmt.Errorf("invalid reminder time %q", spec)
		}
		times = append(times, TimeOfDay{Hour: hour, Minute: minute})
	}
	return times, nil
}

// Next returns the next occurrence of t strictly after now.
func Next(now time.Time, t TimeOfDay) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Scheduler sends a fixed reminder text at fixed daily times.
type Scheduler struct {
	notifier Notifier
	logger   zerolog.Logger
	text     string
	times    []TimeOfDay
	now      func() time.Time
}

// New creates a reminder scheduler.
func New(notifier Notifier, logger zerolog.Logger, text string, times []TimeOfDay) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		logger:   logger,
		text:     text,
		times:    times,
		now:      time.Now,
	}
}

// Start launches one goroutine per configured time. They stop when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for _, t := range s.times {
		s.logger.Info().Str("at", t.String()).Msg("reminder scheduled")
		go s.run(ctx, t)
	}
}

func (s *Scheduler) run(ctx context.Context, t TimeOfDay) {
	for {
		timer := time.NewTimer(time.Until(Next(s.now(), t)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	fctx, cancel := context.WithTimeout(ctx, fireTimeout)
	defer cancel()

	if err := s.notifier.PostText(fctx, s.text); err != nil {
		metrics.RemindersSent.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("reminder delivery failed")
		return
	}
	metrics.RemindersSent.WithLabelValues("ok").Inc()
}
