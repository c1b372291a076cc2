package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	err  error
	sent []string
}

func (f *fakeNotifier) PostText(_ context.Context, content string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, content)
	return nil
}

func TestParseTimes(t *testing.T) {
	times, err := ParseTimes([]string{"07:30", "21:00", " 9:05 "})
	require.NoError(t, err)
	require.Len(t, times, 3)
	assert.Equal(t, TimeOfDay{Hour: 7, Minute: 30}, times[0])
	assert.Equal(t, TimeOfDay{Hour: 21, Minute: 0}, times[1])
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 5}, times[2])
	assert.Equal(t, "07:30", times[0].String())
}

func TestParseTimesInvalid(t *testing.T) {
	for _, spec := range []string{"730", "24:00", "07:60", "ab:cd", "-1:30", ""} {
		_, err := ParseTimes([]string{spec})
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestNext(t *testing.T) {
	at := TimeOfDay{Hour: 21, Minute: 0}
	day := time.Date(2026, time.March, 21, 0, 0, 0, 0, time.UTC)

	// Before the slot: fires today.
	next := Next(day.Add(10*time.Hour), at)
	assert.Equal(t, time.Date(2026, time.March, 21, 21, 0, 0, 0, time.UTC), next)

	// Exactly at the slot: rolls to tomorrow, never fires twice.
	next = Next(time.Date(2026, time.March, 21, 21, 0, 0, 0, time.UTC), at)
	assert.Equal(t, time.Date(2026, time.March, 22, 21, 0, 0, 0, time.UTC), next)

	// After the slot: tomorrow.
	next = Next(day.Add(22*time.Hour), at)
	assert.Equal(t, time.Date(2026, time.March, 22, 21, 0, 0, 0, time.UTC), next)
}

func TestFireDelivers(t *testing.T) {
	n := &fakeNotifier{}
	s := New(n, zerolog.Nop(), "Reminder: Kindly update your everyday tasks by 10 pm!", nil)

	s.fire(context.Background())
	require.Len(t, n.sent, 1)
	assert.Equal(t, "Reminder: Kindly update your everyday tasks by 10 pm!", n.sent[0])
}

func TestFireDeliveryFailure(t *testing.T) {
	n := &fakeNotifier{err: errors.New("webhook down")}
	s := New(n, zerolog.Nop(), "reminder", nil)

	// Failure is swallowed after logging.
	s.fire(context.Background())
	assert.Empty(t, n.sent)
}

func TestRunStopsOnCancel(t *testing.T) {
	n := &fakeNotifier{}
	s := New(n, zerolog.Nop(), "reminder", []TimeOfDay{{Hour: 12, Minute: 0}})
	// Pin the clock far from the slot so the timer never fires during the test.
	s.now = func() time.Time {
		return time.Date(2026, time.March, 21, 0, 0, 0, 0, time.UTC)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.run(ctx, s.times[0])
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on context cancellation")
	}
	assert.Empty(t, n.sent)
}
