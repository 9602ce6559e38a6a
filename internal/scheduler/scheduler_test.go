package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reminder struct {
	profile int64
	count   int
}

type fakeNotifier struct {
	sent []reminder
	fail map[int64]bool
}

func (n *fakeNotifier) SendReminders(profileID int64, count int) error {
	if n.fail[profileID] {
		return errors.New("blocked by user")
	}
	n.sent = append(n.sent, reminder{profileID, count})
	return nil
}

type fakeSource struct {
	counts map[int64]int
	err    error
}

func (s fakeSource) DueCounts() (map[int64]int, error) { return s.counts, s.err }

func (s fakeSource) DueCount(id int64) (int, error) { return s.counts[id], s.err }

func newTestScheduler(n Notifier, src Source, start, end, hour int) *Scheduler {
	s := New(n, src, Config{StartHour: start, EndHour: end, Location: time.UTC}, nil)
	s.now = func() time.Time { return time.Date(2025, 5, 5, hour, 15, 0, 0, time.UTC) }
	return s
}

func TestCheckSendsReminders(t *testing.T) {
	n := &fakeNotifier{fail: map[int64]bool{7: true}}
	src := fakeSource{counts: map[int64]int{42: 3, 7: 1, 9: 0, 1: 12}}

	newTestScheduler(n, src, 8, 22, 10).checkAndSendReminders()
	assert.Equal(t, []reminder{{1, 12}, {42, 3}}, n.sent)
}

func TestCheckOutsideHours(t *testing.T) {
	n := &fakeNotifier{}
	src := fakeSource{counts: map[int64]int{1: 5}}

	newTestScheduler(n, src, 8, 22, 23).checkAndSendReminders()
	assert.Empty(t, n.sent)

	newTestScheduler(n, src, 8, 22, 22).checkAndSendReminders()
	assert.Len(t, n.sent, 1)
}

func TestCheckSourceError(t *testing.T) {
	n := &fakeNotifier{}
	newTestScheduler(n, fakeSource{err: errors.New("db down")}, 0, 23, 12).checkAndSendReminders()
	assert.Empty(t, n.sent)
}

func TestInNotificationHours(t *testing.T) {
	s := newTestScheduler(&fakeNotifier{}, fakeSource{}, 8, 22, 0)
	assert.True(t, s.InNotificationHours(8))
	assert.True(t, s.InNotificationHours(22))
	assert.False(t, s.InNotificationHours(7))

	wrapped := newTestScheduler(&fakeNotifier{}, fakeSource{}, 20, 2, 0)
	assert.True(t, wrapped.InNotificationHours(23))
	assert.True(t, wrapped.InNotificationHours(1))
	assert.False(t, wrapped.InNotificationHours(12))
}

func TestRunManualCheck(t *testing.T) {
	n := &fakeNotifier{}
	s := newTestScheduler(n, fakeSource{counts: map[int64]int{5: 2}}, 8, 9, 3)

	require.NoError(t, s.RunManualCheck(5))
	require.NoError(t, s.RunManualCheck(6))
	assert.Equal(t, []reminder{{5, 2}}, n.sent)

	failing := newTestScheduler(n, fakeSource{err: errors.New("boom")}, 8, 9, 3)
	assert.Error(t, failing.RunManualCheck(5))
}

func TestStartStop(t *testing.T) {
	s := New(&fakeNotifier{}, fakeSource{}, DefaultConfig(), nil)
	require.NoError(t, s.Start())
	s.Stop()
}
