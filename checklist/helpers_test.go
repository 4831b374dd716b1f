package checklist

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amonks/shiftbook/businessday"
	"github.com/amonks/shiftbook/internal/kv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errInjected = errors.New("injected write failure")

// recordingStore wraps a store, counting writes per key and optionally
// failing writes to one key.
type recordingStore struct {
	kv.Store

	mu     sync.Mutex
	writes map[string]int
	failOn string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: kv.NewMemoryStore(), writes: make(map[string]int)}
}

func (s *recordingStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && key == s.failOn {
		return errInjected
	}
	s.writes[key]++
	return s.Store.Set(key, value)
}

func (s *recordingStore) writeCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[key]
}

// slowStore delays every read, widening the gap between the load and the
// save of an update.
type slowStore struct {
	kv.Store
	delay time.Duration
}

func (s slowStore) Get(key string) ([]byte, bool, error) {
	time.Sleep(s.delay)
	return s.Store.Get(key)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func at(day string, hour int) time.Time {
	t, err := time.Parse(businessday.Layout, day)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

func newTestBook(t *testing.T, now time.Time) (*Book, *recordingStore, *testClock) {
	t.Helper()
	store := newRecordingStore()
	clock := &testClock{now: now}
	book := New(store, Options{
		Policy: businessday.DefaultPolicy(),
		Now:    clock.Now,
	})
	return book, store, clock
}

func newObservedBook(t *testing.T, now time.Time) (*Book, *recordingStore, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	store := newRecordingStore()
	book := New(store, Options{
		Policy: businessday.DefaultPolicy(),
		Now:    func() time.Time { return now },
		Logger: zap.New(core),
	})
	return book, store, logs
}

func texts(items []TaskItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Text)
	}
	return out
}

func containsText(items []TaskItem, text string) bool {
	for _, item := range items {
		if item.Text == text {
			return true
		}
	}
	return false
}

func assertAllOpen(t *testing.T, record DayRecord) {
	t.Helper()
	for _, shift := range Shifts() {
		for i, item := range record.Tasks.List(shift) {
			if item.Done {
				t.Fatalf("expected %s task %d (%q) to be open", shift, i, item.Text)
			}
		}
	}
}
