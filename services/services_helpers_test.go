package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"dinnermatch_server/testutil"
)

const (
	matchTable = "tblMatch"
	quizTable  = "tblQuiz"
	eventTable = "tblEvents"
)

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingNotifier remembers every matched notification
type recordingNotifier struct {
	mu    sync.Mutex
	dates []string
}

func (n *recordingNotifier) NotifyMatched(date string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dates = append(n.dates, date)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.dates)
}

// memoryIndex is an in-process DateIndex
type memoryIndex struct {
	mu      sync.Mutex
	entries map[string]string
	err     error
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{entries: map[string]string{}}
}

func (m *memoryIndex) Lookup(ctx context.Context, kind, date string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.entries[indexKey(kind, date)], nil
}

func (m *memoryIndex) Remember(ctx context.Context, kind, date, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries[indexKey(kind, date)] = recordID
	return nil
}

func (m *memoryIndex) RememberIfAbsent(ctx context.Context, kind, date, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	key := indexKey(kind, date)
	if _, ok := m.entries[key]; !ok {
		m.entries[key] = recordID
	}
	return nil
}

type testStack struct {
	fake    *testutil.FakeFeishu
	clock   *fakeClock
	tokens  *TokenService
	bitable *BitableService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	fake := testutil.NewFakeFeishu(t)
	clock := newFakeClock()
	client := &http.Client{Timeout: 5 * time.Second}

	tokens := NewTokenService(fake.URL(), testutil.AppID, testutil.AppSecret, client)
	tokens.Now = clock.Now
	return &testStack{
		fake:    fake,
		clock:   clock,
		tokens:  tokens,
		bitable: NewBitableService(fake.URL(), testutil.AppToken, tokens, client),
	}
}
