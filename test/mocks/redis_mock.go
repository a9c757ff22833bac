package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockInboxClient provides a minimal mock for the Redis list operations the
// notification dispatcher uses. It is a simplified mock that sufficiently
// implements the methods we need for testing.
type MockInboxClient struct {
	mu    sync.RWMutex
	lists map[string][]string
	ttls  map[string]time.Duration

	// Error injection
	LPushError  error
	LTrimError  error
	ExpireError error
}

// NewMockInboxClient creates a new mock inbox client.
func NewMockInboxClient() *MockInboxClient {
	return &MockInboxClient{
		lists: make(map[string][]string),
		ttls:  make(map[string]time.Duration),
	}
}

// List returns the stored entries for a key, newest first.
func (m *MockInboxClient) List(key string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.lists[key]))
	copy(out, m.lists[key])
	return out
}

// TTL returns the last expiration set for a key.
func (m *MockInboxClient) TTL(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ttls[key]
}

func (m *MockInboxClient) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)

	if m.LPushError != nil {
		cmd.SetErr(m.LPushError)
		return cmd
	}

	for _, v := range values {
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case []byte:
			s = string(val)
		}
		m.lists[key] = append([]string{s}, m.lists[key]...)
	}

	cmd.SetVal(int64(len(m.lists[key])))
	return cmd
}

func (m *MockInboxClient) LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewStatusCmd(ctx)

	if m.LTrimError != nil {
		cmd.SetErr(m.LTrimError)
		return cmd
	}

	list := m.lists[key]
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start <= stop {
		m.lists[key] = list[start : stop+1]
	} else {
		m.lists[key] = nil
	}

	cmd.SetVal("OK")
	return cmd
}

func (m *MockInboxClient) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx)

	if m.ExpireError != nil {
		cmd.SetErr(m.ExpireError)
		return cmd
	}

	m.ttls[key] = expiration
	cmd.SetVal(true)
	return cmd
}

// Reset clears all stored data.
func (m *MockInboxClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lists = make(map[string][]string)
	m.ttls = make(map[string]time.Duration)
	m.LPushError = nil
	m.LTrimError = nil
	m.ExpireError = nil
}
