package cache

import (
	"context"
	"sync"
	"time"
)

// MockClient is an in-memory Cache for tests and local runs without Redis.
// TTLs are recorded but never expire entries.
type MockClient struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func NewMockClient() *MockClient {
	return &MockClient{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockClient) Close() error {
	return nil
}

func (m *MockClient) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	val, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return append([]byte(nil), val...), nil
}

func (m *MockClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	m.ttls[key] = ttl
	return nil
}

func (m *MockClient) Purge(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.data)
	m.data = make(map[string][]byte)
	m.ttls = make(map[string]time.Duration)
	return n, nil
}

// Len returns the number of cached keys
func (m *MockClient) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// TTL returns the ttl recorded for key
func (m *MockClient) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}
