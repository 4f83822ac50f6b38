package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/bankchat/internal/domain"
	"github.com/iho/bankchat/internal/usecase"
)

// StubSnapshotStore is an in-memory SnapshotStore with overridable behavior.
type StubSnapshotStore struct {
	mu      sync.Mutex
	current *domain.Snapshot
	saves   int

	LoadFunc func(ctx context.Context) (*domain.Snapshot, error)
	SaveFunc func(ctx context.Context, snapshot *domain.Snapshot) error
}

func NewStubSnapshotStore(initial *domain.Snapshot) *StubSnapshotStore {
	return &StubSnapshotStore{current: initial}
}

func (m *StubSnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, nil
}

func (m *StubSnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = snapshot
	m.saves++
	return nil
}

// Last returns the most recently saved snapshot.
func (m *StubSnapshotStore) Last() *domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Saves returns how many snapshots were written.
func (m *StubSnapshotStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// StubNotifier collects notifications.
type StubNotifier struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func NewStubNotifier() *StubNotifier {
	return &StubNotifier{}
}

func (m *StubNotifier) Notify(ctx context.Context, n domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
}

// All returns every notification received so far.
func (m *StubNotifier) All() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// Last returns the latest notification, or the zero value.
func (m *StubNotifier) Last() domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.notifications) == 0 {
		return domain.Notification{}
	}
	return m.notifications[len(m.notifications)-1]
}

// StubIDGenerator returns sequential ids.
type StubIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (m *StubIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// StubIdempotencyStore is an in-memory IdempotencyStore.
type StubIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewStubIdempotencyStore() *StubIdempotencyStore {
	return &StubIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *StubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte(usecase.IdempotencyPlaceholder)
	}
	return false, nil, nil
}

func (m *StubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *StubIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Get returns the stored value for key.
func (m *StubIdempotencyStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}
