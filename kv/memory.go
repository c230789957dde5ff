package kv

import (
	"sync"
	"time"
)

// Memory is an in-process KeyValueStore for tests and local runs. Expiry is
// checked lazily on access.
type Memory struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	nowFunc func() time.Time
}

type memoryRecord struct {
	value     string
	expiresAt time.Time
}

var _ KeyValueStore = (*Memory)(nil)

// MemoryOption modifies a Memory instance.
type MemoryOption func(*Memory)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.nowFunc = now
	}
}

func NewMemory(options ...MemoryOption) *Memory {
	m := &Memory{
		records: make(map[string]memoryRecord),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Memory) Set(key, value string, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := memoryRecord{value: value}
	if exp > 0 {
		record.expiresAt = m.nowFunc().Add(exp)
	}
	m.records[key] = record
	return nil
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	record, ok := m.records[key]
	m.mu.RUnlock()

	if !ok || m.expired(record) {
		return "", ErrNotFound
	}
	return record.value, nil
}

func (m *Memory) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[key]
	if !ok || m.expired(record) {
		delete(m.records, key)
		return ErrNotFound
	}
	delete(m.records, key)
	return nil
}

func (m *Memory) expired(record memoryRecord) bool {
	return !record.expiresAt.IsZero() && m.nowFunc().After(record.expiresAt)
}
