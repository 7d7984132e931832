package store

import (
	"context"
	"sync"
	"time"
)

// Memory is a map-backed Store for tests and local runs without MongoDB.
type Memory struct {
	mu   sync.RWMutex
	recs map[int]Record
}

func NewMemory() *Memory {
	return &Memory{recs: make(map[int]Record)}
}

func (m *Memory) Put(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.SchemaVersion == 0 {
		rec.SchemaVersion = SchemaVersion
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.recs[rec.ID] = rec
	return nil
}

func (m *Memory) Get(_ context.Context, id int) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}
