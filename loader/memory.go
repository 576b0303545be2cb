package loader

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	source  string
	version time.Time
}

// Memory serves templates kept in a map. It is safe for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	templates map[string]memoryEntry
	seq       int64
}

// NewMemory creates a loader holding templates, keyed by name.
func NewMemory(templates map[string]string) *Memory {
	m := &Memory{templates: make(map[string]memoryEntry, len(templates))}
	for name, source := range templates {
		m.Set(name, source)
	}
	return m
}

// Set stores source under name with a new version.
func (m *Memory) Set(name, source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	// versions only need to be distinct
	m.templates[name] = memoryEntry{source: source, version: time.Unix(0, m.seq)}
}

// Delete removes the template stored under name.
func (m *Memory) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.templates, name)
}

func (m *Memory) Load(_ context.Context, name string) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.templates[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return &Template{
		Name:    name,
		Origin:  "memory:" + name,
		Source:  e.source,
		Version: e.version,
	}, nil
}

func (m *Memory) Version(_ context.Context, name string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.templates[name]
	if !ok {
		return time.Time{}, &NotFoundError{Name: name}
	}
	return e.version, nil
}
