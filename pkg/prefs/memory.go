package prefs

import (
	"sync"

	"github.com/arthur-debert/coredroid/pkg/types"
)

// Memory is an in-process Preferences with no durability.
type Memory struct {
	name string

	mu   sync.RWMutex
	data map[string]string
}

var _ types.Preferences = (*Memory)(nil)

// NewMemory creates empty in-memory preferences
func NewMemory(name string) *Memory {
	return &Memory{
		name: name,
		data: make(map[string]string),
	}
}

func (m *Memory) Name() string {
	return m.name
}

func (m *Memory) GetString(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) All() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyMap(m.data), nil
}

func (m *Memory) Edit() types.Editor {
	return newEditor(m.commit)
}

func (m *Memory) commit(b *batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = b.apply(m.data)
	return nil
}
