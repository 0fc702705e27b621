package storage

import (
	"context"
	"sync"
)

// Memory — драйвер в памяти процесса с необязательной квотой в байтах.
// Квота считается как сумма длин ключей и значений.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
	size  int
	quota int
}

// NewMemory создаёт драйвер в памяти. quota <= 0 — без ограничений.
func NewMemory(quota int) *Memory {
	return &Memory{items: make(map[string]string), quota: quota}
}

func (m *Memory) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	newSize := m.size + len(value)
	if old, ok := m.items[key]; ok {
		newSize -= len(old)
	} else {
		newSize += len(key)
	}
	if m.quota > 0 && newSize > m.quota {
		return ErrQuotaExceeded
	}
	m.items[key] = value
	m.size = newSize
	return nil
}

func (m *Memory) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.items[key]; ok {
		m.size -= len(key) + len(old)
		delete(m.items, key)
	}
	return nil
}

// Size возвращает занятый объём в байтах.
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}
