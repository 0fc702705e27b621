package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// File хранит все ключи в одном JSON-объекте на диске.
// Каждая запись пишет снимок во временный файл рядом, делает fsync
// и переименовывает его поверх основного, так что на диске всегда
// лежит либо старый, либо новый снимок целиком.
type File struct {
	mu     sync.RWMutex
	items  map[string]string
	path   string
	closed bool
}

// OpenFile открывает (или создаёт) файл хранилища.
// Нечитаемый файл не мешает старту: он откладывается в сторону
// с суффиксом .corrupt-<время>, а хранилище начинает с пустого снимка.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db := &File{path: path, items: make(map[string]string)}
	if err := db.load(); err != nil {
		return nil, err
	}
	return db, nil
}

// Close закрывает хранилище. Повторный вызов безопасен.
func (db *File) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.closed = true
	return nil
}

func (db *File) load() error {
	raw, err := os.ReadFile(db.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(raw) == 0) {
		return db.flushLocked()
	}
	if err != nil {
		return err
	}
	var items map[string]string
	if err := json.Unmarshal(raw, &items); err != nil {
		return db.quarantine(err)
	}
	if items != nil {
		db.items = items
	}
	return nil
}

// quarantine переносит повреждённый файл в сторону и начинает с пустого снимка.
func (db *File) quarantine(cause error) error {
	aside := db.path + ".corrupt-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := os.Rename(db.path, aside); err != nil {
		return err
	}
	log.WithError(cause).WithFields(log.Fields{
		"path":  db.path,
		"aside": aside,
	}).Error("Файл хранилища повреждён, начинаем с пустого")
	return db.flushLocked()
}

func (db *File) flushLocked() error {
	if db.closed {
		return ErrClosed
	}
	tmp, err := os.CreateTemp(filepath.Dir(db.path), filepath.Base(db.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(db.items); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), db.path)
}

// withWrite применяет fn к карте и сбрасывает её на диск.
// Если запись не удалась, fn должна вернуть функцию отката.
func (db *File) withWrite(ctx context.Context, fn func(items map[string]string) (undo func())) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if db.closed {
		return ErrClosed
	}
	undo := fn(db.items)
	if err := db.flushLocked(); err != nil {
		undo()
		return err
	}
	return nil
}

func (db *File) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return "", false, ErrClosed
	}
	v, ok := db.items[key]
	return v, ok, nil
}

func (db *File) SetItem(ctx context.Context, key, value string) error {
	return db.withWrite(ctx, func(items map[string]string) func() {
		old, had := items[key]
		items[key] = value
		return func() {
			if had {
				items[key] = old
			} else {
				delete(items, key)
			}
		}
	})
}

func (db *File) RemoveItem(ctx context.Context, key string) error {
	return db.withWrite(ctx, func(items map[string]string) func() {
		old, had := items[key]
		delete(items, key)
		return func() {
			if had {
				items[key] = old
			}
		}
	})
}
