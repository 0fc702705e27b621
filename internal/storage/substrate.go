// Package storage — слой «ключ-значение», поверх которого docstore
// хранит коллекции. Каждая коллекция лежит под одним ключом как одна
// JSON-строка, поэтому от драйвера нужны только три операции.
//
// Драйверы: memory (с квотой, как localStorage), file (один JSON-файл),
// postgres (таблица kv_items) и mongo (коллекция kv_items).
package storage

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded — запись не помещается в квоту хранилища
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
	// ErrClosed — хранилище уже закрыто
	ErrClosed = errors.New("storage: closed")
)

// Substrate — минимальный контракт хранилища строк по ключу.
//
// GetItem возвращает ok=false, если ключа нет; это не ошибка.
// SetItem и RemoveItem либо полностью применяются, либо возвращают ошибку.
type Substrate interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Pinger реализуют драйверы, у которых есть удалённая сторона.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping проверяет доступность s. Локальные драйверы всегда доступны.
func Ping(ctx context.Context, s Substrate) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
