package docstore

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// Patch — частичное обновление записи.
type Patch map[string]any

// Collection — типизированное представление одной коллекции.
// T — структура с встроенной Meta и json-тегами полей.
type Collection[T any] struct {
	store *Store
	name  string
}

// NewCollection создаёт типизированную коллекцию поверх store.
func NewCollection[T any](store *Store, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

// Name возвращает имя коллекции.
func (c *Collection[T]) Name() string { return c.name }

// Decode превращает Record в T.
func Decode[T any](r Record) (*T, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Collection[T]) Create(ctx context.Context, v T) (*T, error) {
	r, err := c.store.Create(ctx, c.name, v)
	if err != nil {
		return nil, err
	}
	return Decode[T](r)
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	r, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	return Decode[T](r)
}

func (c *Collection[T]) Update(ctx context.Context, id string, patch Patch) (*T, error) {
	r, err := c.store.Update(ctx, c.name, id, map[string]any(patch))
	if err != nil {
		return nil, err
	}
	return Decode[T](r)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) bool {
	return c.store.Delete(ctx, c.name, id)
}

// List возвращает все записи, которые удалось разобрать.
// Неразборчивые записи пропускаются с предупреждением.
func (c *Collection[T]) List(ctx context.Context) []T {
	return c.Filter(ctx, nil)
}

// Filter возвращает записи, для которых keep вернул true (nil — все).
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) []T {
	records := c.store.List(ctx, c.name)
	out := make([]T, 0, len(records))
	for _, r := range records {
		v, err := Decode[T](r)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"collection": c.name,
				"id":         r.ID(),
			}).Warn("Пропускаем неразборчивую запись")
			continue
		}
		if keep == nil || keep(*v) {
			out = append(out, *v)
		}
	}
	return out
}
