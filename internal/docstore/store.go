// Package docstore эмулирует документное хранилище поверх слоя «ключ-значение».
//
// Каждая коллекция — это JSON-массив записей под ключом <namespace>_<коллекция>.
// Любая операция читает массив целиком, меняет его и записывает обратно.
// Внутри процесса операции над одной коллекцией сериализуются мьютексом;
// между процессами действует «последняя запись побеждает».
//
// Ошибки записи (квота, недоступное хранилище) логируются и возвращаются
// как ErrNotPersisted. Ошибки чтения логируются и дают пустой результат.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/metrics"
	"serotonyl.ru/ecotrack/internal/storage"
)

var (
	// ErrNotFound — записи с таким id в коллекции нет
	ErrNotFound = errors.New("docstore: запись не найдена")
	// ErrNotPersisted — изменение не удалось сохранить, коллекция не изменилась
	ErrNotPersisted = errors.New("docstore: изменение не сохранено")
	// ErrCorrupted — в хранилище лежит не JSON-массив
	ErrCorrupted = errors.New("docstore: коллекция повреждена")
)

// Store — хранилище коллекций. Создаётся явно и передаётся в сервисы.
type Store struct {
	kv        storage.Substrate
	namespace string
	now       func() time.Time
	newID     func(time.Time) string

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	logger *log.Entry
}

// Option настраивает Store.
type Option func(*Store)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов (для тестов).
func WithIDGenerator(fn func(time.Time) string) Option {
	return func(s *Store) { s.newID = fn }
}

// New создаёт хранилище и засевает отсутствующие коллекции пустым массивом.
func New(ctx context.Context, kv storage.Substrate, namespace string, opts ...Option) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	s := &Store{
		kv:        kv,
		namespace: namespace,
		now:       time.Now,
		newID:     NewID,
		locks:     make(map[string]*sync.Mutex),
		logger:    log.WithFields(log.Fields{"component": "docstore", "namespace": namespace}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed(ctx)
	return s
}

func (s *Store) seed(ctx context.Context) {
	for _, name := range Collections {
		_, ok, err := s.kv.GetItem(ctx, s.Key(name))
		if err != nil {
			s.logger.WithError(err).WithField("collection", name).Warn("Не удалось проверить коллекцию при старте")
			continue
		}
		if ok {
			continue
		}
		if err := s.kv.SetItem(ctx, s.Key(name), "[]"); err != nil {
			s.logger.WithError(err).WithField("collection", name).Warn("Не удалось создать пустую коллекцию")
		}
	}
}

// Key возвращает ключ хранилища для коллекции или одиночного объекта.
func (s *Store) Key(name string) string {
	return s.namespace + "_" + name
}

// Ping проверяет доступность хранилища.
func (s *Store) Ping(ctx context.Context) error {
	return storage.Ping(ctx, s.kv)
}

func (s *Store) lock(collection string) func() {
	s.mu.Lock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *Store) read(ctx context.Context, collection string) ([]Record, error) {
	raw, ok, err := s.kv.GetItem(ctx, s.Key(collection))
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Record{}, nil
	}
	var items []Record
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	out := items[:0]
	for _, r := range items {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) write(ctx context.Context, collection string, items []Record) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.SetItem(ctx, s.Key(collection), string(raw))
}

func (s *Store) fail(collection, op string, err error) error {
	metrics.WriteFailed(collection)
	s.logger.WithError(err).WithFields(log.Fields{
		"collection": collection,
		"op":         op,
	}).Error("Не удалось сохранить коллекцию")
	return fmt.Errorf("%w: %s: %w", ErrNotPersisted, collection, err)
}

func (s *Store) readFailed(collection string, err error) {
	s.logger.WithError(err).WithField("collection", collection).Warn("Не удалось прочитать коллекцию")
}

// toRecord приводит произвольные данные к Record через JSON.
// Так отсекаются несериализуемые значения ещё до записи.
func toRecord(data any) (Record, error) {
	if data == nil {
		return Record{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("данные должны быть объектом: %w", err)
	}
	if r == nil {
		r = Record{}
	}
	return r, nil
}

func (s *Store) uniqueID(now time.Time, items []Record) string {
	for {
		id := s.newID(now)
		if indexOf(items, id) < 0 {
			return id
		}
	}
}

func indexOf(items []Record, id string) int {
	for i, r := range items {
		if r.ID() == id {
			return i
		}
	}
	return -1
}

func (s *Store) stamp(r Record, now time.Time) {
	ts := FormatTime(now)
	r["createdAt"] = ts
	r["updatedAt"] = ts
}

// Create добавляет запись в коллекцию. id, createdAt и updatedAt
// всегда проставляются хранилищем, даже если были в data.
func (s *Store) Create(ctx context.Context, collection string, data any) (Record, error) {
	doc, err := toRecord(data)
	if err != nil {
		return nil, s.fail(collection, "create", err)
	}

	unlock := s.lock(collection)
	defer unlock()

	items, err := s.read(ctx, collection)
	if err != nil {
		return nil, s.fail(collection, "create", err)
	}

	now := s.now()
	doc["id"] = s.uniqueID(now, items)
	s.stamp(doc, now)
	items = append(items, doc)

	if err := s.write(ctx, collection, items); err != nil {
		return nil, s.fail(collection, "create", err)
	}
	return doc, nil
}

// List возвращает все записи коллекции. При любой ошибке — пустой срез.
func (s *Store) List(ctx context.Context, collection string) []Record {
	items, err := s.read(ctx, collection)
	if err != nil {
		s.readFailed(collection, err)
		return []Record{}
	}
	return items
}

// Get ищет запись по id.
func (s *Store) Get(ctx context.Context, collection, id string) (Record, error) {
	items, err := s.read(ctx, collection)
	if err != nil {
		s.readFailed(collection, err)
		return nil, ErrNotFound
	}
	if i := indexOf(items, id); i >= 0 {
		return items[i], nil
	}
	return nil, ErrNotFound
}

// Update сливает patch с записью и обновляет updatedAt.
// id, createdAt и updatedAt из patch игнорируются. Если записи нет — ErrNotFound,
// коллекция при этом не перезаписывается.
func (s *Store) Update(ctx context.Context, collection, id string, patch any) (Record, error) {
	p, err := toRecord(patch)
	if err != nil {
		return nil, s.fail(collection, "update", err)
	}
	delete(p, "id")
	delete(p, "createdAt")
	delete(p, "updatedAt")

	unlock := s.lock(collection)
	defer unlock()

	items, err := s.read(ctx, collection)
	if err != nil {
		return nil, s.fail(collection, "update", err)
	}
	i := indexOf(items, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	doc := items[i]
	for k, v := range p {
		doc[k] = v
	}
	doc["updatedAt"] = FormatTime(s.nextUpdatedAt(doc))

	if err := s.write(ctx, collection, items); err != nil {
		return nil, s.fail(collection, "update", err)
	}
	return doc, nil
}

// nextUpdatedAt гарантирует, что новое updatedAt строго позже предыдущего,
// даже если часы не сдвинулись с прошлой записи.
func (s *Store) nextUpdatedAt(doc Record) time.Time {
	now := s.now().UTC().Truncate(time.Millisecond)
	if prev, ok := ParseTime(doc["updatedAt"]); ok && !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

// Delete удаляет запись. Удаление отсутствующей записи — успех.
// false возвращается только если изменение не удалось сохранить.
func (s *Store) Delete(ctx context.Context, collection, id string) bool {
	unlock := s.lock(collection)
	defer unlock()

	items, err := s.read(ctx, collection)
	if err != nil {
		_ = s.fail(collection, "delete", err)
		return false
	}
	kept := make([]Record, 0, len(items))
	for _, r := range items {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(items) {
		return true
	}
	if err := s.write(ctx, collection, kept); err != nil {
		_ = s.fail(collection, "delete", err)
		return false
	}
	return true
}

// Replace перезаписывает производную коллекцию (например, снимок рейтинга)
// новыми записями со свежими служебными полями.
func (s *Store) Replace(ctx context.Context, collection string, records []any) bool {
	unlock := s.lock(collection)
	defer unlock()

	now := s.now()
	items := make([]Record, 0, len(records))
	for _, data := range records {
		doc, err := toRecord(data)
		if err != nil {
			_ = s.fail(collection, "replace", err)
			return false
		}
		doc["id"] = s.uniqueID(now, items)
		s.stamp(doc, now)
		items = append(items, doc)
	}
	if err := s.write(ctx, collection, items); err != nil {
		_ = s.fail(collection, "replace", err)
		return false
	}
	return true
}

// Clear сбрасывает коллекцию в пустой массив.
func (s *Store) Clear(ctx context.Context, collection string) bool {
	return s.Replace(ctx, collection, nil)
}

// GetItem читает одиночный объект (например, currentUser) в v.
// ok=false, если ключа нет или значение не разбирается.
func (s *Store) GetItem(ctx context.Context, name string, v any) bool {
	raw, ok, err := s.kv.GetItem(ctx, s.Key(name))
	if err != nil {
		s.readFailed(name, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.readFailed(name, err)
		return false
	}
	return true
}

// SetItem сохраняет одиночный объект.
func (s *Store) SetItem(ctx context.Context, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return s.fail(name, "set_item", err)
	}
	if err := s.kv.SetItem(ctx, s.Key(name), string(raw)); err != nil {
		return s.fail(name, "set_item", err)
	}
	return nil
}

// RemoveItem удаляет одиночный объект.
func (s *Store) RemoveItem(ctx context.Context, name string) error {
	if err := s.kv.RemoveItem(ctx, s.Key(name)); err != nil {
		return s.fail(name, "remove_item", err)
	}
	return nil
}
