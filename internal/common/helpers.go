// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел, работа с временем.
package common

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	locMu    sync.RWMutex
	location = time.UTC
)

// SetTimezone задаёт часовой пояс, в котором считаются календарные дни.
// Если пояс не загрузился — остаёмся на UTC и пишем предупреждение.
func SetTimezone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithError(err).WithField("timezone", name).Warn("Не удалось загрузить часовой пояс, используем UTC")
		loc = time.UTC
	}
	locMu.Lock()
	location = loc
	locMu.Unlock()
	return loc
}

// Location возвращает текущий часовой пояс приложения.
func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return location
}

// Now возвращает текущее время в часовом поясе приложения.
// Все расчёты «сегодня» и «за неделю» опираются на него.
func Now() time.Time {
	return time.Now().In(Location())
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" (день.месяц.год часы:минуты).
func FormatDateTime(t time.Time) string {
	return t.In(Location()).Format("02.01.2006 15:04")
}

// FormatTimeAgo возвращает «5 мин назад», «3 ч назад» или «2 дня назад».
// Используется в ленте сообщества.
func FormatTimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "только что"
	case d < time.Hour:
		return formatInt(int64(d/time.Minute)) + " мин назад"
	case d < 24*time.Hour:
		return formatInt(int64(d/time.Hour)) + " ч назад"
	default:
		days := int(d / (24 * time.Hour))
		return formatInt(int64(days)) + " " + PluralizeDays(days) + " назад"
	}
}
