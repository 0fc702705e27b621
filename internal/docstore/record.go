package docstore

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// TimeLayout — ISO-8601 в UTC с миллисекундами, как у Date.toISOString.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Record — запись коллекции в нетипизированном виде.
// Всегда содержит id, createdAt и updatedAt.
type Record map[string]any

// ID возвращает идентификатор записи или пустую строку.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Meta — служебные поля, которые docstore проставляет сам.
// Типизированные модели встраивают её.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FormatTime приводит время к формату хранения.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime разбирает время из записи; ok=false для пустых и битых значений.
func ParseTime(v any) (time.Time, bool) {
	s, _ := v.(string)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Number — числовое поле, которое читается снисходительно:
// отсутствующее, null, строковое-нечисловое и любое другое значение дают 0.
// Строки с числом ("12.5") разбираются.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*n = Number(f)
			return nil
		}
	}
	*n = 0
	return nil
}

// Float возвращает значение как float64.
func (n Number) Float() float64 { return float64(n) }
