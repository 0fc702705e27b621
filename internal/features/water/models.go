// Package water ведёт журнал расхода воды: оценка по виду активности,
// замер GreenPulse по скорости потока и история записей.
package water

import (
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/scoring"
)

// PulseActivity — активность для записей, сделанных таймером GreenPulse.
const PulseActivity = "greenpulse"

// Log — запись коллекции waterLogs.
type Log struct {
	docstore.Meta
	UserID   string          `json:"userId"`
	Liters   docstore.Number `json:"liters"`
	Activity string          `json:"activity"`
	Duration docstore.Number `json:"duration"`           // минуты, для GreenPulse — секунды
	FlowRate docstore.Number `json:"flowRate,omitempty"` // л/мин, только GreenPulse
}

// Entry приводит запись к виду для подсчёта баллов.
func (l Log) Entry() scoring.Entry {
	return scoring.Entry{UserID: l.UserID, At: l.CreatedAt, Amount: l.Liters.Float()}
}

// Entries приводит записи к виду для подсчёта баллов.
func Entries(logs []Log) []scoring.Entry {
	out := make([]scoring.Entry, len(logs))
	for i, l := range logs {
		out[i] = l.Entry()
	}
	return out
}
