package carbon

import (
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/scoring"
)

// Log — запись коллекции carbonLogs.
type Log struct {
	docstore.Meta
	UserID      string          `json:"userId"`
	CO2Kg       docstore.Number `json:"co2kg"`
	Transport   Transport       `json:"transport"`
	Electricity docstore.Number `json:"electricity"`
	Food        Food            `json:"food"`
	// Metadata — произвольные подробности расчёта, на баллы не влияют.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Entry приводит запись к виду для подсчёта баллов.
func (l Log) Entry() scoring.Entry {
	return scoring.Entry{UserID: l.UserID, At: l.CreatedAt, Amount: l.CO2Kg.Float()}
}

// Entries приводит записи к виду для подсчёта баллов.
func Entries(logs []Log) []scoring.Entry {
	out := make([]scoring.Entry, len(logs))
	for i, l := range logs {
		out[i] = l.Entry()
	}
	return out
}
