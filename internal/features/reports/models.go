// Package reports — сообщения о проблемах окружающей среды:
// утечки, свалки, загрязнения. Сообщения подтверждают и поддерживают
// другие пользователи.
package reports

import (
	"serotonyl.ru/ecotrack/internal/docstore"
)

// Status — состояние сообщения.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusResolved  Status = "resolved"
)

// ConfirmationsToConfirm — столько подтверждений переводят pending в confirmed.
const ConfirmationsToConfirm = 3

// Categories — допустимые категории. Пустая категория означает "other".
var Categories = []string{"leak", "waste", "pollution", "other"}

// Report — запись коллекции reports.
type Report struct {
	docstore.Meta
	UserID        string          `json:"userId"`
	Name          string          `json:"name"` // Имя автора на момент отправки
	Location      string          `json:"location"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"imageUrl"`
	Status        Status          `json:"status"`
	Upvotes       docstore.Number `json:"upvotes"`
	Confirmations docstore.Number `json:"confirmations"`
}

// Label — подпись статуса для пользователя.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "⏳ на проверке"
	case StatusConfirmed:
		return "✅ подтверждено"
	case StatusResolved:
		return "🎉 решено"
	default:
		return string(s)
	}
}

// canMove описывает допустимые переходы статуса. resolved — конечный.
func (s Status) canMove(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusConfirmed || to == StatusResolved
	case StatusConfirmed:
		return to == StatusResolved
	default:
		return false
	}
}

func validStatus(s Status) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusResolved
}
