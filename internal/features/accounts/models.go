// Package accounts управляет аккаунтами EcoTrack: регистрацией, входом и
// текущим пользователем сессии. Пароли не проверяются, это учебный вход.
// models.go описывает пользователя и «актора» — того, от чьего имени
// выполняется операция.
package accounts

import (
	"strconv"

	"serotonyl.ru/ecotrack/internal/docstore"
)

// GuestOwnerID — владелец записей, созданных без входа.
// Используется только при сохранении, в логике вместо него Actor.
const GuestOwnerID = "guest"

// DefaultEcoScore — стартовый балл нового аккаунта.
const DefaultEcoScore = 50

// User — запись коллекции users.
type User struct {
	docstore.Meta
	UID           string          `json:"uid"`           // Стабильный идентификатор "user-..."
	Email         string          `json:"email"`         // Уникален среди аккаунтов
	DisplayName   string          `json:"displayName"`   // По умолчанию — часть email до @
	IsGuest       bool            `json:"isGuest"`       // Гостевые аккаунты не попадают в рейтинг
	EcoScore      docstore.Number `json:"ecoScore"`      // Последний посчитанный балл
	WaterSaved    docstore.Number `json:"waterSaved"`    // Последнее посчитанное «сэкономлено», л
	CarbonReduced docstore.Number `json:"carbonReduced"` // Последнее посчитанное «сокращено», кг
	Badges        []string        `json:"badges"`
}

// Name возвращает отображаемое имя или email, если имени нет.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Actor — явный вариант «вошёл / не вошёл».
// Нулевое значение — анонимный пользователь.
type Actor struct {
	user *User
}

// Anonymous возвращает анонимного актора.
func Anonymous() Actor { return Actor{} }

// Authenticated возвращает актора для вошедшего пользователя.
func Authenticated(u User) Actor { return Actor{user: &u} }

// User возвращает пользователя, если актор вошёл.
func (a Actor) User() (User, bool) {
	if a.user == nil {
		return User{}, false
	}
	return *a.user, true
}

// IsAnonymous сообщает, что пользователь не вошёл.
func (a Actor) IsAnonymous() bool { return a.user == nil }

// OwnerID — значение поля userId для новых записей.
func (a Actor) OwnerID() string {
	if a.user == nil {
		return GuestOwnerID
	}
	return a.user.UID
}

// DisplayName — имя для подписи постов и ответов бота.
func (a Actor) DisplayName() string {
	if a.user == nil {
		return "Гость"
	}
	return a.user.Name()
}

// SessionFor превращает Telegram user ID в ключ сессии.
func SessionFor(telegramUserID int64) string {
	return strconv.FormatInt(telegramUserID, 10)
}
