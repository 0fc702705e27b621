// Package leaderboard строит рейтинг сообщества по всем записям
// зарегистрированных пользователей и хранит его снимок.
package leaderboard

import "serotonyl.ru/ecotrack/internal/docstore"

// Entry — строка снимка рейтинга (коллекция leaderboard).
type Entry struct {
	docstore.Meta
	Rank          int      `json:"rank"`
	UserID        string   `json:"userId"`
	DisplayName   string   `json:"displayName"`
	EcoScore      int      `json:"ecoScore"`
	WaterSaved    int      `json:"waterSaved"`
	CarbonReduced int      `json:"carbonReduced"`
	Badges        []string `json:"badges"`
}
