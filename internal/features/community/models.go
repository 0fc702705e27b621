// Package community — лента сообщества: посты, лайки, комментарии.
package community

import (
	"time"

	"serotonyl.ru/ecotrack/internal/docstore"
)

// MaxContentRunes — максимальная длина поста или комментария.
const MaxContentRunes = 500

// DefaultAvatar — аватар поста по умолчанию.
const DefaultAvatar = "🌱"

// Post — запись коллекции communityPosts.
type Post struct {
	docstore.Meta
	UserID   string          `json:"userId"`
	Author   string          `json:"author"`
	Avatar   string          `json:"avatar"`
	Content  string          `json:"content"`
	Likes    docstore.Number `json:"likes"`
	Comments docstore.Number `json:"comments"` // Счётчик, сами комментарии в Replies
	Replies  []Comment       `json:"replies,omitempty"`
}

// Comment — комментарий к посту, хранится внутри поста.
type Comment struct {
	UserID    string `json:"userId"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// Time возвращает время комментария. Неразборчивое время — нулевое.
func (c Comment) Time() time.Time {
	t, _ := docstore.ParseTime(c.CreatedAt)
	return t
}
