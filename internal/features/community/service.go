package community

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
	"serotonyl.ru/ecotrack/internal/features/accounts"
)

// Service ведёт ленту сообщества.
type Service struct {
	repo *Repository
	now  func() time.Time
	// mu сериализует лайки и комментарии: они читают пост и пишут его обратно
	mu sync.Mutex
}

// NewService создаёт сервис ленты.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Publish публикует пост от имени актора.
func (s *Service) Publish(ctx context.Context, actor accounts.Actor, content string) (*Post, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, Post{
		UserID:  actor.OwnerID(),
		Author:  actor.DisplayName(),
		Avatar:  DefaultAvatar,
		Content: content,
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"post_id": p.ID,
		"user_id": p.UserID,
	}).Info("Новый пост в ленте")
	return p, nil
}

// Like добавляет лайк посту.
func (s *Service) Like(ctx context.Context, id string) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, docstore.Patch{"likes": p.Likes.Float() + 1})
}

// Comment добавляет комментарий и увеличивает счётчик комментариев.
func (s *Service) Comment(ctx context.Context, actor accounts.Actor, id, content string) (*Post, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	replies := append(p.Replies, Comment{
		UserID:    actor.OwnerID(),
		Author:    actor.DisplayName(),
		Content:   content,
		CreatedAt: docstore.FormatTime(s.now()),
	})
	return s.repo.Update(ctx, id, docstore.Patch{
		"replies":  replies,
		"comments": len(replies),
	})
}

// Feed возвращает до limit постов, новые первыми. limit <= 0 — все.
func (s *Service) Feed(ctx context.Context, limit int) []Post {
	posts := s.repo.List(ctx)
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

// Delete удаляет свой пост. Администратор может удалить любой.
func (s *Service) Delete(ctx context.Context, actor accounts.Actor, id string, isAdmin bool) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && (actor.IsAnonymous() || p.UserID != actor.OwnerID()) {
		return common.ErrPostNotFound
	}
	if !s.repo.Delete(ctx, id) {
		return docstore.ErrNotPersisted
	}
	return nil
}

// Clear очищает ленту и рейтинг. Только для администраторов.
func (s *Service) Clear(ctx context.Context, isAdmin bool) error {
	if !isAdmin {
		return common.ErrNotAdmin
	}
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	log.Warn("Лента сообщества и рейтинг очищены")
	return nil
}

func validContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", common.ErrEmptyPost
	}
	if utf8.RuneCountInString(content) > MaxContentRunes {
		return "", common.ErrPostTooLong
	}
	return content, nil
}
