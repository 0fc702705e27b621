package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/scoring"
)

// Тексты на случай пустого ответа или выключенного коуча.
const (
	FallbackSuggestions = "Так держать! Продолжайте свой путь к устойчивой жизни!"
	FallbackMotivation  = "Вы действительно меняете мир к лучшему! 🌱"
	FallbackAnalysis    = "Вы на верном пути! Продолжайте отслеживать своё влияние."
	ConnectionTrouble   = "Не получается связаться с EcoTwin. Попробуйте чуть позже."
)

const persona = "Ты — EcoTwin, дружелюбный AI-коуч по устойчивому образу жизни в приложении EcoTrack. " +
	"Отвечай на русском языке, кратко и по делу."

// Service строит запросы к модели по итогам пользователя.
// Без генератора коуч выключен и отвечает заготовками.
type Service struct {
	gen     Generator
	timeout time.Duration
}

// NewService создаёт коуча. gen == nil — коуч выключен.
func NewService(gen Generator, timeout time.Duration) *Service {
	return &Service{gen: gen, timeout: timeout}
}

// Enabled сообщает, подключена ли модель.
func (s *Service) Enabled() bool { return s.gen != nil }

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) generate(ctx context.Context, kind string, req Request, fallback string) (string, error) {
	if s.gen == nil {
		return fallback, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	text, err := s.gen.Generate(ctx, req)
	if errors.Is(err, common.ErrEmptyCompletion) || (err == nil && strings.TrimSpace(text) == "") {
		return fallback, nil
	}
	if err != nil {
		log.WithError(err).WithField("kind", kind).Error("Ошибка запроса к AI-коучу")
		return "", fmt.Errorf("коуч (%s): %w", kind, err)
	}
	return strings.TrimSpace(text), nil
}

// Suggestions — 3–5 персональных советов.
func (s *Service) Suggestions(ctx context.Context, w scoring.WeeklySummary) (string, error) {
	return s.generate(ctx, "suggestions", SuggestionsRequest(w), FallbackSuggestions)
}

// Motivation — короткое ободряющее сообщение.
func (s *Service) Motivation(ctx context.Context, w scoring.WeeklySummary) (string, error) {
	return s.generate(ctx, "motivation", MotivationRequest(w), FallbackMotivation)
}

// WeeklyAnalysis — разбор недели с одним конкретным шагом.
func (s *Service) WeeklyAnalysis(ctx context.Context, w scoring.WeeklySummary, trend scoring.Trend) (string, error) {
	return s.generate(ctx, "analysis", AnalysisRequest(w, trend), FallbackAnalysis)
}

// Ask отвечает на свободный вопрос. Если генератор умеет отдавать ответ
// частями, onChunk вызывается для каждой части.
func (s *Service) Ask(ctx context.Context, w scoring.WeeklySummary, question string, onChunk func(string)) (string, error) {
	if s.gen == nil {
		return "", common.ErrCoachDisabled
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", common.ErrEmptyPost
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := ChatRequest(w, question)
	var (
		text string
		err  error
	)
	if st, ok := s.gen.(Streamer); ok {
		text, err = st.Stream(ctx, req, onChunk)
	} else {
		text, err = s.gen.Generate(ctx, req)
		if err == nil && onChunk != nil {
			onChunk(text)
		}
	}
	if err != nil {
		log.WithError(err).Error("Ошибка ответа AI-коуча")
		return ConnectionTrouble, err
	}
	return strings.TrimSpace(text), nil
}
