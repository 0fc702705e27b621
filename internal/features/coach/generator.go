// Package coach — AI-коуч EcoTwin: советы, мотивация и разбор недели
// по итогам пользователя. Текст генерирует внешняя модель.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"serotonyl.ru/ecotrack/internal/common"
)

// Request — запрос к модели.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int32
}

// Generator генерирует текст по запросу.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Streamer — генератор, умеющий отдавать ответ частями.
type Streamer interface {
	Stream(ctx context.Context, req Request, onChunk func(string)) (string, error)
}

// Gemini — генератор на Google Gemini.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini подключается к Gemini API с ключом apiKey.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("не задан ключ Gemini API")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к Gemini: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// newModel создаёт модель на каждый запрос: настройки модели не потокобезопасны.
func (g *Gemini) newModel(req Request) *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.model)
	if req.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.Temperature > 0 {
		m.SetTemperature(req.Temperature)
	}
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(req.MaxTokens)
	}
	return m
}

// Generate возвращает полный ответ модели.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.newModel(req).GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("ошибка генерации: %w", err)
	}
	return responseText(resp)
}

// Stream отдаёт ответ частями по мере генерации и возвращает его целиком.
func (g *Gemini) Stream(ctx context.Context, req Request, onChunk func(string)) (string, error) {
	iter := g.newModel(req).GenerateContentStream(ctx, genai.Text(req.Prompt))
	var sb strings.Builder
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return sb.String(), fmt.Errorf("ошибка генерации: %w", err)
		}
		chunk, err := responseText(resp)
		if err != nil {
			continue
		}
		sb.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	if sb.Len() == 0 {
		return "", common.ErrEmptyCompletion
	}
	return sb.String(), nil
}

// Close закрывает клиент.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", common.ErrEmptyCompletion
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", common.ErrEmptyCompletion
	}
	return sb.String(), nil
}
