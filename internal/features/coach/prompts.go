package coach

import (
	"fmt"
	"strings"

	"serotonyl.ru/ecotrack/internal/scoring"
)

func activities(w scoring.WeeklySummary) string {
	if len(w.Activities) == 0 {
		return "пока нет"
	}
	return strings.Join(w.Activities, ", ")
}

// SuggestionsRequest — запрос персональных советов.
func SuggestionsRequest(w scoring.WeeklySummary) Request {
	return Request{
		System: persona + " Давай персональные практичные советы, как снизить влияние на природу. " +
			"Будь ободряющим и конкретным.",
		Prompt: fmt.Sprintf(`Данные пользователя:
- Эко-балл: %d/100
- Сэкономлено воды: %.0f л
- Сокращено выбросов: %.2f кг CO2
- Недавняя активность: %s

Дай 3–5 персональных практичных советов, как улучшить результат. Кратко и конкретно.`,
			w.EcoScore, w.WaterSaved, w.CarbonReduced, activities(w)),
		Temperature: 1,
		MaxTokens:   1024,
	}
}

// MotivationRequest — запрос короткой мотивации.
func MotivationRequest(w scoring.WeeklySummary) Request {
	return Request{
		System: persona + " Пиши короткие вдохновляющие сообщения, которые отмечают успехи пользователя.",
		Prompt: fmt.Sprintf(`Статистика пользователя:
- Эко-балл: %d/100
- Сэкономлено воды: %.0f л
- Сокращено выбросов: %.2f кг CO2
- Активных дней: %d

Напиши короткое ободряющее сообщение (2–3 предложения), отметь прогресс и вдохнови продолжать.`,
			w.EcoScore, w.WaterSaved, w.CarbonReduced, w.DaysActive),
		Temperature: 1.2,
		MaxTokens:   256,
	}
}

// AnalysisRequest — запрос разбора недели.
func AnalysisRequest(w scoring.WeeklySummary, trend scoring.Trend) Request {
	return Request{
		System: persona + " Давай конструктивную обратную связь на основе данных с конкретными рекомендациями.",
		Prompt: fmt.Sprintf(`Проанализируй неделю пользователя:
- Сэкономлено воды: %.0f л
- Сокращено выбросов: %.2f кг CO2
- Активных дней: %d/7
- Тренд: %s

Дай краткий разбор (3–4 предложения): сильные стороны, что улучшить и одно конкретное действие на следующую неделю.`,
			w.WaterSaved, w.CarbonReduced, w.DaysActive, trend),
		Temperature: 0.9,
		MaxTokens:   512,
	}
}

// ChatRequest — свободный вопрос с контекстом пользователя.
func ChatRequest(w scoring.WeeklySummary, question string) Request {
	return Request{
		System: fmt.Sprintf(`%s Помогай с вопросами об экономии воды, сокращении выбросов и экологичном быте.

Контекст пользователя:
- Эко-балл: %d
- Сэкономлено воды: %.0f л
- Сокращено выбросов: %.2f кг CO2`, persona, w.EcoScore, w.WaterSaved, w.CarbonReduced),
		Prompt:      question,
		Temperature: 1,
		MaxTokens:   1024,
	}
}
