package water

import (
	"math"
	"sort"
)

// Activity — вид расхода воды со средним расходом за 10 минут.
type Activity struct {
	Name     string
	Label    string
	AvgPer10 float64
}

var activities = map[string]Activity{
	"bathing":   {Name: "bathing", Label: "Душ / ванна", AvgPer10: 80},
	"washing":   {Name: "washing", Label: "Стирка / мытьё посуды", AvgPer10: 30},
	"cooking":   {Name: "cooking", Label: "Готовка", AvgPer10: 15},
	"cleaning":  {Name: "cleaning", Label: "Уборка", AvgPer10: 25},
	"gardening": {Name: "gardening", Label: "Полив сада", AvgPer10: 50},
}

// LookupActivity ищет вид активности по имени.
func LookupActivity(name string) (Activity, bool) {
	a, ok := activities[name]
	return a, ok
}

// Activities возвращает все виды активности по алфавиту.
func Activities() []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EstimateLiters — round(avg/10 · minutes).
func EstimateLiters(a Activity, minutes float64) float64 {
	return math.Round(a.AvgPer10 / 10 * minutes)
}

// Параметры GreenPulse по умолчанию.
const (
	DefaultPipeSpeed    = 5.0   // м/с
	DefaultPipeDiameter = 0.015 // м
	PulseLimitLiters    = 30.0  // автостоп таймера
)

// FlowRate считает поток в трубе в л/мин с точностью 0.1:
// speed · π(d/2)² · 60000.
func FlowRate(speed, diameter float64) float64 {
	area := math.Pi * math.Pow(diameter/2, 2)
	return math.Round(speed*area*60000*10) / 10
}

// PulseLiters — round(flow · seconds / 60), не больше PulseLimitLiters.
func PulseLiters(flowRate, seconds float64) float64 {
	return math.Min(PulseLimitLiters, math.Round(flowRate*seconds/60))
}

// AlertLevel — уровень предупреждения о расходе.
type AlertLevel string

const (
	AlertNone   AlertLevel = "none"
	AlertGreen  AlertLevel = "green"
	AlertYellow AlertLevel = "yellow"
	AlertRed    AlertLevel = "red"
)

// AlertFor: от 30 л — red, от 20 — yellow, от 10 — green.
func AlertFor(liters float64) AlertLevel {
	switch {
	case liters >= 30:
		return AlertRed
	case liters >= 20:
		return AlertYellow
	case liters >= 10:
		return AlertGreen
	default:
		return AlertNone
	}
}

// Message — текст предупреждения для пользователя.
func (l AlertLevel) Message() string {
	switch l {
	case AlertRed:
		return "🚨 Критично! Остановите воду!"
	case AlertYellow:
		return "⚠️ Внимание: высокий расход"
	case AlertGreen:
		return "✅ Хорошо, умеренный расход"
	default:
		return ""
	}
}
