// Package scoring — чистые формулы EcoTrack: эко-баллы, «сэкономлено»
// и значки. Пакет ничего не читает и не пишет, только считает.
//
// Формул несколько, и они намеренно разные:
//   - Daily: дневные цели 150 л / 10 кг (дашборд);
//   - Weekly: недельные цели 1050 л / 70 кг (коуч);
//   - Profile: процент от недельной цели по всем записям (профиль);
//   - LeaderboardEcoScore: баллы рейтинга сообщества.
package scoring

import "math"

// Цели, относительно которых считается «сэкономлено».
const (
	DailyWaterTarget   = 150.0
	DailyCarbonTarget  = 10.0
	WeeklyWaterTarget  = DailyWaterTarget * 7
	WeeklyCarbonTarget = DailyCarbonTarget * 7
)

// Breakdown — составляющие эко-балла.
// WaterScore и CarbonScore не ограничены сверху, EcoScore всегда в [0, 100].
type Breakdown struct {
	WaterScore  float64 `json:"waterScore"`
	CarbonScore float64 `json:"carbonScore"`
	EcoScore    int     `json:"ecoScore"`
}

// Weekly считает эко-балл за неделю.
//
//	waterScore  = max(0, 50 − (W − 1050)/20)
//	carbonScore = max(0, 50 − (C − 70))
func Weekly(totalWater, totalCarbon float64) Breakdown {
	w := math.Max(0, 50-(sanitize(totalWater)-WeeklyWaterTarget)/20)
	c := math.Max(0, 50-(sanitize(totalCarbon)-WeeklyCarbonTarget))
	return Breakdown{WaterScore: w, CarbonScore: c, EcoScore: Clamp(w + c)}
}

// WeeklyEcoScore — только итоговый балл недельной формулы.
func WeeklyEcoScore(totalWater, totalCarbon float64) int {
	return Weekly(totalWater, totalCarbon).EcoScore
}

// Daily считает эко-балл за день.
//
//	waterScore  = max(0, 50 − (W − 150)/2)
//	carbonScore = max(0, 50 − (C − 10)·2)
func Daily(todayWater, todayCarbon float64) Breakdown {
	w := math.Max(0, 50-(sanitize(todayWater)-DailyWaterTarget)/2)
	c := math.Max(0, 50-(sanitize(todayCarbon)-DailyCarbonTarget)*2)
	return Breakdown{WaterScore: w, CarbonScore: c, EcoScore: Clamp(w + c)}
}

// DailyEcoScore — только итоговый балл дневной формулы.
func DailyEcoScore(todayWater, todayCarbon float64) int {
	return Daily(todayWater, todayCarbon).EcoScore
}

// Saved возвращает max(0, target − used).
func Saved(target, used float64) float64 {
	return math.Max(0, target-sanitize(used))
}

// ProfileScores переводит сэкономленное в проценты от недельной цели.
// eco — среднее двух процентов.
func ProfileScores(waterSaved, carbonReduced float64) (water, carbon, eco int) {
	water = Clamp(sanitize(waterSaved) / WeeklyWaterTarget * 100)
	carbon = Clamp(sanitize(carbonReduced) / WeeklyCarbonTarget * 100)
	eco = Round(float64(water+carbon) / 2)
	return water, carbon, eco
}

// LeaderboardEcoScore — балл для рейтинга сообщества.
//
//	clamp(round(waterSaved/10 + carbonReduced·2))
func LeaderboardEcoScore(waterSaved, carbonReduced float64) int {
	return Clamp(sanitize(waterSaved)/10 + sanitize(carbonReduced)*2)
}

// Round округляет половины вверх, как Math.round.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Clamp округляет и ограничивает значение диапазоном [0, 100].
func Clamp(v float64) int {
	r := Round(v)
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	}
	return r
}

// sanitize превращает некорректные количества (NaN, ±Inf, < 0) в ноль.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
