package scoring

import "time"

// Метки недавней активности для подсказок коуча.
const (
	ActivityWaterTracking  = "water tracking"
	ActivityCarbonTracking = "carbon tracking"
	ActivityHighScore      = "maintaining high eco score"
)

// WeeklySummary — итоги последних 7 дней одного пользователя.
type WeeklySummary struct {
	UserID        string    `json:"userId"`
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	TotalWater    float64   `json:"totalWater"`
	TotalCarbon   float64   `json:"totalCarbon"`
	WaterSaved    float64   `json:"waterSaved"`
	CarbonReduced float64   `json:"carbonReduced"`
	Breakdown
	Entries    int      `json:"entries"`
	DaysActive int      `json:"daysActive"`
	Activities []string `json:"activities"`
	Badges     Badges   `json:"badges"`
}

// SummarizeWeek фильтрует записи по userID и окну [now−7д, ∞)
// и считает недельный балл, сэкономленное и значки.
// Записи других пользователей никогда не попадают в итог.
func SummarizeWeek(userID string, water, carbon []Entry, now time.Time) WeeklySummary {
	from := now.Add(-WeekWindow)
	w := Since(ForUser(water, userID), from)
	c := Since(ForUser(carbon, userID), from)

	totalWater := Sum(w)
	totalCarbon := Sum(c)
	b := Weekly(totalWater, totalCarbon)

	s := WeeklySummary{
		UserID:        userID,
		From:          from,
		To:            now,
		TotalWater:    totalWater,
		TotalCarbon:   round2(totalCarbon),
		WaterSaved:    Saved(WeeklyWaterTarget, totalWater),
		CarbonReduced: round2(Saved(WeeklyCarbonTarget, totalCarbon)),
		Breakdown:     b,
		Entries:       len(w) + len(c),
		DaysActive:    DistinctDays(now.Location(), w, c),
		Activities:    []string{},
	}
	if len(w) > 0 {
		s.Activities = append(s.Activities, ActivityWaterTracking)
	}
	if len(c) > 0 {
		s.Activities = append(s.Activities, ActivityCarbonTracking)
	}
	if b.EcoScore > 70 {
		s.Activities = append(s.Activities, ActivityHighScore)
	}
	s.Badges = EvaluateBadges(BadgeInput{
		WaterSaved:    s.WaterSaved,
		CarbonReduced: s.CarbonReduced,
		EcoScore:      b.EcoScore,
		DaysActive:    s.DaysActive,
	})
	return s
}

// DailySummary — показатели дашборда за сегодня.
type DailySummary struct {
	UserID      string  `json:"userId"`
	TodayWater  int     `json:"todayWater"`
	TodayCarbon float64 `json:"todayCarbon"`
	Breakdown
	Level      Level      `json:"level"`
	WaterWeek  []DayTotal `json:"waterWeek"`
	CarbonWeek []DayTotal `json:"carbonWeek"`
}

// SummarizeDay считает дневной балл и графики за 7 дней.
// «Сегодня» — календарный день now в его часовом поясе.
func SummarizeDay(userID string, water, carbon []Entry, now time.Time) DailySummary {
	w := ForUser(water, userID)
	c := ForUser(carbon, userID)

	todayWater := Sum(OnDay(w, now))
	todayCarbon := Sum(OnDay(c, now))
	b := Daily(todayWater, todayCarbon)

	return DailySummary{
		UserID:      userID,
		TodayWater:  Round(todayWater),
		TodayCarbon: float64(Round(todayCarbon*10)) / 10,
		Breakdown:   b,
		Level:       LevelFor(b.EcoScore),
		WaterWeek:   LastSevenDays(w, now),
		CarbonWeek:  LastSevenDays(c, now),
	}
}

// ProfileSummary — итоги профиля по всем записям пользователя.
type ProfileSummary struct {
	UserID             string  `json:"userId"`
	TotalWaterUsed     float64 `json:"totalWaterUsed"`
	TotalCarbonEmitted float64 `json:"totalCarbonEmitted"`
	WaterSaved         float64 `json:"waterSaved"`
	CarbonReduced      float64 `json:"carbonReduced"`
	WaterScore         int     `json:"waterScore"`
	CarbonScore        int     `json:"carbonScore"`
	EcoScore           int     `json:"ecoScore"`
	Level              Level   `json:"level"`
	DaysActive         int     `json:"daysActive"`
	Badges             Badges  `json:"badges"`
}

// SummarizeProfile сравнивает все записи пользователя с недельной целью
// и переводит сэкономленное в проценты.
func SummarizeProfile(userID string, water, carbon []Entry, now time.Time) ProfileSummary {
	w := ForUser(water, userID)
	c := ForUser(carbon, userID)

	used := Sum(w)
	emitted := Sum(c)
	saved := Saved(WeeklyWaterTarget, used)
	reduced := Saved(WeeklyCarbonTarget, emitted)
	ws, cs, eco := ProfileScores(saved, reduced)
	days := DistinctDays(now.Location(), w, c)

	return ProfileSummary{
		UserID:             userID,
		TotalWaterUsed:     used,
		TotalCarbonEmitted: round2(emitted),
		WaterSaved:         saved,
		CarbonReduced:      round2(reduced),
		WaterScore:         ws,
		CarbonScore:        cs,
		EcoScore:           eco,
		Level:              LevelFor(eco),
		DaysActive:         days,
		Badges: EvaluateBadges(BadgeInput{
			WaterSaved:    saved,
			CarbonReduced: reduced,
			EcoScore:      eco,
			DaysActive:    days,
		}),
	}
}

// Standing — строка рейтинга сообщества до сортировки.
type Standing struct {
	UserID        string
	WaterSaved    int
	CarbonReduced int
	EcoScore      int
	Badges        Badges
}

// LeaderboardStanding считает позицию пользователя по всем его записям.
// Значок постоянства в рейтинге не выдаётся.
func LeaderboardStanding(userID string, water, carbon []Entry) Standing {
	saved := Saved(WeeklyWaterTarget, Sum(ForUser(water, userID)))
	reduced := Saved(WeeklyCarbonTarget, Sum(ForUser(carbon, userID)))
	eco := LeaderboardEcoScore(saved, reduced)
	return Standing{
		UserID:        userID,
		WaterSaved:    Round(saved),
		CarbonReduced: Round(reduced),
		EcoScore:      eco,
		Badges: EvaluateBadges(BadgeInput{
			WaterSaved:    saved,
			CarbonReduced: reduced,
			EcoScore:      eco,
		}),
	}
}

// Trend — направление изменения недельного балла.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// WeekTrend сравнивает балл последних 7 дней с баллом предыдущих 7.
// Разница меньше 5 баллов считается стабильной.
func WeekTrend(userID string, water, carbon []Entry, now time.Time) Trend {
	cur := SummarizeWeek(userID, water, carbon, now).EcoScore

	prevFrom, prevTo := now.Add(-2*WeekWindow), now.Add(-WeekWindow)
	w := Between(ForUser(water, userID), prevFrom, prevTo)
	c := Between(ForUser(carbon, userID), prevFrom, prevTo)
	if len(w)+len(c) == 0 {
		return TrendStable
	}
	prev := WeeklyEcoScore(Sum(w), Sum(c))

	switch diff := cur - prev; {
	case diff >= 5:
		return TrendImproving
	case diff <= -5:
		return TrendDeclining
	default:
		return TrendStable
	}
}
