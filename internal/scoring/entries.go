package scoring

import (
	"math"
	"time"
)

// WeekWindow — окно недельной статистики.
const WeekWindow = 7 * 24 * time.Hour

// Entry — одна запись журнала, приведённая к виду для подсчёта.
// Amount — литры для воды или кг CO₂ для углерода.
type Entry struct {
	UserID string
	At     time.Time
	Amount float64
}

// ForUser оставляет только записи пользователя.
func ForUser(entries []Entry, userID string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// Since оставляет записи с At >= from (граница включается).
func Since(entries []Entry, from time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.At.Before(from) {
			out = append(out, e)
		}
	}
	return out
}

// OnDay оставляет записи того же календарного дня, что и day,
// в часовом поясе day.
func OnDay(entries []Entry, day time.Time) []Entry {
	y, m, d := day.Date()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		ey, em, ed := e.At.In(day.Location()).Date()
		if ey == y && em == m && ed == d {
			out = append(out, e)
		}
	}
	return out
}

// Sum складывает количества; некорректные считаются нулём.
func Sum(entries []Entry) float64 {
	var total float64
	for _, e := range entries {
		total += sanitize(e.Amount)
	}
	return total
}

// DistinctDays считает календарные дни (в поясе loc), в которые была
// хотя бы одна запись из любого набора.
func DistinctDays(loc *time.Location, sets ...[]Entry) int {
	days := make(map[string]struct{})
	for _, set := range sets {
		for _, e := range set {
			if e.At.IsZero() {
				continue
			}
			days[e.At.In(loc).Format("2006-01-02")] = struct{}{}
		}
	}
	return len(days)
}

// DayTotal — сумма за один день для графика.
type DayTotal struct {
	Day   time.Time `json:"day"`
	Label string    `json:"label"`
	Total int       `json:"total"`
}

var weekdayLabels = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// LastSevenDays строит суммы за 7 календарных дней, последним идёт сегодня.
func LastSevenDays(entries []Entry, now time.Time) []DayTotal {
	out := make([]DayTotal, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		out = append(out, DayTotal{
			Day:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
			Label: weekdayLabels[day.Weekday()],
			Total: Round(Sum(OnDay(entries, day))),
		})
	}
	return out
}

// round2 округляет до сотых, как toFixed(2).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Between оставляет записи с from <= At < to.
func Between(entries []Entry, from, to time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.At.Before(from) && e.At.Before(to) {
			out = append(out, e)
		}
	}
	return out
}
