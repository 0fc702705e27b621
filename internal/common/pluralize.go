// Package common — pluralize.go содержит вспомогательные функции
// для правильного склонения русских числительных и форматирования чисел.
package common

import (
	"fmt"
	"math"
	"strconv"
)

// pluralRu выбирает форму слова для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → one (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → many (0, 5-20, 25-30, 100, ...)
func pluralRu(n int64, one, few, many string) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
//
// Примеры:
//
//	PluralizeDays(1)  → "день"
//	PluralizeDays(3)  → "дня"
//	PluralizeDays(11) → "дней"
func PluralizeDays(n int) string {
	return pluralRu(int64(n), "день", "дня", "дней")
}

// PluralizeLiters возвращает правильную форму слова «литр».
func PluralizeLiters(n int64) string {
	return pluralRu(n, "литр", "литра", "литров")
}

// PluralizeMinutes возвращает "n минут" в правильной форме.
func PluralizeMinutes(n int) string {
	return fmt.Sprintf("%d %s", n, pluralRu(int64(n), "минута", "минуты", "минут"))
}

// PluralizeLikes возвращает правильную форму слова «лайк».
func PluralizeLikes(n int) string {
	return pluralRu(int64(n), "лайк", "лайка", "лайков")
}

// FormatLiters создаёт строку вида "120 литров".
// Дробная часть отбрасывается после округления.
func FormatLiters(liters float64) string {
	n := int64(math.Round(liters))
	return fmt.Sprintf("%s %s", FormatNumber(n), PluralizeLiters(n))
}

// FormatKg форматирует массу CO₂ с двумя знаками: "12.35 кг".
func FormatKg(kg float64) string {
	return strconv.FormatFloat(kg, 'f', 2, 64) + " кг"
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return formatInt(n)
	}
	return fmt.Sprintf("%s %03d", FormatNumber(n/1000), n%1000)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
