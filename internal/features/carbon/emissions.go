// Package carbon считает углеродный след: транспорт, электричество, питание.
package carbon

import (
	"fmt"
	"math"
	"sort"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/docstore"
)

// Коэффициенты выбросов, кг CO₂ на км.
var transportFactors = map[string]float64{
	"car":    0.12,
	"bike":   0,
	"bus":    0.05,
	"train":  0.03,
	"flight": 0.25,
}

// ElectricityFactor — кг CO₂ на кВт·ч.
const ElectricityFactor = 0.5

// Коэффициенты выбросов, кг CO₂ на приём пищи.
var foodFactors = map[string]float64{
	"vegan":         1.0,
	"vegetarian":    1.5,
	"nonvegetarian": 3.0,
}

// Transport — поездка одним видом транспорта.
type Transport struct {
	Mode     string          `json:"mode"`
	Distance docstore.Number `json:"distance"` // км
}

// Food — приёмы пищи одного типа.
type Food struct {
	Type  string          `json:"type"`
	Meals docstore.Number `json:"meals"`
}

// Input — данные калькулятора за день.
type Input struct {
	Transport   Transport `json:"transport"`
	Electricity float64   `json:"electricity"` // кВт·ч
	Food        Food      `json:"food"`
}

// Footprint — разбивка выбросов по источникам, кг.
type Footprint struct {
	Transport   float64
	Electricity float64
	Food        float64
	Total       float64 // округлено до 0.01
}

// Metadata раскладывает след по источникам для поля metadata записи.
func (fp Footprint) Metadata() map[string]any {
	return map[string]any{
		"transportKg":   fp.Transport,
		"electricityKg": fp.Electricity,
		"foodKg":        fp.Food,
	}
}

// Calculate считает след. Пустой вид транспорта или питания даёт 0
// по этой статье; неизвестный — ошибку.
func Calculate(in Input) (Footprint, error) {
	for _, v := range []float64{in.Transport.Distance.Float(), in.Electricity, in.Food.Meals.Float()} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return Footprint{}, common.ErrInvalidAmount
		}
	}

	var fp Footprint
	if in.Transport.Mode != "" {
		f, ok := transportFactors[in.Transport.Mode]
		if !ok {
			return Footprint{}, fmt.Errorf("%w: %s", common.ErrUnknownTransportMode, in.Transport.Mode)
		}
		fp.Transport = f * in.Transport.Distance.Float()
	}
	fp.Electricity = ElectricityFactor * in.Electricity
	if in.Food.Type != "" {
		f, ok := foodFactors[in.Food.Type]
		if !ok {
			return Footprint{}, fmt.Errorf("%w: %s", common.ErrUnknownFoodType, in.Food.Type)
		}
		fp.Food = f * in.Food.Meals.Float()
	}
	fp.Total = math.Round((fp.Transport+fp.Electricity+fp.Food)*100) / 100
	return fp, nil
}

// TransportModes возвращает известные виды транспорта по алфавиту.
func TransportModes() []string { return keys(transportFactors) }

// FoodTypes возвращает известные типы питания по алфавиту.
func FoodTypes() []string { return keys(foodFactors) }

func keys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
