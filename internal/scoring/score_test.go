package scoring

import (
	"math"
	"testing"
)

func TestWeeklyEcoScore(t *testing.T) {
	tests := []struct {
		name          string
		water, carbon float64
		wantWater     float64
		wantEco       int
	}{
		{"nothing logged", 0, 0, 102.5, 100},
		{"exactly on target", 1050, 70, 50, 100},
		{"over water target", 1470, 70, 29, 79},
		{"way over both", 5000, 500, 0, 0},
		{"carbon over only", 1050, 100, 50, 70},
		{"negative treated as zero", -10, -5, 102.5, 100},
		{"NaN treated as zero", math.NaN(), 70, 102.5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Weekly(tt.water, tt.carbon)
			if b.WaterScore != tt.wantWater {
				t.Errorf("WaterScore = %v, want %v", b.WaterScore, tt.wantWater)
			}
			if b.EcoScore != tt.wantEco {
				t.Errorf("EcoScore = %d, want %d", b.EcoScore, tt.wantEco)
			}
			if got := WeeklyEcoScore(tt.water, tt.carbon); got != b.EcoScore {
				t.Errorf("WeeklyEcoScore = %d, want %d", got, b.EcoScore)
			}
		})
	}
}

func TestEcoScoreAlwaysInRange(t *testing.T) {
	for w := 0.0; w <= 5000; w += 137 {
		for c := 0.0; c <= 300; c += 11 {
			for _, s := range []int{WeeklyEcoScore(w, c), DailyEcoScore(w, c)} {
				if s < 0 || s > 100 {
					t.Fatalf("score(%v, %v) = %d out of range", w, c, s)
				}
			}
		}
	}
}

func TestDailyDiffersFromWeekly(t *testing.T) {
	// 200 л за день — перерасход по дневной цели, но в рамках недельной.
	if d, w := DailyEcoScore(200, 10), WeeklyEcoScore(200, 10); d == w {
		t.Fatalf("daily and weekly scores coincide: %d", d)
	}
	tests := []struct {
		water, carbon float64
		want          int
	}{
		{150, 10, 100},
		{200, 10, 75},
		{250, 10, 50},
		{250, 20, 30},
		{350, 35, 0},
	}
	for _, tt := range tests {
		if got := DailyEcoScore(tt.water, tt.carbon); got != tt.want {
			t.Errorf("DailyEcoScore(%v, %v) = %d, want %d", tt.water, tt.carbon, got, tt.want)
		}
	}
}

func TestSaved(t *testing.T) {
	if got := Saved(WeeklyWaterTarget, 1050); got != 0 {
		t.Errorf("Saved at target = %v", got)
	}
	if got := Saved(WeeklyWaterTarget, 2000); got != 0 {
		t.Errorf("Saved over target = %v", got)
	}
	if got := Saved(WeeklyCarbonTarget, 50); got != 20 {
		t.Errorf("Saved carbon = %v, want 20", got)
	}
}

func TestProfileScores(t *testing.T) {
	w, c, eco := ProfileScores(525, 70)
	if w != 50 || c != 100 || eco != 75 {
		t.Fatalf("ProfileScores = %d %d %d, want 50 100 75", w, c, eco)
	}
}

func TestLeaderboardEcoScore(t *testing.T) {
	tests := []struct {
		saved, reduced float64
		want           int
	}{
		{0, 0, 0},
		{1050, 70, 100},
		{300, 10, 50},
		{-5, 2, 4},
	}
	for _, tt := range tests {
		if got := LeaderboardEcoScore(tt.saved, tt.reduced); got != tt.want {
			t.Errorf("LeaderboardEcoScore(%v, %v) = %d, want %d", tt.saved, tt.reduced, got, tt.want)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := map[float64]int{0.5: 1, 1.49: 1, 2.5: 3, -0.5: 0, -1.5: -1}
	for in, want := range tests {
		if got := Round(in); got != want {
			t.Errorf("Round(%v) = %d, want %d", in, got, want)
		}
	}
}
