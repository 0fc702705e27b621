package scoring

// Badge — название значка.
type Badge string

const (
	BadgeWaterSaver        Badge = "Water Saver"
	BadgeCarbonNeutral     Badge = "Carbon Neutral"
	BadgeEcoHero           Badge = "Eco Hero"
	BadgeConsistentTracker Badge = "Consistent Tracker"
)

// Пороги значков. Сравнения строгие, кроме дней активности.
const (
	WaterSaverThreshold    = 200.0
	CarbonNeutralThreshold = 15.0
	EcoHeroThreshold       = 80
	ConsistentDays         = 7
)

// BadgeInput — показатели, по которым выдаются значки.
type BadgeInput struct {
	WaterSaved    float64
	CarbonReduced float64
	EcoScore      int
	DaysActive    int
}

// Badges — какие значки заработаны.
type Badges struct {
	WaterSaver        bool `json:"waterSaver"`
	CarbonNeutral     bool `json:"carbonNeutral"`
	EcoHero           bool `json:"ecoHero"`
	ConsistentTracker bool `json:"consistentTracker"`
}

// EvaluateBadges проверяет все пороги.
// Каждый значок монотонен: рост показателя не может его отнять.
func EvaluateBadges(in BadgeInput) Badges {
	return Badges{
		WaterSaver:        in.WaterSaved > WaterSaverThreshold,
		CarbonNeutral:     in.CarbonReduced > CarbonNeutralThreshold,
		EcoHero:           in.EcoScore > EcoHeroThreshold,
		ConsistentTracker: in.DaysActive >= ConsistentDays,
	}
}

// List возвращает заработанные значки в фиксированном порядке.
func (b Badges) List() []Badge {
	var out []Badge
	if b.WaterSaver {
		out = append(out, BadgeWaterSaver)
	}
	if b.CarbonNeutral {
		out = append(out, BadgeCarbonNeutral)
	}
	if b.EcoHero {
		out = append(out, BadgeEcoHero)
	}
	if b.ConsistentTracker {
		out = append(out, BadgeConsistentTracker)
	}
	return out
}

// Strings — то же, что List, но строками (для хранения в записях).
func (b Badges) Strings() []string {
	list := b.List()
	out := make([]string, len(list))
	for i, badge := range list {
		out[i] = string(badge)
	}
	return out
}

// Level — словесный уровень по эко-баллу.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelExpert       Level = "Expert"
)

// LevelFor: ≤30 Beginner, ≤70 Intermediate, иначе Expert.
func LevelFor(score int) Level {
	switch {
	case score <= 30:
		return LevelBeginner
	case score <= 70:
		return LevelIntermediate
	default:
		return LevelExpert
	}
}
