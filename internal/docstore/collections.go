package docstore

// DefaultNamespace — префикс ключей по умолчанию.
const DefaultNamespace = "ecotrack"

// Имена коллекций.
const (
	Users          = "users"
	WaterLogs      = "waterLogs"
	CarbonLogs     = "carbonLogs"
	Reports        = "reports"
	CommunityPosts = "communityPosts"
	Leaderboard    = "leaderboard"
)

// Collections — все коллекции, которые засеваются пустым массивом при старте.
var Collections = []string{Users, WaterLogs, CarbonLogs, Reports, CommunityPosts, Leaderboard}

// CurrentUserItem — ключ текущего пользователя (без префикса пространства имён).
const CurrentUserItem = "currentUser"
