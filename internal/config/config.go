// Package config загружает конфигурацию EcoTrack из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища «ключ-значение», поверх которого работает docstore.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	AdminIDsRaw      string  `envconfig:"ADMIN_IDS"`
	AdminIDs         []int64 `envconfig:"-"` // заполним вручную
	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// Групповой чат, в котором бот тоже отвечает. 0 — только личные сообщения.
	AllowedChatID int64 `envconfig:"ALLOWED_CHAT_ID" default:"0"`

	// --- Storage ---
	StorageDriver    string `envconfig:"STORAGE_DRIVER" default:"file"`
	StorageNamespace string `envconfig:"STORAGE_NAMESPACE" default:"ecotrack"`
	StorageFilePath  string `envconfig:"STORAGE_FILE_PATH" default:"data/ecotrack.json"`
	// Квота для memory-драйвера, как у localStorage в браузере (~5 МБ). 0 — без ограничений.
	StorageQuotaBytes int `envconfig:"STORAGE_QUOTA_BYTES" default:"5242880"`

	// --- Database (STORAGE_DRIVER=postgres) ---
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"ecotrack"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"ecotrack"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`

	// --- MongoDB (STORAGE_DRIVER=mongo) ---
	MongoURI        string `envconfig:"MONGO_URI"`
	MongoDatabase   string `envconfig:"MONGO_DATABASE" default:"ecotrack"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"kv_items"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	// Часовой пояс, в котором считаются календарные дни (сегодня, дни активности).
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"UTC"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Coach (Gemini) ---
	CoachEnabled bool          `envconfig:"COACH_ENABLED" default:"false"`
	GeminiAPIKey string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	CoachTimeout time.Duration `envconfig:"COACH_TIMEOUT" default:"20s"`

	// --- Leaderboard ---
	LeaderboardSize int    `envconfig:"LEADERBOARD_SIZE" default:"10"`
	LeaderboardCron string `envconfig:"LEADERBOARD_CRON" default:"*/15 * * * *"`

	// --- Ops HTTP ---
	OpsListenAddr  string `envconfig:"OPS_LISTEN_ADDR" default:":9090"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`

	// --- Feature Flags ---
	FeatureCommunityEnabled bool `envconfig:"FEATURE_COMMUNITY_ENABLED" default:"true"`
	FeatureReportsEnabled   bool `envconfig:"FEATURE_REPORTS_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// IsAdmin проверяет, входит ли пользователь в ADMIN_IDS.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Config) Validate() error {
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if strings.TrimSpace(c.StorageNamespace) == "" {
		return fmt.Errorf("STORAGE_NAMESPACE не может быть пустым")
	}
	if c.StorageQuotaBytes < 0 {
		return fmt.Errorf("STORAGE_QUOTA_BYTES не может быть отрицательным")
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("LEADERBOARD_SIZE должен быть > 0")
	}

	switch c.StorageDriver {
	case StorageMemory:
	case StorageFile:
		if c.StorageFilePath == "" {
			return fmt.Errorf("STORAGE_FILE_PATH обязателен для драйвера file")
		}
	case StoragePostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD обязателен для драйвера postgres")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
		}
	case StorageMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI обязателен для драйвера mongo")
		}
	default:
		return fmt.Errorf("неизвестный STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.CoachEnabled && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY обязателен при COACH_ENABLED=true")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
