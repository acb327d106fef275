package config

import (
	"errors"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all process configuration. It is built once at startup and
// passed explicitly into the layers that need it.
type Config struct {
	Port        string `envconfig:"PORT" default:"3000"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME" default:"lighting_pos"`

	// When set, the process runs against a local SQLite file instead of
	// Postgres. Backup raw-file copy is only available in this mode.
	SQLitePath string `envconfig:"SQLITE_PATH"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	// Master reset secret for the reset-password CLI. No default ships.
	ResetSecret string `envconfig:"RESET_SECRET"`

	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `envconfig:"TELEGRAM_CHAT_ID"`

	BackupDir string `envconfig:"BACKUP_DIR" default:"backups"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	return &cfg, nil
}
