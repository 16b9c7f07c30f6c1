package config

import "time"

type AppConfig struct {
	DBDriver        string          `yaml:"db_driver" env:"OSPREY_DB_DRIVER" env-default:"sqlite"`
	DBPath          string          `yaml:"db_path" env:"OSPREY_DB_PATH" env-default:"data/osprey.db"`
	DBURL           string          `yaml:"db_url" env:"OSPREY_DB_URL"`
	ListenAddr      string          `yaml:"listen_addr" env:"OSPREY_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	SessionTTL      time.Duration   `yaml:"session_ttl" env:"OSPREY_SESSION_TTL" env-default:"3h"`
	Pepper          string          `yaml:"pepper" env:"OSPREY_PEPPER"`
	LegacyUsersFile string          `yaml:"legacy_users_file" env:"OSPREY_LEGACY_USERS_FILE"`
	CSVDataDir      string          `yaml:"csv_data_dir" env:"OSPREY_CSV_DATA_DIR"`
	Assistant       AssistantConfig `yaml:"assistant"`
	Retention       RetentionConfig `yaml:"retention"`
}

type AssistantConfig struct {
	BaseURL     string  `yaml:"base_url" env:"OSPREY_ASSISTANT_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	Model       string  `yaml:"model" env:"OSPREY_ASSISTANT_MODEL" env-default:"openai/gpt-oss-20b:free"`
	APIKey      string  `yaml:"api_key" env:"OSPREY_ASSISTANT_API_KEY"`
	TimeoutSec  int     `yaml:"timeout_sec" env:"OSPREY_ASSISTANT_TIMEOUT" env-default:"30"`
	Temperature float64 `yaml:"temperature" env:"OSPREY_ASSISTANT_TEMPERATURE" env-default:"0.2"`
	MaxTokens   int     `yaml:"max_tokens" env:"OSPREY_ASSISTANT_MAX_TOKENS" env-default:"400"`
}

type RetentionConfig struct {
	Enabled   bool   `yaml:"enabled" env:"OSPREY_RETENTION_ENABLED" env-default:"true"`
	Schedule  string `yaml:"schedule" env:"OSPREY_RETENTION_SCHEDULE" env-default:"@every 1h"`
	AuditDays int    `yaml:"audit_days" env:"OSPREY_RETENTION_AUDIT_DAYS" env-default:"90"`
}

const maxUserSessionTTL = 3 * time.Hour

func (c *AppConfig) EffectiveSessionTTL() time.Duration {
	ttl := maxUserSessionTTL
	if c != nil && c.SessionTTL > 0 {
		ttl = c.SessionTTL
	}
	if ttl > maxUserSessionTTL {
		return maxUserSessionTTL
	}
	return ttl
}

func (c *AssistantConfig) Timeout() time.Duration {
	if c == nil || c.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}
