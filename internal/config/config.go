package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config собирает настройки приложения из переменных окружения.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// DSN строит строку подключения для lib/pq.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Load читает конфигурацию только из окружения, с дефолтами.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "seekit")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("server.address", "0.0.0.0:8080")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stderr")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.user":     "DB_USER",
		"database.password": "DB_PASS",
		"database.name":     "DB_NAME",
		"database.sslmode":  "DB_SSLMODE",
		"server.address":    "SERVER_ADDRESS",
		"jwt.secret":        "JWT_SECRET",
		"jwt.ttl":           "JWT_TTL",
		"log.level":         "LOG_LEVEL",
		"log.output":        "LOG_OUTPUT",
	}
	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.Database.Host == "" {
		return errors.New("DB_HOST must not be empty")
	}
	if cfg.Database.Name == "" {
		return errors.New("DB_NAME must not be empty")
	}
	if cfg.Database.Port <= 0 {
		return fmt.Errorf("invalid DB_PORT: %d", cfg.Database.Port)
	}
	if cfg.JWT.TTL <= 0 {
		return fmt.Errorf("invalid JWT_TTL: %s", cfg.JWT.TTL)
	}
	return nil
}

// MinJWTSecretLen: минимальная длина ключа подписи токенов.
const MinJWTSecretLen = 16

// ValidateServer проверяет то, без чего API нельзя запускать.
// CLI токены не выпускает и эту проверку не вызывает.
func (c *Config) ValidateServer() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must be set for the API server")
	}
	if len(c.JWT.Secret) < MinJWTSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLen)
	}
	return nil
}
