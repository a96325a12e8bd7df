// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"

	// user_id приходит в теле/параметрах запроса
	IdentityExplicit = "explicit"
	// пользователь определяется по заголовкам X-User-Id / X-User-Email
	IdentityHeader = "header"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
	Identity   IdentityConfig   `mapstructure:"identity" yaml:"identity"`
	HTTP       HTTPConfig       `mapstructure:"http" yaml:"http"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	Host            string        `mapstructure:"host" yaml:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url" yaml:"url"`
	MaxConnections int32         `mapstructure:"max_connections" yaml:"max_connections"`
	MinConnections int32         `mapstructure:"min_connections" yaml:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	AutoMigrate    bool          `mapstructure:"auto_migrate" yaml:"auto_migrate"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development" yaml:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type" yaml:"type"` // "postgres" или "inmemory"
}

type IdentityConfig struct {
	Mode string `mapstructure:"mode" yaml:"mode"` // "explicit" или "header"
}

type HTTPConfig struct {
	RateLimitRPM       int      `mapstructure:"rate_limit_rpm" yaml:"rate_limit_rpm"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" yaml:"cors_allowed_origins"`
}

var ErrMissingDatabaseURL = errors.New("не задана строка подключения database.url (DATABASE_URL)")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", RepositoryPostgres)
	v.SetDefault("identity.mode", IdentityExplicit)

	v.SetDefault("http.rate_limit_rpm", 600)
	v.SetDefault("http.cors_allowed_origins", []string{"*"})
}

// Load читает config.yml (если есть), затем переменные окружения TODO_*.
// Пустой path означает поиск config.yml в текущей директории
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", "TODO_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("привязка DATABASE_URL: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("не могу прочитать %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("ошибка парсинга config.yml: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return ErrMissingDatabaseURL
		}
	case RepositoryInMemory:
	default:
		return fmt.Errorf("неизвестный тип хранилища %q", c.Repository.Type)
	}
	switch c.Identity.Mode {
	case IdentityExplicit, IdentityHeader:
	default:
		return fmt.Errorf("неизвестный режим идентификации %q", c.Identity.Mode)
	}
	if c.Server.Port == "" {
		return errors.New("не задан server.port")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
