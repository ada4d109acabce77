package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "PORTAL"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Access   AccessConfig   `mapstructure:"access"`
	SMS      SMSConfig      `mapstructure:"sms"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Environment     string        `mapstructure:"environment"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"` // json | console
	File   LogFileConfig `mapstructure:"file"`
}

type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// DatabaseConfig: DSN vacío => repos en memoria.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig: Addr vacío => sesiones en memoria.
type RedisConfig struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	// DebugHeaders habilita X-Debug-User-ID sin token (solo dev).
	DebugHeaders bool `mapstructure:"debug_headers"`
}

type AccessConfig struct {
	CodeTTL     time.Duration `mapstructure:"code_ttl"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	// DevCode fija el código enviado (p.ej. "123456"). Vacío => aleatorio.
	DevCode string `mapstructure:"dev_code"`
}

type SMSConfig struct {
	// Provider: log | smsir | webhook
	Provider      string        `mapstructure:"provider"`
	APIKey        string        `mapstructure:"api_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	TemplateID    string        `mapstructure:"template_id"`
	DefaultRegion string        `mapstructure:"default_region"`
	WebhookURL    string        `mapstructure:"webhook_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type SeedConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Password string `mapstructure:"password"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.path", "logs/portal.log")
	v.SetDefault("logging.file.max_size_mb", 100)
	v.SetDefault("logging.file.max_backups", 5)
	v.SetDefault("logging.file.max_age_days", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.session_ttl", 12*time.Hour)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "patient-access-portal")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("auth.debug_headers", false)

	v.SetDefault("access.code_ttl", 5*time.Minute)
	v.SetDefault("access.max_attempts", 5)
	v.SetDefault("access.dev_code", "")

	v.SetDefault("sms.provider", "log")
	v.SetDefault("sms.api_key", "")
	v.SetDefault("sms.secret_key", "")
	v.SetDefault("sms.template_id", "")
	v.SetDefault("sms.default_region", "MZ")
	v.SetDefault("sms.webhook_url", "")
	v.SetDefault("sms.timeout", 10*time.Second)

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.password", "password")
}

// Load lee defaults, luego el archivo (opcional) y por último env PORTAL_*.
// path vacío => solo defaults + env.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Environment, "development")
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Access.MaxAttempts < 0 {
		errs = append(errs, errors.New("access.max_attempts must be >= 0"))
	}
	if c.Access.CodeTTL < 0 {
		errs = append(errs, errors.New("access.code_ttl must be >= 0"))
	}
	if !c.IsDevelopment() {
		if len(c.Auth.JWTSecret) < 32 {
			errs = append(errs, errors.New("auth.jwt_secret must be at least 32 bytes outside development"))
		}
		if c.Access.DevCode != "" {
			errs = append(errs, errors.New("access.dev_code is only allowed in development"))
		}
		if c.Auth.DebugHeaders {
			errs = append(errs, errors.New("auth.debug_headers is only allowed in development"))
		}
	}

	switch strings.ToLower(c.SMS.Provider) {
	case "log", "":
	case "smsir":
		if c.SMS.APIKey == "" || c.SMS.TemplateID == "" {
			errs = append(errs, errors.New("sms.api_key and sms.template_id are required for smsir"))
		}
	case "webhook":
		if c.SMS.WebhookURL == "" {
			errs = append(errs, errors.New("sms.webhook_url is required for webhook"))
		}
	default:
		errs = append(errs, fmt.Errorf("sms.provider %q not supported", c.SMS.Provider))
	}

	return errors.Join(errs...)
}
