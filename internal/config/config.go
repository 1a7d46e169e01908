package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	DB       *DBconfig       `yaml:"db"`
	Store    *Storeconfig    `yaml:"store"`
	RabbitMq *RabbitMqconfig `yaml:"rabbitmq"`
	Srv      *Serviceconfig  `yaml:"service"`
	App      *Appconfig      `yaml:"app"`
	Log      *Loggerconfig   `yaml:"log"`
}

type DBconfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	MaxConns   int    `yaml:"max_conns"`
	MaxRetries int    `yaml:"max_retries"`
}

type Storeconfig struct {
	Driver string `yaml:"driver"`
}

type RabbitMqconfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type Serviceconfig struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

type Appconfig struct {
	JwtSecret   string        `yaml:"jwt_secret"`
	JwtTTL      time.Duration `yaml:"jwt_ttl"`
	CodeMapPath string        `yaml:"code_map_path"`
}

type Loggerconfig struct {
	Level string `yaml:"level"`
}

// Warning is a default that was applied because a key was unset or unparsable.
// The caller logs them once the logger exists.
type Warning struct {
	Key     string
	Default string
	Reason  string
}

// New reads the environment (after loading .env when present) and returns the
// config together with the defaults it had to fall back to.
func New() (*Config, []Warning, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, nil, fmt.Errorf("load .env: %w", err)
		}
	}

	var warnings []Warning
	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			warnings = append(warnings, Warning{Key: key, Default: def, Reason: "unset"})
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			warnings = append(warnings, Warning{Key: key, Default: strconv.Itoa(def), Reason: "unset"})
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			warnings = append(warnings, Warning{Key: key, Default: strconv.Itoa(def), Reason: "not an integer"})
			return def
		}
		return val
	}

	getEnvBool := func(key string, def bool) bool {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.ParseBool(valStr)
		if err != nil {
			warnings = append(warnings, Warning{Key: key, Default: strconv.FormatBool(def), Reason: "not a boolean"})
			return def
		}
		return val
	}

	getEnvDuration := func(key string, def time.Duration) time.Duration {
		valStr := os.Getenv(key)
		if valStr == "" {
			warnings = append(warnings, Warning{Key: key, Default: def.String(), Reason: "unset"})
			return def
		}
		val, err := time.ParseDuration(valStr)
		if err != nil {
			warnings = append(warnings, Warning{Key: key, Default: def.String(), Reason: "not a duration"})
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "campus_user"),
			Password:   getEnv("DB_PASSWORD", "campus_pass"),
			Database:   getEnv("DB_NAME", "campus_rides"),
			MaxConns:   getEnvInt("DB_MAX_CONNS", 10),
			MaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		},
		Store: &Storeconfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		},
		RabbitMq: &RabbitMqconfig{
			Enabled:  getEnvBool("RABBITMQ_ENABLED", false),
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    os.Getenv("RABBITMQ_VHOST"),
		},
		Srv: &Serviceconfig{
			Port:       getEnv("PORT", "5001"),
			CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		},
		App: &Appconfig{
			JwtSecret:   getEnv("JWT_SECRET", "change-me"),
			JwtTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
			CodeMapPath: os.Getenv("CODE_MAP_PATH"),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cnf.overlayYAML(path); err != nil {
			return nil, warnings, err
		}
	}

	if err := cnf.Validate(); err != nil {
		return nil, warnings, err
	}

	return cnf, warnings, nil
}

// overlayYAML applies the values present in the file on top of the env config.
func (c *Config) overlayYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.App.JwtSecret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if c.App.JwtTTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive, got %s", c.App.JwtTTL)
	}
	return nil
}

// DSN builds the postgres connection string.
func (d *DBconfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%v:%v@%v:%v/%v?sslmode=disable",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

func (r *RabbitMqconfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", r.User, r.Password, r.Host, r.Port, r.VHost)
}
