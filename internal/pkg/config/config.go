package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // база зон для образов без /usr/share/zoneinfo

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	JWT         JWTConfig         `yaml:"jwt"`
	Auth        AuthConfig        `yaml:"auth"`
	CORS        CORSConfig        `yaml:"cors"`
	Logger      LoggerConfig      `yaml:"logger"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Idempotency IdempotencyConfig `yaml:"idempotency"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// DatabaseConfig содержит настройки хранилища
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // postgres или memory
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ApplySchema     bool          `yaml:"apply_schema"`
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	SecretKey    string        `yaml:"secret_key"`
	AccessExpiry time.Duration `yaml:"access_expiry"`
}

// AuthConfig содержит учетные данные оператора.
// Если задан PasswordHash (bcrypt), открытый Password игнорируется.
type AuthConfig struct {
	AdminPassword     string `yaml:"admin_password"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

// CORSConfig содержит настройки CORS
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// LoggerConfig содержит настройки логирования
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json или console
	Output string `yaml:"output"` // stdout или путь к файлу
}

// SchedulerConfig содержит настройки периодической проверки просрочек
type SchedulerConfig struct {
	OverdueSweepSpec string `yaml:"overdue_sweep_spec"` // cron-выражение
	Timezone         string `yaml:"timezone"`
}

// IdempotencyConfig содержит настройки повторной обработки платежных запросов
type IdempotencyConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            "5432",
			User:            "fleet_user",
			Password:        "fleet_password",
			Database:        "fleet_db",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ApplySchema:     true,
		},
		Redis: RedisConfig{
			Enabled: true,
			Host:    "localhost",
			Port:    "6379",
		},
		JWT: JWTConfig{
			SecretKey:    "your-secret-key-change-this-in-production",
			AccessExpiry: 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Scheduler: SchedulerConfig{
			OverdueSweepSpec: "0 9 * * *",
			Timezone:         "UTC",
		},
		Idempotency: IdempotencyConfig{
			TTL: 24 * time.Hour,
		},
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML файл из CONFIG_FILE
// (если задан), затем переменные окружения
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFile накладывает значения из YAML файла поверх текущих
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// overrideWithEnv переопределяет значения переменными окружения
func (c *Config) overrideWithEnv() {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getDurationEnv("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)

	c.Database.Driver = strings.ToLower(getEnv("DB_DRIVER", c.Database.Driver))
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Database = getEnv("DB_NAME", c.Database.Database)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getIntEnv("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getIntEnv("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = getDurationEnv("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)
	c.Database.ApplySchema = getBoolEnv("DB_APPLY_SCHEMA", c.Database.ApplySchema)

	c.Redis.Enabled = getBoolEnv("REDIS_ENABLED", c.Redis.Enabled)
	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnv("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getIntEnv("REDIS_DB", c.Redis.DB)

	c.JWT.SecretKey = getEnv("JWT_SECRET", c.JWT.SecretKey)
	c.JWT.AccessExpiry = getDurationEnv("JWT_ACCESS_EXPIRY", c.JWT.AccessExpiry)

	c.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", c.Auth.AdminPassword)
	c.Auth.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", c.Auth.AdminPasswordHash)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORS.AllowedOrigins = splitList(origins)
	}

	c.Logger.Level = getEnv("LOG_LEVEL", c.Logger.Level)
	c.Logger.Format = getEnv("LOG_FORMAT", c.Logger.Format)
	c.Logger.Output = getEnv("LOG_OUTPUT", c.Logger.Output)

	c.Scheduler.OverdueSweepSpec = getEnv("OVERDUE_SWEEP_SPEC", c.Scheduler.OverdueSweepSpec)
	c.Scheduler.Timezone = getEnv("TIMEZONE", c.Scheduler.Timezone)

	c.Idempotency.TTL = getDurationEnv("IDEMPOTENCY_TTL", c.Idempotency.TTL)
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Database == "" {
			return errors.New("database host, user and name are required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver: %s", c.Database.Driver)
	}

	if c.JWT.SecretKey == "" {
		return errors.New("JWT secret is required")
	}
	if c.JWT.AccessExpiry <= 0 {
		return errors.New("JWT access expiry must be positive")
	}
	if c.Auth.AdminPassword == "" && c.Auth.AdminPasswordHash == "" {
		return errors.New("admin password or password hash is required")
	}
	if c.Scheduler.OverdueSweepSpec == "" {
		return errors.New("overdue sweep schedule is required")
	}
	// Зона задает границы месяцев в отчетах
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Scheduler.Timezone, err)
	}
	if c.Idempotency.TTL <= 0 {
		return errors.New("idempotency TTL must be positive")
	}
	return nil
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Address возвращает адрес сервера
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Address возвращает адрес Redis
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
