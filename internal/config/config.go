package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// TokenConfig holds the signing secret and lifetime for one token purpose.
// The four purposes never share a secret.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// Config contains all runtime configuration, constructed once at startup
// and passed by reference into the components that need it.
type Config struct {
	AppHost  string
	AppPort  string
	LogLevel string

	PostgresHost         string
	PostgresPort         int
	PostgresUser         string
	PostgresPassword     string
	PostgresDB           string
	PostgresMaxOpenConns int
	PostgresMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int
	ProfileCacheTTL   time.Duration

	KafkaBrokers    []string
	KafkaEmailTopic string

	AccessToken         TokenConfig
	RefreshToken        TokenConfig
	EmailVerifyToken    TokenConfig
	ForgotPasswordToken TokenConfig
}

// Load reads configuration from the given env file (if present) and the
// process environment, with development defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	cfg := &Config{
		AppHost:  getEnv("APP_HOST", "localhost"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("APP_LOG_LEVEL", "info"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresUser:     getEnv("POSTGRES_USER", "user"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:       getEnv("POSTGRES_DB", "database"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaEmailTopic: getEnv("KAFKA_EMAIL_TOPIC", "user-emails"),

		AccessToken: TokenConfig{
			Secret: getEnv("JWT_SECRET_ACCESS_TOKEN", "dev_access_secret"),
		},
		RefreshToken: TokenConfig{
			Secret: getEnv("JWT_SECRET_REFRESH_TOKEN", "dev_refresh_secret"),
		},
		EmailVerifyToken: TokenConfig{
			Secret: getEnv("JWT_SECRET_EMAIL_VERIFY_TOKEN", "dev_email_verify_secret"),
		},
		ForgotPasswordToken: TokenConfig{
			Secret: getEnv("JWT_SECRET_FORGOT_PASSWORD_TOKEN", "dev_forgot_password_secret"),
		},
	}

	var err error
	if cfg.PostgresPort, err = getInt("POSTGRES_PORT", 5432); err != nil {
		return nil, err
	}
	if cfg.PostgresMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", 16); err != nil {
		return nil, err
	}
	if cfg.PostgresMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", 8); err != nil {
		return nil, err
	}
	if cfg.RedisPort, err = getInt("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.RedisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return nil, err
	}
	if cfg.ProfileCacheTTL, err = getDuration("PROFILE_CACHE_TTL_SECOND", 300); err != nil {
		return nil, err
	}
	if cfg.AccessToken.TTL, err = getDuration("JWT_ACCESS_EXP_SECOND", 900); err != nil {
		return nil, err
	}
	if cfg.RefreshToken.TTL, err = getDuration("JWT_REFRESH_EXP_SECOND", 100*24*3600); err != nil {
		return nil, err
	}
	if cfg.EmailVerifyToken.TTL, err = getDuration("JWT_EMAIL_VERIFY_EXP_SECOND", 7*24*3600); err != nil {
		return nil, err
	}
	if cfg.ForgotPasswordToken.TTL, err = getDuration("JWT_FORGOT_PASSWORD_EXP_SECOND", 7*24*3600); err != nil {
		return nil, err
	}

	return cfg, nil
}

// PostgresDSN builds the connection string for the pgx stdlib driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// RedisAddr returns the host:port address of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultSeconds int) (time.Duration, error) {
	n, err := getInt(key, defaultSeconds)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}
