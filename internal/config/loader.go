package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/hostel-dashboard/internal/persistence"
)

// Config captures environment driven configuration values for the hostel service.
type Config struct {
	HTTPPort      int
	StorageDriver persistence.Driver
	SQLiteDSN     string
	PostgresDSN   string
	Redis         RedisConfig
	S3            S3Config
	SessionSecret string
	SessionTTL    time.Duration
	LoginDelay    time.Duration
	RegisterDelay time.Duration
	LogLevel      slog.Level
}

// RedisConfig configures the redis storage driver.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// S3Config configures the s3 storage driver.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults. Missing required values and invalid
// values are each reported together in a single error.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		StorageDriver: persistence.DriverSQLite,
		SQLiteDSN:     "hostel.db",
		PostgresDSN:   "postgres://localhost/hostel?sslmode=disable",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "hostel:",
		},
		S3: S3Config{
			Region: "us-east-1",
			Prefix: "hostel/",
		},
		SessionTTL:    24 * time.Hour,
		LoginDelay:    time.Second,
		RegisterDelay: 1500 * time.Millisecond,
		LogLevel:      slog.LevelInfo,
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 4)

	if portValue := env("HOSTEL_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "HOSTEL_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if driver := env("HOSTEL_STORAGE_DRIVER"); driver != "" {
		parsed, ok := parseDriver(driver)
		if !ok {
			invalid = append(invalid, "HOSTEL_STORAGE_DRIVER")
		} else {
			cfg.StorageDriver = parsed
		}
	}

	if dsn := env("HOSTEL_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}
	if dsn := env("HOSTEL_POSTGRES_DSN"); dsn != "" {
		cfg.PostgresDSN = dsn
	}

	if addr := env("HOSTEL_REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	cfg.Redis.Password = os.Getenv("HOSTEL_REDIS_PASSWORD")
	if dbValue := env("HOSTEL_REDIS_DB"); dbValue != "" {
		db, err := strconv.Atoi(dbValue)
		if err != nil || db < 0 {
			invalid = append(invalid, "HOSTEL_REDIS_DB")
		} else {
			cfg.Redis.DB = db
		}
	}
	if prefix, ok := os.LookupEnv("HOSTEL_REDIS_PREFIX"); ok {
		cfg.Redis.Prefix = strings.TrimSpace(prefix)
	}

	cfg.S3.Bucket = env("HOSTEL_S3_BUCKET")
	if region := env("HOSTEL_S3_REGION"); region != "" {
		cfg.S3.Region = region
	}
	cfg.S3.Endpoint = env("HOSTEL_S3_ENDPOINT")
	if prefix, ok := os.LookupEnv("HOSTEL_S3_PREFIX"); ok {
		cfg.S3.Prefix = strings.TrimSpace(prefix)
	}
	cfg.S3.AccessKeyID = env("HOSTEL_S3_ACCESS_KEY_ID")
	cfg.S3.SecretAccessKey = env("HOSTEL_S3_SECRET_ACCESS_KEY")
	if pathStyle := env("HOSTEL_S3_PATH_STYLE"); pathStyle != "" {
		parsed, err := strconv.ParseBool(pathStyle)
		if err != nil {
			invalid = append(invalid, "HOSTEL_S3_PATH_STYLE")
		} else {
			cfg.S3.PathStyle = parsed
		}
	}
	if cfg.StorageDriver == persistence.DriverS3 && cfg.S3.Bucket == "" {
		missing = append(missing, "HOSTEL_S3_BUCKET")
	}

	if secret := env("HOSTEL_SESSION_SECRET"); secret == "" {
		missing = append(missing, "HOSTEL_SESSION_SECRET")
	} else {
		cfg.SessionSecret = secret
	}

	if ttlValue := env("HOSTEL_SESSION_TTL"); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "HOSTEL_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if delayValue := env("HOSTEL_LOGIN_DELAY"); delayValue != "" {
		delay, err := time.ParseDuration(delayValue)
		if err != nil || delay < 0 {
			invalid = append(invalid, "HOSTEL_LOGIN_DELAY")
		} else {
			cfg.LoginDelay = delay
		}
	}

	if delayValue := env("HOSTEL_REGISTER_DELAY"); delayValue != "" {
		delay, err := time.ParseDuration(delayValue)
		if err != nil || delay < 0 {
			invalid = append(invalid, "HOSTEL_REGISTER_DELAY")
		} else {
			cfg.RegisterDelay = delay
		}
	}

	if levelValue := env("HOSTEL_LOG_LEVEL"); levelValue != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "HOSTEL_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseDriver(value string) (persistence.Driver, bool) {
	candidate := persistence.Driver(strings.ToLower(value))
	for _, driver := range persistence.Drivers() {
		if driver == candidate {
			return driver, true
		}
	}
	return "", false
}
