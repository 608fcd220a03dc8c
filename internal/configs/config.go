package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	OpsAuthModeSharedSecret = "shared_secret"
	OpsAuthModeSession      = "session"

	EnvProduction = "production"
)

type DBconfig struct {
	URL string
}

type RESTconfig struct {
	PORT               string
	CORSAllowedOrigins []string
}

type MongoConfig struct {
	URI      string
	Database string
}

type StorageConfig struct {
	Bucket        string
	PublicBaseURL string
	MaxImageSize  int64
}

type OpsConfig struct {
	AuthMode     string
	SharedSecret string
	AdminEmails  []string
	JWTSecret    string
	SessionTTL   time.Duration
	LeadsLimit   int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Env          string
	Database     DBconfig
	Rest         RESTconfig
	Mongo        MongoConfig
	Storage      StorageConfig
	Ops          OpsConfig
	Redis        RedisConfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// IsProduction - только "production" включает проверку ключа в режиме shared_secret.
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Файл .env необязателен, если путь не передан явно.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	if len(envPath) > 0 {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath[0], err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "listing-service")
	cfg.Env = getEnvAsString("APP_ENV", "development")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.CORSAllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})

	cfg.Mongo.URI = os.Getenv("MONGO_URI")
	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}
	cfg.Mongo.Database = getEnvAsString("MONGO_DATABASE", "listing_media")

	cfg.Storage.Bucket = getEnvAsString("STORAGE_BUCKET", "property-images")
	cfg.Storage.PublicBaseURL = strings.TrimRight(getEnvAsString("PUBLIC_BASE_URL", "http://localhost:"+cfg.Rest.PORT), "/")
	maxMB := getEnvAsInt("MAX_IMAGE_SIZE_MB", 5)
	if maxMB <= 0 {
		log.Printf("Warning: MAX_IMAGE_SIZE_MB must be positive, got %d. Using 5.\n", maxMB)
		maxMB = 5
	}
	cfg.Storage.MaxImageSize = int64(maxMB) << 20

	cfg.Ops.AuthMode = strings.ToLower(getEnvAsString("OPS_AUTH_MODE", OpsAuthModeSharedSecret))
	cfg.Ops.SharedSecret = strings.TrimSpace(os.Getenv("OPS_TEMP_KEY"))
	cfg.Ops.AdminEmails = getEnvAsList("ADMIN_EMAILS", nil)
	cfg.Ops.LeadsLimit = getEnvAsInt("LEADS_PAGE_SIZE", 200)
	cfg.Ops.SessionTTL = getEnvAsDuration("OPS_SESSION_TTL", 12*time.Hour)

	switch cfg.Ops.AuthMode {
	case OpsAuthModeSharedSecret:
		if cfg.Ops.SharedSecret == "" && cfg.IsProduction() {
			log.Println("WARNING: OPS_TEMP_KEY is not set in production. Ops dashboard will reject every request.")
		}
	case OpsAuthModeSession:
		cfg.Ops.JWTSecret = os.Getenv("OPS_JWT_SECRET")
		if cfg.Ops.JWTSecret == "" {
			return nil, fmt.Errorf("OPS_JWT_SECRET environment variable is required when OPS_AUTH_MODE=session")
		}
		cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("REDIS_ADDR environment variable is required when OPS_AUTH_MODE=session")
		}
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
		cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)
		if len(cfg.Ops.AdminEmails) == 0 {
			log.Println("WARNING: ADMIN_EMAILS is empty. No operator will be able to sign in.")
		}
	default:
		return nil, fmt.Errorf("unknown OPS_AUTH_MODE %q (expected %q or %q)", cfg.Ops.AuthMode, OpsAuthModeSharedSecret, OpsAuthModeSession)
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED=true")
		}
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil || d <= 0 {
		log.Printf("Warning: Environment variable %s (value: %s) is not a positive duration. Using default value: %s\n", key, valStr, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valStr) == "" {
		return defaultValue
	}
	var items []string
	for _, part := range strings.Split(valStr, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
