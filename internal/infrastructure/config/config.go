package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBMigrationMode string // "auto"(default) or "drop"
	DBLogLevel      string // silent, error, warn, info

	// Server
	ServerPort        string
	CORSAllowedOrigin string

	// Redis (draft store)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Object storage (S3 compatible)
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageRegion    string
	StorageUseSSL    bool
	PublicBaseURL    string
	MaxPhotoBytes    int

	// MQTT lifecycle events
	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTQoS         int
	MQTTTopicPrefix string

	// Session
	JWTSecretKey      string
	JWTExpiry         time.Duration
	SessionCookieName string
	CookieSecure      bool

	// Maintenance deletion confirmation; the hash wins when both are set
	DeletePasswordHash string
	DeletePassword     string

	// Off by default: any signed-in role may delete with the password
	DeleteRequiresOwnership bool

	// Admin
	DefaultAdminPassword string

	// Reports
	ReportTimezone string

	// Logging
	LogDir   string
	LogLevel string
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() (*Config, error) {
	envType := strings.ToUpper(getEnv("ENV_TYPE", "LOCAL"))
	var prefix string
	switch envType {
	case "LOCAL":
		prefix = "LOCAL_"
	case "SERVER":
		prefix = "SERVER_"
	default:
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	cfg := &Config{
		EnvType: envType,

		DBHost:          getEnv(prefix+"DB_HOST", getEnv("DB_HOST", "localhost")),
		DBUser:          getEnv(prefix+"DB_USER", getEnv("DB_USER", "root")),
		DBPassword:      getEnv(prefix+"DB_PASSWORD", getEnv("DB_PASSWORD", "")),
		DBName:          getEnv(prefix+"DB_NAME", getEnv("DB_NAME", "rr_guanabara")),
		DBPort:          getEnv(prefix+"DB_PORT", getEnv("DB_PORT", "3306")),
		DBMigrationMode: getEnv(prefix+"DB_MIGRATION_MODE", "auto"),
		DBLogLevel:      getEnv("DB_LOG_LEVEL", "warn"),

		ServerPort:        getEnv(prefix+"SERVER_PORT", getEnv("SERVER_PORT", "8080")),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),

		RedisHost:     getEnv(prefix+"REDIS_HOST", getEnv("REDIS_HOST", "localhost")),
		RedisPort:     getEnv(prefix+"REDIS_PORT", getEnv("REDIS_PORT", "6379")),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", ""),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", "rr-guanabara"),
		StorageRegion:    getEnv("STORAGE_REGION", ""),
		StorageUseSSL:    getEnvAsBool("STORAGE_USE_SSL", true),
		PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		MaxPhotoBytes:    getEnvAsInt("MAX_PHOTO_BYTES", 10<<20),

		MQTTBrokerURL:   getEnv("MQTT_BROKER_URL", ""),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "rr_guanabara_server"),
		MQTTUsername:    getEnv("MQTT_USERNAME", ""),
		MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
		MQTTQoS:         getEnvAsInt("MQTT_QOS", 1),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "rr"),

		JWTSecretKey:      getEnv("JWT_SECRET_KEY", "rr-guanabara-secret-key-change-in-production"),
		JWTExpiry:         getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "rr_session"),
		CookieSecure:      getEnvAsBool("COOKIE_SECURE", envType == "SERVER"),

		DeletePasswordHash: getEnv("DELETE_PASSWORD_HASH", ""),
		DeletePassword:     getEnv("DELETE_PASSWORD", ""),

		DeleteRequiresOwnership: getEnvAsBool("DELETE_REQUIRES_OWNERSHIP", false),

		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", ""),

		ReportTimezone: getEnv("REPORT_TIMEZONE", "America/Sao_Paulo"),

		LogDir:   getEnv("LOG_DIR", "logs"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.DeletePasswordHash == "" && c.DeletePassword == "" {
		return fmt.Errorf("one of DELETE_PASSWORD_HASH or DELETE_PASSWORD must be set")
	}
	if c.MaxPhotoBytes <= 0 {
		return fmt.Errorf("MAX_PHOTO_BYTES must be positive, got %d", c.MaxPhotoBytes)
	}
	if c.MQTTQoS < 0 || c.MQTTQoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", c.MQTTQoS)
	}
	return nil
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			panic(err)
		}
		config = cfg
	})
	return config
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// StorageEnabled reports whether an object store endpoint is configured.
func (c *Config) StorageEnabled() bool {
	return c.StorageEndpoint != ""
}

// ReportLocation resolves ReportTimezone, falling back to UTC.
func (c *Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as boolean with default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}
