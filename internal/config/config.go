package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database    DatabaseConfig
	JWT         JWTConfig
	App         AppConfig
	Storage     StorageConfig
	WhatsApp    WhatsAppConfig
	Reminders   RemindersConfig
	Presentismo PresentismoConfig
	Outbox      OutboxConfig
	Seed        SeedConfig
	Legacy      LegacyConfig
	CORS        CORSConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	AdminPromoteToken  string
	MigrateOnStartup   bool
	DefaultCountryCode string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// WhatsAppConfig selects and configures the messaging provider.
type WhatsAppConfig struct {
	Provider          string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFrom        string
	TwilioBaseURL     string
	MetaAccessToken   string
	MetaPhoneNumberID string
	MetaBaseURL       string
	RequestTimeout    time.Duration
}

type RemindersConfig struct {
	Enabled       bool
	Cron          string
	OnlyActive    bool
	Departamentos []string
	Sucursales    []string
}

type PresentismoConfig struct {
	ReportEnabled bool
	ReportCron    string
	Recipients    []string
}

type OutboxConfig struct {
	Workers      int
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	BaseBackoff  time.Duration
}

type SeedConfig struct {
	DefaultUser   bool
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

type LegacyConfig struct {
	MongoURI string
	MongoDB  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		URL:      getEnv("DATABASE_URL", ""),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "sj_empleados"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := getEnvInt("PORT", 5000)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("TZ_APP", "America/Argentina/Buenos_Aires"),
		AdminPromoteToken:  getEnv("ADMIN_PROMOTE_TOKEN", ""),
		MigrateOnStartup:   getEnvBool("DB_MIGRATE_ON_STARTUP", true),
		DefaultCountryCode: getEnv("WHATSAPP_DEFAULT_COUNTRY_CODE", "54"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%d/uploads", appPort)),
	}

	requestTimeout, err := getEnvDuration("WHATSAPP_REQUEST_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	config.WhatsApp = WhatsAppConfig{
		Provider:          strings.ToLower(getEnv("WHATSAPP_PROVIDER", "twilio")),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:        getEnv("TWILIO_WHATSAPP_FROM", ""),
		TwilioBaseURL:     getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
		MetaAccessToken:   getEnv("META_WHATSAPP_TOKEN", ""),
		MetaPhoneNumberID: getEnv("META_WHATSAPP_PHONE_NUMBER_ID", ""),
		MetaBaseURL:       getEnv("META_WHATSAPP_BASE_URL", "https://graph.facebook.com/v19.0"),
		RequestTimeout:    requestTimeout,
	}

	config.Reminders = RemindersConfig{
		Enabled:       getEnvBool("REMINDERS_ENABLED", true),
		Cron:          getEnv("REMINDERS_CRON", "0 8 * * *"),
		OnlyActive:    getEnvBool("REMINDERS_ONLY_ACTIVE", true),
		Departamentos: getEnvSlice("REMINDERS_DEPARTAMENTO"),
		Sucursales:    getEnvSlice("REMINDERS_SUCURSAL"),
	}

	config.Presentismo = PresentismoConfig{
		ReportEnabled: getEnvBool("PRESENTISMO_REPORT_ENABLED", true),
		ReportCron:    getEnv("PRESENTISMO_REPORT_CRON", "0 9 20 * *"),
		Recipients:    getEnvSlice("PRESENTISMO_WHATSAPP_TO"),
	}

	workers, err := getEnvInt("OUTBOX_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	batchSize, err := getEnvInt("OUTBOX_BATCH_SIZE", 20)
	if err != nil {
		return nil, err
	}
	maxAttempts, err := getEnvInt("OUTBOX_MAX_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}
	pollInterval, err := getEnvDuration("OUTBOX_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}
	baseBackoff, err := getEnvDuration("OUTBOX_BASE_BACKOFF", 30*time.Second)
	if err != nil {
		return nil, err
	}

	config.Outbox = OutboxConfig{
		Workers:      workers,
		PollInterval: pollInterval,
		BatchSize:    batchSize,
		MaxAttempts:  maxAttempts,
		BaseBackoff:  baseBackoff,
	}

	config.Seed = SeedConfig{
		DefaultUser:   getEnvBool("SEED_DEFAULT_USER", true),
		AdminEmail:    getEnv("ADMIN_SEED_EMAIL", "admin@test.com"),
		AdminPassword: getEnv("ADMIN_SEED_PASSWORD", "123456"),
		AdminName:     getEnv("ADMIN_SEED_NAME", "Administrador"),
	}

	config.Legacy = LegacyConfig{
		MongoURI: getEnv("LEGACY_MONGO_URI", ""),
		MongoDB:  getEnv("LEGACY_MONGO_DB", "sj-empleados"),
	}

	origins := getEnvSlice("CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = getEnvSlice("CORS_ORIGIN")
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	config.CORS = CORSConfig{AllowedOrigins: origins}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("DATABASE_URL or DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid TZ_APP: %w", err)
	}
	switch c.WhatsApp.Provider {
	case "twilio", "meta", "mock":
	default:
		return fmt.Errorf("unsupported WHATSAPP_PROVIDER: %s", c.WhatsApp.Provider)
	}
	if c.Outbox.Workers < 1 {
		return fmt.Errorf("OUTBOX_WORKERS must be at least 1")
	}
	if c.Outbox.MaxAttempts < 1 {
		return fmt.Errorf("OUTBOX_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Location returns the configured timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
