package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Billing   BillingConfig
	Messaging MessagingConfig
	Log       LogConfig
	Seed      SeedConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Timezone     string
	SQLitePath   string
	MaxIdleConns int
	MaxOpenConns int
}

type AuthConfig struct {
	Enabled     bool
	JWTSecret   string
	JWTIssuer   string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// BillingConfig holds invoice and import arithmetic settings.
type BillingConfig struct {
	TaxRateMode   string
	ImportTaxRate float64
	InvoicePrefix string
	InvoiceLimit  int
}

// MessagingConfig tunes the outbound WhatsApp clients.
type MessagingConfig struct {
	Timeout        time.Duration
	SendsPerSecond float64
	TwilioBaseURL  string
	MetaBaseURL    string
}

type LogConfig struct {
	Level  string
	Format string
}

// SeedConfig optionally creates a first company on an empty database.
type SeedConfig struct {
	CompanyName   string
	CompanyState  string
	AdminEmail    string
	AdminPassword string
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			Name:         v.GetString("DB_NAME"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			Timezone:     v.GetString("DB_TIMEZONE"),
			SQLitePath:   v.GetString("DB_SQLITE_PATH"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Auth: AuthConfig{
			Enabled:     v.GetBool("AUTH_ENABLED"),
			JWTSecret:   v.GetString("JWT_SECRET"),
			JWTIssuer:   v.GetString("JWT_ISSUER"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Billing: BillingConfig{
			TaxRateMode:   v.GetString("TAX_RATE_MODE"),
			ImportTaxRate: v.GetFloat64("IMPORT_TAX_RATE"),
			InvoicePrefix: v.GetString("INVOICE_PREFIX"),
			InvoiceLimit:  v.GetInt("INVOICE_LIST_LIMIT"),
		},
		Messaging: MessagingConfig{
			Timeout:        time.Duration(v.GetInt("MESSAGING_TIMEOUT_SECONDS")) * time.Second,
			SendsPerSecond: v.GetFloat64("MESSAGING_SENDS_PER_SECOND"),
			TwilioBaseURL:  v.GetString("TWILIO_BASE_URL"),
			MetaBaseURL:    v.GetString("META_BASE_URL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Seed: SeedConfig{
			CompanyName:   v.GetString("SEED_COMPANY_NAME"),
			CompanyState:  v.GetString("SEED_COMPANY_STATE"),
			AdminEmail:    v.GetString("SEED_ADMIN_EMAIL"),
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "billing-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", false)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "billing")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_SQLITE_PATH", "billing.db")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_ISSUER", "billing-api")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,Authorization,Idempotency-Key,X-Request-ID")

	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)

	v.SetDefault("TAX_RATE_MODE", "mean")
	v.SetDefault("IMPORT_TAX_RATE", 18)
	v.SetDefault("INVOICE_PREFIX", "INV")
	v.SetDefault("INVOICE_LIST_LIMIT", 100)

	v.SetDefault("MESSAGING_TIMEOUT_SECONDS", 15)
	v.SetDefault("MESSAGING_SENDS_PER_SECOND", 0)
	v.SetDefault("TWILIO_BASE_URL", "https://api.twilio.com")
	v.SetDefault("META_BASE_URL", "https://graph.facebook.com/v18.0")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Billing.TaxRateMode {
	case "mean", "weighted":
	default:
		return fmt.Errorf("TAX_RATE_MODE must be mean or weighted, got %q", c.Billing.TaxRateMode)
	}
	if c.Billing.ImportTaxRate < 0 {
		return fmt.Errorf("IMPORT_TAX_RATE must not be negative")
	}
	if c.Auth.Enabled && c.App.Env == "production" && c.Auth.JWTSecret == "change-this-secret-in-production" {
		return fmt.Errorf("JWT_SECRET must be set when AUTH_ENABLED=true in production")
	}
	return nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// DriverName is the driver label reported by the health endpoint.
func (c *DatabaseConfig) DriverName() string {
	if c.Driver == "" {
		return "postgres"
	}
	return c.Driver
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
