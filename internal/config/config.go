package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Mail     MailConfig
	WhatsApp WhatsAppConfig
	Push     PushConfig
	App      AppConfig
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// MailConfig holds SMTP credentials for the email channel
type MailConfig struct {
	SMTPHost    string
	SMTPPort    int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// WhatsAppConfig holds WhatsApp Business API credentials. FromNumber must be
// in international format with a leading plus.
type WhatsAppConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	APIBaseURL string
	// DefaultCountryCode (digits only, e.g. "972") is prepended to bare
	// national numbers when normalizing recipients. Empty disables the rule.
	DefaultCountryCode string
}

// PushConfig holds mobile push delivery settings (SNS platform application)
type PushConfig struct {
	AWSRegion      string
	PlatformAppARN string
}

// AppConfig holds product-level settings used when building notification content
type AppConfig struct {
	PublicBaseURL string
	SupportEmail  string
	DefaultLocale string
	JWTSecret     string
}

// Load reads configuration from environment variables. A .env file is loaded
// first when present so local development works without exporting anything.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnvInt("DATABASE_PORT", 5432),
			User:     getEnv("DATABASE_USER", "postgres"),
			Password: getEnv("DATABASE_PASSWORD", ""),
			DBName:   getEnv("DATABASE_DBNAME", "match_portal"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
		},
		Mail: MailConfig{
			SMTPHost:    getEnv("SMTP_HOST", ""),
			SMTPPort:    getEnvInt("SMTP_PORT", 587),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			FromAddress: getEnv("MAIL_FROM_ADDRESS", ""),
			FromName:    getEnv("MAIL_FROM_NAME", "Match Portal"),
		},
		WhatsApp: WhatsAppConfig{
			AccountSID:         getEnv("WHATSAPP_ACCOUNT_SID", ""),
			AuthToken:          getEnv("WHATSAPP_AUTH_TOKEN", ""),
			FromNumber:         getEnv("WHATSAPP_FROM_NUMBER", ""),
			APIBaseURL:         getEnv("WHATSAPP_API_BASE_URL", "https://api.twilio.com"),
			DefaultCountryCode: getEnv("WHATSAPP_DEFAULT_COUNTRY_CODE", ""),
		},
		Push: PushConfig{
			AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
			PlatformAppARN: getEnv("SNS_PLATFORM_APP_ARN", ""),
		},
		App: AppConfig{
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
			SupportEmail:  getEnv("SUPPORT_EMAIL", ""),
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
			JWTSecret:     getEnv("JWT_SECRET", ""),
		},
	}

	if cfg.Mail.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST is not set, email delivery disabled")
	}
	if cfg.WhatsApp.AccountSID == "" || cfg.WhatsApp.AuthToken == "" {
		log.Println("Warning: WhatsApp credentials are not set, WhatsApp delivery disabled")
	}
	if cfg.Push.PlatformAppARN == "" {
		log.Println("Warning: SNS_PLATFORM_APP_ARN is not set, push delivery disabled")
	}

	return cfg, nil
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server listen address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
