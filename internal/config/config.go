package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Notifier names accepted by NOTIFIER and by the issue request's service field.
const (
	NotifierSMTP     = "smtp"
	NotifierSendGrid = "sendgrid"
	NotifierLog      = "log"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort         string
	AppEnv          string
	LogLevel        slog.Level
	AWSRegion       string
	AWSEndpointURL  string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID  string
	AWSSecretKey    string
	DynamoTables    DynamoTables
	DynamoBootstrap bool
	Notifier        string
	SMTPHost        string
	SMTPPort        string
	SMTPFrom        string
	SMTPUsername    string
	SMTPPassword    string
	SendGridAPIKey  string
	SendGridSender  string
	SNSRegion       string
	SNSTopicARN     string // empty disables UserVerified publication
	AllowedOrigins  []string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	AuthCodes string
	Users     string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:         getEnv("APP_PORT", "3000"),
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:  getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:  getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoBootstrap: getEnvBool("DYNAMO_BOOTSTRAP", true),
		Notifier:        getEnv("NOTIFIER", NotifierLog),
		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        getEnv("SMTP_PORT", "1025"),
		SMTPFrom:        getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		SendGridSender:  getEnv("SENDGRID_SENDER_EMAIL", ""),
		SNSRegion:       getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN:     getEnv("SNS_TOPIC_ARN", ""),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		DynamoTables: DynamoTables{
			AuthCodes: getEnv("DYNAMO_TABLE_AUTH_CODES", "auth_codes"),
			Users:     getEnv("DYNAMO_TABLE_USERS", "users"),
		},
	}
}

// Validate checks the notifier selection and the credentials it needs.
func (c *Config) Validate() error {
	switch c.Notifier {
	case NotifierSMTP, NotifierLog:
	case NotifierSendGrid:
		if !c.SendGridEnabled() {
			return fmt.Errorf("notifier %q requires SENDGRID_API_KEY and SENDGRID_SENDER_EMAIL", c.Notifier)
		}
	default:
		return fmt.Errorf("unknown notifier %q", c.Notifier)
	}
	return nil
}

// SendGridEnabled reports whether SendGrid credentials are configured.
func (c *Config) SendGridEnabled() bool {
	return c.SendGridAPIKey != "" && c.SendGridSender != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}
