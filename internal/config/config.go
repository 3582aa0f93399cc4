package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig
	DB           DBConfig
	Store        StoreConfig
	S3           S3Config
	Log          LogConfig
	Parser       ParserConfig
	Mail         MailConfig
	Schedule     ScheduleConfig
	Notifier     NotifierConfig
	Verification VerificationConfig
	Upload       UploadConfig
	CORS         CORSConfig
	Metrics      MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// StoreConfig selects the job store backend: "memory" or "postgres".
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

// S3Config holds AWS S3 settings for the optional PDF archive.
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ParserConfig holds LLM extraction settings.
type ParserConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`

	// Circuit breaker settings wrapped around the provider.
	BreakerMaxFailures  int `mapstructure:"breaker_max_failures"`
	BreakerCooldownSecs int `mapstructure:"breaker_cooldown_secs"`
}

// Timeout returns the per-call extraction timeout.
func (p *ParserConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSecs) * time.Second
}

// MailConfig holds mailbox (IMAP) settings.
type MailConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	AppPassword     string `mapstructure:"app_password"`
	Mailbox         string `mapstructure:"mailbox"`
	CheckRecentDays int    `mapstructure:"check_recent_days"`
	TimeoutSecs     int    `mapstructure:"timeout_secs"`
}

// Address returns host:port of the IMAP server.
func (m *MailConfig) Address() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// ScheduleConfig holds the daily sweep settings.
type ScheduleConfig struct {
	DailyCheckTime string `mapstructure:"daily_check_time"`
	Timezone       string `mapstructure:"timezone"`
}

// NotifierConfig holds approval notification settings.
type NotifierConfig struct {
	Provider string      `mapstructure:"provider"`
	Slack    SlackConfig `mapstructure:"slack"`
	SES      SESConfig   `mapstructure:"ses"`
}

// SlackConfig holds the Slack channel that receives approval requests.
type SlackConfig struct {
	BotToken    string `mapstructure:"bot_token"`
	ChannelID   string `mapstructure:"channel_id"`
	ChannelName string `mapstructure:"channel_name"`
	APIURL      string `mapstructure:"api_url"`
}

// SESConfig holds the email approval transport settings.
type SESConfig struct {
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ToAddress   string `mapstructure:"to_address"`
}

// VerificationConfig holds the contractual terms every invoice is checked against.
type VerificationConfig struct {
	Vendor      string  `mapstructure:"vendor"`
	HourlyRate  float64 `mapstructure:"hourly_rate"`
	WorkshopFee float64 `mapstructure:"workshop_fee"`
	Subtotal    float64 `mapstructure:"subtotal"`
	TaxRate     float64 `mapstructure:"tax_rate"`
	Total       float64 `mapstructure:"total"`
	NetDays     int     `mapstructure:"net_days"`
}

// UploadConfig holds limits for inbound PDFs.
type UploadConfig struct {
	MaxPDFMB int64 `mapstructure:"max_pdf_mb"`
}

// MaxBytes returns the PDF size ceiling in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxPDFMB * 1024 * 1024
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig holds the prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MonitoringEnabled reports whether the scheduled sweep has everything it needs.
func (c *Config) MonitoringEnabled() bool {
	return c.Mail.User != "" && c.Mail.AppPassword != "" && c.Parser.APIKey != ""
}

// Load reads configuration from environment variables with the INVOICEGATE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICEGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":10000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoicegate")
	v.SetDefault("db.password", "invoicegate_secret")
	v.SetDefault("db.name", "invoicegate_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")

	v.SetDefault("store.backend", "memory")

	// S3 archive defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "invoicegate-archive")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "invoices")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Parser defaults
	v.SetDefault("parser.provider", "gemini")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.model", "gemini-2.5-flash")
	v.SetDefault("parser.timeout_secs", 120)
	v.SetDefault("parser.breaker_max_failures", 5)
	v.SetDefault("parser.breaker_cooldown_secs", 60)

	// Mail defaults
	v.SetDefault("mail.host", "imap.gmail.com")
	v.SetDefault("mail.port", 993)
	v.SetDefault("mail.user", "")
	v.SetDefault("mail.app_password", "")
	v.SetDefault("mail.mailbox", "INBOX")
	v.SetDefault("mail.check_recent_days", 7)
	v.SetDefault("mail.timeout_secs", 60)

	// Schedule defaults
	v.SetDefault("schedule.daily_check_time", "14:00")
	v.SetDefault("schedule.timezone", "Local")

	// Notifier defaults
	v.SetDefault("notifier.provider", "slack")
	v.SetDefault("notifier.slack.channel_name", "invoice-approval")
	v.SetDefault("notifier.slack.api_url", "")
	v.SetDefault("notifier.ses.region", "us-east-1")
	v.SetDefault("notifier.ses.from_address", "invoices@invoicegate.local")
	v.SetDefault("notifier.ses.from_name", "Invoice Gate")

	// Verification defaults
	v.SetDefault("verification.vendor", "Nexus Path Consulting Group LLC")
	v.SetDefault("verification.hourly_rate", 350.00)
	v.SetDefault("verification.workshop_fee", 8500.00)
	v.SetDefault("verification.subtotal", 29570.50)
	v.SetDefault("verification.tax_rate", 0.08875)
	v.SetDefault("verification.total", 32194.88)
	v.SetDefault("verification.net_days", 30)

	v.SetDefault("upload.max_pdf_mb", 15)

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "INVOICEGATE_SERVER_PORT",
		"server.read_timeout":          "INVOICEGATE_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "INVOICEGATE_SERVER_WRITE_TIMEOUT",
		"server.environment":           "INVOICEGATE_SERVER_ENVIRONMENT",
		"db.host":                      "INVOICEGATE_DB_HOST",
		"db.port":                      "INVOICEGATE_DB_PORT",
		"db.user":                      "INVOICEGATE_DB_USER",
		"db.password":                  "INVOICEGATE_DB_PASSWORD",
		"db.name":                      "INVOICEGATE_DB_NAME",
		"db.sslmode":                   "INVOICEGATE_DB_SSLMODE",
		"db.max_open":                  "INVOICEGATE_DB_MAX_OPEN",
		"db.max_idle":                  "INVOICEGATE_DB_MAX_IDLE",
		"db.conn_max_lifetime":         "INVOICEGATE_DB_CONN_MAX_LIFETIME",
		"store.backend":                "INVOICEGATE_STORE_BACKEND",
		"s3.enabled":                   "INVOICEGATE_S3_ENABLED",
		"s3.region":                    "INVOICEGATE_S3_REGION",
		"s3.bucket":                    "INVOICEGATE_S3_BUCKET",
		"s3.endpoint":                  "INVOICEGATE_S3_ENDPOINT",
		"s3.access_key":                "INVOICEGATE_S3_ACCESS_KEY",
		"s3.secret_key":                "INVOICEGATE_S3_SECRET_KEY",
		"s3.prefix":                    "INVOICEGATE_S3_PREFIX",
		"log.level":                    "INVOICEGATE_LOG_LEVEL",
		"log.format":                   "INVOICEGATE_LOG_FORMAT",
		"parser.provider":              "INVOICEGATE_PARSER_PROVIDER",
		"parser.api_key":               "INVOICEGATE_PARSER_API_KEY",
		"parser.model":                 "INVOICEGATE_PARSER_MODEL",
		"parser.timeout_secs":          "INVOICEGATE_PARSER_TIMEOUT_SECS",
		"parser.breaker_max_failures":  "INVOICEGATE_PARSER_BREAKER_MAX_FAILURES",
		"parser.breaker_cooldown_secs": "INVOICEGATE_PARSER_BREAKER_COOLDOWN_SECS",
		"mail.host":                    "INVOICEGATE_MAIL_HOST",
		"mail.port":                    "INVOICEGATE_MAIL_PORT",
		"mail.user":                    "INVOICEGATE_MAIL_USER",
		"mail.app_password":            "INVOICEGATE_MAIL_APP_PASSWORD",
		"mail.mailbox":                 "INVOICEGATE_MAIL_MAILBOX",
		"mail.check_recent_days":       "INVOICEGATE_MAIL_CHECK_RECENT_DAYS",
		"mail.timeout_secs":            "INVOICEGATE_MAIL_TIMEOUT_SECS",
		"schedule.daily_check_time":    "INVOICEGATE_SCHEDULE_DAILY_CHECK_TIME",
		"schedule.timezone":            "INVOICEGATE_SCHEDULE_TIMEZONE",
		"notifier.provider":            "INVOICEGATE_NOTIFIER_PROVIDER",
		"notifier.slack.bot_token":     "INVOICEGATE_NOTIFIER_SLACK_BOT_TOKEN",
		"notifier.slack.channel_id":    "INVOICEGATE_NOTIFIER_SLACK_CHANNEL_ID",
		"notifier.slack.channel_name":  "INVOICEGATE_NOTIFIER_SLACK_CHANNEL_NAME",
		"notifier.slack.api_url":       "INVOICEGATE_NOTIFIER_SLACK_API_URL",
		"notifier.ses.region":          "INVOICEGATE_NOTIFIER_SES_REGION",
		"notifier.ses.from_address":    "INVOICEGATE_NOTIFIER_SES_FROM_ADDRESS",
		"notifier.ses.from_name":       "INVOICEGATE_NOTIFIER_SES_FROM_NAME",
		"notifier.ses.to_address":      "INVOICEGATE_NOTIFIER_SES_TO_ADDRESS",
		"verification.vendor":          "INVOICEGATE_VERIFICATION_VENDOR",
		"verification.hourly_rate":     "INVOICEGATE_VERIFICATION_HOURLY_RATE",
		"verification.workshop_fee":    "INVOICEGATE_VERIFICATION_WORKSHOP_FEE",
		"verification.subtotal":        "INVOICEGATE_VERIFICATION_SUBTOTAL",
		"verification.tax_rate":        "INVOICEGATE_VERIFICATION_TAX_RATE",
		"verification.total":           "INVOICEGATE_VERIFICATION_TOTAL",
		"verification.net_days":        "INVOICEGATE_VERIFICATION_NET_DAYS",
		"upload.max_pdf_mb":            "INVOICEGATE_UPLOAD_MAX_PDF_MB",
		"cors.allowed_origins":         "INVOICEGATE_CORS_ALLOWED_ORIGINS",
		"metrics.enabled":              "INVOICEGATE_METRICS_ENABLED",
		"metrics.path":                 "INVOICEGATE_METRICS_PATH",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOICEGATE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICEGATE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
	}
	cfg.Store = StoreConfig{
		Backend: strings.ToLower(v.GetString("store.backend")),
	}
	cfg.S3 = S3Config{
		Enabled:   v.GetBool("s3.enabled"),
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		Prefix:    v.GetString("s3.prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Parser = ParserConfig{
		Provider:            v.GetString("parser.provider"),
		APIKey:              v.GetString("parser.api_key"),
		Model:               v.GetString("parser.model"),
		TimeoutSecs:         v.GetInt("parser.timeout_secs"),
		BreakerMaxFailures:  v.GetInt("parser.breaker_max_failures"),
		BreakerCooldownSecs: v.GetInt("parser.breaker_cooldown_secs"),
	}
	cfg.Mail = MailConfig{
		Host:            v.GetString("mail.host"),
		Port:            v.GetInt("mail.port"),
		User:            v.GetString("mail.user"),
		AppPassword:     v.GetString("mail.app_password"),
		Mailbox:         v.GetString("mail.mailbox"),
		CheckRecentDays: v.GetInt("mail.check_recent_days"),
		TimeoutSecs:     v.GetInt("mail.timeout_secs"),
	}
	cfg.Schedule = ScheduleConfig{
		DailyCheckTime: v.GetString("schedule.daily_check_time"),
		Timezone:       v.GetString("schedule.timezone"),
	}
	cfg.Notifier = NotifierConfig{
		Provider: strings.ToLower(v.GetString("notifier.provider")),
		Slack: SlackConfig{
			BotToken:    v.GetString("notifier.slack.bot_token"),
			ChannelID:   v.GetString("notifier.slack.channel_id"),
			ChannelName: v.GetString("notifier.slack.channel_name"),
			APIURL:      v.GetString("notifier.slack.api_url"),
		},
		SES: SESConfig{
			Region:      v.GetString("notifier.ses.region"),
			FromAddress: v.GetString("notifier.ses.from_address"),
			FromName:    v.GetString("notifier.ses.from_name"),
			ToAddress:   v.GetString("notifier.ses.to_address"),
		},
	}
	cfg.Verification = VerificationConfig{
		Vendor:      v.GetString("verification.vendor"),
		HourlyRate:  v.GetFloat64("verification.hourly_rate"),
		WorkshopFee: v.GetFloat64("verification.workshop_fee"),
		Subtotal:    v.GetFloat64("verification.subtotal"),
		TaxRate:     v.GetFloat64("verification.tax_rate"),
		Total:       v.GetFloat64("verification.total"),
		NetDays:     v.GetInt("verification.net_days"),
	}
	cfg.Upload = UploadConfig{
		MaxPDFMB: v.GetInt64("upload.max_pdf_mb"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("metrics.enabled"),
		Path:    v.GetString("metrics.path"),
	}

	if cfg.Store.Backend != "memory" && cfg.Store.Backend != "postgres" {
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}

	return cfg, nil
}
