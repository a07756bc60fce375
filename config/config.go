package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Sheets        SheetsConfig
	Forms         FormsConfig
	ReCAPTCHA     ReCAPTCHAConfig
	RateLimit     RateLimitConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the peer address is the client.
	TrustedProxies []string
}

// SheetsConfig points at the Apps Script web app that stores enquiries.
// An empty ScriptURL runs the service in demo mode.
type SheetsConfig struct {
	ScriptURL      string
	TimeoutSeconds int
	MaxRetries     int
}

// SubmissionBudget bounds how long one dispatched enquiry can run, every
// attempt at the full timeout plus slack for backoff and response writing
func (s SheetsConfig) SubmissionBudget() time.Duration {
	return time.Duration(s.TimeoutSeconds*(s.MaxRetries+1))*time.Second + 15*time.Second
}

type FormsConfig struct {
	StrictPhone bool // reject phones that are not Indian mobile numbers
}

type ReCAPTCHAConfig struct {
	SecretKey string // empty disables the captcha check
}

type RateLimitConfig struct {
	EnquiriesPerMinute float64
	EnquiryBurst       int
}

type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("SHEETS_TIMEOUT_SECONDS", 15)
	v.SetDefault("SHEETS_MAX_RETRIES", 2)
	v.SetDefault("FORMS_STRICT_PHONE", false)
	v.SetDefault("ENQUIRY_RATE_PER_MINUTE", 5)
	v.SetDefault("ENQUIRY_RATE_BURST", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("LOG_MAX_SIZE_MB", 50)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "preschool-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "preschool-site")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "preschool-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// The site's build used VITE_GOOGLE_SCRIPT_URL; accept it as a fallback
	scriptURL := strings.TrimSpace(v.GetString("GOOGLE_SCRIPT_URL"))
	if scriptURL == "" {
		scriptURL = strings.TrimSpace(v.GetString("VITE_GOOGLE_SCRIPT_URL"))
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Sheets: SheetsConfig{
			ScriptURL:      scriptURL,
			TimeoutSeconds: v.GetInt("SHEETS_TIMEOUT_SECONDS"),
			MaxRetries:     v.GetInt("SHEETS_MAX_RETRIES"),
		},
		Forms: FormsConfig{
			StrictPhone: v.GetBool("FORMS_STRICT_PHONE"),
		},
		ReCAPTCHA: ReCAPTCHAConfig{
			SecretKey: v.GetString("RECAPTCHA_SECRET_KEY"),
		},
		RateLimit: RateLimitConfig{
			EnquiriesPerMinute: v.GetFloat64("ENQUIRY_RATE_PER_MINUTE"),
			EnquiryBurst:       v.GetInt("ENQUIRY_RATE_BURST"),
		},
		Logging: LoggingConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Dir:        v.GetString("LOG_DIR"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Sheets.ScriptURL != "" {
		u, err := url.Parse(c.Sheets.ScriptURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return fmt.Errorf("GOOGLE_SCRIPT_URL must be an absolute http(s) URL")
		}
	}
	if c.Sheets.TimeoutSeconds <= 0 {
		return fmt.Errorf("SHEETS_TIMEOUT_SECONDS must be positive")
	}
	if c.Sheets.MaxRetries < 0 {
		return fmt.Errorf("SHEETS_MAX_RETRIES must not be negative")
	}

	if c.RateLimit.EnquiriesPerMinute <= 0 || c.RateLimit.EnquiryBurst <= 0 {
		return fmt.Errorf("ENQUIRY_RATE_PER_MINUTE and ENQUIRY_RATE_BURST must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// DemoMode reports whether enquiries are only logged, not sent to the sheet
func (c *Config) DemoMode() bool {
	return c.Sheets.ScriptURL == ""
}
