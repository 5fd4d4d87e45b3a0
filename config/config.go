package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Session       SessionConfig
	Google        GoogleConfig
	SMTP          SMTPConfig
	Idea          IdeaConfig
	ObjectStorage ObjectStorageConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Cache         CacheConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	FrontendOrigin string
	AllowedOrigins []string
	WebDir         string
}

type DatabaseConfig struct {
	URI      string
	Database string
}

type SessionConfig struct {
	JWTSecret         string
	JWTIssuer         string
	AccessTTLMinutes  int
	RefreshTTLDays    int
	CookieDomain      string
	CookieSecure      bool
	CookieSameSite    string
	AccessCookieName  string
	RefreshCookieName string
	DevLoginEnabled   bool
	AllowAllDomains   bool
	AllowedDomain     string
	AdminEmails       []string
}

type GoogleConfig struct {
	ClientID string
}

type SMTPConfig struct {
	Enabled     bool
	Host        string
	Port        int
	User        string
	Password    string
	From        string
	UseStartTLS bool
}

type IdeaConfig struct {
	APIKey         string
	Model          string
	Endpoint       string
	TimeoutSeconds int
	RateLimit      int
	RateWindowSecs int
}

type ObjectStorageConfig struct {
	Enabled         bool
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceVersion    string
	ServiceInstanceID string
	TracingEnabled    bool
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type CacheConfig struct {
	MentorTTLSeconds int
	DisableCache     bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("NYA_PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("NYA_APP_ENV", "production")
	v.SetDefault("NYA_FRONTEND_ORIGIN", "http://localhost:5173")
	v.SetDefault("NYA_ALLOWED_CORS_ORIGINS", "")
	v.SetDefault("NYA_WEB_DIR", "./web")
	v.SetDefault("NYA_MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("NYA_MONGODB_DB", "nya")
	v.SetDefault("NYA_JWT_ISSUER", "nya-api")
	v.SetDefault("NYA_JWT_ACCESS_MINUTES", 15)
	v.SetDefault("NYA_JWT_REFRESH_DAYS", 30)
	v.SetDefault("NYA_COOKIE_DOMAIN", "")
	v.SetDefault("NYA_COOKIE_SECURE", true)
	v.SetDefault("NYA_COOKIE_SAMESITE", "lax")
	v.SetDefault("NYA_ACCESS_COOKIE_NAME", "nya_access")
	v.SetDefault("NYA_REFRESH_COOKIE_NAME", "nya_refresh")
	v.SetDefault("NYA_DEV_LOGIN_ENABLED", false)
	v.SetDefault("NYA_ALLOW_ALL_DOMAINS", false)
	v.SetDefault("NYA_ALLOWED_DOMAIN", "thapar.edu")
	v.SetDefault("NYA_ADMIN_EMAILS", "")
	v.SetDefault("NYA_SMTP_ENABLED", false)
	v.SetDefault("NYA_SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("NYA_SMTP_PORT", 465)
	v.SetDefault("NYA_SMTP_USE_STARTTLS", false)
	v.SetDefault("NYA_IDEA_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("NYA_IDEA_ENDPOINT", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("NYA_IDEA_TIMEOUT_SECONDS", 20)
	v.SetDefault("NYA_IDEA_RATE_LIMIT", 5)
	v.SetDefault("NYA_IDEA_RATE_WINDOW_SECONDS", 60)
	v.SetDefault("NYA_STORAGE_ENABLED", false)
	v.SetDefault("NYA_STORAGE_REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("NYA_O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("NYA_O11Y_SERVICE_NAME", "nya-api")
	v.SetDefault("NYA_O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("NYA_O11Y_TRACING_ENABLED", false)
	v.SetDefault("NYA_PROFILING_ENABLED", false)
	v.SetDefault("NYA_PROFILING_APP_NAME", "nya-api")
	v.SetDefault("NYA_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("NYA_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("NYA_MENTOR_CACHE_TTL", 600)
	v.SetDefault("NYA_DISABLE_MENTOR_CACHE", false)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("NYA_PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("NYA_APP_ENV"),
			FrontendOrigin: v.GetString("NYA_FRONTEND_ORIGIN"),
			AllowedOrigins: splitList(v.GetString("NYA_ALLOWED_CORS_ORIGINS"), false),
			WebDir:         v.GetString("NYA_WEB_DIR"),
		},
		Database: DatabaseConfig{
			URI:      v.GetString("NYA_MONGODB_URI"),
			Database: v.GetString("NYA_MONGODB_DB"),
		},
		Session: SessionConfig{
			JWTSecret:         v.GetString("NYA_JWT_SECRET"),
			JWTIssuer:         v.GetString("NYA_JWT_ISSUER"),
			AccessTTLMinutes:  v.GetInt("NYA_JWT_ACCESS_MINUTES"),
			RefreshTTLDays:    v.GetInt("NYA_JWT_REFRESH_DAYS"),
			CookieDomain:      v.GetString("NYA_COOKIE_DOMAIN"),
			CookieSecure:      v.GetBool("NYA_COOKIE_SECURE"),
			CookieSameSite:    v.GetString("NYA_COOKIE_SAMESITE"),
			AccessCookieName:  v.GetString("NYA_ACCESS_COOKIE_NAME"),
			RefreshCookieName: v.GetString("NYA_REFRESH_COOKIE_NAME"),
			DevLoginEnabled:   v.GetBool("NYA_DEV_LOGIN_ENABLED"),
			AllowAllDomains:   v.GetBool("NYA_ALLOW_ALL_DOMAINS"),
			AllowedDomain:     strings.ToLower(strings.TrimSpace(v.GetString("NYA_ALLOWED_DOMAIN"))),
			AdminEmails:       splitList(v.GetString("NYA_ADMIN_EMAILS"), true),
		},
		Google: GoogleConfig{
			ClientID: v.GetString("NYA_GOOGLE_CLIENT_ID"),
		},
		SMTP: SMTPConfig{
			Enabled:     v.GetBool("NYA_SMTP_ENABLED"),
			Host:        v.GetString("NYA_SMTP_HOST"),
			Port:        v.GetInt("NYA_SMTP_PORT"),
			User:        v.GetString("NYA_SMTP_USER"),
			Password:    v.GetString("NYA_SMTP_PASSWORD"),
			From:        v.GetString("NYA_SMTP_FROM"),
			UseStartTLS: v.GetBool("NYA_SMTP_USE_STARTTLS"),
		},
		Idea: IdeaConfig{
			APIKey:         v.GetString("NYA_IDEA_API_KEY"),
			Model:          v.GetString("NYA_IDEA_MODEL"),
			Endpoint:       v.GetString("NYA_IDEA_ENDPOINT"),
			TimeoutSeconds: v.GetInt("NYA_IDEA_TIMEOUT_SECONDS"),
			RateLimit:      v.GetInt("NYA_IDEA_RATE_LIMIT"),
			RateWindowSecs: v.GetInt("NYA_IDEA_RATE_WINDOW_SECONDS"),
		},
		ObjectStorage: ObjectStorageConfig{
			Enabled:         v.GetBool("NYA_STORAGE_ENABLED"),
			AccessKeyID:     v.GetString("NYA_STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("NYA_STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("NYA_STORAGE_BUCKET_NAME"),
			Endpoint:        v.GetString("NYA_STORAGE_ENDPOINT"),
			Region:          v.GetString("NYA_STORAGE_REGION"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("NYA_O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("NYA_O11Y_SERVICE_NAME"),
			ServiceVersion:    v.GetString("NYA_O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("NYA_SERVICE_INSTANCE_ID"),
			TracingEnabled:    v.GetBool("NYA_O11Y_TRACING_ENABLED"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("NYA_PROFILING_ENABLED"),
			Endpoint:              v.GetString("NYA_PROFILING_ENDPOINT"),
			AppName:               v.GetString("NYA_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("NYA_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("NYA_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Cache: CacheConfig{
			MentorTTLSeconds: v.GetInt("NYA_MENTOR_CACHE_TTL"),
			DisableCache:     v.GetBool("NYA_DISABLE_MENTOR_CACHE"),
		},
	}

	// CORS falls back to the frontend origin when no explicit list is given
	if len(cfg.Server.AllowedOrigins) == 0 && cfg.Server.FrontendOrigin != "" {
		cfg.Server.AllowedOrigins = []string{cfg.Server.FrontendOrigin}
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Database.URI == "" {
		return fmt.Errorf("NYA_MONGODB_URI is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("NYA_MONGODB_DB is required")
	}

	if c.Session.JWTSecret == "" {
		return fmt.Errorf("NYA_JWT_SECRET is required")
	}
	if c.Session.AccessTTLMinutes <= 0 {
		return fmt.Errorf("NYA_JWT_ACCESS_MINUTES must be positive")
	}
	if c.Session.RefreshTTLDays <= 0 {
		return fmt.Errorf("NYA_JWT_REFRESH_DAYS must be positive")
	}

	if c.Google.ClientID == "" && !c.Session.DevLoginEnabled {
		return fmt.Errorf("NYA_GOOGLE_CLIENT_ID is required unless dev login is enabled")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("NYA_PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("NYA_FRONTEND_ORIGIN or NYA_ALLOWED_CORS_ORIGINS is required")
	}

	if c.SMTP.Enabled {
		if c.SMTP.Host == "" || c.SMTP.Port == 0 {
			return fmt.Errorf("NYA_SMTP_HOST and NYA_SMTP_PORT are required when SMTP is enabled")
		}
		if c.SMTP.User == "" || c.SMTP.Password == "" {
			return fmt.Errorf("NYA_SMTP_USER and NYA_SMTP_PASSWORD are required when SMTP is enabled")
		}
	}

	if c.ObjectStorage.Enabled {
		if c.ObjectStorage.Endpoint == "" || c.ObjectStorage.BucketName == "" {
			return fmt.Errorf("NYA_STORAGE_ENDPOINT and NYA_STORAGE_BUCKET_NAME are required when storage is enabled")
		}
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("NYA_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// IsAdminEmail reports whether the given email is configured as a bootstrap admin.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.Session.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

func splitList(value string, lowercase bool) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if lowercase {
			item = strings.ToLower(item)
		}
		items = append(items, item)
	}
	return items
}
