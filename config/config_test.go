package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: false,
		},
		{
			name: "release mode",
			config: &Config{
				Server: ServerConfig{GinMode: "release", AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsDevelopment()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: true,
		},
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: false,
		},
		{
			name: "staging environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "staging"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsProduction()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			URI:      "mongodb://localhost:27017",
			Database: "nya",
		},
		Session: SessionConfig{
			JWTSecret:        "secret",
			AccessTTLMinutes: 15,
			RefreshTTLDays:   30,
		},
		Google: GoogleConfig{ClientID: "client-id"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			mutate:      func(*Config) {},
			expectError: false,
		},
		{
			name:        "missing mongodb uri",
			mutate:      func(c *Config) { c.Database.URI = "" },
			expectError: true,
			errorMsg:    "NYA_MONGODB_URI is required",
		},
		{
			name:        "missing jwt secret",
			mutate:      func(c *Config) { c.Session.JWTSecret = "" },
			expectError: true,
			errorMsg:    "NYA_JWT_SECRET is required",
		},
		{
			name:        "missing google client id",
			mutate:      func(c *Config) { c.Google.ClientID = "" },
			expectError: true,
			errorMsg:    "NYA_GOOGLE_CLIENT_ID is required",
		},
		{
			name: "dev login allows missing google client id",
			mutate: func(c *Config) {
				c.Google.ClientID = ""
				c.Session.DevLoginEnabled = true
			},
			expectError: false,
		},
		{
			name:        "missing origins",
			mutate:      func(c *Config) { c.Server.AllowedOrigins = nil },
			expectError: true,
			errorMsg:    "NYA_FRONTEND_ORIGIN or NYA_ALLOWED_CORS_ORIGINS is required",
		},
		{
			name: "smtp enabled without credentials",
			mutate: func(c *Config) {
				c.SMTP = SMTPConfig{Enabled: true, Host: "smtp.example.com", Port: 465}
			},
			expectError: true,
			errorMsg:    "NYA_SMTP_USER and NYA_SMTP_PASSWORD are required",
		},
		{
			name: "storage enabled without endpoint",
			mutate: func(c *Config) {
				c.ObjectStorage = ObjectStorageConfig{Enabled: true, BucketName: "avatars"}
			},
			expectError: true,
			errorMsg:    "NYA_STORAGE_ENDPOINT and NYA_STORAGE_BUCKET_NAME are required",
		},
		{
			name: "profiling enabled without endpoint",
			mutate: func(c *Config) {
				c.Profiling = ProfilingConfig{Enabled: true}
			},
			expectError: true,
			errorMsg:    "NYA_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	// Clean environment
	os.Clearenv()

	// Set only required fields
	os.Setenv("NYA_JWT_SECRET", "test-secret")
	os.Setenv("NYA_GOOGLE_CLIENT_ID", "test-client-id")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Check defaults
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "nya", cfg.Database.Database)
	assert.Equal(t, 15, cfg.Session.AccessTTLMinutes)
	assert.Equal(t, 30, cfg.Session.RefreshTTLDays)
	assert.Equal(t, "nya_access", cfg.Session.AccessCookieName)
	assert.Equal(t, "nya_refresh", cfg.Session.RefreshCookieName)
	assert.Equal(t, "thapar.edu", cfg.Session.AllowedDomain)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5, cfg.Idea.RateLimit)
	assert.Equal(t, 60, cfg.Idea.RateWindowSecs)
	assert.Equal(t, 600, cfg.Cache.MentorTTLSeconds)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	// Clean environment
	os.Clearenv()

	os.Setenv("NYA_PORT", "9000")
	os.Setenv("GIN_MODE", "debug")
	os.Setenv("NYA_APP_ENV", "development")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("NYA_JWT_SECRET", "super-secret")
	os.Setenv("NYA_GOOGLE_CLIENT_ID", "client-123")
	os.Setenv("NYA_MONGODB_URI", "mongodb://db:27017")
	os.Setenv("NYA_MONGODB_DB", "nya_test")
	os.Setenv("NYA_ALLOWED_CORS_ORIGINS", "https://nya.example.com, https://www.nya.example.com")
	os.Setenv("NYA_ADMIN_EMAILS", "Admin@Thapar.edu, second@thapar.edu")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "development", cfg.Server.AppEnv)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "mongodb://db:27017", cfg.Database.URI)
	assert.Equal(t, "nya_test", cfg.Database.Database)
	assert.Equal(t, []string{"https://nya.example.com", "https://www.nya.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"admin@thapar.edu", "second@thapar.edu"}, cfg.Session.AdminEmails)
	assert.True(t, cfg.IsAdminEmail("ADMIN@thapar.edu"))
	assert.False(t, cfg.IsAdminEmail("other@thapar.edu"))
}
