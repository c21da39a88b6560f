package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TASKDECK_API_URL", "")
	t.Setenv("TASKDECK_API_KEY", "")
	t.Setenv("TASKDECK_LOG_LEVEL", "")
	t.Setenv("TASKDECK_LOG_FILE", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.IsDevelopment())
	assert.NotEmpty(t, cfg.LogFile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TASKDECK_API_URL", "https://api.example.com")
	t.Setenv("TASKDECK_API_KEY", "k-123")
	t.Setenv("TASKDECK_LOG_LEVEL", "debug")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "k-123", cfg.APIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty url", Config{APIBaseURL: ""}, true},
		{"http in development", Config{APIBaseURL: "http://localhost:5000", Environment: "development"}, false},
		{"http in production", Config{APIBaseURL: "http://api.example.com", Environment: "production"}, true},
		{"https in production", Config{APIBaseURL: "https://api.example.com", Environment: "production"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvironmentClassification(t *testing.T) {
	assert.True(t, (&Config{Environment: "prod"}).IsProduction())
	assert.False(t, (&Config{Environment: "staging"}).IsProduction())
	assert.True(t, (&Config{Environment: "dev"}).IsDevelopment())
	assert.True(t, (&Config{Environment: ""}).IsDevelopment())
	assert.False(t, (&Config{Environment: "production"}).IsDevelopment())
}
