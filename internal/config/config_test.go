package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test-defaults")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageJSON, cfg.Storage.Mode)
	assert.Equal(t, filepath.Join("data", "patients.json"), cfg.Storage.JSONStorePath)
	assert.Equal(t, filepath.Join("data", "patients.sqlite"), cfg.Storage.SQLitePath)
	assert.Equal(t, time.Second, cfg.Autosave.Delay)
	assert.Equal(t, "en", cfg.Report.Language)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test-overrides")
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_MODE", " SQLite ")
	t.Setenv("DATA_DIR", "/var/lib/audiometry")
	t.Setenv("AUTOSAVE_DELAY", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "https://clinic.example.com, ,https://admin.example.com")
	t.Setenv("S3_BUCKET", "reports")
	t.Setenv("LANGUAGE", "es")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, StorageSQLite, cfg.Storage.Mode)
	assert.Equal(t, "/var/lib/audiometry/patients.sqlite", cfg.Storage.SQLitePath)
	assert.Equal(t, 250*time.Millisecond, cfg.Autosave.Delay)
	assert.Equal(t, []string{"https://clinic.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "es", cfg.Report.Language)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "unknown storage mode", key: "STORAGE_MODE", value: "mongo", wantErr: `invalid STORAGE_MODE "mongo"`},
		{name: "unparsable delay", key: "AUTOSAVE_DELAY", value: "soon", wantErr: "invalid AUTOSAVE_DELAY"},
		{name: "non-positive delay", key: "AUTOSAVE_DELAY", value: "0s", wantErr: "AUTOSAVE_DELAY must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "test-invalid")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
