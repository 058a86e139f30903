package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORE_DRIVER", "MONGO_URI", "MONGO_DB_NAME", "SERVER_PORT", "CORS_ORIGIN",
		"MAX_BODY_BYTES", "CLERK_SECRET_KEY", "CLERK_API_URL", "CLERK_JWT_KEY",
		"CLERK_JWT_SECRET", "SUPERUSER_EMAIL", "LOG_FILE", "LOG_LEVEL",
		"DASHBOARD_CAPACITY_HOURS", "DASHBOARD_EXPENSE_COST", "DASHBOARD_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CLERK_JWT_SECRET", "secret")
	t.Setenv("SUPERUSER_EMAIL", "  root@example.com ")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "projectflow", cfg.MongoDBName)
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "https://api.clerk.com/v1", cfg.ClerkAPIURL)
	assert.Equal(t, "root@example.com", cfg.SuperuserEmail)
	assert.Equal(t, int64(50<<20), cfg.MaxBodyBytes)
	assert.Equal(t, DefaultDashboard(), cfg.Dashboard)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CLERK_JWT_SECRET", "secret")
	t.Setenv("MAX_BODY_BYTES", "1024")
	t.Setenv("DASHBOARD_CAPACITY_HOURS", "120")
	t.Setenv("DASHBOARD_EXPENSE_COST", "50.5")
	t.Setenv("DASHBOARD_LIMIT", "5")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, 120.0, cfg.Dashboard.CapacityHours)
	assert.Equal(t, 50.5, cfg.Dashboard.ExpenseCost)
	assert.Equal(t, 5, cfg.Dashboard.Limit)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"mongo without uri", map[string]string{"CLERK_JWT_SECRET": "s"}, "MONGO_URI is not set"},
		{"unknown driver", map[string]string{"STORE_DRIVER": "redis", "CLERK_JWT_SECRET": "s"}, `unknown STORE_DRIVER "redis"`},
		{"no token key", map[string]string{"STORE_DRIVER": "memory"}, "one of CLERK_JWT_KEY or CLERK_JWT_SECRET must be set"},
		{"bad body limit", map[string]string{"STORE_DRIVER": "memory", "CLERK_JWT_SECRET": "s", "MAX_BODY_BYTES": "lots"}, "invalid MAX_BODY_BYTES"},
		{"zero body limit", map[string]string{"STORE_DRIVER": "memory", "CLERK_JWT_SECRET": "s", "MAX_BODY_BYTES": "0"}, "MAX_BODY_BYTES must be positive"},
		{"zero capacity", map[string]string{"STORE_DRIVER": "memory", "CLERK_JWT_SECRET": "s", "DASHBOARD_CAPACITY_HOURS": "0"}, "DASHBOARD_CAPACITY_HOURS must be positive"},
		{"zero limit", map[string]string{"STORE_DRIVER": "memory", "CLERK_JWT_SECRET": "s", "DASHBOARD_LIMIT": "0"}, "DASHBOARD_LIMIT must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even to "".
	os.Unsetenv("STORE_DRIVER")
	os.Unsetenv("CLERK_JWT_SECRET")
	t.Cleanup(func() {
		os.Unsetenv("STORE_DRIVER")
		os.Unsetenv("CLERK_JWT_SECRET")
	})

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_DRIVER=memory\nCLERK_JWT_SECRET=from-file\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "from-file", cfg.ClerkJWTSecret)
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CLERK_JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.ClerkJWTSecret)
}
