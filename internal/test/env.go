package test

import (
	"os"
	"testing"

	"github.com/litebase/pagedb/pkg/config"
)

func setTestEnvVariable(t testing.TB) {
	envVars := map[string]string{
		"PAGEDB_BUSY_DELAY":     "1",
		"PAGEDB_BUSY_RETRIES":   "3",
		"PAGEDB_DATABASE_NAME":  config.DefaultDatabaseName,
		"PAGEDB_DEBUG":          "false",
		"PAGEDB_ENV":            config.EnvTest,
		"PAGEDB_PAGE_BUFFERING": "false",
		"PAGEDB_PAGE_SIZE":      "4096",
		"PAGEDB_STORAGE_BUCKET": "pagedb-test",
		"PAGEDB_STORAGE_DRIVER": config.StorageDriverMemory,
		"PAGEDB_STORAGE_PREFIX": "test",
		"PAGEDB_STORAGE_REGION": "us-east-1",
		"PAGEDB_VFS_NAME":       "pagedb-test",
	}

	for key, value := range envVars {
		if os.Getenv(key) == "" {
			t.Setenv(key, value)
		}
	}

	if os.Getenv("PAGEDB_DATA_PATH") == "" {
		t.Setenv("PAGEDB_DATA_PATH", t.TempDir())
	}
}

// Create a configuration for tests. Variables already present in the
// environment take precedence over the test defaults.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	setTestEnvVariable(t)

	c := config.NewConfig()

	if err := c.Err(); err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}

	return c
}
