package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/litebase/pagedb/internal/validation"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	StorageDriverLocal  = "local"
	StorageDriverMemory = "memory"
	StorageDriverObject = "object"

	DefaultDatabaseName = "main.db"
	DefaultPageSize     = 4096
	DefaultVFSName      = "pagedb"
)

type Config struct {
	BusyDelay              int64  `env:"PAGEDB_BUSY_DELAY" validate:"gte=0"`
	BusyRetries            int    `env:"PAGEDB_BUSY_RETRIES" validate:"gte=0"`
	DataPath               string `env:"PAGEDB_DATA_PATH" validate:"required_if=StorageDriver local"`
	DatabaseName           string `env:"PAGEDB_DATABASE_NAME" validate:"required"`
	Debug                  bool   `env:"PAGEDB_DEBUG"`
	Env                    string `env:"PAGEDB_ENV" validate:"oneof=development production test"`
	PageBuffering          bool   `env:"PAGEDB_PAGE_BUFFERING"`
	PageSize               int64  `env:"PAGEDB_PAGE_SIZE" validate:"min=512,max=65536,pow2"`
	StorageAccessKeyId     string `env:"PAGEDB_STORAGE_ACCESS_KEY_ID"`
	StorageBucket          string `env:"PAGEDB_STORAGE_BUCKET" validate:"required_if=StorageDriver object"`
	StorageDriver          string `env:"PAGEDB_STORAGE_DRIVER" validate:"oneof=local memory object"`
	StorageEndpoint        string `env:"PAGEDB_STORAGE_ENDPOINT"`
	StoragePrefix          string `env:"PAGEDB_STORAGE_PREFIX"`
	StorageRegion          string `env:"PAGEDB_STORAGE_REGION"`
	StorageSecretAccessKey string `env:"PAGEDB_STORAGE_SECRET_ACCESS_KEY"`
	VFSName                string `env:"PAGEDB_VFS_NAME" validate:"required"`
}

var validationMessages = map[string]string{
	"PAGEDB_DATA_PATH.required_if":      "A data path is required for the local storage driver",
	"PAGEDB_DATABASE_NAME.required":     "A database name is required",
	"PAGEDB_ENV.oneof":                  "The environment must be development, production or test",
	"PAGEDB_PAGE_SIZE.min":              "The page size must be at least 512 bytes",
	"PAGEDB_PAGE_SIZE.max":              "The page size must be at most 65536 bytes",
	"PAGEDB_PAGE_SIZE.pow2":             "The page size must be a power of two",
	"PAGEDB_STORAGE_BUCKET.required_if": "A bucket is required for the object storage driver",
	"PAGEDB_STORAGE_DRIVER.oneof":       "The storage driver must be local, memory or object",
	"PAGEDB_VFS_NAME.required":          "A VFS name is required",
}

func env(key string, defaultValue string) any {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}

	return defaultValue
}

func envInt(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(env(key, "").(string), 10, 64)

	if err != nil {
		return defaultValue
	}

	return value
}

// Create a configuration from the environment. Values from a .env file in the
// working directory are loaded first and never override variables that are
// already set.
func NewConfig() *Config {
	godotenv.Load()

	return &Config{
		BusyDelay:              envInt("PAGEDB_BUSY_DELAY", 10),
		BusyRetries:            int(envInt("PAGEDB_BUSY_RETRIES", 5)),
		DataPath:               env("PAGEDB_DATA_PATH", "./data").(string),
		DatabaseName:           env("PAGEDB_DATABASE_NAME", DefaultDatabaseName).(string),
		Debug:                  env("PAGEDB_DEBUG", "false") == "true",
		Env:                    env("PAGEDB_ENV", EnvProduction).(string),
		PageBuffering:          env("PAGEDB_PAGE_BUFFERING", "false") == "true",
		PageSize:               envInt("PAGEDB_PAGE_SIZE", DefaultPageSize),
		StorageAccessKeyId:     env("PAGEDB_STORAGE_ACCESS_KEY_ID", "").(string),
		StorageBucket:          env("PAGEDB_STORAGE_BUCKET", "").(string),
		StorageDriver:          env("PAGEDB_STORAGE_DRIVER", StorageDriverLocal).(string),
		StorageEndpoint:        env("PAGEDB_STORAGE_ENDPOINT", "").(string),
		StoragePrefix:          env("PAGEDB_STORAGE_PREFIX", "").(string),
		StorageRegion:          env("PAGEDB_STORAGE_REGION", "").(string),
		StorageSecretAccessKey: env("PAGEDB_STORAGE_SECRET_ACCESS_KEY", "").(string),
		VFSName:                env("PAGEDB_VFS_NAME", DefaultVFSName).(string),
	}
}

// Validate the configuration, returning the failures keyed by variable name.
func (c *Config) Validate() map[string][]string {
	return validation.Validate(c, validationMessages)
}

// Validate the configuration and collapse any failures into an error.
func (c *Config) Err() error {
	return validation.Error(c.Validate())
}
