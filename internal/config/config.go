package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is read when KVDB_CONFIG is unset and the file exists in the
// working directory.
const DefaultFile = "kvdb.toml"

// Config is resolved in order: defaults, TOML file, environment. Command-line
// flags are applied on top by the caller.
type Config struct {
	DB       string `toml:"db"`        // KVDB_DB (default "kvdb.db"; a postgres:// URL selects PostgreSQL)
	LogLevel string `toml:"log_level"` // KVDB_LOG_LEVEL (default "warn")
	NATSURL  string `toml:"nats_url"`  // KVDB_NATS_URL (optional, empty = no events)

	Export ExportConfig `toml:"export"`
}

// ExportConfig configures the S3 destination of `kvdb export --s3`.
type ExportConfig struct {
	S3Bucket   string `toml:"s3_bucket"`   // KVDB_EXPORT_S3_BUCKET
	S3Key      string `toml:"s3_key"`      // KVDB_EXPORT_S3_KEY (default "kvdb/export.jsonl")
	S3Region   string `toml:"s3_region"`   // KVDB_EXPORT_S3_REGION (default "us-east-1")
	S3Endpoint string `toml:"s3_endpoint"` // KVDB_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
}

func defaults() *Config {
	return &Config{
		DB:       "kvdb.db",
		LogLevel: "warn",
		Export: ExportConfig{
			S3Key:    "kvdb/export.jsonl",
			S3Region: "us-east-1",
		},
	}
}

func Load() (*Config, error) {
	c := defaults()

	path := os.Getenv("KVDB_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := loadFile(path, c); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	c.DB = envOrDefault("KVDB_DB", c.DB)
	c.LogLevel = envOrDefault("KVDB_LOG_LEVEL", c.LogLevel)
	c.NATSURL = envOrDefault("KVDB_NATS_URL", c.NATSURL)
	c.Export.S3Bucket = envOrDefault("KVDB_EXPORT_S3_BUCKET", c.Export.S3Bucket)
	c.Export.S3Key = envOrDefault("KVDB_EXPORT_S3_KEY", c.Export.S3Key)
	c.Export.S3Region = envOrDefault("KVDB_EXPORT_S3_REGION", c.Export.S3Region)
	c.Export.S3Endpoint = envOrDefault("KVDB_EXPORT_S3_ENDPOINT", c.Export.S3Endpoint)

	if c.DB == "" {
		return nil, fmt.Errorf("database location must not be empty")
	}
	return c, nil
}

func loadFile(path string, c *Config) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

// IsPostgres reports whether DB names a PostgreSQL server rather than a
// SQLite file.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DB, "postgres://") || strings.HasPrefix(c.DB, "postgresql://")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
