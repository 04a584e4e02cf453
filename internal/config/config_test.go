package config

import (
	"os"
	"path/filepath"
	"testing"
)

// allEnvVars lists every env var Load reads; they are cleared between tests.
var allEnvVars = []string{
	"KVDB_CONFIG", "KVDB_DB", "KVDB_LOG_LEVEL", "KVDB_NATS_URL",
	"KVDB_EXPORT_S3_BUCKET", "KVDB_EXPORT_S3_KEY", "KVDB_EXPORT_S3_REGION", "KVDB_EXPORT_S3_ENDPOINT",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
	// Keep a kvdb.toml in the package directory from leaking into tests.
	t.Chdir(t.TempDir())
}

func writeConfigFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "kvdb.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB != "kvdb.db" {
		t.Errorf("DB = %q, want %q", cfg.DB, "kvdb.db")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.NATSURL != "" {
		t.Errorf("NATSURL = %q, want empty", cfg.NATSURL)
	}
	if cfg.Export.S3Key != "kvdb/export.jsonl" {
		t.Errorf("S3Key = %q", cfg.Export.S3Key)
	}
	if cfg.Export.S3Region != "us-east-1" {
		t.Errorf("S3Region = %q", cfg.Export.S3Region)
	}
	if cfg.IsPostgres() {
		t.Error("default DB should not be postgres")
	}
}

func TestLoadEnv(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("KVDB_DB", "/tmp/other.db")
	t.Setenv("KVDB_LOG_LEVEL", "debug")
	t.Setenv("KVDB_NATS_URL", "nats://localhost:4222")
	t.Setenv("KVDB_EXPORT_S3_BUCKET", "my-bucket")
	t.Setenv("KVDB_EXPORT_S3_ENDPOINT", "http://minio:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB != "/tmp/other.db" {
		t.Errorf("DB = %q", cfg.DB)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
	if cfg.Export.S3Bucket != "my-bucket" {
		t.Errorf("S3Bucket = %q", cfg.Export.S3Bucket)
	}
	if cfg.Export.S3Endpoint != "http://minio:9000" {
		t.Errorf("S3Endpoint = %q", cfg.Export.S3Endpoint)
	}
}

func TestLoadDefaultFile(t *testing.T) {
	clearAllEnv(t)
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	writeConfigFile(t, dir, `
db = "data/store.db"
log_level = "info"

[export]
s3_bucket = "backups"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB != "data/store.db" {
		t.Errorf("DB = %q", cfg.DB)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Export.S3Bucket != "backups" {
		t.Errorf("S3Bucket = %q", cfg.Export.S3Bucket)
	}
	// Unset keys keep their defaults.
	if cfg.Export.S3Region != "us-east-1" {
		t.Errorf("S3Region = %q", cfg.Export.S3Region)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearAllEnv(t)
	path := writeConfigFile(t, t.TempDir(), `db = "from-file.db"`)
	t.Setenv("KVDB_CONFIG", path)
	t.Setenv("KVDB_DB", "from-env.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB != "from-env.db" {
		t.Errorf("DB = %q, want %q", cfg.DB, "from-env.db")
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("KVDB_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
	}{
		{"Syntax", `db = `},
		{"UnknownKey", `database = "x.db"`},
		{"WrongType", `db = 42`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			t.Setenv("KVDB_CONFIG", writeConfigFile(t, t.TempDir(), tc.body))
			if _, err := Load(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestIsPostgres(t *testing.T) {
	for _, tc := range []struct {
		db   string
		want bool
	}{
		{"kvdb.db", false},
		{"/var/lib/kvdb/kvdb.db", false},
		{":memory:", false},
		{"postgres://localhost/kvdb", true},
		{"postgresql://user@db:5432/kvdb?sslmode=disable", true},
	} {
		c := &Config{DB: tc.db}
		if got := c.IsPostgres(); got != tc.want {
			t.Errorf("IsPostgres(%q) = %v, want %v", tc.db, got, tc.want)
		}
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
