package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	content := `server:
  host: 127.0.0.1
  port: 9090
database:
  host: db.internal
  port: 5432
  user: wayfarer
  password: secret
  dbname: wayfarer
  sslmode: disable
redis:
  addr: localhost:6379
auth:
  token_secret: hush
log:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.APNs.KeyPath != "" {
		t.Errorf("apns key path = %q, want empty when omitted", cfg.APNs.KeyPath)
	}
	if cfg.Auth.TokenSecret != "hush" {
		t.Errorf("token secret = %q", cfg.Auth.TokenSecret)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}

	want := "host=db.internal port=5432 user=wayfarer password=secret dbname=wayfarer sslmode=disable"
	if dsn := cfg.Database.DSN(); dsn != want {
		t.Errorf("DSN() = %q, want %q", dsn, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not: a: map"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
