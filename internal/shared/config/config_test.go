package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret-key")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.JWT.Secret != "test-jwt-secret-key" {
		t.Errorf("JWT.Secret = %q, want %q", cfg.JWT.Secret, "test-jwt-secret-key")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if !cfg.Reminder.Enabled {
		t.Error("Reminder.Enabled should default to true")
	}
	if cfg.Reminder.PollInterval != time.Minute {
		t.Errorf("Reminder.PollInterval = %v, want 1m", cfg.Reminder.PollInterval)
	}
	if cfg.Redis.SummaryTTL != 5*time.Minute {
		t.Errorf("Redis.SummaryTTL = %v, want 5m", cfg.Redis.SummaryTTL)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing JWT_SECRET, got nil")
	}
}

func TestLoad_InvalidDBPort(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid DB_PORT, got nil")
	}
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("REMINDER_POLL_INTERVAL", "sometimes")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid REMINDER_POLL_INTERVAL, got nil")
	}
}

func TestLoad_FirebaseValidation(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("FIREBASE_ENABLED", "true")
	t.Setenv("FIREBASE_CREDENTIALS_FILE", "")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for Firebase enabled without credentials file, got nil")
	}
}

func TestLoad_TLSValidation(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("TLS_ENABLED", "true")
	t.Setenv("TLS_CERT_PATH", "")
	t.Setenv("TLS_KEY_PATH", "")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for TLS enabled without cert and key paths, got nil")
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ALLOWED_HOSTS", "example.com, api.example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"example.com", "api.example.com"}
	if len(cfg.Server.AllowedHosts) != len(want) {
		t.Fatalf("AllowedHosts = %v, want %v", cfg.Server.AllowedHosts, want)
	}
	for i := range want {
		if cfg.Server.AllowedHosts[i] != want[i] {
			t.Errorf("AllowedHosts[%d] = %q, want %q", i, cfg.Server.AllowedHosts[i], want[i])
		}
	}
}

func TestConnectionString(t *testing.T) {
	dbCfg := DatabaseConfig{
		Host:     "db.local",
		Port:     5433,
		User:     "app",
		Password: "secret",
		DBName:   "contas",
		SSLMode:  "require",
	}

	got := dbCfg.ConnectionString()
	want := "host=db.local port=5433 user=app password=secret dbname=contas sslmode=require"
	if got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}
