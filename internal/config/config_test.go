package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "DATABASE_URL", "PORT", "STORAGE_DRIVER", "LOG_LEVEL",
		"DEFAULT_CALENDAR_NAME", "RECURRENCE_MAX_INSTANCES", "SLOT_STEP_MINUTES",
		"SLOT_MAX_RESULTS", "SLOT_SEARCH_TIMEOUT", "WORKING_HOURS_START",
		"WORKING_HOURS_END", "REMINDER_POLL_SCHEDULE", "EVENT_POLICY",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected storage driver %q", cfg.StorageDriver)
	}
	if cfg.RecurrenceMaxInstances != 100 || cfg.SlotStepMinutes != 30 || cfg.SlotMaxResults != 20 {
		t.Fatalf("unexpected engine defaults: %+v", cfg)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "calendar.yaml")
	content := "port: \"9090\"\nrecurrence_max_instances: 10\nslot_search_timeout: 3s\nworking_hours_start: \"08:00\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("SLOT_MAX_RESULTS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("expected env to override file, got %q", cfg.Port)
	}
	if cfg.RecurrenceMaxInstances != 10 {
		t.Fatalf("expected file value, got %d", cfg.RecurrenceMaxInstances)
	}
	if cfg.SlotSearchTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.SlotSearchTimeout)
	}
	if cfg.WorkingHoursStart != "08:00" {
		t.Fatalf("unexpected working hours %q", cfg.WorkingHoursStart)
	}
	if cfg.SlotMaxResults != 20 {
		t.Fatalf("expected default for invalid env, got %d", cfg.SlotMaxResults)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateErrors(t *testing.T) {
	mutations := []func(*Config){
		func(c *Config) { c.StorageDriver = "sqlite" },
		func(c *Config) { c.StorageDriver = StoragePostgres; c.DatabaseURL = "" },
		func(c *Config) { c.LogLevel = "trace" },
		func(c *Config) { c.RecurrenceMaxInstances = 0 },
		func(c *Config) { c.SlotStepMinutes = -1 },
		func(c *Config) { c.SlotMaxResults = 0 },
		func(c *Config) { c.SlotSearchTimeout = 0 },
		func(c *Config) { c.ReminderPollSchedule = "" },
		func(c *Config) { c.EventPolicy = "lenient" },
	}
	for i, mutate := range mutations {
		cfg := Default()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
