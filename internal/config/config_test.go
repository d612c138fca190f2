package config

import (
	"os"
	"strings"
	"testing"

	"github.com/mkoelzer/songbase/internal/constants"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	if cfg.Port != constants.DefaultPort {
		t.Errorf("Expected Port to be %s, got %s", constants.DefaultPort, cfg.Port)
	}

	if cfg.DBPath != constants.DefaultDBPath {
		t.Errorf("Expected DBPath to be %s, got %s", constants.DefaultDBPath, cfg.DBPath)
	}

	if cfg.SnapshotCache != constants.DefaultSnapshotCache {
		t.Errorf("Expected SnapshotCache to be %s, got %s", constants.DefaultSnapshotCache, cfg.SnapshotCache)
	}

	if cfg.LogLevel != constants.DefaultLogLevel {
		t.Errorf("Expected LogLevel to be %s, got %s", constants.DefaultLogLevel, cfg.LogLevel)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DB_PATH", "/tmp/test.db")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DB_PATH")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be 9090, got %s", cfg.Port)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected DBPath to be /tmp/test.db, got %s", cfg.DBPath)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}

	cfg.Port = "notaport"
	cfg.LogLevel = "chatty"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation to fail")
	}
	if !strings.Contains(err.Error(), "PORT") {
		t.Errorf("Expected PORT error, got %v", err)
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("Expected LOG_LEVEL error, got %v", err)
	}
}
