// file: cmd/root_test.go
// version: 2.0.0
// guid: 7eae8d0c-7fda-4f45-8f73-5d1e0c7c9f1a

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jdfalk/library-proto/internal/config"
)

func setFlag(t *testing.T, name, value string) {
	t.Helper()
	if err := rootCmd.PersistentFlags().Set(name, value); err != nil {
		t.Fatalf("failed to set --%s: %v", name, err)
	}
}

func TestInitConfigCreatesDatabaseDirectory(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "db", "library.pebble")

	origCfgFile := cfgFile
	origConfig := config.AppConfig
	defer func() {
		cfgFile = origCfgFile
		config.AppConfig = origConfig
	}()

	cfgFile = filepath.Join(tempDir, "missing.yaml")
	setFlag(t, "db-type", "pebble")
	setFlag(t, "db", dbPath)

	initConfig()

	if config.AppConfig.DatabasePath != dbPath {
		t.Fatalf("expected database path %s, got %s", dbPath, config.AppConfig.DatabasePath)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Fatalf("expected database directory to exist: %v", err)
	}
}

func TestInitConfigReadsConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "library-proto.yaml")
	if err := os.WriteFile(configPath, []byte("requests_per_minute: 7\nimage_cache_size: 5\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	origCfgFile := cfgFile
	origConfig := config.AppConfig
	defer func() {
		cfgFile = origCfgFile
		config.AppConfig = origConfig
	}()

	cfgFile = configPath
	initConfig()

	if config.AppConfig.RequestsPerMinute != 7 {
		t.Errorf("expected 7 requests per minute, got %d", config.AppConfig.RequestsPerMinute)
	}
	if config.AppConfig.ImageCacheSize != 5 {
		t.Errorf("expected cache size 5, got %d", config.AppConfig.ImageCacheSize)
	}
}

func TestInitConfigEnvOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "library-proto.yaml")
	if err := os.WriteFile(configPath, []byte("image_cache_size: 5\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	origCfgFile := cfgFile
	origConfig := config.AppConfig
	defer func() {
		cfgFile = origCfgFile
		config.AppConfig = origConfig
	}()

	t.Setenv("LIBRARY_PROTO_IMAGE_CACHE_SIZE", "9")
	cfgFile = configPath
	initConfig()

	if config.AppConfig.ImageCacheSize != 9 {
		t.Errorf("expected env to win with 9, got %d", config.AppConfig.ImageCacheSize)
	}
}

func TestCompleteCommand(t *testing.T) {
	got := completeCommand("se")
	if len(got) != 1 || got[0] != "search" {
		t.Fatalf("expected [search], got %v", got)
	}
	if got := completeCommand("x"); len(got) != 0 {
		t.Fatalf("expected no completions, got %v", got)
	}
	if got := completeCommand(""); len(got) != len(shellCommands) {
		t.Fatalf("expected every command, got %v", got)
	}
}

func TestParsePosition(t *testing.T) {
	if n, err := parsePosition("3"); err != nil || n != 3 {
		t.Fatalf("expected 3, got %d (%v)", n, err)
	}
	for _, bad := range []string{"", "0", "-1", "two"} {
		if _, err := parsePosition(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestReloadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "library-proto.yaml")
	if err := os.WriteFile(configPath, []byte("requests_per_minute: 7\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	origCfgFile := cfgFile
	origConfig := config.AppConfig
	defer func() {
		cfgFile = origCfgFile
		config.AppConfig = origConfig
	}()

	cfgFile = configPath
	initConfig()

	if err := os.WriteFile(configPath, []byte("requests_per_minute: 11\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	reloadConfig(configPath)

	if config.AppConfig.RequestsPerMinute != 11 {
		t.Errorf("expected reloaded requests_per_minute 11, got %d", config.AppConfig.RequestsPerMinute)
	}
}
