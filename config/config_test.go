package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"RELAY_CONFIG_FILE", "SERVER_PORT", "STATIC_DIR", "DEMO_CADENCE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.StaticDir != "static" {
		t.Errorf("StaticDir = %q, want static", cfg.StaticDir)
	}
	if cfg.DemoCadence != 200*time.Millisecond {
		t.Errorf("DemoCadence = %s, want 200ms", cfg.DemoCadence)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("DEMO_CADENCE", "50ms")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Errorf("OpenAIModel = %q, want gpt-4o", cfg.OpenAIModel)
	}
	if cfg.DemoCadence != 50*time.Millisecond {
		t.Errorf("DemoCadence = %s, want 50ms", cfg.DemoCadence)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	data := []byte("serverPort: \"7070\"\nopenaiModel: gpt-4o-mini\ndemoCadenceMS: 100\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("RELAY_CONFIG_FILE", path)

	cfg := Load()

	if cfg.ServerPort != "7070" {
		t.Errorf("ServerPort = %q, want 7070", cfg.ServerPort)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("OpenAIModel = %q, want gpt-4o-mini", cfg.OpenAIModel)
	}
	if cfg.DemoCadence != 100*time.Millisecond {
		t.Errorf("DemoCadence = %s, want 100ms", cfg.DemoCadence)
	}
}

func TestEnvBeatsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	if err := os.WriteFile(path, []byte("serverPort: \"7070\"\n"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("RELAY_CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "6060")

	cfg := Load()
	if cfg.ServerPort != "6060" {
		t.Errorf("ServerPort = %q, want env override 6060", cfg.ServerPort)
	}
}
