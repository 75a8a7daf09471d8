package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/project-time-tracker/internal/config"
)

func TestLoadCreatesDefault(t *testing.T) {
	t.Setenv(config.EnvDBPath, "")
	path := filepath.Join(t.TempDir(), "data", "config.json")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != config.DefaultDBPath {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, config.DefaultDBPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	var onDisk map[string]string
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("written config is not JSON: %v", err)
	}
	if onDisk["db_path"] != config.DefaultDBPath {
		t.Errorf("db_path on disk = %q, want %q", onDisk["db_path"], config.DefaultDBPath)
	}
}

func TestLoadExistingWithComments(t *testing.T) {
	t.Setenv(config.EnvDBPath, "")
	path := filepath.Join(t.TempDir(), "config.json")
	content := "// where the database lives\n{\n  // custom\n  \"db_path\": \"/tmp/tt.sqlite\"\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/tt.sqlite" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/tt.sqlite")
	}
}

func TestLoadEmptyDBPathFallsBack(t *testing.T) {
	t.Setenv(config.EnvDBPath, "")
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != config.DefaultDBPath {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, config.DefaultDBPath)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if cfg.DBPath != config.DefaultDBPath {
		t.Errorf("DBPath on error = %q, want default", cfg.DBPath)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := (config.Config{DBPath: "from-file.sqlite"}).Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv(config.EnvDBPath, "from-env.sqlite")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "from-env.sqlite" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "from-env.sqlite")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("TT_CONFIG=/srv/tt/config.json\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvConfigPath, "")
	os.Unsetenv(config.EnvConfigPath)

	if err := config.LoadEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := config.PathFromEnv(); got != "/srv/tt/config.json" {
		t.Errorf("PathFromEnv = %q, want %q", got, "/srv/tt/config.json")
	}
}

func TestPathFromEnvDefault(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	if got := config.PathFromEnv(); got != config.DefaultPath {
		t.Errorf("PathFromEnv = %q, want %q", got, config.DefaultPath)
	}
}
