package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// DefaultPath is where the config file lives unless overridden.
	DefaultPath = "./data/config.json"
	// DefaultDBPath is the SQLite file used when db_path is unset.
	DefaultDBPath = "./data/db.sqlite"

	// EnvConfigPath overrides DefaultPath.
	EnvConfigPath = "TT_CONFIG"
	// EnvDBPath overrides db_path from the file without rewriting it.
	EnvDBPath = "TT_DB_PATH"
)

// Config is the tt configuration, stored as a flat JSON object.
// Full-line // comments are allowed in the file.
type Config struct {
	DBPath string `json:"db_path"`
}

// Default returns a Config pre-filled with defaults.
func Default() Config {
	return Config{DBPath: DefaultDBPath}
}

// LoadEnv loads KEY=value pairs from the given dotenv files (".env" when
// none are given) into the process environment. Missing files are ignored;
// variables already set are not overwritten.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("no dotenv file", "path", f)
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// PathFromEnv returns $TT_CONFIG or DefaultPath.
func PathFromEnv() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config at path, creating it with defaults on first run.
// $TT_DB_PATH, when set, takes precedence over the file's db_path.
func Load(path string) (Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return cfg, err
	}
	if p := os.Getenv(EnvDBPath); p != "" {
		cfg.DBPath = p
	}
	return cfg, nil
}

func readFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			// Not fatal: the defaults still work for this run.
			slog.Warn("could not create config file", "path", path, "error", err)
		}
		return cfg, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}
	return cfg, nil
}

// Save writes the config to path as indented JSON, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
