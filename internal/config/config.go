package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// EnvDBPath overrides the configured database path when set.
const EnvDBPath = "HOARD_DB_PATH"

// DefaultDataDir is where the database and config live unless overridden.
const DefaultDataDir = "data"

// Config holds application configuration.
type Config struct {
	// DBPath is the SQLite database file. Relative paths are resolved
	// against the data directory.
	DBPath string `json:"db_path,omitempty"`

	// WebBind and WebPort control the web UI listener.
	WebBind string `json:"web_bind,omitempty"`
	WebPort int    `json:"web_port,omitempty"`

	// LookupAPIKey is an optional Google Books API key for metadata lookup.
	LookupAPIKey string `json:"lookup_api_key,omitempty"`

	// DBMaxOpenConns limits open database connections. If set to 1, all
	// database access is serialized. 0 means the sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle database connections. 0 means the sql.DB
	// default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DBPath:  "hoard.db",
		WebBind: "127.0.0.1",
		WebPort: 8787,
	}
}

// Load loads configuration from dataDir/config.json, merged over defaults.
// A missing file yields the defaults. The dataDir parameter lets tests use
// t.TempDir() instead of ./data.
func Load(dataDir string) (*Config, error) {
	overlay, err := loadFileRaw(filepath.Join(dataDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), overlay), nil
}

// ResolveDBPath returns the absolute-ish database path for the given data
// directory, honoring the HOARD_DB_PATH environment override.
func ResolveDBPath(cfg *Config, dataDir string) string {
	if env := os.Getenv(EnvDBPath); env != "" {
		return env
	}
	path := cfg.DBPath
	if path == "" {
		path = DefaultConfig().DBPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}

// loadFileRaw loads configuration from a specific file path.
// Returns a zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs; overlay values win when non-zero.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DBPath = overlay.DBPath
	if result.DBPath == "" {
		result.DBPath = base.DBPath
	}

	result.WebBind = overlay.WebBind
	if result.WebBind == "" {
		result.WebBind = base.WebBind
	}

	result.WebPort = overlay.WebPort
	if result.WebPort == 0 {
		result.WebPort = base.WebPort
	}

	result.LookupAPIKey = overlay.LookupAPIKey
	if result.LookupAPIKey == "" {
		result.LookupAPIKey = base.LookupAPIKey
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	return result
}
