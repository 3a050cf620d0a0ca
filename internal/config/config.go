package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Token store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds runtime settings for the bartr client.
type Config struct {
	APIURL      string
	DataDir     string
	TokenStore  string
	LogLevel    string
	HTTPTimeout time.Duration
	// NoticeDelay is how long the "item added" notice stays up before the
	// items view flips to the user's own list.
	NoticeDelay time.Duration
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:8080"
	c.DataDir = defaultDataDir()
	c.TokenStore = StoreFile
	c.LogLevel = "info"
	c.HTTPTimeout = 30 * time.Second
	c.NoticeDelay = 1500 * time.Millisecond
}

// LogPath is where diagnostic logs are written.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "bartr.log")
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("config: api url is empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: data dir is empty")
	}
	switch c.TokenStore {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("config: unknown token store %q (want %q or %q)", c.TokenStore, StoreFile, StoreSQLite)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http timeout must be positive")
	}
	if c.NoticeDelay < 0 {
		return fmt.Errorf("config: notice delay must not be negative")
	}
	return nil
}

// Load builds a Config from defaults, the JSON file, the environment and
// args, in that order. It returns the arguments left after flag parsing
// (the subcommand and its operands).
func Load(args []string, getenv func(string) string) (*Config, []string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := &Config{}
	cfg.LoadDefaults()

	fs, fv := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	jsonPath := fv.configPath
	if jsonPath == "" {
		jsonPath = getenv("BARTR_CONFIG")
	}
	if jsonPath != "" {
		if err := parseJSON(cfg, jsonPath); err != nil {
			return nil, nil, err
		}
	}
	parseEnv(cfg, getenv)
	fv.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

func parseEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("BARTR_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := getenv("BARTR_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getenv("BARTR_TOKEN_STORE"); v != "" {
		cfg.TokenStore = v
	}
	if v := getenv("BARTR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// defaultDataDir returns ~/.bartr, or .bartr in the working directory when
// the home directory is unknown.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bartr"
	}
	return filepath.Join(home, ".bartr")
}
