package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration unmarshals from either a duration string ("1.5s") or integer
// nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// jsonConfig is the on-disk shape. Zero values leave defaults in place.
type jsonConfig struct {
	APIURL      string   `json:"api_url"`
	DataDir     string   `json:"data_dir"`
	TokenStore  string   `json:"token_store"`
	LogLevel    string   `json:"log_level"`
	HTTPTimeout Duration `json:"http_timeout"`
	NoticeDelay Duration `json:"notice_delay"`
}

func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	if jc.APIURL != "" {
		cfg.APIURL = jc.APIURL
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.TokenStore != "" {
		cfg.TokenStore = jc.TokenStore
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.HTTPTimeout.Duration != 0 {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
	if jc.NoticeDelay.Duration != 0 {
		cfg.NoticeDelay = jc.NoticeDelay.Duration
	}
	return nil
}
