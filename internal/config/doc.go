// Package config loads runtime configuration for the bartr client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, named by the -config flag or BARTR_CONFIG.
//  3. Environment: BARTR_API_URL, BARTR_DATA_DIR, BARTR_TOKEN_STORE,
//     BARTR_LOG_LEVEL.
//  4. Command-line flags: -api, -data-dir, -store, -log-level.
//
// # JSON schema
//
// Durations accept Go duration strings or integer nanoseconds:
//
//	{
//	  "api_url": "http://localhost:8080",
//	  "data_dir": "/home/ann/.bartr",
//	  "token_store": "sqlite",
//	  "log_level": "debug",
//	  "http_timeout": "10s",
//	  "notice_delay": "1.5s"
//	}
package config
