package config

import (
	"flag"
	"io"
)

// flagValues records which flags were set so they can be applied after
// the JSON file and environment.
type flagValues struct {
	configPath string
	apiURL     string
	dataDir    string
	store      string
	logLevel   string
}

func newFlagSet(cfg *Config) (*flag.FlagSet, *flagValues) {
	fv := &flagValues{}
	fs := flag.NewFlagSet("bartr", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&fv.configPath, "config", "", "path to a JSON config file")
	fs.StringVar(&fv.apiURL, "api", "", "bartr API base URL (default "+cfg.APIURL+")")
	fs.StringVar(&fv.dataDir, "data-dir", "", "directory for the token and log file")
	fs.StringVar(&fv.store, "store", "", "token store backend: file or sqlite")
	fs.StringVar(&fv.logLevel, "log-level", "", "debug, info, warn or error")
	return fs, fv
}

func (fv *flagValues) apply(cfg *Config) {
	if fv.apiURL != "" {
		cfg.APIURL = fv.apiURL
	}
	if fv.dataDir != "" {
		cfg.DataDir = fv.dataDir
	}
	if fv.store != "" {
		cfg.TokenStore = fv.store
	}
	if fv.logLevel != "" {
		cfg.LogLevel = fv.logLevel
	}
}
