// Package config loads waitlist settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreNotion = "notion"
	StoreSQLite = "sqlite"
)

type Config struct {
	NotionSecret   string `env:"NOTION_SECRET"`
	NotionDatabase string `env:"NOTION_DB"`
	NotionBaseURL  string `env:"NOTION_API_URL" envDefault:"https://api.notion.com/v1"`

	Store  string `env:"WAITLIST_STORE" envDefault:"notion"`
	DBPath string `env:"WAITLIST_DB_PATH" envDefault:"./waitlist.db"`
	Port   int    `env:"WAITLIST_PORT" envDefault:"8080"`

	// SignupRate is the sustained signups per second allowed per client;
	// zero disables limiting.
	SignupRate  float64 `env:"WAITLIST_SIGNUP_RATE" envDefault:"0.5"`
	SignupBurst int     `env:"WAITLIST_SIGNUP_BURST" envDefault:"5"`

	LogLevel  string `env:"WAITLIST_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"WAITLIST_LOG_FORMAT" envDefault:"console"`
}

// Load reads a .env file from the working directory when one exists, then
// parses the environment. Variables already set win over the file.
func Load() (Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv paths. Missing files are skipped.
func LoadFiles(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that are known to be wrong before anything runs.
// Notion credentials are not checked: a bad token surfaces on first use.
func (c Config) Validate() error {
	switch c.Store {
	case StoreNotion, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q: use %q or %q", c.Store, StoreNotion, StoreSQLite)
	}
	if c.SignupRate < 0 {
		return fmt.Errorf("signup rate must not be negative")
	}
	return nil
}

// Env renders the settings a dotenv file needs for this configuration.
func (c Config) Env() map[string]string {
	out := map[string]string{
		"WAITLIST_STORE": c.Store,
	}
	switch c.Store {
	case StoreNotion:
		out["NOTION_SECRET"] = c.NotionSecret
		out["NOTION_DB"] = c.NotionDatabase
	case StoreSQLite:
		out["WAITLIST_DB_PATH"] = c.DBPath
	}
	if c.Port != 0 {
		out["WAITLIST_PORT"] = fmt.Sprintf("%d", c.Port)
	}
	return out
}

// Write saves the settings to a dotenv file.
func (c Config) Write(path string) error {
	if err := godotenv.Write(c.Env(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
