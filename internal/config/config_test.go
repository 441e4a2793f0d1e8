package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/appspark/waitlist/internal/config"
	"github.com/joho/godotenv"
)

// unset clears key for the duration of the test.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"WAITLIST_STORE", "WAITLIST_PORT", "WAITLIST_DB_PATH", "NOTION_API_URL", "WAITLIST_SIGNUP_RATE"} {
		unset(t, k)
	}

	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("LoadFiles failed: %v", err)
	}

	if cfg.Store != config.StoreNotion {
		t.Errorf("expected default store notion, got %s", cfg.Store)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.NotionBaseURL != "https://api.notion.com/v1" {
		t.Errorf("unexpected base URL %s", cfg.NotionBaseURL)
	}
	if cfg.SignupRate != 0.5 {
		t.Errorf("expected default rate 0.5, got %f", cfg.SignupRate)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("WAITLIST_STORE", "sqlite")
	t.Setenv("WAITLIST_PORT", "9090")
	t.Setenv("NOTION_SECRET", "secret_abc")

	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("LoadFiles failed: %v", err)
	}

	if cfg.Store != config.StoreSQLite || cfg.Port != 9090 || cfg.NotionSecret != "secret_abc" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("WAITLIST_PORT", "not-a-number")

	if _, err := config.LoadFiles(); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	unset(t, "NOTION_DB")
	unset(t, "WAITLIST_STORE")
	t.Setenv("NOTION_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	err := godotenv.Write(map[string]string{
		"NOTION_DB":      "db-from-file",
		"NOTION_SECRET":  "from-file",
		"WAITLIST_STORE": "sqlite",
	}, path)
	if err != nil {
		t.Fatalf("failed to write dotenv: %v", err)
	}

	cfg, err := config.LoadFiles(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFiles failed: %v", err)
	}

	if cfg.NotionDatabase != "db-from-file" {
		t.Errorf("expected database from file, got %q", cfg.NotionDatabase)
	}
	if cfg.NotionSecret != "from-env" {
		t.Errorf("expected environment to win over file, got %q", cfg.NotionSecret)
	}
	if cfg.Store != config.StoreSQLite {
		t.Errorf("expected store from file, got %q", cfg.Store)
	}
}

func TestValidate(t *testing.T) {
	good := config.Config{Store: config.StoreSQLite}
	if err := good.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	bad := config.Config{Store: "postgres"}
	if err := bad.Validate(); err == nil {
		t.Error("expected unknown store to fail")
	}

	negative := config.Config{Store: config.StoreNotion, SignupRate: -1}
	if err := negative.Validate(); err == nil {
		t.Error("expected negative rate to fail")
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	cfg := config.Config{
		Store:          config.StoreNotion,
		NotionSecret:   "secret_abc",
		NotionDatabase: "db-1",
		Port:           8081,
	}

	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got["NOTION_SECRET"] != "secret_abc" || got["NOTION_DB"] != "db-1" || got["WAITLIST_PORT"] != "8081" {
		t.Errorf("unexpected dotenv contents %v", got)
	}
	if _, ok := got["WAITLIST_DB_PATH"]; ok {
		t.Error("expected sqlite path to be omitted for the notion store")
	}
}
