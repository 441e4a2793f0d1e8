package cli

import (
	"fmt"
	"path/filepath"

	"github.com/appspark/waitlist/internal/config"
	"github.com/appspark/waitlist/internal/notion"
	"github.com/appspark/waitlist/internal/store"
)

// openStore opens the record store the configuration names.
func openStore(c config.Config) (store.Store, error) {
	switch c.Store {
	case config.StoreSQLite:
		s, err := store.Open(c.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return s, nil
	case config.StoreNotion:
		client := notion.NewClient(c.NotionSecret, notion.WithBaseURL(c.NotionBaseURL))
		return store.NewNotionStore(client, c.NotionDatabase), nil
	default:
		return nil, fmt.Errorf("unknown store %q", c.Store)
	}
}

// withStore opens the configured store, executes the function, and handles
// cleanup.
func withStore(fn func(store.Store) error) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}

// tokenFilePath returns the dashboard token file, kept alongside the
// database.
func tokenFilePath() string {
	return filepath.Join(filepath.Dir(cfg.DBPath), ".waitlist-token")
}
