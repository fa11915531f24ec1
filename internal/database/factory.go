package database

import (
	"fmt"
	"os"
	"path/filepath"

	"tilecfg/internal/config"
	"tilecfg/internal/core"
)

// JournalFile is the journal's file name inside the data directory.
const JournalFile = "journal.db"

// NewJournalFromConfig creates the Journal selected by the database config.
func NewJournalFromConfig(cfg config.DatabaseConfig, clock core.Clock) (core.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		j, err := NewSQLiteJournal(filepath.Join(cfg.DataDir, JournalFile), clock)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "memory":
		j, err := NewSQLiteJournal(":memory:", clock)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "none":
		return NopJournal{}, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
