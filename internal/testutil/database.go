package testutil

import (
	"testing"

	"tilecfg/internal/core"
	"tilecfg/internal/database"
)

// NewTestJournal creates an in-memory SQLite journal with the schema applied.
// It is closed when the test completes.
func NewTestJournal(t *testing.T) core.Journal {
	t.Helper()

	j, err := database.NewSQLiteJournal(":memory:", FixedClock())
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() {
		j.Close()
	})
	return j
}
