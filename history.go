package tickunit

// Re-exports for run persistence. Implementation lives in internal/history.

import (
	"github.com/tickunit/tickunit/internal/history"
)

// HistoryStore archives run summaries to SQLite.
type HistoryStore = history.Store

// OpenHistory creates or opens the history database at the given path.
// ":memory:" gives an isolated in-memory store.
func OpenHistory(path string) (*HistoryStore, error) {
	return history.Open(path)
}
