package main

import (
	"log/slog"

	"vimma/vimmad/requests"
)

// cleanupDB fails requests left half-done by a previous daemon run. The
// periodic sweeps regenerate any that still matter.
func cleanupDB() {
	rowsCleared := requests.FailAllPending()
	slog.Debug("cleared failed requests", "rowsCleared", rowsCleared)
}
