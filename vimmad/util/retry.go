package util

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// IsTransientStoreError reports whether err is a store conflict worth
// retrying, such as sqlite returning SQLITE_BUSY or SQLITE_LOCKED when
// another writer holds the database.
func IsTransientStoreError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	return false
}

// RetryInTransaction runs call inside a transaction and returns its result.
// On a transient store conflict the transaction is retried up to maxRetries
// times with jittered exponential backoff: before retry i the wait is a
// random duration in [baseDelay*2^(i-1)/2, baseDelay*2^(i-1)].
func RetryInTransaction(db *gorm.DB, call func(tx *gorm.DB) error,
	maxRetries int, baseDelay time.Duration,
) error {
	delay := baseDelay

	for {
		err := db.Transaction(call)
		if err == nil {
			return nil
		}
		if !IsTransientStoreError(err) || maxRetries <= 0 {
			return err
		}
		maxRetries--

		wait := delay/2 + time.Duration(rand.Int63n(int64(delay/2)+1))
		slog.Debug("retrying transaction", "wait", wait, "err", err)
		time.Sleep(wait)
		delay *= 2
	}
}
