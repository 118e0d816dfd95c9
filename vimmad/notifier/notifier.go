//go:generate go run go.uber.org/mock/mockgen -destination=notifier_mocks.go -package=notifier . Notifier

// Package notifier delivers expiry warnings to project owners. Delivery
// is fire and forget: errors get audited by the caller, never retried.
package notifier

import (
	"log/slog"
	"sync"
)

type Notifier interface {
	Notify(recipient string, subject string, body string) error
}

// SlogNotifier writes notifications to the daemon log. It stands in for
// a real mail transport.
type SlogNotifier struct{}

func (n *SlogNotifier) Notify(recipient string, subject string, body string) error {
	slog.Info("notification", "recipient", recipient, "subject", subject, "body", body)

	return nil
}

var currentMutex sync.RWMutex

var current Notifier = &SlogNotifier{}

// Set installs the notifier used by the expiration sweeps.
func Set(n Notifier) {
	currentMutex.Lock()
	defer currentMutex.Unlock()
	current = n
}

func Get() Notifier {
	currentMutex.RLock()
	defer currentMutex.RUnlock()

	return current
}
