package expiration

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vimma/vimmad/config"
)

type Kind string

const (
	KindVM           Kind = "vm"
	KindFirewallRule Kind = "firewall-rule"
)

// An Expiration attaches a lifetime to one target (a VM or a firewall
// rule). Users get notified around the expiry date; some time after it a
// grace-end action (destroy the VM, delete the rule) runs exactly once.
type Expiration struct {
	gorm.Model
	ID        string    `gorm:"uniqueIndex;not null"`
	Kind      Kind      `gorm:"not null"`
	TargetID  string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	// when the user was last notified about this expiry
	LastNotification        sql.NullTime
	GraceEndActionPerformed bool `gorm:"default:False;check:grace_end_action_performed IN (0,1)"`
}

func (e *Expiration) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// NotificationOffsets returns the kind's notification offsets in seconds
// relative to the expiry date, negative before, positive after.
func NotificationOffsets(kind Kind) []int64 {
	if kind == KindVM {
		return config.Config.VM.NotificationIntervalsSecs
	}

	return nil
}

// GraceInterval returns how long after the expiry date the kind's
// grace-end action fires.
func GraceInterval(kind Kind) time.Duration {
	if kind == KindVM {
		return time.Duration(config.Config.VM.GraceIntervalSecs) * time.Second
	}

	return 0
}

// ValidateOffsets checks the notification offsets are strictly ascending.
func ValidateOffsets(offsets []int64) error {
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			return fmt.Errorf("%w: %d after %d", errOffsetsNotAscending,
				offsets[i], offsets[i-1])
		}
	}

	return nil
}

// NeedsNotification reports whether a notification is due: offsets the
// last notification already passed are dropped, and the smallest
// remaining one must have been reached by now.
func NeedsNotification(expiresAt time.Time, lastNotification sql.NullTime,
	offsets []int64, now time.Time,
) (bool, error) {
	if err := ValidateOffsets(offsets); err != nil {
		return false, err
	}

	for _, offset := range offsets {
		deadline := expiresAt.Add(time.Duration(offset) * time.Second)
		if lastNotification.Valid && !lastNotification.Time.Before(deadline) {
			continue
		}

		return !now.Before(deadline), nil
	}

	return false, nil
}

// NeedsGraceEndAction reports whether the grace-end action is due and has
// not run yet.
func NeedsGraceEndAction(expiresAt time.Time, graceInterval time.Duration,
	performed bool, now time.Time,
) bool {
	if performed {
		return false
	}

	return !now.Before(expiresAt.Add(graceInterval))
}

// Expired reports whether the expiry date has passed.
func (e *Expiration) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// NeedsNotification applies the pure check to this record with the
// kind's configured offsets.
func (e *Expiration) NeedsNotification(now time.Time) (bool, error) {
	return NeedsNotification(e.ExpiresAt, e.LastNotification,
		NotificationOffsets(e.Kind), now)
}

// NeedsGraceEndAction applies the pure check to this record with the
// kind's grace interval.
func (e *Expiration) NeedsGraceEndAction(now time.Time) bool {
	return NeedsGraceEndAction(e.ExpiresAt, GraceInterval(e.Kind),
		e.GraceEndActionPerformed, now)
}

// ExpiryCap returns the longest extension a user without the bypass may
// request for the kind, special firewall rules capped shorter.
func ExpiryCap(kind Kind, special bool) time.Duration {
	switch {
	case kind == KindVM:
		return time.Duration(config.Config.VM.DefaultExpirySecs) * time.Second
	case special:
		return time.Duration(config.Config.Firewall.SpecialRuleExpirySecs) * time.Second
	default:
		return time.Duration(config.Config.Firewall.NormalRuleExpirySecs) * time.Second
	}
}

// CanSetExpiry validates a requested expiry date: not in the past, and
// within expiryCap of now unless the caller may set any expiration.
// Project membership is checked by the caller.
func CanSetExpiry(requested time.Time, now time.Time, expiryCap time.Duration,
	bypassCap bool,
) error {
	if requested.Before(now) {
		return errExpiryInPast
	}
	if !bypassCap && requested.Sub(now) > expiryCap {
		return errExpiryBeyondCap
	}

	return nil
}
