package expiration

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

func Create(kind Kind, targetID string, expiresAt time.Time) (*Expiration, error) {
	if kind == "" || targetID == "" {
		return nil, errExpirationInvalid
	}

	exp := Expiration{
		Kind:      kind,
		TargetID:  targetID,
		ExpiresAt: expiresAt,
	}

	db := GetExpirationDB()
	if res := db.Create(&exp); res.Error != nil {
		return nil, res.Error
	}

	return &exp, nil
}

func GetByID(id string) (*Expiration, error) {
	if id == "" {
		return nil, errExpirationNotFound
	}

	var exp Expiration

	db := GetExpirationDB()
	db.Limit(1).Find(&exp, &Expiration{ID: id})
	if exp.ID == "" {
		return nil, errExpirationNotFound
	}

	return &exp, nil
}

func GetByTarget(kind Kind, targetID string) (*Expiration, error) {
	if targetID == "" {
		return nil, errExpirationNotFound
	}

	var exp Expiration

	db := GetExpirationDB()
	db.Limit(1).Find(&exp, &Expiration{Kind: kind, TargetID: targetID})
	if exp.ID == "" {
		return nil, errExpirationNotFound
	}

	return &exp, nil
}

// GetAllOfKind returns every expiration of a kind, for the hourly sweeps.
func GetAllOfKind(kind Kind) []*Expiration {
	var result []*Expiration

	db := GetExpirationDB()
	db.Find(&result, &Expiration{Kind: kind})

	return result
}

// SetExpiresAt moves the expiry date. Notifications re-arm naturally: the
// old last_notification is kept and compared against the new date.
func (e *Expiration) SetExpiresAt(expiresAt time.Time) error {
	db := GetExpirationDB()
	res := db.Model(&Expiration{}).Where(&Expiration{ID: e.ID}).Limit(1).
		Update("expires_at", expiresAt)
	if res.Error != nil {
		return errExpirationInternalDB
	}
	e.ExpiresAt = expiresAt

	return nil
}

// MarkNotified stamps the last notification time. Called before the
// notifier so a notifier crash cannot cause a notification storm.
func (e *Expiration) MarkNotified(now time.Time) error {
	db := GetExpirationDB()
	res := db.Model(&Expiration{}).Where(&Expiration{ID: e.ID}).Limit(1).
		Update("last_notification", now)
	if res.Error != nil {
		return errExpirationInternalDB
	}
	e.LastNotification = sql.NullTime{Time: now, Valid: true}

	return nil
}

// MarkGracePerformedTx flips the performed flag inside the caller's
// transaction, so the flag and the enqueued grace-end action commit
// together.
func (e *Expiration) MarkGracePerformedTx(tx *gorm.DB) error {
	res := tx.Model(&Expiration{}).Where(&Expiration{ID: e.ID}).Limit(1).
		Update("grace_end_action_performed", true)
	if res.Error != nil {
		return res.Error
	}
	e.GraceEndActionPerformed = true

	return nil
}

// DeleteByTarget removes the expiration of a target, e.g. when its
// firewall rule is deleted.
func DeleteByTarget(kind Kind, targetID string) error {
	db := GetExpirationDB()
	res := db.Where(&Expiration{Kind: kind, TargetID: targetID}).
		Delete(&Expiration{})

	return res.Error
}
