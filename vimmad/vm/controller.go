package vm

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	"vimma/vimmad/config"
	"vimma/vimmad/expiration"
	"vimma/vimmad/provider"
	"vimma/vimmad/util"
)

// PoweredAtNow computes the desired power state at the given instant:
// a missing or expired expiration forces off, a valid schedule override
// wins over the schedule, otherwise the schedule decides.
func (v *VM) PoweredAtNow(exp *expiration.Expiration, now time.Time) (bool, error) {
	if exp == nil || exp.Expired(now) {
		return false, nil
	}

	if v.SchedOverrideState.Valid && v.SchedOverrideUntil.Valid &&
		!v.SchedOverrideUntil.Time.Before(now) {
		return v.SchedOverrideState.Bool, nil
	}

	if v.ScheduleID == "" {
		return false, nil
	}

	return v.Schedule.AtTime(now)
}

// DiscardExpiredScheduleOverride clears the override if its deadline has
// passed, reporting whether it did.
func (v *VM) DiscardExpiredScheduleOverride(now time.Time) (bool, error) {
	if !v.SchedOverrideState.Valid {
		return false, nil
	}
	if v.SchedOverrideUntil.Valid && !v.SchedOverrideUntil.Time.Before(now) {
		return false, nil
	}

	if err := v.ClearScheduleOverride(); err != nil {
		return false, err
	}

	return true, nil
}

// SetScheduleOverride forces the VM on or off until the given time.
func (v *VM) SetScheduleOverride(poweredOn bool, until time.Time) error {
	db := GetVMDB()
	res := db.Model(&VM{}).Where(&VM{ID: v.ID}).Limit(1).
		Updates(map[string]any{
			"sched_override_state": poweredOn,
			"sched_override_until": until,
		})
	if res.Error != nil {
		return errVMInternalDB
	}
	v.SchedOverrideState = sql.NullBool{Bool: poweredOn, Valid: true}
	v.SchedOverrideUntil = sql.NullTime{Time: until, Valid: true}

	return nil
}

func (v *VM) ClearScheduleOverride() error {
	db := GetVMDB()
	res := db.Model(&VM{}).Where(&VM{ID: v.ID}).Limit(1).
		Updates(map[string]any{
			"sched_override_state": nil,
			"sched_override_until": nil,
		})
	if res.Error != nil {
		return errVMInternalDB
	}
	v.SchedOverrideState = sql.NullBool{}
	v.SchedOverrideUntil = sql.NullTime{}

	return nil
}

// SetSchedule changes the VM's schedule.
func (v *VM) SetSchedule(scheduleID string) error {
	db := GetVMDB()
	res := db.Model(&VM{}).Where(&VM{ID: v.ID}).Limit(1).
		Update("schedule_id", scheduleID)
	if res.Error != nil {
		return errVMInternalDB
	}
	v.ScheduleID = scheduleID

	return nil
}

// SetStatus records one status poll observation.
func (v *VM) SetStatus(status provider.Status, now time.Time) error {
	db := GetVMDB()
	res := db.Model(&VM{}).Where(&VM{ID: v.ID}).Limit(1).
		Updates(map[string]any{
			"state":             status.RawState,
			"observed_power":    status.Power,
			"public_ip":         status.PublicIP,
			"private_ip":        status.PrivateIP,
			"status_updated_at": now,
		})
	if res.Error != nil {
		return errVMInternalDB
	}
	v.State = status.RawState
	v.ObservedPower = status.Power
	v.PublicIP = status.PublicIP
	v.PrivateIP = status.PrivateIP
	v.StatusUpdatedAt = sql.NullTime{Time: now, Valid: true}

	return nil
}

// SetStatusUpdatedAtNow bumps the status timestamp without new state,
// e.g. when the provider returned an unmapped state.
func (v *VM) SetStatusUpdatedAtNow() error {
	now := time.Now()

	db := GetVMDB()
	res := db.Model(&VM{}).Where(&VM{ID: v.ID}).Limit(1).
		Update("status_updated_at", now)
	if res.Error != nil {
		return errVMInternalDB
	}
	v.StatusUpdatedAt = sql.NullTime{Time: now, Valid: true}

	return nil
}

// SetProviderIDs records the IDs assigned by the provider on create.
func (v *VM) SetProviderIDs(result provider.CreateResult) error {
	db := GetVMDB()
	res := db.Model(&VM{}).Where(&VM{ID: v.ID}).Limit(1).
		Updates(map[string]any{
			"instance_id":       result.InstanceID,
			"security_group_id": result.SecurityGroupID,
			"reservation_id":    result.ReservationID,
		})
	if res.Error != nil {
		return errVMInternalDB
	}
	v.InstanceID = result.InstanceID
	v.SecurityGroupID = result.SecurityGroupID
	v.ReservationID = result.ReservationID

	return nil
}

// SetDestroyRequested stamps the destroy request time, once.
func (v *VM) SetDestroyRequested(now time.Time) error {
	if v.DestroyRequestedAt.Valid {
		return nil
	}

	db := GetVMDB()
	res := db.Model(&VM{}).Where(&VM{ID: v.ID}).Limit(1).
		Update("destroy_requested_at", now)
	if res.Error != nil {
		return errVMInternalDB
	}
	v.DestroyRequestedAt = sql.NullTime{Time: now, Valid: true}

	return nil
}

func (v *VM) Destroyed() bool {
	return v.DestroyedAt.Valid
}

// MarkInstanceTerminated sets the instance sub-flag and, in the same
// transaction, stamps destroyed_at if the security group is gone too.
func (v *VM) MarkInstanceTerminated() error {
	return v.markDestroySubFlag("instance_terminated")
}

// MarkSecurityGroupDeleted sets the security group sub-flag and, in the
// same transaction, stamps destroyed_at if the instance is gone too.
func (v *VM) MarkSecurityGroupDeleted() error {
	return v.markDestroySubFlag("security_group_deleted")
}

func (v *VM) markDestroySubFlag(column string) error {
	db := GetVMDB()
	err := util.RetryInTransaction(db, func(tx *gorm.DB) error {
		res := tx.Model(&VM{}).Where(&VM{ID: v.ID}).Limit(1).
			Update(column, true)
		if res.Error != nil {
			return res.Error
		}

		var current VM
		tx.Limit(1).Find(&current, &VM{ID: v.ID})
		if current.ID == "" {
			return errVMNotFound
		}
		if !current.InstanceTerminated || !current.SecurityGroupDeleted ||
			current.DestroyedAt.Valid {
			return nil
		}

		return tx.Model(&VM{}).Where(&VM{ID: v.ID}).Limit(1).
			Update("destroyed_at", time.Now()).Error
	}, config.Config.Tasks.RetryMaxAttempts,
		time.Duration(config.Config.Tasks.RetryBaseMillis)*time.Millisecond)
	if err != nil {
		return err
	}

	reloaded, err := GetByID(v.ID)
	if err != nil {
		return err
	}
	*v = *reloaded

	return nil
}
