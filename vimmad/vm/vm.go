package vm

import (
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vimma/vimmad/provider"
	"vimma/vimmad/schedule"
	"vimma/vimmad/util"
)

type VM struct {
	gorm.Model
	ID          string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"uniqueIndex;not null"`
	ProjectID   string `gorm:"index;not null"`
	VMConfigID  string `gorm:"not null"`
	ProviderID  string `gorm:"not null"`
	ScheduleID  string
	Schedule    schedule.Schedule
	CreatedByID string
	Comment     string
	// last observed provider state, raw and classified
	State           string
	ObservedPower   provider.PowerState
	PublicIP        string
	PrivateIP       string
	StatusUpdatedAt sql.NullTime
	// manual override of the schedule, until the given time
	SchedOverrideState sql.NullBool
	SchedOverrideUntil sql.NullTime
	DestroyRequestedAt sql.NullTime
	DestroyedAt        sql.NullTime
	// provider-side IDs, set once creation succeeds
	InstanceID      string
	SecurityGroupID string
	ReservationID   string
	// destruction sub-flags; destroyed_at is only set once both are true
	InstanceTerminated   bool `gorm:"default:False;check:instance_terminated IN (0,1)"`
	SecurityGroupDeleted bool `gorm:"default:False;check:security_group_deleted IN (0,1)"`
}

func (v *VM) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// OwningProjectID implements the authorization target interface.
func (v *VM) OwningProjectID() string { return v.ProjectID }

// Machine returns the adapter's view of this VM.
func (v *VM) Machine() provider.Machine {
	return provider.Machine{
		ID:              v.ID,
		Name:            v.Name,
		ProjectID:       v.ProjectID,
		InstanceID:      v.InstanceID,
		SecurityGroupID: v.SecurityGroupID,
		PublicIP:        v.PublicIP,
		PrivateIP:       v.PrivateIP,
	}
}

func Create(v *VM) error {
	if err := util.ValidateVMName(v.Name); err != nil {
		return err
	}
	if v.ProjectID == "" || v.VMConfigID == "" || v.ProviderID == "" {
		return errVMInvalid
	}
	if _, err := GetByName(v.Name); err == nil {
		return errVMDupe
	}

	// the schedule association is preloaded on reads, never written here
	db := GetVMDB()
	if res := db.Omit("Schedule").Create(v); res.Error != nil {
		return res.Error
	}

	return nil
}

func GetByID(id string) (*VM, error) {
	if id == "" {
		return nil, errVMNotFound
	}

	var v VM

	db := GetVMDB()
	db.Preload("Schedule.TimeZone").Limit(1).Find(&v, &VM{ID: id})
	if v.ID == "" {
		return nil, errVMNotFound
	}

	return &v, nil
}

func GetByName(name string) (*VM, error) {
	if name == "" {
		return nil, errVMNotFound
	}

	var v VM

	db := GetVMDB()
	db.Preload("Schedule.TimeZone").Limit(1).Find(&v, &VM{Name: name})
	if v.ID == "" {
		return nil, errVMNotFound
	}

	return &v, nil
}

func GetAll() []*VM {
	var result []*VM

	db := GetVMDB()
	db.Find(&result)

	return result
}

// GetAllNonDestroyed returns the VMs the reconciliation loop still cares
// about.
func GetAllNonDestroyed() []*VM {
	var result []*VM

	db := GetVMDB()
	db.Where("destroyed_at IS NULL").Find(&result)

	return result
}

// GetByProject returns all VMs of one project.
func GetByProject(projectID string) []*VM {
	var result []*VM

	db := GetVMDB()
	db.Find(&result, &VM{ProjectID: projectID})

	return result
}

// GetBySchedule returns all VMs referencing one schedule.
func GetBySchedule(scheduleID string) []*VM {
	var result []*VM

	db := GetVMDB()
	db.Find(&result, &VM{ScheduleID: scheduleID})

	return result
}

// GetByVMConfig returns all VMs created from one config.
func GetByVMConfig(vmConfigID string) []*VM {
	var result []*VM

	db := GetVMDB()
	db.Find(&result, &VM{VMConfigID: vmConfigID})

	return result
}
