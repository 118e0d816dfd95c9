package powerlog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// A PowerLog entry is one sample of a VM's observed power state at status
// poll time. Entries form a sample series, not a transition log.
type PowerLog struct {
	gorm.Model
	ID        string    `gorm:"uniqueIndex;not null"`
	VMID      string    `gorm:"index;not null"`
	Timestamp time.Time `gorm:"index"`
	PoweredOn bool      `gorm:"check:powered_on IN (0,1)"`
}

func (p *PowerLog) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func Create(vmID string, poweredOn bool) error {
	if vmID == "" {
		return errPowerLogInvalid
	}

	entry := PowerLog{
		VMID:      vmID,
		Timestamp: time.Now(),
		PoweredOn: poweredOn,
	}

	db := GetPowerLogDB()
	if res := db.Create(&entry); res.Error != nil {
		return res.Error
	}

	return nil
}

// GetByVM returns the power samples of one VM, oldest first.
func GetByVM(vmID string) ([]PowerLog, error) {
	var result []PowerLog

	db := GetPowerLogDB()
	res := db.Where(&PowerLog{VMID: vmID}).Order("timestamp").Find(&result)
	if res.Error != nil {
		return nil, res.Error
	}

	return result, nil
}
