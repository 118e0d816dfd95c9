package vmconfig

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vimma/vimmad/config"
	"vimma/vimmad/util"
)

// A VMConfig is a template VMs are created from: which provider, which
// schedule new VMs start with, and a provider-specific extras blob
// (e.g. instance type and image for EC2).
type VMConfig struct {
	gorm.Model
	ID         string `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"uniqueIndex;not null"`
	ProviderID string `gorm:"not null"`
	// schedule assigned to VMs created from this config
	DefaultScheduleID string
	IsSpecial         bool `gorm:"default:False;check:is_special IN (0,1)"`
	Default           bool `gorm:"default:False;check:\"default\" IN (0,1)"`
	Extras            string
}

func (c *VMConfig) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// SpecialFlag implements the authorization target interface.
func (c *VMConfig) SpecialFlag() bool { return c.IsSpecial }

func validate(c *VMConfig) error {
	if c.Name == "" || c.ProviderID == "" {
		return errVMConfigInvalid
	}
	if c.Extras != "" && !json.Valid([]byte(c.Extras)) {
		return errVMConfigBadExtras
	}

	return nil
}

func Create(c *VMConfig) error {
	if err := validate(c); err != nil {
		return err
	}
	if _, err := GetByName(c.Name); err == nil {
		return errVMConfigDupe
	}

	db := GetVMConfigDB()
	if c.Default {
		return saveAsDefault(db, c, true)
	}
	if res := db.Create(c); res.Error != nil {
		return res.Error
	}

	return nil
}

func GetByID(id string) (*VMConfig, error) {
	if id == "" {
		return nil, errVMConfigNotFound
	}

	var c VMConfig

	db := GetVMConfigDB()
	db.Limit(1).Find(&c, &VMConfig{ID: id})
	if c.ID == "" {
		return nil, errVMConfigNotFound
	}

	return &c, nil
}

func GetByName(name string) (*VMConfig, error) {
	if name == "" {
		return nil, errVMConfigNotFound
	}

	var c VMConfig

	db := GetVMConfigDB()
	db.Limit(1).Find(&c, &VMConfig{Name: name})
	if c.ID == "" {
		return nil, errVMConfigNotFound
	}

	return &c, nil
}

func GetAll() []*VMConfig {
	var result []*VMConfig

	db := GetVMConfigDB()
	db.Find(&result)

	return result
}

// Save persists the config. At most one config per provider may be the
// default; marking this one default clears the flag on its siblings in
// the same transaction.
func (c *VMConfig) Save() error {
	if err := validate(c); err != nil {
		return err
	}

	db := GetVMConfigDB()
	if c.Default {
		return saveAsDefault(db, c, false)
	}

	res := db.Model(&VMConfig{}).Where(&VMConfig{ID: c.ID}).Limit(1).
		Select("Name", "DefaultScheduleID", "IsSpecial", "Default", "Extras").
		Updates(c)
	if res.Error != nil {
		return errVMConfigInternalDB
	}

	return nil
}

func saveAsDefault(db *gorm.DB, c *VMConfig, create bool) error {
	return util.RetryInTransaction(db, func(tx *gorm.DB) error {
		res := tx.Model(&VMConfig{}).
			Where("provider_id = ? AND id != ?", c.ProviderID, c.ID).
			Update("default", false)
		if res.Error != nil {
			return res.Error
		}
		if create {
			return tx.Create(c).Error
		}

		return tx.Model(&VMConfig{}).Where(&VMConfig{ID: c.ID}).Limit(1).
			Select("Name", "DefaultScheduleID", "IsSpecial", "Default", "Extras").
			Updates(c).Error
	}, config.Config.Tasks.RetryMaxAttempts,
		time.Duration(config.Config.Tasks.RetryBaseMillis)*time.Millisecond)
}

func (c *VMConfig) Delete() error {
	db := GetVMConfigDB()
	res := db.Limit(1).Delete(&VMConfig{ID: c.ID})
	if res.RowsAffected != 1 {
		return errVMConfigInternalDB
	}

	return nil
}

// GetDefault returns the default config of a provider, if one is set.
func GetDefault(providerID string) (*VMConfig, error) {
	var c VMConfig

	db := GetVMConfigDB()
	db.Limit(1).Find(&c, &VMConfig{ProviderID: providerID, Default: true})
	if c.ID == "" {
		return nil, errVMConfigNotFound
	}

	return &c, nil
}
