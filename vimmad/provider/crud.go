package provider

import (
	"time"

	"gorm.io/gorm"

	"vimma/vimmad/config"
	"vimma/vimmad/util"
)

func Create(p *Provider) error {
	if p.Name == "" || p.Kind == "" {
		return errProviderInvalid
	}
	if _, err := GetByName(p.Name); err == nil {
		return errProviderDupe
	}

	db := GetProviderDB()
	if p.Default {
		return saveAsDefault(db, p, true)
	}
	if res := db.Create(p); res.Error != nil {
		return res.Error
	}

	return nil
}

func GetByID(id string) (*Provider, error) {
	if id == "" {
		return nil, errProviderNotFound
	}

	var p Provider

	db := GetProviderDB()
	db.Limit(1).Find(&p, &Provider{ID: id})
	if p.ID == "" {
		return nil, errProviderNotFound
	}

	return &p, nil
}

func GetByName(name string) (*Provider, error) {
	if name == "" {
		return nil, errProviderNotFound
	}

	var p Provider

	db := GetProviderDB()
	db.Limit(1).Find(&p, &Provider{Name: name})
	if p.ID == "" {
		return nil, errProviderNotFound
	}

	return &p, nil
}

func GetAll() []*Provider {
	var result []*Provider

	db := GetProviderDB()
	db.Find(&result)

	return result
}

// Save persists the provider. At most one provider per kind may be the
// default; marking this one default clears the flag on its siblings in the
// same transaction.
func (p *Provider) Save() error {
	db := GetProviderDB()
	if p.Default {
		return saveAsDefault(db, p, false)
	}

	res := db.Model(&Provider{}).Where(&Provider{ID: p.ID}).Limit(1).
		Select("Name", "MaxOverrideSeconds", "IsSpecial", "Default", "Config").
		Updates(p)
	if res.Error != nil {
		return errProviderInternalDB
	}

	return nil
}

func saveAsDefault(db *gorm.DB, p *Provider, create bool) error {
	return util.RetryInTransaction(db, func(tx *gorm.DB) error {
		res := tx.Model(&Provider{}).
			Where("kind = ? AND id != ?", p.Kind, p.ID).
			Update("default", false)
		if res.Error != nil {
			return res.Error
		}
		if create {
			return tx.Create(p).Error
		}

		return tx.Model(&Provider{}).Where(&Provider{ID: p.ID}).Limit(1).
			Select("Name", "MaxOverrideSeconds", "IsSpecial", "Default", "Config").
			Updates(p).Error
	}, config.Config.Tasks.RetryMaxAttempts,
		time.Duration(config.Config.Tasks.RetryBaseMillis)*time.Millisecond)
}

// GetDefault returns the default provider of a kind, if one is set.
func GetDefault(kind Kind) (*Provider, error) {
	var p Provider

	db := GetProviderDB()
	db.Limit(1).Find(&p, &Provider{Kind: kind, Default: true})
	if p.ID == "" {
		return nil, errProviderNotFound
	}

	return &p, nil
}
