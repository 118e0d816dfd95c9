package project

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Projects group users and VMs. The project email is the recipient of
// expiration notifications for VMs owned by the project.
type Project struct {
	gorm.Model
	ID    string `gorm:"uniqueIndex;not null"`
	Name  string `gorm:"uniqueIndex;not null"`
	Email string
}

func (p *Project) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// OwningProjectID implements the authorization target interface: a
// project owns itself.
func (p *Project) OwningProjectID() string { return p.ID }

func Create(p *Project) error {
	if p.Name == "" {
		return errProjectInvalidName
	}

	db := GetProjectDB()
	res := db.Create(p)
	if res.Error != nil {
		return res.Error
	}

	return nil
}

func GetByID(id string) (*Project, error) {
	if id == "" {
		return nil, errProjectNotFound
	}

	var p Project

	db := GetProjectDB()
	db.Limit(1).Find(&p, &Project{ID: id})
	if p.ID == "" {
		return nil, errProjectNotFound
	}

	return &p, nil
}

func GetByName(name string) (*Project, error) {
	if name == "" {
		return nil, errProjectNotFound
	}

	var p Project

	db := GetProjectDB()
	db.Limit(1).Find(&p, &Project{Name: name})
	if p.ID == "" {
		return nil, errProjectNotFound
	}

	return &p, nil
}

func GetAll() []*Project {
	var result []*Project

	db := GetProjectDB()
	db.Find(&result)

	return result
}

func (p *Project) Save() error {
	db := GetProjectDB()
	res := db.Model(&Project{}).Where(&Project{ID: p.ID}).Limit(1).Updates(p)
	if res.Error != nil {
		return errProjectInternalDB
	}

	return nil
}

func (p *Project) Delete() error {
	db := GetProjectDB()
	res := db.Limit(1).Delete(&Project{ID: p.ID})
	if res.RowsAffected != 1 {
		return errProjectInternalDB
	}

	return nil
}
