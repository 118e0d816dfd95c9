package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"vimma/vimmad/project"
)

type Permission struct {
	gorm.Model
	ID   string `gorm:"uniqueIndex;not null"`
	Name string `gorm:"uniqueIndex;not null"`
}

// A Role is a named set of permissions. A user holds all permissions of
// all roles assigned to them.
type Role struct {
	gorm.Model
	ID          string       `gorm:"uniqueIndex;not null"`
	Name        string       `gorm:"uniqueIndex;not null"`
	Permissions []Permission `gorm:"many2many:role_permissions;"`
}

type User struct {
	gorm.Model
	ID       string `gorm:"uniqueIndex;not null"`
	Username string `gorm:"uniqueIndex;not null"`
	Email    string
	Roles    []Role            `gorm:"many2many:user_roles;"`
	Projects []project.Project `gorm:"many2many:project_members;"`
}

func (p *Permission) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (r *Role) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasPerm reports whether any of the user's roles grants the named
// permission. The omnipotent permission grants any permission.
func (u *User) HasPerm(name string) bool {
	for _, role := range u.Roles {
		for _, perm := range role.Permissions {
			if perm.Name == PermOmnipotent || perm.Name == name {
				return true
			}
		}
	}

	return false
}

// IsMemberOf reports whether the user is a member of the given project.
func (u *User) IsMemberOf(projectID string) bool {
	for _, prj := range u.Projects {
		if prj.ID == projectID {
			return true
		}
	}

	return false
}

func Create(u *User) error {
	if u.Username == "" {
		return errUserInvalidName
	}
	if _, err := GetByUsername(u.Username); err == nil {
		return errUserDupe
	}

	db := GetUserDB()
	res := db.Create(u)
	if res.Error != nil {
		return res.Error
	}

	return nil
}

func GetByID(id string) (*User, error) {
	if id == "" {
		return nil, errUserNotFound
	}

	var u User

	db := GetUserDB()
	db.Preload("Roles.Permissions").Preload("Projects").
		Limit(1).Find(&u, &User{ID: id})
	if u.ID == "" {
		return nil, errUserNotFound
	}

	return &u, nil
}

func GetByUsername(username string) (*User, error) {
	if username == "" {
		return nil, errUserNotFound
	}

	var u User

	db := GetUserDB()
	db.Preload("Roles.Permissions").Preload("Projects").
		Limit(1).Find(&u, &User{Username: username})
	if u.ID == "" {
		return nil, errUserNotFound
	}

	return &u, nil
}

func GetAll() []*User {
	var result []*User

	db := GetUserDB()
	db.Preload("Roles.Permissions").Preload("Projects").Find(&result)

	return result
}

func (u *User) Save() error {
	db := GetUserDB()
	res := db.Session(&gorm.Session{FullSaveAssociations: true}).Updates(u)
	if res.Error != nil {
		return errUserInternalDB
	}

	return nil
}
