package user

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vimma/vimmad/config"
)

type singleton struct {
	userDB *gorm.DB
}

var instance *singleton

func DBReconfig() {
	instance = nil
}

func GetUserDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "UserDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	if instance == nil {
		instance = &singleton{}
		userDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			panic("failed to connect database")
		}
		sqlDB, err := userDB.DB()
		if err != nil {
			panic("failed to create sqlDB database")
		}
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		instance.userDB = userDB
	}

	return instance.userDB
}

func DBAutoMigrate() {
	db := GetUserDB()
	err := db.AutoMigrate(&Permission{}, &Role{}, &User{})
	if err != nil {
		panic("failed to auto-migrate Users")
	}
}

// EnsurePermissions creates any of the known permissions missing from the
// database. Runs at every migration, safe to repeat.
func EnsurePermissions() error {
	db := GetUserDB()
	for _, name := range AllPerms {
		var perm Permission
		db.Limit(1).Find(&perm, &Permission{Name: name})
		if perm.ID != "" {
			continue
		}
		if res := db.Create(&Permission{Name: name}); res.Error != nil {
			return res.Error
		}
	}

	return nil
}
