package expiration

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
	expirationDB *gorm.DB
}

var instance *singleton

func DBReconfig() {
	instance = nil
}

func GetExpirationDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "ExpirationDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	if instance == nil {
		instance = &singleton{}
		expirationDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			panic("failed to connect database")
		}
		sqlDB, err := expirationDB.DB()
		if err != nil {
			panic("failed to create sqlDB database")
		}
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		instance.expirationDB = expirationDB
	}

	return instance.expirationDB
}

func DBAutoMigrate() {
	db := GetExpirationDB()
	err := db.AutoMigrate(&Expiration{})
	if err != nil {
		panic("failed to auto-migrate Expirations")
	}
}
