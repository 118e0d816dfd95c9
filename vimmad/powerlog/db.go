package powerlog

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
	powerLogDB *gorm.DB
}

var instance *singleton

func DBReconfig() {
	instance = nil
}

func GetPowerLogDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "PowerLogDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	if instance == nil {
		instance = &singleton{}
		powerLogDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			panic("failed to connect database")
		}
		sqlDB, err := powerLogDB.DB()
		if err != nil {
			panic("failed to create sqlDB database")
		}
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		instance.powerLogDB = powerLogDB
	}

	return instance.powerLogDB
}

func DBAutoMigrate() {
	db := GetPowerLogDB()
	err := db.AutoMigrate(&PowerLog{})
	if err != nil {
		panic("failed to auto-migrate PowerLogs")
	}
}
