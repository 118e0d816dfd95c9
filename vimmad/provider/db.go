package provider

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
	providerDB *gorm.DB
}

var instance *singleton

func DBReconfig() {
	instance = nil
}

func GetProviderDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "ProviderDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	if instance == nil {
		instance = &singleton{}
		providerDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			panic("failed to connect database")
		}
		sqlDB, err := providerDB.DB()
		if err != nil {
			panic("failed to create sqlDB database")
		}
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		instance.providerDB = providerDB
	}

	return instance.providerDB
}

func DBAutoMigrate() {
	db := GetProviderDB()
	err := db.AutoMigrate(&Provider{})
	if err != nil {
		panic("failed to auto-migrate Providers")
	}
}
