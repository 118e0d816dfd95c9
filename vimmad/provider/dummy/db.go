package dummy

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
	dummyDB *gorm.DB
}

var instance *singleton

func DBReconfig() {
	instance = nil
}

func GetDummyDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "DummyDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	if instance == nil {
		instance = &singleton{}
		dummyDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			panic("failed to connect database")
		}
		sqlDB, err := dummyDB.DB()
		if err != nil {
			panic("failed to create sqlDB database")
		}
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		instance.dummyDB = dummyDB
	}

	return instance.dummyDB
}

func DBAutoMigrate() {
	db := GetDummyDB()
	err := db.AutoMigrate(&DummyVM{})
	if err != nil {
		panic("failed to auto-migrate DummyVMs")
	}
}
