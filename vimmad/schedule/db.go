package schedule

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vimma/vimmad/config"
)

type Singleton struct {
	ScheduleDB *gorm.DB
}

var Instance *Singleton

func DBReconfig() {
	Instance = nil
}

func GetScheduleDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "ScheduleDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	if Instance == nil {
		Instance = &Singleton{}
		scheduleDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			panic("failed to connect database")
		}
		sqlDB, err := scheduleDB.DB()
		if err != nil {
			panic("failed to create sqlDB database")
		}
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		Instance.ScheduleDB = scheduleDB
	}

	return Instance.ScheduleDB
}

func DBAutoMigrate() {
	db := GetScheduleDB()
	err := db.AutoMigrate(&TimeZone{}, &Schedule{})
	if err != nil {
		panic("failed to auto-migrate Schedules")
	}
}
