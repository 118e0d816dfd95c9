package project

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
	ProjectDB *gorm.DB
}

var Instance *Singleton

func DBReconfig() {
	Instance = nil
}

func GetProjectDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "ProjectDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	if Instance == nil {
		Instance = &Singleton{}
		projectDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			panic("failed to connect database")
		}
		sqlDB, err := projectDB.DB()
		if err != nil {
			panic("failed to create sqlDB database")
		}
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		Instance.ProjectDB = projectDB
	}

	return Instance.ProjectDB
}

func DBAutoMigrate() {
	db := GetProjectDB()
	err := db.AutoMigrate(&Project{})
	if err != nil {
		panic("failed to auto-migrate Projects")
	}
}
