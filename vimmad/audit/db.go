package audit

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
	auditDB *gorm.DB
}

var instance *singleton

func DBReconfig() {
	instance = nil
}

func GetAuditDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "AuditDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	if instance == nil {
		instance = &singleton{}
		auditDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			panic("failed to connect database")
		}
		sqlDB, err := auditDB.DB()
		if err != nil {
			panic("failed to create sqlDB database")
		}
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		instance.auditDB = auditDB
	}

	return instance.auditDB
}

func DBAutoMigrate() {
	db := GetAuditDB()
	err := db.AutoMigrate(&Audit{})
	if err != nil {
		panic("failed to auto-migrate Audits")
	}
}
