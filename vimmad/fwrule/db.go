package fwrule

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
	fwRuleDB *gorm.DB
}

var instance *singleton

func DBReconfig() {
	instance = nil
}

func GetFwRuleDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "FwRuleDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	if instance == nil {
		instance = &singleton{}
		fwRuleDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			panic("failed to connect database")
		}
		sqlDB, err := fwRuleDB.DB()
		if err != nil {
			panic("failed to create sqlDB database")
		}
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		instance.fwRuleDB = fwRuleDB
	}

	return instance.fwRuleDB
}

func DBAutoMigrate() {
	db := GetFwRuleDB()
	err := db.AutoMigrate(&FirewallRule{})
	if err != nil {
		panic("failed to auto-migrate FirewallRules")
	}
}
