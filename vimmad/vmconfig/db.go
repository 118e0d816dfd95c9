package vmconfig

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
	VMConfigDB *gorm.DB
}

var Instance *Singleton

func DBReconfig() {
	Instance = nil
}

func GetVMConfigDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "VMConfigDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	if Instance == nil {
		Instance = &Singleton{}
		vmConfigDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			panic("failed to connect database")
		}
		sqlDB, err := vmConfigDB.DB()
		if err != nil {
			panic("failed to create sqlDB database")
		}
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		Instance.VMConfigDB = vmConfigDB
	}

	return Instance.VMConfigDB
}

func DBAutoMigrate() {
	db := GetVMConfigDB()
	err := db.AutoMigrate(&VMConfig{})
	if err != nil {
		panic("failed to auto-migrate VMConfigs")
	}
}
