package db

import (
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vimma/vimmad/audit"
	"vimma/vimmad/config"
	"vimma/vimmad/expiration"
	"vimma/vimmad/fwrule"
	"vimma/vimmad/powerlog"
	"vimma/vimmad/project"
	"vimma/vimmad/provider"
	"vimma/vimmad/provider/dummy"
	"vimma/vimmad/requests"
	"vimma/vimmad/schedule"
	"vimma/vimmad/user"
	"vimma/vimmad/vm"
	"vimma/vimmad/vmconfig"
)

const currentSchemaVersion = 2026090101

type meta struct {
	ID            uint   `gorm:"primarykey"`
	SchemaVersion uint32 `gorm:"not null"`
}

type singleton struct {
	metaDB *gorm.DB
}

var instance *singleton

var once sync.Once

func getMetaDB() *gorm.DB {
	noColorLogger := logger.New(
		log.New(os.Stdout, "MetaDb: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  false,
		},
	)

	once.Do(func() {
		instance = &singleton{}
		metaDB, err := gorm.Open(
			sqlite.Open(config.Config.DB.Path),
			&gorm.Config{
				Logger:      noColorLogger,
				PrepareStmt: true,
			},
		)
		if err != nil {
			slog.Error("failed to connect database", "err", err)
			panic("failed to connect database, err: " + err.Error())
		}

		sqlDB, err := metaDB.DB()
		if err != nil {
			slog.Error("failed to create sqlDB database", "err", err)
			panic("failed to create sqlDB database, err: " + err.Error())
		}

		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)

		instance.metaDB = metaDB
	})

	return instance.metaDB
}

func getSchemaVersion() uint32 {
	metaDB := getMetaDB()

	var m meta

	metaDB.Find(&m)

	return m.SchemaVersion
}

func setSchemaVersion(schemaVersion uint32) {
	metaDB := getMetaDB()

	var metaData meta
	metaData.ID = 1 // always!

	var res *gorm.DB

	res = metaDB.Delete(&metaData)
	if res.Error != nil {
		slog.Error("error saving schema_version", "err", res.Error)
		panic(res.Error)
	}

	metaData.SchemaVersion = schemaVersion

	res = metaDB.Create(&metaData)
	if res.Error != nil {
		slog.Error("error saving schema_version", "err", res.Error)
		panic(res.Error)
	}
}

// AutoMigrate brings every table up to date and ensures the static
// permission set exists.
func AutoMigrate() {
	metaDB := getMetaDB()

	err := metaDB.AutoMigrate(&meta{})
	if err != nil {
		slog.Error("failed to auto-migrate meta", "err", err)
		panic("failed to auto-migrate meta, err: " + err.Error())
	}

	audit.DBAutoMigrate()
	project.DBAutoMigrate()
	user.DBAutoMigrate()
	schedule.DBAutoMigrate()
	provider.DBAutoMigrate()
	dummy.DBAutoMigrate()
	vmconfig.DBAutoMigrate()
	vm.DBAutoMigrate()
	fwrule.DBAutoMigrate()
	powerlog.DBAutoMigrate()
	expiration.DBAutoMigrate()
	requests.DBAutoMigrate()

	if err := user.EnsurePermissions(); err != nil {
		slog.Error("failed ensuring permissions", "err", err)
		panic("failed ensuring permissions, err: " + err.Error())
	}

	if getSchemaVersion() < currentSchemaVersion {
		setSchemaVersion(currentSchemaVersion)
	}
}
