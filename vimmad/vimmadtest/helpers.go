// Package vimmadtest holds helpers shared by the database-backed tests.
package vimmadtest

import (
	"log"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewMockDB returns a gorm handle backed by sqlmock; no sqlite file is
// opened and the DSN only labels the connection (tests pass t.Name()).
// gorm asks for the sqlite version on connect, so that query is
// pre-expected here; the value matches the sqlite bundled with
// mattn/go-sqlite3.
func NewMockDB(testDSN string) (*gorm.DB, sqlmock.Sqlmock) {
	testDB, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("failed opening stub database: %s", err)
	}

	mock.ExpectQuery("select sqlite_version()").
		WillReturnRows(sqlmock.NewRows([]string{"sqlite_version()"}).AddRow("3.45.1"))

	gormDB, err := gorm.Open(
		&sqlite.Dialector{
			DSN:  testDSN,
			Conn: testDB,
		},
		&gorm.Config{
			DisableAutomaticPing: true,
		},
	)
	if err != nil {
		log.Fatalf("failed opening gorm over the stub connection: %s", err)
	}

	return gormDB, mock
}
