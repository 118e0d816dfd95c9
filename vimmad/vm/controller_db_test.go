package vm

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/gorm"

	"vimma/vimmad/vimmadtest"
)

func TestVM_DiscardExpiredScheduleOverride(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		fields      VM
		mockClosure func(testDB *gorm.DB, mock sqlmock.Sqlmock)
		want        bool
	}{
		{
			name:        "NoOverride",
			fields:      VM{ID: "46153591-bbc3-4b08-a2f0-b0b9b0f058a2"},
			mockClosure: func(_ *gorm.DB, _ sqlmock.Sqlmock) {},
			want:        false,
		},
		{
			name: "OverrideStillValid",
			fields: VM{
				ID:                 "46153591-bbc3-4b08-a2f0-b0b9b0f058a2",
				SchedOverrideState: sql.NullBool{Bool: true, Valid: true},
				SchedOverrideUntil: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
			},
			mockClosure: func(_ *gorm.DB, _ sqlmock.Sqlmock) {},
			want:        false,
		},
		{
			name: "StaleOverrideCleared",
			fields: VM{
				ID:                 "46153591-bbc3-4b08-a2f0-b0b9b0f058a2",
				SchedOverrideState: sql.NullBool{Bool: true, Valid: true},
				SchedOverrideUntil: sql.NullTime{Time: now.Add(-time.Minute), Valid: true},
			},
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				Instance = &Singleton{ // prevents parallel testing
					VMDB: testDB,
				}
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE `vms` SET `sched_override_state`").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			want: true,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			testDB, mock := vimmadtest.NewMockDB(t.Name())
			testCase.mockClosure(testDB, mock)

			testVM := testCase.fields

			got, err := testVM.DiscardExpiredScheduleOverride(now)
			if err != nil {
				t.Fatalf("DiscardExpiredScheduleOverride() error = %v", err)
			}
			if got != testCase.want {
				t.Errorf("DiscardExpiredScheduleOverride() = %v, want %v", got, testCase.want)
			}
			if got && testVM.SchedOverrideState.Valid {
				t.Errorf("override still set after discard")
			}
		})
	}
}

func TestVM_MarkInstanceTerminated(t *testing.T) {
	vmID := "46153591-bbc3-4b08-a2f0-b0b9b0f058a2"
	destroyedAt := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)

	vmCols := []string{"id", "name", "instance_terminated", "security_group_deleted", "destroyed_at"}

	tests := []struct {
		name          string
		mockClosure   func(testDB *gorm.DB, mock sqlmock.Sqlmock)
		wantDestroyed bool
	}{
		{
			// second sub-flag lands: destroyed_at is stamped in the same
			// transaction
			name: "BothFlagsStampDestroyedAt",
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				Instance = &Singleton{ // prevents parallel testing
					VMDB: testDB,
				}
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE `vms` SET `instance_terminated`").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows(vmCols).
						AddRow(vmID, "falling-frost-1234", true, true, nil))
				mock.ExpectExec("UPDATE `vms` SET `destroyed_at`").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows(vmCols).
						AddRow(vmID, "falling-frost-1234", true, true, destroyedAt))
			},
			wantDestroyed: true,
		},
		{
			name: "FirstFlagOnlyNoStamp",
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				Instance = &Singleton{ // prevents parallel testing
					VMDB: testDB,
				}
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE `vms` SET `instance_terminated`").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows(vmCols).
						AddRow(vmID, "falling-frost-1234", true, false, nil))
				mock.ExpectCommit()
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows(vmCols).
						AddRow(vmID, "falling-frost-1234", true, false, nil))
			},
			wantDestroyed: false,
		},
		{
			// redelivered sub-task: destroyed_at already set, it is not
			// stamped a second time
			name: "RedeliveryDoesNotRestamp",
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				Instance = &Singleton{ // prevents parallel testing
					VMDB: testDB,
				}
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE `vms` SET `instance_terminated`").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows(vmCols).
						AddRow(vmID, "falling-frost-1234", true, true, destroyedAt))
				mock.ExpectCommit()
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows(vmCols).
						AddRow(vmID, "falling-frost-1234", true, true, destroyedAt))
			},
			wantDestroyed: true,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			testDB, mock := vimmadtest.NewMockDB(t.Name())
			testCase.mockClosure(testDB, mock)

			testVM := VM{ID: vmID, Name: "falling-frost-1234"}

			if err := testVM.MarkInstanceTerminated(); err != nil {
				t.Fatalf("MarkInstanceTerminated() error = %v", err)
			}
			if testVM.Destroyed() != testCase.wantDestroyed {
				t.Errorf("Destroyed() = %v, want %v", testVM.Destroyed(), testCase.wantDestroyed)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet sqlmock expectations: %v", err)
			}
		})
	}
}
