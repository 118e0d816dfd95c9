package main

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/gorm"

	"vimma/vimmad/project"
	"vimma/vimmad/schedule"
	"vimma/vimmad/vimmadtest"
	"vimma/vimmad/vm"
	"vimma/vimmad/vmconfig"
)

func Test_deleteProject(t *testing.T) {
	tests := []struct {
		name        string
		mockClosure func(testDB *gorm.DB, mock sqlmock.Sqlmock)
		wantErr     error
	}{
		{
			name: "RefusedWhileVMsExist",
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				vm.Instance = &vm.Singleton{ // prevents parallel testing
					VMDB: testDB,
				}
				project.Instance = &project.Singleton{
					ProjectDB: testDB,
				}
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}).
						AddRow("7f24a3b9-52ad-4e14-9b1f-287d07a0a0e9",
							"6a7b0ba1-7e29-4491-bbf5-1a0470b07331"))
			},
			wantErr: errStillReferenced,
		},
		{
			name: "Success",
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				vm.Instance = &vm.Singleton{ // prevents parallel testing
					VMDB: testDB,
				}
				project.Instance = &project.Singleton{
					ProjectDB: testDB,
				}
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}))
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE `projects` SET").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantErr: nil,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			testDB, mock := vimmadtest.NewMockDB(t.Name())
			testCase.mockClosure(testDB, mock)

			prj := &project.Project{
				ID:   "6a7b0ba1-7e29-4491-bbf5-1a0470b07331",
				Name: "research",
			}

			err := deleteProject(prj)
			if !errors.Is(err, testCase.wantErr) {
				t.Errorf("deleteProject() error = %v, wantErr %v", err, testCase.wantErr)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet sqlmock expectations: %v", err)
			}
		})
	}
}

func Test_deleteSchedule(t *testing.T) {
	tests := []struct {
		name        string
		mockClosure func(testDB *gorm.DB, mock sqlmock.Sqlmock)
		wantErr     error
	}{
		{
			name: "RefusedWhileReferenced",
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				vm.Instance = &vm.Singleton{ // prevents parallel testing
					VMDB: testDB,
				}
				schedule.Instance = &schedule.Singleton{
					ScheduleDB: testDB,
				}
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id"}).
						AddRow("7f24a3b9-52ad-4e14-9b1f-287d07a0a0e9",
							"c916ba68-2b02-4256-a84f-1d057eafa48e"))
			},
			wantErr: errStillReferenced,
		},
		{
			name: "Success",
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				vm.Instance = &vm.Singleton{ // prevents parallel testing
					VMDB: testDB,
				}
				schedule.Instance = &schedule.Singleton{
					ScheduleDB: testDB,
				}
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id"}))
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE `schedules` SET").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantErr: nil,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			testDB, mock := vimmadtest.NewMockDB(t.Name())
			testCase.mockClosure(testDB, mock)

			sched := &schedule.Schedule{
				ID:   "c916ba68-2b02-4256-a84f-1d057eafa48e",
				Name: "workdays",
			}

			err := deleteSchedule(sched)
			if !errors.Is(err, testCase.wantErr) {
				t.Errorf("deleteSchedule() error = %v, wantErr %v", err, testCase.wantErr)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet sqlmock expectations: %v", err)
			}
		})
	}
}

func Test_deleteVMConfig(t *testing.T) {
	tests := []struct {
		name        string
		mockClosure func(testDB *gorm.DB, mock sqlmock.Sqlmock)
		wantErr     error
	}{
		{
			name: "RefusedWhileReferenced",
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				vm.Instance = &vm.Singleton{ // prevents parallel testing
					VMDB: testDB,
				}
				vmconfig.Instance = &vmconfig.Singleton{
					VMConfigDB: testDB,
				}
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows([]string{"id", "vm_config_id"}).
						AddRow("7f24a3b9-52ad-4e14-9b1f-287d07a0a0e9",
							"4b64baa9-4931-45b1-8232-bbd6d0e67377"))
			},
			wantErr: errStillReferenced,
		},
		{
			name: "Success",
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				vm.Instance = &vm.Singleton{ // prevents parallel testing
					VMDB: testDB,
				}
				vmconfig.Instance = &vmconfig.Singleton{
					VMConfigDB: testDB,
				}
				mock.ExpectQuery("SELECT \\* FROM `vms` WHERE").
					WillReturnRows(sqlmock.NewRows([]string{"id", "vm_config_id"}))
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE `vm_configs` SET").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantErr: nil,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			testDB, mock := vimmadtest.NewMockDB(t.Name())
			testCase.mockClosure(testDB, mock)

			cfg := &vmconfig.VMConfig{
				ID:   "4b64baa9-4931-45b1-8232-bbd6d0e67377",
				Name: "small-dev",
			}

			err := deleteVMConfig(cfg)
			if !errors.Is(err, testCase.wantErr) {
				t.Errorf("deleteVMConfig() error = %v, wantErr %v", err, testCase.wantErr)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet sqlmock expectations: %v", err)
			}
		})
	}
}
