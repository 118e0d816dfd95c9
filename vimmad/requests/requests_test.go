package requests

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-test/deep"
	"gorm.io/gorm"

	"vimma/vimmad/vimmadtest"
)

func TestGetByID(t *testing.T) {
	createUpdateTime := time.Now()

	type args struct {
		id string
	}

	tests := []struct {
		name        string
		args        args
		mockClosure func(testDB *gorm.DB, mock sqlmock.Sqlmock)
		want        Request
		wantErr     bool
	}{
		{
			name: "Success",
			args: args{id: "4aecbcd1-c39c-48e6-9a45-4a1abe06821f"},
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				instance = &singleton{ // prevents parallel testing
					reqDB: testDB,
				}
				mock.ExpectQuery(
					"^SELECT \\* FROM `requests` WHERE `requests`.`id` = \\? AND `requests`.`deleted_at` IS NULL LIMIT 1$"). //nolint:lll
					WithArgs("4aecbcd1-c39c-48e6-9a45-4a1abe06821f").
					WillReturnRows(
						sqlmock.NewRows(
							[]string{
								"id",
								"created_at",
								"updated_at",
								"deleted_at",
								"started_at",
								"not_before",
								"attempts",
								"successful",
								"complete",
								"type",
								"data",
							}).
							AddRow(
								"4aecbcd1-c39c-48e6-9a45-4a1abe06821f",
								createUpdateTime,
								createUpdateTime,
								nil,
								sql.NullTime{
									Time:  createUpdateTime,
									Valid: true,
								},
								nil,
								2,
								1,
								1,
								"VMSTART",
								"{\"vm_id\":\"49bd57aa-611e-4cf4-a7b7-2e71470c9aeb\"}",
							),
					)
			},
			want: Request{
				Model: gorm.Model{
					CreatedAt: createUpdateTime,
					UpdatedAt: createUpdateTime,
					DeletedAt: gorm.DeletedAt{},
				},
				ID: "4aecbcd1-c39c-48e6-9a45-4a1abe06821f",
				StartedAt: sql.NullTime{
					Time:  createUpdateTime,
					Valid: true,
				},
				Attempts:   2,
				Successful: true,
				Complete:   true,
				Type:       "VMSTART",
				Data:       "{\"vm_id\":\"49bd57aa-611e-4cf4-a7b7-2e71470c9aeb\"}",
			},
			wantErr: false,
		},
		{
			name: "Error",
			args: args{id: "cd48e86e-8b1a-4870-b1ec-337d1f1df37d"},
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				instance = &singleton{ // prevents parallel testing
					reqDB: testDB,
				}
				mock.ExpectQuery(
					"^SELECT \\* FROM `requests` WHERE `requests`.`id` = \\? AND `requests`.`deleted_at` IS NULL LIMIT 1$"). //nolint:lll
					WithArgs("cd48e86e-8b1a-4870-b1ec-337d1f1df37d").
					WillReturnError(gorm.ErrInvalidField) // does not matter what error is returned
			},
			want:    Request{},
			wantErr: true,
		},
		{
			name: "NotFound",
			args: args{id: "db945c03-c8f5-4c5d-91ec-da826646d227"},
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				instance = &singleton{ // prevents parallel testing
					reqDB: testDB,
				}
				mock.ExpectQuery(
					"^SELECT \\* FROM `requests` WHERE `requests`.`id` = \\? AND `requests`.`deleted_at` IS NULL LIMIT 1$"). //nolint:lll
					WithArgs("db945c03-c8f5-4c5d-91ec-da826646d227").
					WillReturnRows(
						sqlmock.NewRows(
							[]string{
								"id",
								"created_at",
								"updated_at",
								"deleted_at",
								"started_at",
								"not_before",
								"attempts",
								"successful",
								"complete",
								"type",
								"data",
							},
						),
					)
			},
			want:    Request{},
			wantErr: true,
		},
		{
			name: "EmptyID",
			args: args{id: ""},
			mockClosure: func(testDB *gorm.DB, _ sqlmock.Sqlmock) {
				instance = &singleton{ // prevents parallel testing
					reqDB: testDB,
				}
			},
			want:    Request{},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			testDB, mock := vimmadtest.NewMockDB("requestTest")
			testCase.mockClosure(testDB, mock)

			got, err := GetByID(testCase.args.id)
			if (err != nil) != testCase.wantErr {
				t.Errorf("GetByID() error = %v, wantErr %v", err, testCase.wantErr)

				return
			}

			mock.ExpectClose()

			db, err := testDB.DB()
			if err != nil {
				t.Error(err)
			}

			if err = db.Close(); err != nil {
				t.Error(err)
			}

			if err = mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}

			diff := deep.Equal(got, testCase.want)
			if diff != nil {
				t.Errorf("compare failed: %v", diff)
			}
		})
	}
}

func TestCreateVMReq(t *testing.T) {
	type args struct {
		requestType reqType
		vmID        string
	}

	tests := []struct {
		name        string
		args        args
		mockClosure func(testDB *gorm.DB, mock sqlmock.Sqlmock)
		want        Request
		wantErr     bool
	}{
		{
			name: "StartSuccess",
			args: args{requestType: VMSTART, vmID: "f2d857d8-7625-47da-9545-e339f0468856"},
			mockClosure: func(testDB *gorm.DB, mock sqlmock.Sqlmock) {
				instance = &singleton{ // prevents parallel testing
					reqDB: testDB,
				}
				mock.ExpectBegin()
				mock.ExpectQuery(
					regexp.QuoteMeta(
						"INSERT INTO `requests` (`id`,`created_at`,`updated_at`,`deleted_at`,`started_at`,`not_before`,`attempts`,`successful`,`complete`,`type`,`data`) VALUES (?,?,?,?,?,?,?,?,?,?,?) RETURNING `id`")). //nolint:lll
					WithArgs(
						sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil, nil, 0, false,
						false, "VMSTART", "{\"vm_id\":\"f2d857d8-7625-47da-9545-e339f0468856\"}",
					).
					// gorm asks the db to return the id but does not check that it matches what gorm set it
					// to, so we can fake it and return any value we like
					WillReturnRows(sqlmock.NewRows([]string{"id"}).
						AddRow("f2943275-2b6d-48a0-9e85-7ee6baa64c37"))
				mock.ExpectCommit()
			},
			want: Request{
				Model: gorm.Model{
					CreatedAt: time.Time{},
					UpdatedAt: time.Time{},
					DeletedAt: gorm.DeletedAt{},
				},
				ID:         "f2943275-2b6d-48a0-9e85-7ee6baa64c37",
				StartedAt:  sql.NullTime{},
				Successful: false,
				Complete:   false,
				Type:       "VMSTART",
				Data:       "{\"vm_id\":\"f2d857d8-7625-47da-9545-e339f0468856\"}",
			},
			wantErr: false,
		},
		{
			name: "BadType",
			args: args{requestType: ALLVMSTATUS, vmID: "f2d857d8-7625-47da-9545-e339f0468856"},
			mockClosure: func(testDB *gorm.DB, _ sqlmock.Sqlmock) {
				instance = &singleton{ // prevents parallel testing
					reqDB: testDB,
				}
			},
			want:    Request{},
			wantErr: true,
		},
		{
			name: "EmptyVMID",
			args: args{requestType: VMSTART, vmID: ""},
			mockClosure: func(testDB *gorm.DB, _ sqlmock.Sqlmock) {
				instance = &singleton{ // prevents parallel testing
					reqDB: testDB,
				}
			},
			want:    Request{},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			testDB, mock := vimmadtest.NewMockDB("requestTest")
			testCase.mockClosure(testDB, mock)

			got, err := CreateVMReq(testCase.args.requestType, testCase.args.vmID)
			if (err != nil) != testCase.wantErr {
				t.Errorf("CreateVMReq() error = %v, wantErr %v", err, testCase.wantErr)

				return
			}

			// gorm stamps these with the wall clock on create
			got.CreatedAt = time.Time{}
			got.UpdatedAt = time.Time{}

			mock.ExpectClose()

			db, err := testDB.DB()
			if err != nil {
				t.Error(err)
			}

			if err = db.Close(); err != nil {
				t.Error(err)
			}

			if err = mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}

			diff := deep.Equal(got, testCase.want)
			if diff != nil {
				t.Errorf("compare failed: %v", diff)
			}
		})
	}
}

func Test_validVMReqType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reqType reqType
		want    bool
	}{
		{name: "Status", reqType: VMSTATUS, want: true},
		{name: "Start", reqType: VMSTART, want: true},
		{name: "Stop", reqType: VMSTOP, want: true},
		{name: "Reboot", reqType: VMREBOOT, want: true},
		{name: "Create", reqType: VMCREATE, want: true},
		{name: "Destroy", reqType: VMDESTROY, want: true},
		{name: "Terminate", reqType: INSTANCETERMINATE, want: true},
		{name: "SecGroup", reqType: SECGROUPDELETE, want: true},
		{name: "DNSAdd", reqType: DNSADD, want: true},
		{name: "DNSDelete", reqType: DNSDELETE, want: true},
		{name: "AllStatusSweep", reqType: ALLVMSTATUS, want: false},
		{name: "RuleAdd", reqType: FWRULEADD, want: false},
		{name: "NotifySweep", reqType: EXPIRENOTIFYSWEEP, want: false},
		{name: "Junk", reqType: "junk", want: false},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := validVMReqType(testCase.reqType)
			if got != testCase.want {
				t.Errorf("validVMReqType() = %v, want %v", got, testCase.want)
			}
		})
	}
}
