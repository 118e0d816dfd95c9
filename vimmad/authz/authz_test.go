package authz

import (
	"testing"

	"vimma/vimmad/project"
	"vimma/vimmad/user"
)

type ownedTarget struct {
	projectID string
}

func (o ownedTarget) OwningProjectID() string { return o.projectID }

type specialTarget struct {
	special bool
}

func (s specialTarget) SpecialFlag() bool { return s.special }

func userWith(perms []string, projectIDs []string) *user.User {
	var permissions []user.Permission
	for _, name := range perms {
		permissions = append(permissions, user.Permission{Name: name})
	}

	var projects []project.Project
	for _, id := range projectIDs {
		projects = append(projects, project.Project{ID: id})
	}

	return &user.User{
		Username: "someone",
		Roles:    []user.Role{{Name: "role", Permissions: permissions}},
		Projects: projects,
	}
}

func TestCanDo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		aUser  *user.User
		action Action
		target any
		want   bool
	}{
		{
			name:   "NilUser",
			aUser:  nil,
			action: ActionWriteSchedules,
			want:   false,
		},
		{
			name:   "WriteSchedulesDenied",
			aUser:  userWith(nil, nil),
			action: ActionWriteSchedules,
			want:   false,
		},
		{
			name:   "WriteSchedulesWithPerm",
			aUser:  userWith([]string{user.PermEditSchedule}, nil),
			action: ActionWriteSchedules,
			want:   true,
		},
		{
			name:   "OmnipotentWritesSchedules",
			aUser:  userWith([]string{user.PermOmnipotent}, nil),
			action: ActionWriteSchedules,
			want:   true,
		},
		{
			name:   "ReadAnyProject",
			aUser:  userWith([]string{user.PermReadAnyProject}, nil),
			action: ActionReadAnyProject,
			want:   true,
		},
		{
			name:   "ReadAllAuditsDenied",
			aUser:  userWith([]string{user.PermReadAnyProject}, nil),
			action: ActionReadAllAudits,
			want:   false,
		},
		{
			name:   "ReadAllPowerLogs",
			aUser:  userWith([]string{user.PermReadAllPowerLogs}, nil),
			action: ActionReadAllPowerLogs,
			want:   true,
		},
		{
			name:   "SetAnyExpirationNeedsOmnipotent",
			aUser:  userWith([]string{user.PermEditSchedule}, nil),
			action: ActionSetAnyExpiration,
			want:   false,
		},
		{
			name:   "SetAnyExpirationOmnipotent",
			aUser:  userWith([]string{user.PermOmnipotent}, nil),
			action: ActionSetAnyExpiration,
			want:   true,
		},
		{
			name:   "UseNormalSchedule",
			aUser:  userWith(nil, nil),
			action: ActionUseSchedule,
			target: specialTarget{special: false},
			want:   true,
		},
		{
			name:   "UseSpecialScheduleDenied",
			aUser:  userWith(nil, nil),
			action: ActionUseSchedule,
			target: specialTarget{special: true},
			want:   false,
		},
		{
			name:   "UseSpecialScheduleWithPerm",
			aUser:  userWith([]string{user.PermUseSpecialSchedule}, nil),
			action: ActionUseSchedule,
			target: specialTarget{special: true},
			want:   true,
		},
		{
			name:   "UseScheduleNoTarget",
			aUser:  userWith([]string{user.PermUseSpecialSchedule}, nil),
			action: ActionUseSchedule,
			target: nil,
			want:   false,
		},
		{
			name:   "UseSpecialProviderWrongPerm",
			aUser:  userWith([]string{user.PermUseSpecialVMConfig}, nil),
			action: ActionUseProvider,
			target: specialTarget{special: true},
			want:   false,
		},
		{
			name:   "UseSpecialVMConfigWithPerm",
			aUser:  userWith([]string{user.PermUseSpecialVMConfig}, nil),
			action: ActionUseVMConfig,
			target: specialTarget{special: true},
			want:   true,
		},
		{
			name:   "CreateVMAsMember",
			aUser:  userWith(nil, []string{"prj1"}),
			action: ActionCreateVMInProject,
			target: ownedTarget{projectID: "prj1"},
			want:   true,
		},
		{
			name:   "CreateVMAsNonMember",
			aUser:  userWith(nil, []string{"prj2"}),
			action: ActionCreateVMInProject,
			target: ownedTarget{projectID: "prj1"},
			want:   false,
		},
		{
			name:   "CreateVMOmnipotentNonMember",
			aUser:  userWith([]string{user.PermOmnipotent}, nil),
			action: ActionCreateVMInProject,
			target: ownedTarget{projectID: "prj1"},
			want:   true,
		},
		{
			name:   "PowerVMAsMember",
			aUser:  userWith(nil, []string{"prj1"}),
			action: ActionPowerRebootDestroy,
			target: ownedTarget{projectID: "prj1"},
			want:   true,
		},
		{
			name:   "OverrideScheduleNonMember",
			aUser:  userWith(nil, nil),
			action: ActionOverrideVMSchedule,
			target: ownedTarget{projectID: "prj1"},
			want:   false,
		},
		{
			name:   "ChangeScheduleMissingTarget",
			aUser:  userWith([]string{user.PermOmnipotent}, nil),
			action: ActionChangeVMSchedule,
			target: nil,
			want:   false,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := CanDo(testCase.aUser, testCase.action, testCase.target)
			if got != testCase.want {
				t.Errorf("CanDo(%v) = %v, want %v", testCase.action, got, testCase.want)
			}
		})
	}
}
