package authz

import (
	"fmt"

	"vimma/vimmad/audit"
	"vimma/vimmad/user"
)

type Action string

// The closed set of actions. Anything else is denied.
const (
	ActionWriteSchedules     Action = "write-schedules"
	ActionReadAnyProject     Action = "read-any-project"
	ActionCreateVMInProject  Action = "create-vm-in-project"
	ActionUseProvider        Action = "use-provider"
	ActionUseVMConfig        Action = "use-vm-config"
	ActionUseSchedule        Action = "use-schedule"
	ActionPowerRebootDestroy Action = "power-reboot-destroy-vm-in-project"
	ActionOverrideVMSchedule Action = "override-vm-schedule"
	ActionChangeVMSchedule   Action = "change-vm-schedule"
	ActionSetAnyExpiration   Action = "set-any-expiration"
	ActionReadAllAudits      Action = "read-all-audits"
	ActionReadAllPowerLogs   Action = "read-all-powerlogs"
)

// only granted through omnipotent, never present as a permission row
const permSetAnyExpiration = "set-any-expiration"

// ProjectOwned is implemented by targets living inside a project.
type ProjectOwned interface {
	OwningProjectID() string
}

// Special is implemented by targets which may be restricted to holders
// of a use-special permission.
type Special interface {
	SpecialFlag() bool
}

var auditor = audit.NewAuditor("authz")

// CanDo evaluates whether aUser may perform action on target. The target is
// only consulted for project-scoped and special-restricted actions and may
// be nil otherwise. Unknown actions and missing targets always deny.
func CanDo(aUser *user.User, action Action, target any) bool {
	if aUser == nil {
		return false
	}

	switch action {
	case ActionWriteSchedules:
		return aUser.HasPerm(user.PermEditSchedule)
	case ActionReadAnyProject:
		return aUser.HasPerm(user.PermReadAnyProject)
	case ActionReadAllAudits:
		return aUser.HasPerm(user.PermReadAllAudits)
	case ActionReadAllPowerLogs:
		return aUser.HasPerm(user.PermReadAllPowerLogs)
	case ActionSetAnyExpiration:
		return aUser.HasPerm(permSetAnyExpiration)
	case ActionUseSchedule:
		return canUseSpecial(aUser, target, user.PermUseSpecialSchedule)
	case ActionUseProvider:
		return canUseSpecial(aUser, target, user.PermUseSpecialProvider)
	case ActionUseVMConfig:
		return canUseSpecial(aUser, target, user.PermUseSpecialVMConfig)
	case ActionCreateVMInProject, ActionPowerRebootDestroy,
		ActionOverrideVMSchedule, ActionChangeVMSchedule:
		return isProjectMember(aUser, target)
	default:
		auditor.Warning(fmt.Sprintf("denying unknown action %q", action),
			audit.Meta{UserID: aUser.ID})

		return false
	}
}

func canUseSpecial(aUser *user.User, target any, perm string) bool {
	special, ok := target.(Special)
	if !ok {
		return false
	}
	if !special.SpecialFlag() {
		return true
	}

	return aUser.HasPerm(perm)
}

func isProjectMember(aUser *user.User, target any) bool {
	owned, ok := target.(ProjectOwned)
	if !ok {
		return false
	}
	if aUser.HasPerm(user.PermOmnipotent) {
		return true
	}

	return aUser.IsMemberOf(owned.OwningProjectID())
}
