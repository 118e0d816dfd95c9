package user

// Permission names. The omnipotent permission grants everything.
const (
	PermOmnipotent = "omnipotent"
	// create, delete, edit schedules
	PermEditSchedule       = "schedule-edit"
	PermUseSpecialSchedule = "schedule-use-special"
	// see projects you're not a member of
	PermReadAnyProject = "read-any-project"
	// create VMs from a config belonging to a special provider
	PermUseSpecialProvider = "provider-use-special"
	// create VMs from a config which needs this additional permission
	PermUseSpecialVMConfig = "vm-config-use-special"
	PermReadAllAudits      = "read-all-audits"
	PermReadAllPowerLogs   = "read-all-power-logs"
)

// AllPerms is used to pre-populate the database with the known permissions.
var AllPerms = []string{
	PermOmnipotent,
	PermEditSchedule,
	PermUseSpecialSchedule,
	PermReadAnyProject,
	PermUseSpecialProvider,
	PermUseSpecialVMConfig,
	PermReadAllAudits,
	PermReadAllPowerLogs,
}
