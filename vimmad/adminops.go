package main

import (
	"fmt"

	"vimma/vimmad/project"
	"vimma/vimmad/schedule"
	"vimma/vimmad/vm"
	"vimma/vimmad/vmconfig"
)

// Deletes of shared records funnel through here: a project, schedule or
// VM config still referenced by VMs must not go away underneath them.

func deleteProject(prj *project.Project) error {
	if referencing := vm.GetByProject(prj.ID); len(referencing) > 0 {
		return fmt.Errorf("%w: project %s has %d VMs",
			errStillReferenced, prj.Name, len(referencing))
	}

	return prj.Delete()
}

func deleteSchedule(sched *schedule.Schedule) error {
	if referencing := vm.GetBySchedule(sched.ID); len(referencing) > 0 {
		return fmt.Errorf("%w: schedule %s is used by %d VMs",
			errStillReferenced, sched.Name, len(referencing))
	}

	return sched.Delete()
}

func deleteVMConfig(cfg *vmconfig.VMConfig) error {
	if referencing := vm.GetByVMConfig(cfg.ID); len(referencing) > 0 {
		return fmt.Errorf("%w: VM config %s is used by %d VMs",
			errStillReferenced, cfg.Name, len(referencing))
	}

	return cfg.Delete()
}
