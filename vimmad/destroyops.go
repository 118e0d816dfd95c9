package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vimma/vimmad/audit"
	"vimma/vimmad/authz"
	"vimma/vimmad/provider"
	"vimma/vimmad/requests"
	"vimma/vimmad/user"
	"vimma/vimmad/vm"
)

// destroyVM is the user-facing destroy path. The actual teardown is a
// fan-out of independent sub-tasks, each retried on its own budget.
func destroyVM(aUser *user.User, aVM *vm.VM) error {
	if !authz.CanDo(aUser, authz.ActionPowerRebootDestroy, aVM) {
		return refuse(aUser, "destroy VM "+aVM.Name)
	}
	if aVM.Destroyed() {
		return nil
	}

	if err := beginDestroy(aVM); err != nil {
		return err
	}

	vmAuditor.Info(fmt.Sprintf("destruction of VM %s requested", aVM.Name),
		audit.Meta{UserID: aUser.ID, ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return nil
}

// beginDestroy marks the VM and enqueues the teardown sub-tasks.
// Calling it again for a VM already being torn down just enqueues
// another round of idempotent sub-tasks.
func beginDestroy(aVM *vm.VM) error {
	if err := aVM.SetDestroyRequested(time.Now()); err != nil {
		return err
	}

	if _, err := requests.CreateVMReq(requests.INSTANCETERMINATE, aVM.ID); err != nil {
		return fmt.Errorf("failed enqueueing instance terminate: %w", err)
	}
	if _, err := requests.CreateVMReq(requests.SECGROUPDELETE, aVM.ID); err != nil {
		return fmt.Errorf("failed enqueueing security group delete: %w", err)
	}
	if _, err := requests.CreateVMReq(requests.DNSDELETE, aVM.ID); err != nil {
		return fmt.Errorf("failed enqueueing DNS delete: %w", err)
	}

	return nil
}

func destroyVMReq(request *requests.Request) reqResult {
	aVM, err := vmFromReqData(request.Data)
	if err != nil {
		slog.Error("destroy task failed looking up VM", "err", err)

		return reqGiveUp
	}
	if aVM.Destroyed() {
		return reqDone
	}

	if err := beginDestroy(aVM); err != nil {
		slog.Error("failed starting teardown", "vm", aVM.Name, "err", err)

		return reqRetry
	}

	vmAuditor.Info(fmt.Sprintf("destruction of VM %s started after grace period",
		aVM.Name), audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return reqDone
}

func terminateInstance(request *requests.Request) reqResult {
	aVM, err := vmFromReqData(request.Data)
	if err != nil {
		slog.Error("terminate task failed looking up VM", "err", err)

		return reqGiveUp
	}

	// never got an instance, nothing to tear down
	if aVM.InstanceID != "" {
		adapter, err := adapterForVM(aVM)
		if err != nil {
			slog.Error("terminate task found no adapter", "vm", aVM.Name, "err", err)

			return reqGiveUp
		}

		if err := adapter.Terminate(context.Background(), aVM.Machine()); err != nil {
			if errors.Is(err, provider.ErrTransient) {
				return reqRetry
			}
			vmAuditor.Error(fmt.Sprintf("terminating instance %s of VM %s failed: %v",
				aVM.InstanceID, aVM.Name, err),
				audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})

			return reqGiveUp
		}
	}

	if err := aVM.MarkInstanceTerminated(); err != nil {
		slog.Error("failed recording instance termination", "vm", aVM.Name, "err", err)

		return reqRetry
	}

	return reqDone
}

func deleteSecurityGroup(request *requests.Request) reqResult {
	aVM, err := vmFromReqData(request.Data)
	if err != nil {
		slog.Error("security group task failed looking up VM", "err", err)

		return reqGiveUp
	}

	if aVM.SecurityGroupID != "" {
		adapter, err := adapterForVM(aVM)
		if err != nil {
			slog.Error("security group task found no adapter", "vm", aVM.Name, "err", err)

			return reqGiveUp
		}

		// refused while the instance still holds the group, the retry
		// budget rides that out
		if err := adapter.DeleteSecurityGroup(context.Background(), aVM.Machine()); err != nil {
			if errors.Is(err, provider.ErrTransient) {
				return reqRetry
			}
			vmAuditor.Error(fmt.Sprintf("deleting security group %s of VM %s failed: %v",
				aVM.SecurityGroupID, aVM.Name, err),
				audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})

			return reqGiveUp
		}
	}

	if err := aVM.MarkSecurityGroupDeleted(); err != nil {
		slog.Error("failed recording security group deletion", "vm", aVM.Name, "err", err)

		return reqRetry
	}

	return reqDone
}
