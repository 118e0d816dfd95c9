package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vimma/vimmad/audit"
	"vimma/vimmad/authz"
	"vimma/vimmad/config"
	"vimma/vimmad/expiration"
	"vimma/vimmad/powerlog"
	"vimma/vimmad/project"
	"vimma/vimmad/provider"
	"vimma/vimmad/requests"
	"vimma/vimmad/schedule"
	"vimma/vimmad/user"
	"vimma/vimmad/util"
	"vimma/vimmad/vm"
	"vimma/vimmad/vmconfig"
)

var vmAuditor = audit.NewAuditor("vm")

// refuse audits a denied operation and returns the refusal. Denials are
// routine, they only rate INFO.
func refuse(aUser *user.User, what string) error {
	username := "<nil>"
	userID := ""
	if aUser != nil {
		username = aUser.Username
		userID = aUser.ID
	}
	vmAuditor.Info(fmt.Sprintf("refused user %s: %s", username, what),
		audit.Meta{UserID: userID})

	return errNotAuthorized
}

func vmFromReqData(data string) (*vm.VM, error) {
	var reqData requests.VMReqData
	if err := json.Unmarshal([]byte(data), &reqData); err != nil {
		return nil, fmt.Errorf("failed unmarshalling request data: %w", err)
	}

	return vm.GetByID(reqData.VMID)
}

func adapterForVM(aVM *vm.VM) (provider.Adapter, error) {
	prov, err := provider.GetByID(aVM.ProviderID)
	if err != nil {
		return nil, err
	}

	return provider.AdapterFor(prov.Kind)
}

type createVMParams struct {
	Name       string
	Comment    string
	ProjectID  string
	VMConfigID string
	ScheduleID string
}

// createVM builds the VM record, its expiration and the initial
// creation override, then enqueues the provider create. The record is
// returned right away; provisioning completes asynchronously.
func createVM(aUser *user.User, params createVMParams) (*vm.VM, error) {
	prj, err := project.GetByID(params.ProjectID)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(aUser, authz.ActionCreateVMInProject, prj) {
		return nil, refuse(aUser, "create a VM in project "+prj.Name)
	}

	cfg, err := vmconfig.GetByID(params.VMConfigID)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(aUser, authz.ActionUseVMConfig, cfg) {
		return nil, refuse(aUser, "use VM config "+cfg.Name)
	}

	prov, err := provider.GetByID(cfg.ProviderID)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(aUser, authz.ActionUseProvider, prov) {
		return nil, refuse(aUser, "use provider "+prov.Name)
	}

	scheduleID := params.ScheduleID
	if scheduleID == "" {
		scheduleID = cfg.DefaultScheduleID
	}
	sched, err := schedule.GetByID(scheduleID)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(aUser, authz.ActionUseSchedule, sched) {
		return nil, refuse(aUser, "use schedule "+sched.Name)
	}

	name := params.Name
	if name == "" {
		name = util.GenerateVMName()
	}

	newVM := vm.VM{
		Name:        name,
		ProjectID:   prj.ID,
		VMConfigID:  cfg.ID,
		ProviderID:  prov.ID,
		ScheduleID:  sched.ID,
		CreatedByID: aUser.ID,
		Comment:     params.Comment,
	}
	if err := vm.Create(&newVM); err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(config.Config.VM.DefaultExpirySecs) * time.Second)
	if _, err := expiration.Create(expiration.KindVM, newVM.ID, expiresAt); err != nil {
		return nil, err
	}

	// new VMs run for a while regardless of their schedule, so users
	// can set them up
	overrideSecs := config.Config.VM.CreationOverrideSecs
	if overrideSecs > 0 {
		until := now.Add(time.Duration(overrideSecs) * time.Second)
		if err := newVM.SetScheduleOverride(true, until); err != nil {
			return nil, err
		}
	}

	if _, err := requests.CreateVMReq(requests.VMCREATE, newVM.ID); err != nil {
		return nil, err
	}

	vmAuditor.Info(fmt.Sprintf("VM %s created in project %s", newVM.Name, prj.Name),
		audit.Meta{UserID: aUser.ID, ProjectID: prj.ID, VMID: newVM.ID})

	return &newVM, nil
}

// powerVMRequest is the user-facing path for power on/off/reboot.
func powerVMRequest(aUser *user.User, aVM *vm.VM, op string) error {
	if !authz.CanDo(aUser, authz.ActionPowerRebootDestroy, aVM) {
		return refuse(aUser, op+" VM "+aVM.Name)
	}
	if aVM.Destroyed() {
		return errVMGone
	}

	var err error
	switch op {
	case "power on":
		_, err = requests.CreateVMReq(requests.VMSTART, aVM.ID)
	case "power off":
		_, err = requests.CreateVMReq(requests.VMSTOP, aVM.ID)
	case "reboot":
		_, err = requests.CreateVMReq(requests.VMREBOOT, aVM.ID)
	default:
		return errUnknownPowerOp
	}
	if err != nil {
		return err
	}

	vmAuditor.Info(fmt.Sprintf("%s requested for VM %s", op, aVM.Name),
		audit.Meta{UserID: aUser.ID, ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return nil
}

// setVMScheduleOverride forces the VM on or off for a limited time,
// bounded by the provider's maximum override.
func setVMScheduleOverride(aUser *user.User, aVM *vm.VM, poweredOn bool,
	seconds int64,
) error {
	if !authz.CanDo(aUser, authz.ActionOverrideVMSchedule, aVM) {
		return refuse(aUser, "override schedule of VM "+aVM.Name)
	}

	prov, err := provider.GetByID(aVM.ProviderID)
	if err != nil {
		return err
	}
	if prov.MaxOverrideSeconds > 0 && seconds > prov.MaxOverrideSeconds {
		return errOverrideTooLong
	}

	until := time.Now().Add(time.Duration(seconds) * time.Second)
	if err := aVM.SetScheduleOverride(poweredOn, until); err != nil {
		return err
	}

	vmAuditor.Info(fmt.Sprintf("schedule override on VM %s: powered on %t until %s",
		aVM.Name, poweredOn, until.Format(time.RFC3339)),
		audit.Meta{UserID: aUser.ID, ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return nil
}

// setVMSchedule points the VM at another schedule.
func setVMSchedule(aUser *user.User, aVM *vm.VM, scheduleID string) error {
	if !authz.CanDo(aUser, authz.ActionChangeVMSchedule, aVM) {
		return refuse(aUser, "change schedule of VM "+aVM.Name)
	}

	sched, err := schedule.GetByID(scheduleID)
	if err != nil {
		return err
	}
	if !authz.CanDo(aUser, authz.ActionUseSchedule, sched) {
		return refuse(aUser, "use schedule "+sched.Name)
	}

	if err := aVM.SetSchedule(sched.ID); err != nil {
		return err
	}

	vmAuditor.Info(fmt.Sprintf("VM %s switched to schedule %s", aVM.Name, sched.Name),
		audit.Meta{UserID: aUser.ID, ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return nil
}

// task handlers

func updateAllVMsStatus(_ *requests.Request) reqResult {
	for _, aVM := range vm.GetAllNonDestroyed() {
		if _, err := requests.CreateVMReq(requests.VMSTATUS, aVM.ID); err != nil {
			slog.Error("failed enqueueing status poll", "vm", aVM.Name, "err", err)
		}
	}
	vm.UpdateVMMetrics()

	return reqDone
}

func updateVMStatus(request *requests.Request) reqResult {
	aVM, err := vmFromReqData(request.Data)
	if err != nil {
		slog.Error("status poll failed looking up VM", "err", err)

		return reqGiveUp
	}
	if aVM.Destroyed() {
		return reqDone
	}

	adapter, err := adapterForVM(aVM)
	if err != nil {
		slog.Error("status poll found no adapter", "vm", aVM.Name, "err", err)

		return reqGiveUp
	}

	status, err := adapter.Status(context.Background(), aVM.Machine())
	if err != nil {
		if errors.Is(err, provider.ErrTransient) {
			return reqRetry
		}

		return reqGiveUp
	}

	now := time.Now()

	if status.Power == provider.PowerUnknown {
		vmAuditor.Info(fmt.Sprintf("unmapped provider state %q for VM %s",
			status.RawState, aVM.Name), audit.Meta{VMID: aVM.ID})
		if err := aVM.SetStatusUpdatedAtNow(); err != nil {
			slog.Error("failed bumping status time", "vm", aVM.Name, "err", err)
		}

		return reqDone
	}

	if err := aVM.SetStatus(status, now); err != nil {
		slog.Error("failed saving status", "vm", aVM.Name, "err", err)

		return reqRetry
	}
	if err := powerlog.Create(aVM.ID, status.Power == provider.PowerOn); err != nil {
		slog.Error("failed saving power log", "vm", aVM.Name, "err", err)
	}

	if !status.Terminal {
		switchOnOff(aVM, status.Power == provider.PowerOn, now)
	}

	return reqDone
}

// switchOnOff reconciles observed against desired power, discarding a
// stale override first.
func switchOnOff(aVM *vm.VM, observed bool, now time.Time) {
	if _, err := aVM.DiscardExpiredScheduleOverride(now); err != nil {
		slog.Error("failed discarding stale override", "vm", aVM.Name, "err", err)

		return
	}

	exp, err := expiration.GetByTarget(expiration.KindVM, aVM.ID)
	if err != nil {
		exp = nil
	}

	desired, err := aVM.PoweredAtNow(exp, now)
	if err != nil {
		slog.Error("failed evaluating schedule", "vm", aVM.Name, "err", err)

		return
	}
	if desired == observed {
		return
	}

	aReqType := requests.VMSTOP
	if desired {
		aReqType = requests.VMSTART
	}
	if _, err := requests.CreateVMReq(aReqType, aVM.ID); err != nil {
		slog.Error("failed enqueueing power change", "vm", aVM.Name, "err", err)
	}
}

func startVM(request *requests.Request) reqResult {
	return runPowerTask(request, "power on")
}

func stopVM(request *requests.Request) reqResult {
	return runPowerTask(request, "power off")
}

func rebootVM(request *requests.Request) reqResult {
	return runPowerTask(request, "reboot")
}

func runPowerTask(request *requests.Request, op string) reqResult {
	aVM, err := vmFromReqData(request.Data)
	if err != nil {
		slog.Error("power task failed looking up VM", "op", op, "err", err)

		return reqGiveUp
	}
	if aVM.Destroyed() {
		return reqDone
	}

	adapter, err := adapterForVM(aVM)
	if err != nil {
		slog.Error("power task found no adapter", "vm", aVM.Name, "err", err)

		return reqGiveUp
	}

	ctx := context.Background()

	switch op {
	case "power on":
		err = adapter.PowerOn(ctx, aVM.Machine())
	case "power off":
		err = adapter.PowerOff(ctx, aVM.Machine())
	case "reboot":
		err = adapter.Reboot(ctx, aVM.Machine())
	}
	if err != nil {
		if errors.Is(err, provider.ErrTransient) {
			return reqRetry
		}
		vmAuditor.Error(fmt.Sprintf("%s failed for VM %s: %v", op, aVM.Name, err),
			audit.Meta{VMID: aVM.ID, ProjectID: aVM.ProjectID})

		return reqGiveUp
	}

	vmAuditor.Info(fmt.Sprintf("%s done for VM %s", op, aVM.Name),
		audit.Meta{VMID: aVM.ID, ProjectID: aVM.ProjectID})

	return reqDone
}

func doCreateVM(request *requests.Request) reqResult {
	aVM, err := vmFromReqData(request.Data)
	if err != nil {
		slog.Error("create task failed looking up VM", "err", err)

		return reqGiveUp
	}
	if aVM.Destroyed() {
		return reqDone
	}

	cfg, err := vmconfig.GetByID(aVM.VMConfigID)
	if err != nil {
		slog.Error("create task found no VM config", "vm", aVM.Name, "err", err)

		return reqGiveUp
	}

	adapter, err := adapterForVM(aVM)
	if err != nil {
		slog.Error("create task found no adapter", "vm", aVM.Name, "err", err)

		return reqGiveUp
	}

	result, err := adapter.Create(context.Background(), aVM.Machine(), cfg.Extras)
	if err != nil {
		if errors.Is(err, provider.ErrTransient) {
			return reqRetry
		}
		vmAuditor.Error(fmt.Sprintf("provisioning failed for VM %s: %v", aVM.Name, err),
			audit.Meta{VMID: aVM.ID, ProjectID: aVM.ProjectID})

		return reqGiveUp
	}

	if err := aVM.SetProviderIDs(result); err != nil {
		slog.Error("failed saving provider IDs", "vm", aVM.Name, "err", err)

		return reqRetry
	}

	if _, err := requests.CreateVMReq(requests.DNSADD, aVM.ID); err != nil {
		slog.Error("failed enqueueing DNS add", "vm", aVM.Name, "err", err)
	}

	vmAuditor.Info(fmt.Sprintf("VM %s provisioned, instance %s", aVM.Name, result.InstanceID),
		audit.Meta{VMID: aVM.ID, ProjectID: aVM.ProjectID})

	return reqDone
}
