package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"gorm.io/gorm"

	"vimma/vimmad/audit"
	"vimma/vimmad/authz"
	"vimma/vimmad/config"
	"vimma/vimmad/expiration"
	"vimma/vimmad/fwrule"
	"vimma/vimmad/notifier"
	"vimma/vimmad/project"
	"vimma/vimmad/requests"
	"vimma/vimmad/user"
	"vimma/vimmad/util"
	"vimma/vimmad/vm"
)

var expAuditor = audit.NewAuditor("expiration")

func storeRetryConfig() (int, time.Duration) {
	return config.Config.Tasks.RetryMaxAttempts,
		time.Duration(config.Config.Tasks.RetryBaseMillis) * time.Millisecond
}

// expireNotifySweep walks every expiration and sends the pending expiry
// warnings. The notification timestamp is persisted before the notifier
// runs, so a crashing transport cannot cause a notification storm.
func expireNotifySweep(_ *requests.Request) reqResult {
	now := time.Now()

	for _, exp := range expiration.GetAllOfKind(expiration.KindVM) {
		needs, err := exp.NeedsNotification(now)
		if err != nil {
			slog.Error("failed evaluating notification", "target", exp.TargetID, "err", err)

			continue
		}
		if !needs {
			continue
		}

		aVM, err := vm.GetByID(exp.TargetID)
		if err != nil || aVM.Destroyed() {
			continue
		}

		prj, err := project.GetByID(aVM.ProjectID)
		if err != nil {
			slog.Error("notification sweep found no project", "vm", aVM.Name, "err", err)

			continue
		}

		if err := exp.MarkNotified(now); err != nil {
			slog.Error("failed stamping notification", "vm", aVM.Name, "err", err)

			continue
		}

		notifyExpiry(prj.Email, aVM, exp, now)
	}

	for _, exp := range expiration.GetAllOfKind(expiration.KindFirewallRule) {
		needs, err := exp.NeedsNotification(now)
		if err != nil {
			slog.Error("failed evaluating notification", "target", exp.TargetID, "err", err)

			continue
		}
		if !needs {
			continue
		}

		rule, err := fwrule.GetByID(exp.TargetID)
		if err != nil {
			continue
		}

		aVM, err := vm.GetByID(rule.VMID)
		if err != nil {
			continue
		}

		prj, err := project.GetByID(aVM.ProjectID)
		if err != nil {
			continue
		}

		if err := exp.MarkNotified(now); err != nil {
			slog.Error("failed stamping notification", "rule", rule.ID, "err", err)

			continue
		}

		subject := fmt.Sprintf("Firewall rule on VM %s expires %s",
			aVM.Name, humanize.Time(exp.ExpiresAt))
		body := fmt.Sprintf("The firewall rule %s %d-%d %s on VM %s expires %s (%s).",
			rule.Proto, rule.FromPort, rule.ToPort, rule.CIDR, aVM.Name,
			humanize.Time(exp.ExpiresAt), exp.ExpiresAt.Format(time.RFC3339))
		if err := notifier.Get().Notify(prj.Email, subject, body); err != nil {
			expAuditor.Warning(fmt.Sprintf("failed notifying %s: %v", prj.Email, err),
				audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})
		}
	}

	return reqDone
}

func notifyExpiry(recipient string, aVM *vm.VM, exp *expiration.Expiration,
	now time.Time,
) {
	verb := "expires"
	if exp.ExpiresAt.Before(now) {
		verb = "expired"
	}

	subject := fmt.Sprintf("VM %s %s %s", aVM.Name, verb, humanize.Time(exp.ExpiresAt))
	body := fmt.Sprintf(
		"The VM %s %s %s (%s). Extend its expiration if it is still needed, "+
			"it will be destroyed after the grace period.",
		aVM.Name, verb, humanize.Time(exp.ExpiresAt), exp.ExpiresAt.Format(time.RFC3339))

	if err := notifier.Get().Notify(recipient, subject, body); err != nil {
		expAuditor.Warning(fmt.Sprintf("failed notifying %s about VM %s: %v",
			recipient, aVM.Name, err),
			audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})
	}
}

// expireGraceSweep performs grace-end actions: VM destructions and
// firewall rule deletions. The performed flag flips in the same
// transaction that enqueues the action, so redelivery cannot double it.
func expireGraceSweep(_ *requests.Request) reqResult {
	now := time.Now()
	maxRetries, baseDelay := storeRetryConfig()

	for _, exp := range expiration.GetAllOfKind(expiration.KindVM) {
		if !exp.NeedsGraceEndAction(now) {
			continue
		}

		exp := exp
		err := util.RetryInTransaction(expiration.GetExpirationDB(), func(tx *gorm.DB) error {
			if err := exp.MarkGracePerformedTx(tx); err != nil {
				return err
			}
			_, err := requests.CreateVMReqTx(tx, requests.VMDESTROY, exp.TargetID)

			return err
		}, maxRetries, baseDelay)
		if err != nil {
			slog.Error("failed scheduling grace-end destroy", "vm", exp.TargetID, "err", err)

			continue
		}

		expAuditor.Info("grace period over, destruction scheduled",
			audit.Meta{VMID: exp.TargetID})
	}

	for _, exp := range expiration.GetAllOfKind(expiration.KindFirewallRule) {
		if !exp.NeedsGraceEndAction(now) {
			continue
		}

		rule, err := fwrule.GetByID(exp.TargetID)
		if err != nil {
			slog.Error("grace sweep found no rule", "rule", exp.TargetID, "err", err)

			continue
		}

		exp := exp
		err = util.RetryInTransaction(expiration.GetExpirationDB(), func(tx *gorm.DB) error {
			if err := exp.MarkGracePerformedTx(tx); err != nil {
				return err
			}
			_, err := requests.CreateRuleReqTx(tx, requests.FWRULEDELETE, rule.ID, rule.VMID)

			return err
		}, maxRetries, baseDelay)
		if err != nil {
			slog.Error("failed scheduling grace-end rule delete", "rule", rule.ID, "err", err)

			continue
		}

		expAuditor.Info("grace period over, firewall rule deletion scheduled",
			audit.Meta{VMID: rule.VMID})
	}

	return reqDone
}

// setVMExpiration moves a VM's expiry, within the kind cap unless the
// user may set any expiration.
func setVMExpiration(aUser *user.User, aVM *vm.VM, expiresAt time.Time) error {
	if !authz.CanDo(aUser, authz.ActionPowerRebootDestroy, aVM) {
		return refuse(aUser, "set expiration of VM "+aVM.Name)
	}

	exp, err := expiration.GetByTarget(expiration.KindVM, aVM.ID)
	if err != nil {
		return err
	}

	bypassCap := authz.CanDo(aUser, authz.ActionSetAnyExpiration, nil)
	expiryCap := expiration.ExpiryCap(expiration.KindVM, false)
	if err := expiration.CanSetExpiry(expiresAt, time.Now(), expiryCap, bypassCap); err != nil {
		return err
	}

	if err := exp.SetExpiresAt(expiresAt); err != nil {
		return err
	}

	expAuditor.Info(fmt.Sprintf("expiration of VM %s set to %s", aVM.Name,
		expiresAt.Format(time.RFC3339)),
		audit.Meta{UserID: aUser.ID, ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return nil
}

func setRuleExpiration(aUser *user.User, rule *fwrule.FirewallRule,
	expiresAt time.Time,
) error {
	aVM, err := vm.GetByID(rule.VMID)
	if err != nil {
		return err
	}
	if !authz.CanDo(aUser, authz.ActionPowerRebootDestroy, aVM) {
		return refuse(aUser, "set expiration of a firewall rule of VM "+aVM.Name)
	}

	exp, err := expiration.GetByTarget(expiration.KindFirewallRule, rule.ID)
	if err != nil {
		return err
	}

	bypassCap := authz.CanDo(aUser, authz.ActionSetAnyExpiration, nil)
	expiryCap := expiration.ExpiryCap(expiration.KindFirewallRule, rule.IsSpecial)
	if err := expiration.CanSetExpiry(expiresAt, time.Now(), expiryCap, bypassCap); err != nil {
		return err
	}

	if err := exp.SetExpiresAt(expiresAt); err != nil {
		return err
	}

	expAuditor.Info(fmt.Sprintf("expiration of firewall rule %s of VM %s set to %s",
		rule.ID, aVM.Name, expiresAt.Format(time.RFC3339)),
		audit.Meta{UserID: aUser.ID, ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return nil
}
