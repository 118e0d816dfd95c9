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
	"vimma/vimmad/expiration"
	"vimma/vimmad/fwrule"
	"vimma/vimmad/provider"
	"vimma/vimmad/requests"
	"vimma/vimmad/user"
	"vimma/vimmad/vm"
)

func ruleFromReqData(data string) (*fwrule.FirewallRule, *vm.VM, error) {
	var reqData requests.RuleReqData
	if err := json.Unmarshal([]byte(data), &reqData); err != nil {
		return nil, nil, fmt.Errorf("failed unmarshalling request data: %w", err)
	}

	rule, err := fwrule.GetByID(reqData.RuleID)
	if err != nil {
		return nil, nil, err
	}

	aVM, err := vm.GetByID(reqData.VMID)
	if err != nil {
		return nil, nil, err
	}

	return rule, aVM, nil
}

func providerRule(rule *fwrule.FirewallRule) provider.Rule {
	return provider.Rule{
		Proto:    rule.Proto,
		FromPort: rule.FromPort,
		ToPort:   rule.ToPort,
		CIDR:     rule.CIDR,
	}
}

// createFwRule persists the rule, gives it a classification-dependent
// expiration and enqueues the provider-side authorize.
func createFwRule(aUser *user.User, aVM *vm.VM, proto string, fromPort int,
	toPort int, cidr string,
) (*fwrule.FirewallRule, error) {
	if !authz.CanDo(aUser, authz.ActionPowerRebootDestroy, aVM) {
		return nil, refuse(aUser, "add a firewall rule to VM "+aVM.Name)
	}
	if aVM.Destroyed() {
		return nil, errVMGone
	}

	rule := fwrule.FirewallRule{
		VMID:     aVM.ID,
		Proto:    proto,
		FromPort: fromPort,
		ToPort:   toPort,
		CIDR:     cidr,
	}
	if err := fwrule.Create(&rule); err != nil {
		return nil, err
	}

	expiresAt := time.Now().
		Add(expiration.ExpiryCap(expiration.KindFirewallRule, rule.IsSpecial))
	if _, err := expiration.Create(expiration.KindFirewallRule, rule.ID, expiresAt); err != nil {
		return nil, err
	}

	if _, err := requests.CreateRuleReq(requests.FWRULEADD, rule.ID, aVM.ID); err != nil {
		return nil, err
	}

	vmAuditor.Info(fmt.Sprintf("firewall rule %s %d-%d %s added to VM %s (special: %t)",
		rule.Proto, rule.FromPort, rule.ToPort, rule.CIDR, aVM.Name, rule.IsSpecial),
		audit.Meta{UserID: aUser.ID, ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return &rule, nil
}

// deleteFwRule enqueues the provider-side revoke; the database rows go
// away once the revoke succeeded.
func deleteFwRule(aUser *user.User, rule *fwrule.FirewallRule) error {
	aVM, err := vm.GetByID(rule.VMID)
	if err != nil {
		return err
	}
	if !authz.CanDo(aUser, authz.ActionPowerRebootDestroy, aVM) {
		return refuse(aUser, "delete a firewall rule of VM "+aVM.Name)
	}

	if _, err := requests.CreateRuleReq(requests.FWRULEDELETE, rule.ID, aVM.ID); err != nil {
		return err
	}

	vmAuditor.Info(fmt.Sprintf("deletion of firewall rule %s %d-%d %s of VM %s requested",
		rule.Proto, rule.FromPort, rule.ToPort, rule.CIDR, aVM.Name),
		audit.Meta{UserID: aUser.ID, ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return nil
}

func fwRuleAdd(request *requests.Request) reqResult {
	rule, aVM, err := ruleFromReqData(request.Data)
	if err != nil {
		// the rule may have been deleted before we got to it
		slog.Error("firewall add task failed looking up rule", "err", err)

		return reqGiveUp
	}
	if aVM.Destroyed() {
		return reqDone
	}

	adapter, err := adapterForVM(aVM)
	if err != nil {
		slog.Error("firewall add task found no adapter", "vm", aVM.Name, "err", err)

		return reqGiveUp
	}

	err = adapter.AuthorizeFirewall(context.Background(), aVM.Machine(), providerRule(rule))
	if err != nil {
		if errors.Is(err, provider.ErrTransient) {
			return reqRetry
		}
		vmAuditor.Error(fmt.Sprintf("authorizing firewall rule on VM %s failed: %v",
			aVM.Name, err), audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})

		return reqGiveUp
	}

	return reqDone
}

func fwRuleDelete(request *requests.Request) reqResult {
	rule, aVM, err := ruleFromReqData(request.Data)
	if err != nil {
		slog.Error("firewall delete task failed looking up rule", "err", err)

		return reqGiveUp
	}

	if !aVM.Destroyed() {
		adapter, err := adapterForVM(aVM)
		if err != nil {
			slog.Error("firewall delete task found no adapter", "vm", aVM.Name, "err", err)

			return reqGiveUp
		}

		err = adapter.RevokeFirewall(context.Background(), aVM.Machine(), providerRule(rule))
		if err != nil {
			if errors.Is(err, provider.ErrTransient) {
				return reqRetry
			}
			vmAuditor.Error(fmt.Sprintf("revoking firewall rule on VM %s failed: %v",
				aVM.Name, err), audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})

			return reqGiveUp
		}
	}

	if err := expiration.DeleteByTarget(expiration.KindFirewallRule, rule.ID); err != nil {
		slog.Error("failed deleting rule expiration", "rule", rule.ID, "err", err)
	}
	if err := rule.Delete(); err != nil {
		slog.Error("failed deleting rule", "rule", rule.ID, "err", err)

		return reqRetry
	}

	vmAuditor.Info(fmt.Sprintf("firewall rule %s %d-%d %s removed from VM %s",
		rule.Proto, rule.FromPort, rule.ToPort, rule.CIDR, aVM.Name),
		audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return reqDone
}
