package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vimma/vimmad/audit"
	"vimma/vimmad/provider"
	"vimma/vimmad/requests"
)

func dnsAdd(request *requests.Request) reqResult {
	aVM, err := vmFromReqData(request.Data)
	if err != nil {
		slog.Error("DNS add task failed looking up VM", "err", err)

		return reqGiveUp
	}
	if aVM.Destroyed() {
		return reqDone
	}

	adapter, err := adapterForVM(aVM)
	if err != nil {
		slog.Error("DNS add task found no adapter", "vm", aVM.Name, "err", err)

		return reqGiveUp
	}

	// the instance may still be booting and have no address yet, that
	// comes back as transient
	if err := adapter.DNSAdd(context.Background(), aVM.Machine()); err != nil {
		if errors.Is(err, provider.ErrTransient) {
			return reqRetry
		}
		vmAuditor.Error(fmt.Sprintf("DNS add failed for VM %s: %v", aVM.Name, err),
			audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})

		return reqGiveUp
	}

	vmAuditor.Info("DNS records added for VM "+aVM.Name,
		audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})

	return reqDone
}

func dnsDelete(request *requests.Request) reqResult {
	aVM, err := vmFromReqData(request.Data)
	if err != nil {
		slog.Error("DNS delete task failed looking up VM", "err", err)

		return reqGiveUp
	}

	adapter, err := adapterForVM(aVM)
	if err != nil {
		slog.Error("DNS delete task found no adapter", "vm", aVM.Name, "err", err)

		return reqGiveUp
	}

	if err := adapter.DNSDelete(context.Background(), aVM.Machine()); err != nil {
		if errors.Is(err, provider.ErrTransient) {
			return reqRetry
		}
		vmAuditor.Error(fmt.Sprintf("DNS delete failed for VM %s: %v", aVM.Name, err),
			audit.Meta{ProjectID: aVM.ProjectID, VMID: aVM.ID})

		return reqGiveUp
	}

	return reqDone
}
