package main

import (
	"fmt"
	"log/slog"
	"time"

	"vimma/vimmad/audit"
	"vimma/vimmad/config"
	"vimma/vimmad/requests"
)

// reqResult is what a task handler asks the runtime to do next.
type reqResult int

const (
	reqDone reqResult = iota
	reqRetry
	reqGiveUp
)

type taskDef struct {
	handler    func(*requests.Request) reqResult
	maxRetries int
	baseDelay  time.Duration
}

// taskTable declares every task the runtime knows, with its retry
// budget: how often a task may be requeued after its first run. The
// destruction sub-task budgets are generous because cloud APIs refuse
// deletes while dependent resources linger.
var taskTable = map[string]taskDef{
	string(requests.ALLVMSTATUS):       {handler: updateAllVMsStatus, maxRetries: 0, baseDelay: 0},
	string(requests.VMSTATUS):          {handler: updateVMStatus, maxRetries: 3, baseDelay: 30 * time.Second},
	string(requests.VMSTART):           {handler: startVM, maxRetries: 5, baseDelay: 30 * time.Second},
	string(requests.VMSTOP):            {handler: stopVM, maxRetries: 5, baseDelay: 30 * time.Second},
	string(requests.VMREBOOT):          {handler: rebootVM, maxRetries: 5, baseDelay: 30 * time.Second},
	string(requests.VMCREATE):          {handler: doCreateVM, maxRetries: 5, baseDelay: 60 * time.Second},
	string(requests.VMDESTROY):         {handler: destroyVMReq, maxRetries: 3, baseDelay: 10 * time.Second},
	string(requests.INSTANCETERMINATE): {handler: terminateInstance, maxRetries: 30, baseDelay: 10 * time.Second},
	string(requests.SECGROUPDELETE):    {handler: deleteSecurityGroup, maxRetries: 15, baseDelay: 60 * time.Second},
	string(requests.DNSADD):            {handler: dnsAdd, maxRetries: 12, baseDelay: 10 * time.Second},
	string(requests.DNSDELETE):         {handler: dnsDelete, maxRetries: 24, baseDelay: 5 * time.Second},
	string(requests.FWRULEADD):         {handler: fwRuleAdd, maxRetries: 5, baseDelay: 30 * time.Second},
	string(requests.FWRULEDELETE):      {handler: fwRuleDelete, maxRetries: 5, baseDelay: 30 * time.Second},
	string(requests.EXPIRENOTIFYSWEEP): {handler: expireNotifySweep, maxRetries: 0, baseDelay: 0},
	string(requests.EXPIREGRACESWEEP):  {handler: expireGraceSweep, maxRetries: 0, baseDelay: 0},
}

var taskAuditor = audit.NewAuditor("tasks")

// retryDelay backs off exponentially from the task's base delay,
// doubling per attempt already used, capped at 64x.
func retryDelay(baseDelay time.Duration, attempts int) time.Duration {
	if attempts > 6 {
		attempts = 6
	}

	return baseDelay << attempts
}

// canRetry reports whether another retry fits the task's budget.
// attempts counts the requeues already used, so a budget of 30 allows
// 30 requeues after the first run.
func canRetry(attempts int, maxRetries int) bool {
	return attempts < maxRetries
}

func runRequest(request *requests.Request) {
	def, ok := taskTable[string(request.Type)]
	if !ok {
		taskAuditor.Error(fmt.Sprintf("unknown request type %s, failing request %s",
			request.Type, request.ID), audit.Meta{})
		request.Failed()
		tasksFailed.Inc()

		return
	}

	switch def.handler(request) {
	case reqDone:
		request.Succeeded()
		tasksCompleted.Inc()
	case reqRetry:
		if !canRetry(request.Attempts, def.maxRetries) {
			taskAuditor.Error(fmt.Sprintf("task %s exhausted %d retries, giving up",
				request.Type, def.maxRetries), audit.Meta{})
			request.Failed()
			tasksFailed.Inc()

			return
		}
		delay := retryDelay(def.baseDelay, request.Attempts)
		taskAuditor.Warning(fmt.Sprintf("task %s attempt %d failed, retrying in %s",
			request.Type, request.Attempts+1, delay), audit.Meta{})
		request.Requeue(delay)
		tasksRetried.Inc()
	case reqGiveUp:
		taskAuditor.Error(fmt.Sprintf("task %s failed permanently", request.Type),
			audit.Meta{})
		request.Failed()
		tasksFailed.Inc()
	}
}

func worker(work <-chan requests.Request) {
	for request := range work {
		request := request
		runRequest(&request)
	}
}

// processRequests claims runnable requests and hands them to the worker
// pool. Each request runs single-threaded to completion.
func processRequests() {
	work := make(chan requests.Request)
	for i := 0; i < config.Config.Tasks.Workers; i++ {
		go worker(work)
	}

	slog.Debug("request processor started", "workers", config.Config.Tasks.Workers)

	for {
		request := requests.GetUnStarted()
		if request.ID != "" {
			request.Start()
			work <- request

			continue
		}
		time.Sleep(50 * time.Millisecond)
	}
}
