package main

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"vimma/vimmad/config"
	"vimma/vimmad/requests"
)

// startBeat schedules the periodic sweeps: the status poll every few
// minutes and the expiration sweeps every hour, all delivered through
// the task queue like any other work.
func startBeat() (*cron.Cron, error) {
	beat := cron.New()

	_, err := beat.AddFunc(
		fmt.Sprintf("@every %ds", config.Config.Sweeps.StatusPollIntervalSecs),
		func() {
			if _, err := requests.CreateSweepReq(requests.ALLVMSTATUS); err != nil {
				slog.Error("failed enqueueing status sweep", "err", err)
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed scheduling status sweep: %w", err)
	}

	_, err = beat.AddFunc(
		fmt.Sprintf("@every %ds", config.Config.Sweeps.ExpirationSweepIntervalSecs),
		func() {
			if _, err := requests.CreateSweepReq(requests.EXPIRENOTIFYSWEEP); err != nil {
				slog.Error("failed enqueueing notify sweep", "err", err)
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed scheduling notify sweep: %w", err)
	}

	_, err = beat.AddFunc(
		fmt.Sprintf("@every %ds", config.Config.Sweeps.ExpirationSweepIntervalSecs),
		func() {
			if _, err := requests.CreateSweepReq(requests.EXPIREGRACESWEEP); err != nil {
				slog.Error("failed enqueueing grace sweep", "err", err)
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed scheduling grace sweep: %w", err)
	}

	beat.Start()

	return beat, nil
}
