package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"vimma/vimmad/config"
	"vimma/vimmad/db"
	"vimma/vimmad/provider"
	"vimma/vimmad/provider/dummy"
)

var mainVersion = "unknown"

var cfgFile string

var shutdownHandlerRunning = false
var shutdownWaitGroup = sync.WaitGroup{}

var rootCmd = &cobra.Command{
	Use:     "vimmad",
	Version: mainVersion,
	Short:   "vimmad manages the lifecycle of cloud VMs",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile,
		"config", "C", cfgFile, "config file (default vimmad.yml)",
	)
}

func setupLogging() {
	logFile, err := os.OpenFile(config.Config.Log.Path,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "err", err)
		os.Exit(1)
	}

	programLevel := new(slog.LevelVar) // Info by default
	logger := slog.New(slog.NewTextHandler(logFile,
		&slog.HandlerOptions{Level: programLevel}))
	slog.SetDefault(logger)

	switch strings.ToLower(config.Config.Log.Level) {
	case "debug":
		programLevel.Set(slog.LevelDebug)
	case "info":
		programLevel.Set(slog.LevelInfo)
	case "warn":
		programLevel.Set(slog.LevelWarn)
	case "error":
		programLevel.Set(slog.LevelError)
	default:
		programLevel.Set(slog.LevelInfo)
	}
}

func shutdownHandler(beat *cron.Cron) {
	if shutdownHandlerRunning {
		return
	}
	shutdownHandlerRunning = true

	if beat != nil {
		<-beat.Stop().Done()
	}
	slog.Info("Exiting normally")
	shutdownWaitGroup.Done()
}

func sigHandler(sig os.Signal, beat *cron.Cron) {
	slog.Debug("got signal", "signal", sig)
	switch sig {
	case syscall.SIGINT, syscall.SIGTERM:
		shutdownHandler(beat)
	default:
		slog.Info("Ignoring signal", "signal", sig)
	}
}

func run() {
	config.Init(cfgFile)
	setupLogging()

	db.AutoMigrate()
	if err := db.Seed(); err != nil {
		slog.Error("failed seeding database", "err", err)
		os.Exit(1)
	}

	provider.Register(provider.KindDummy, dummy.NewAdapter())

	slog.Debug("Clean up starting")
	cleanupDB()
	slog.Debug("Clean up complete")

	setupMetrics()
	go serveMetrics()

	beat, err := startBeat()
	if err != nil {
		slog.Error("failed starting beat", "err", err)
		os.Exit(1)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for s := range signals {
			sigHandler(s, beat)
		}
	}()

	slog.Info("Starting Daemon")

	go processRequests()

	shutdownWaitGroup.Add(1)
	shutdownWaitGroup.Wait()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
