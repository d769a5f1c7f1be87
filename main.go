package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"

	"github.com/sadopc/winterarc/internal/config"
	"github.com/sadopc/winterarc/internal/journal"
	"github.com/sadopc/winterarc/internal/logger"
	"github.com/sadopc/winterarc/internal/motivation"
	"github.com/sadopc/winterarc/internal/nudge"
	"github.com/sadopc/winterarc/internal/patterns"
	"github.com/sadopc/winterarc/internal/profile"
	"github.com/sadopc/winterarc/internal/screentime"
	"github.com/sadopc/winterarc/internal/store"
	"github.com/sadopc/winterarc/internal/tui"
)

var version = "0.1.0"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(version),
		fang.WithColorSchemeFunc(fang.DefaultColorScheme),
	); err != nil {
		os.Exit(1)
	}
}

// env is one open database plus the engine wired on top of it.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
	svc   *tui.Services
}

type envOptions struct {
	// logToFile sends logs to the configured file instead of stderr.
	logToFile bool
	// usage overrides the device usage source.
	usage screentime.UsageSource
}

func openEnv(configPath string, opts envOptions) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logPath := ""
	if opts.logToFile {
		logPath = cfg.LogFile
	}
	log, err := logger.New(cfg.LogMode, logPath)
	if err != nil {
		return nil, err
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}

	profiles := profile.NewSource(st, tui.DefaultsFrom(st))

	tracker := patterns.NewTracker(st, log)
	tracker.WrapMidnight = cfg.Risk.WrapMidnight

	var notifier nudge.Notifier = nudge.Disabled{}
	var local *nudge.Local
	if cfg.NotificationsEnabled {
		local = nudge.NewLocal(st)
		notifier = local
	}

	// The shared picker is read from command goroutines, so it uses the
	// global source.
	picker := motivation.NewPicker(nil)
	ai := motivation.NewClient(cfg.AIBackendURL, log)
	sched := nudge.NewScheduler(notifier, st, tracker, profiles, picker, ai, log)

	usage := opts.usage
	if usage == nil {
		usage = screentime.NoUsageStats{}
	}
	monitor := screentime.NewMonitor(st, profiles, sched, usage, log)
	monitor.Interval = cfg.CheckInterval

	jr := journal.New(st)
	jr.EvidenceDir = filepath.Join(cfg.DataDir, "evidence")

	return &env{
		cfg:   cfg,
		log:   log,
		store: st,
		svc: &tui.Services{
			KV:            st,
			Settings:      st,
			Tracker:       tracker,
			Scheduler:     sched,
			Local:         local,
			Monitor:       monitor,
			Journal:       jr,
			Profiles:      profiles,
			Picker:        picker,
			AI:            ai,
			Log:           log,
			CheckInterval: cfg.CheckInterval,
		},
	}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Error("close database", "error", err)
	}
	e.log.Sync()
}
