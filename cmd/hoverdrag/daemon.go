package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/1broseidon/hoverdrag/internal/authority"
	"github.com/1broseidon/hoverdrag/internal/config"
	"github.com/1broseidon/hoverdrag/internal/daemon"
	"github.com/1broseidon/hoverdrag/internal/dialog"
	"github.com/1broseidon/hoverdrag/internal/hotkeys"
	"github.com/1broseidon/hoverdrag/internal/ipc"
	"github.com/1broseidon/hoverdrag/internal/metrics"
	"github.com/1broseidon/hoverdrag/internal/platform"
	"github.com/1broseidon/hoverdrag/internal/prefs"
	"github.com/1broseidon/hoverdrag/internal/runtimepath"
	"github.com/1broseidon/hoverdrag/internal/tracker"
	"github.com/1broseidon/hoverdrag/internal/tray"
)

// trackerFlushTimeout bounds how long shutdown waits for the final metrics flush.
const trackerFlushTimeout = 2 * time.Second

func runDaemon() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (move: %s, resize: %s)", cfg.MoveFilterInterval, cfg.ResizeFilterInterval)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	// Connect to display server
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()
	backend.SetMapping(cfg.Mapping(backend.DetectedMapping()))

	log.Println("hoverdrag daemon started successfully")

	// Preferences store and the authority caching it
	store, err := prefs.OpenFileStore(cfg.PrefsPath())
	if err != nil {
		log.Fatalf("Failed to open preferences: %v", err)
	}
	prefsWindow := dialog.New(store)

	auth := authority.New(store, authority.Options{
		MoveDefaults:   cfg.MoveDefaults(),
		ResizeDefaults: cfg.ResizeDefaults(),
		StartDisabled:  cfg.StartDisabled,
	})
	var prefsOpen sync.Mutex
	auth.SetPreferencesOpener(func() {
		// One preferences window at a time.
		if !prefsOpen.TryLock() {
			return
		}
		go func() {
			defer prefsOpen.Unlock()
			if err := showPreferences(prefsWindow, store, auth); err != nil {
				log.Printf("Preferences dialog failed: %v", err)
				dialog.ShowError("hoverdrag", err.Error())
			}
		}()
	})
	state := auth.Snapshot()
	log.Printf("Preferences loaded from %s (move: %s, resize: %s, enabled: %v)",
		store.Path(), state.Move, state.Resize, state.Enabled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics recording is optional
	var (
		metricsStore *metrics.Store
		notifier     *metrics.DesktopNotifier
		recorder     *metrics.Recorder
		pruner       *daemon.Pruner
		sink         tracker.Sink
		source       ipc.MetricsSource
	)
	if cfg.Metrics.Enabled {
		metricsStore, err = metrics.OpenStore(cfg.MetricsDatabasePath())
		if err != nil {
			log.Printf("Warning: metrics disabled, failed to open database: %v", err)
		} else {
			defer metricsStore.Close()
			notifier = metrics.NewDesktopNotifier(cfg.Metrics.NotifyMilestones)
			recorder = metrics.NewRecorder(metricsStore, notifier, cfg.Metrics.HistoryDays, logger)
			sink, source = recorder, recorder

			pruner = daemon.NewPruner(daemon.PrunerConfig{
				Interval: time.Hour,
				Depth:    cfg.Metrics.HistoryDays,
				Logger:   logger,
			}, metricsStore)
			go pruner.Run(ctx)
			log.Printf("Metrics recorded to %s", cfg.MetricsDatabasePath())
		}
	}

	// Gesture tracker
	trk := tracker.New(auth, backend, sink, logger)
	trk.SetIntervals(cfg.MoveFilterInterval, cfg.ResizeFilterInterval)
	trackerDone := make(chan struct{})
	go func() {
		defer close(trackerDone)
		if err := trk.Run(ctx, backend); err != nil && ctx.Err() == nil {
			log.Printf("Tracker stopped: %v", err)
		}
	}()

	// Pick up writes from the preferences window, the TUI and MCP
	go func() {
		if err := prefs.Watch(ctx, store, logger, auth.Reload); err != nil {
			log.Printf("Warning: preferences watcher stopped: %v", err)
		}
	}()

	// Setup hotkey handler
	hotkeyHandler := hotkeys.NewHandler(backend, auth)
	if cfg.ToggleHotkey != "" {
		if err := hotkeyHandler.RegisterToggle(cfg.ToggleHotkey); err != nil {
			log.Printf("Warning: Failed to register toggle hotkey: %v", err)
		} else {
			log.Printf("Toggle hotkey registered: %s", cfg.ToggleHotkey)
		}
	}
	if cfg.PreferencesHotkey != "" {
		if err := hotkeyHandler.RegisterPreferences(cfg.PreferencesHotkey); err != nil {
			log.Printf("Warning: Failed to register preferences hotkey: %v", err)
		} else {
			log.Printf("Preferences hotkey registered: %s", cfg.PreferencesHotkey)
		}
	}

	applyConfig := func(newCfg *config.Config) {
		trk.SetIntervals(newCfg.MoveFilterInterval, newCfg.ResizeFilterInterval)
		auth.SetDefaults(newCfg.MoveDefaults(), newCfg.ResizeDefaults())
		backend.SetMapping(newCfg.Mapping(backend.DetectedMapping()))
		if recorder != nil {
			recorder.SetDepth(newCfg.Metrics.HistoryDays)
			pruner.SetDepth(newCfg.Metrics.HistoryDays)
			notifier.SetEnabled(newCfg.Metrics.NotifyMilestones)
		}
		if newCfg.PrefsPath() != store.Path() {
			log.Printf("Warning: prefs_file changed to %s; restart the daemon to use it", newCfg.PrefsPath())
		}
	}

	var reloadMu sync.Mutex
	reload := func() error {
		reloadMu.Lock()
		defer reloadMu.Unlock()

		newCfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config reload failed: %w", err)
		}
		applyConfig(newCfg)
		if err := store.Reload(); err != nil {
			return fmt.Errorf("preferences reload failed: %w", err)
		}
		auth.Reload()
		log.Println("Config reloaded successfully")
		return nil
	}

	// Start IPC server
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Fatalf("Failed to resolve IPC socket path: %v", err)
	}
	ipcServer := ipc.NewServer(socketPath, auth, ipc.Options{
		Metrics: source,
		Reload:  reload,
	})
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	pidPath := writePIDFile()

	var shutdownOnce sync.Once
	shutdown := func() {
		shutdownOnce.Do(func() {
			log.Println("Shutting down hoverdrag daemon...")
			cancel()
			select {
			case <-trackerDone:
			case <-time.After(trackerFlushTimeout):
				log.Println("Warning: tracker did not stop in time")
			}
			ipcServer.Stop()
			if pidPath != "" {
				os.Remove(pidPath)
			}
			if metricsStore != nil {
				metricsStore.Close()
			}
			os.Exit(0)
		})
	}

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				if err := reload(); err != nil {
					log.Println(err)
				}
			case os.Interrupt, syscall.SIGTERM:
				shutdown()
			}
		}
	}()

	if !cfg.Tray {
		log.Println("Entering event loop...")
		backend.EventLoop()
		shutdown()
		return
	}

	// systray owns the main goroutine; X events are served alongside it.
	menu := tray.New(auth, tray.Callbacks{OnQuit: shutdown})
	log.Println("Entering event loop...")
	menu.Run(func() {
		go backend.EventLoop()
	})
	shutdown()
}

// showPreferences runs the preferences window and then re-reads the store
// into auth. The prefs watcher reports the same writes; reloading here keeps
// the menu and tracker current when it is not running.
func showPreferences(window interface{ Show() error }, store prefs.Reloader, auth interface{ Reload() }) error {
	showErr := window.Show()
	if err := store.Reload(); err != nil {
		log.Printf("Preferences reload failed: %v", err)
	}
	auth.Reload()
	return showErr
}

func writePIDFile() string {
	path, err := runtimepath.PIDPath()
	if err != nil {
		log.Printf("Warning: cannot resolve PID file path: %v", err)
		return ""
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o600); err != nil {
		log.Printf("Warning: failed to write PID file: %v", err)
		return ""
	}
	return path
}
