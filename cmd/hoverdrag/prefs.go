package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/hoverdrag/internal/config"
	"github.com/1broseidon/hoverdrag/internal/dialog"
	"github.com/1broseidon/hoverdrag/internal/ipc"
	"github.com/1broseidon/hoverdrag/internal/prefs"
	"github.com/1broseidon/hoverdrag/internal/tui"
)

func openPrefsStore(configPath string) (*config.Config, *prefs.FileStore, error) {
	res, err := loadConfigResult(configPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := prefs.OpenFileStore(res.Config.PrefsPath())
	if err != nil {
		return nil, nil, err
	}
	return res.Config, store, nil
}

func runPrefs(args []string) int {
	fs := flag.NewFlagSet("prefs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/hoverdrag/config.yaml)")
	gui := fs.Bool("gui", false, "Use the desktop dialog instead of the terminal grid")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hoverdrag prefs [--gui] [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Edit the move and resize modifier sets. Changes are written to the")
		fmt.Fprintln(os.Stderr, "preferences file; a running daemon picks them up immediately.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings (terminal):")
		fmt.Fprintln(os.Stderr, "  ←/→/↑/↓, hjkl  Move between toggles")
		fmt.Fprintln(os.Stderr, "  Space, Enter   Toggle the selected modifier")
		fmt.Fprintln(os.Stderr, "  r              Re-read the preferences file")
		fmt.Fprintln(os.Stderr, "  R              Reset to defaults (daemon)")
		fmt.Fprintln(os.Stderr, "  q, Esc         Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "prefs takes no arguments")
		fs.Usage()
		return 2
	}

	_, store, err := openPrefsStore(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *gui {
		if err := dialog.New(store).Show(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if err := tui.Run(store, ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSetup(args []string) int {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/hoverdrag/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hoverdrag setup [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick the move and resize modifier sets interactively.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, store, err := openPrefsStore(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := tui.RunSetup(store, cfg.MoveDefaults(), cfg.ResizeDefaults()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Preferences saved to %s\n", store.Path())
	return 0
}
