package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/hoverdrag/internal/config"
	"github.com/1broseidon/hoverdrag/internal/ipc"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: hoverdrag daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: hoverdrag daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "toggle":
		os.Exit(runToggle(os.Args[2:]))
	case "reset":
		os.Exit(runReset(os.Args[2:]))
	case "disable":
		os.Exit(runDisable(os.Args[2:]))
	case "prefs":
		os.Exit(runPrefs(os.Args[2:]))
	case "setup":
		os.Exit(runSetup(os.Args[2:]))
	case "metrics":
		os.Exit(runMetrics(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: hoverdrag <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the hoverdrag daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status and modifier sets")
	fmt.Fprintln(w, "  toggle <modifier>   Toggle a modifier in the move set")
	fmt.Fprintln(w, "  reset               Reset both sets to the configured defaults")
	fmt.Fprintln(w, "  disable             Toggle the global disable switch")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  prefs               Open the preferences window (terminal)")
	fmt.Fprintln(w, "  prefs --gui         Open the preferences dialog")
	fmt.Fprintln(w, "  setup               First-run setup wizard")
	fmt.Fprintln(w, "  metrics             Show distance moved and area resized per day")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'hoverdrag <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hoverdrag status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running:   %v\n", status.DaemonRunning)
	fmt.Fprintf(w, "enabled:          %v\n", status.Enabled)
	fmt.Fprintf(w, "modifier_flags:   %d\n", status.ModifierFlags)
	fmt.Fprintf(w, "move_modifiers:   %s\n", formatSet(status.MoveModifiers))
	fmt.Fprintf(w, "resize_modifiers: %s\n", formatSet(status.ResizeModifiers))
	fmt.Fprintf(w, "uptime_seconds:   %d\n", status.UptimeSeconds)
}

func formatSet(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, "+")
}

func runToggle(args []string) int {
	fs := flag.NewFlagSet("toggle", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hoverdrag toggle <shift|control|alt|command|fn>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Toggle one modifier in the move set of the running daemon.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "toggle requires exactly one modifier")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().ToggleModifier(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status)
	return 0
}

func runReset(args []string) int {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hoverdrag reset")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Reset the move and resize sets to default_move_modifiers and")
		fmt.Fprintln(os.Stderr, "default_resize_modifiers.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reset takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().ResetModifiers()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status)
	return 0
}

func runDisable(args []string) int {
	fs := flag.NewFlagSet("disable", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hoverdrag disable")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flip the global disable switch. Modifier sets are left untouched.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "disable takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().ToggleDisabled()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status)
	return 0
}

func loadConfigResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  hoverdrag config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  hoverdrag config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  hoverdrag config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/hoverdrag/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfigResult(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/hoverdrag/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults instead of the effective config")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfigResult(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		fmt.Printf("# prefs_file: %s\n", cfg.PrefsPath())
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/hoverdrag/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfigResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
