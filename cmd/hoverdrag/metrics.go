package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/1broseidon/hoverdrag/internal/ipc"
	"github.com/1broseidon/hoverdrag/internal/metrics"
)

func runMetrics(args []string) int {
	fs := flag.NewFlagSet("metrics", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/hoverdrag/config.yaml)")
	days := fs.Int("days", 7, "Number of days to list (0 = all kept history)")
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hoverdrag metrics [--days N] [--json] [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show distance moved and area resized per day. Reads the metrics")
		fmt.Fprintln(os.Stderr, "database directly when the daemon is not running.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *days < 0 {
		fmt.Fprintln(os.Stderr, "--days must be >= 0")
		return 2
	}

	summary, err := ipc.NewClient().GetMetrics(*days)
	if err != nil {
		summary, err = readMetricsOffline(*path, *days)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *asJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}
	printSummary(os.Stdout, summary)
	return 0
}

func readMetricsOffline(configPath string, days int) (*metrics.Summary, error) {
	res, err := loadConfigResult(configPath)
	if err != nil {
		return nil, err
	}
	cfg := res.Config

	store, err := metrics.OpenStore(cfg.MetricsDatabasePath())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	now := time.Now()
	h, err := store.History(context.Background(), cfg.Metrics.HistoryDays, now)
	if err != nil {
		return nil, err
	}
	summary := metrics.Summarize(h, now, days)
	return &summary, nil
}

func printSummary(w io.Writer, s *metrics.Summary) {
	fmt.Fprintf(w, "today:   %s\n", s.Today)
	if s.AverageDays == 0 {
		fmt.Fprintln(w, "average: (no earlier days)")
	} else {
		fmt.Fprintf(w, "average: %s (over %d days)\n", s.Average, s.AverageDays)
	}
	if len(s.Days) == 0 {
		return
	}
	fmt.Fprintln(w, "")
	for _, d := range s.Days {
		fmt.Fprintf(w, "%s  %s\n", d.Day, d.Metrics)
	}
}
