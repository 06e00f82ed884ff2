// tabkeep CLI: inspect the lifecycle journal and the configured tab set.
//
// Usage:
//
//	tabkeep <command> [flags]
//
// Commands:
//
//	journal   List journal entries
//	stats     Summarize the journal
//	snapshot  Print the tab set the config opens
//	version   Print version information
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/Mr-Dark-debug/tabkeep/internal/config"
	"github.com/Mr-Dark-debug/tabkeep/internal/journal"
	"github.com/Mr-Dark-debug/tabkeep/internal/tui"
	"github.com/Mr-Dark-debug/tabkeep/pkg/jsonutil"
	"github.com/Mr-Dark-debug/tabkeep/pkg/timeutil"
)

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "tabkeep"})

	switch os.Args[1] {
	case "journal":
		cmdJournal(logger)
	case "stats":
		cmdStats(logger)
	case "snapshot":
		cmdSnapshot(logger)
	case "version":
		fmt.Printf("tabkeep v%s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tabkeep: tabs that stay mounted

Usage:
  tabkeep <command> [flags]

Commands:
  journal    List lifecycle journal entries
  stats      Summarize the lifecycle journal
  snapshot   Print the tab set the config opens
  version    Print version information

Run 'tabkeep <command> --help' for details on each command.`)
}

// defaultJournal resolves the journal path from config and environment.
func defaultJournal(logger *log.Logger) string {
	cfg, err := config.Load("")
	if err != nil {
		logger.Warn("ignoring config", "err", err)
		return ""
	}
	return cfg.Journal.Path
}

func openStore(logger *log.Logger, path string) *journal.DBService {
	if path == "" {
		logger.Fatal("no journal path: pass --db or set journal.path")
	}
	if _, err := os.Stat(path); err != nil {
		logger.Fatal("journal not found", "path", path, "err", err)
	}
	store, err := journal.NewDBService(path)
	if err != nil {
		logger.Fatal("failed to open journal", "err", err)
	}
	return store
}

// cmdJournal lists entries matching a filter.
func cmdJournal(logger *log.Logger) {
	fs := flag.NewFlagSet("journal", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to journal database (default: journal.path from config)")
	tabKey := fs.String("tab", "", "Filter by tab key")
	op := fs.String("op", "", "Filter by operation: create, update, switch, delete, duplicate")
	since := fs.Duration("since", 0, "Only entries newer than this, e.g. 1h")
	limit := fs.Int("limit", 50, "Maximum results")
	format := fs.String("format", "table", "Output format: table, json, full")
	fs.Parse(os.Args[2:])

	if *dbPath == "" {
		*dbPath = defaultJournal(logger)
	}
	store := openStore(logger, *dbPath)
	defer store.Close()

	filter := journal.Filter{TabKey: *tabKey, Op: *op, Limit: *limit}
	if *since > 0 {
		filter.Since = time.Now().Add(-*since).UnixNano()
	}
	entries, err := store.Query(filter)
	if err != nil {
		logger.Fatal("query failed", "err", err)
	}

	switch *format {
	case "json":
		type jsonEntry struct {
			*journal.Entry
			Detail map[string]any `json:"detail,omitempty"`
		}
		out := make([]jsonEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, jsonEntry{Entry: e, Detail: e.Fields()})
		}
		b, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(b))
	case "full":
		for _, e := range entries {
			fmt.Printf("#%d %s %-9s %s (active: %s)\n", e.ID,
				timeutil.FormatTimestampFull(e.Timestamp), e.Op, e.TabKey, orDash(e.ActiveKey))
			if e.Detail != "" {
				fmt.Println(jsonutil.PrettyJSON(e.Detail))
			}
			fmt.Println()
		}
	case "table":
		tw := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIME\tOP\tTAB\tACTIVE\tDETAIL")
		for _, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", e.ID,
				timeutil.FormatTimestampFull(e.Timestamp), e.Op,
				jsonutil.TruncateString(e.TabKey, 20), orDash(e.ActiveKey),
				jsonutil.TruncateString(e.Detail, 60))
		}
		tw.Flush()
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
		os.Exit(1)
	}
}

// cmdStats prints aggregate journal counts.
func cmdStats(logger *log.Logger) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to journal database (default: journal.path from config)")
	format := fs.String("format", "text", "Output format: text, json")
	fs.Parse(os.Args[2:])

	if *dbPath == "" {
		*dbPath = defaultJournal(logger)
	}
	store := openStore(logger, *dbPath)
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		logger.Fatal("stats failed", "err", err)
	}

	if *format == "json" {
		b, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(b))
		return
	}

	fmt.Printf("Journal:  %s\n", store.Path())
	fmt.Printf("Entries:  %d\n", stats.Entries)
	fmt.Printf("Tabs:     %d\n", stats.Tabs)
	if stats.Entries > 0 {
		fmt.Printf("First:    %s\n", timeutil.FormatTimestampFull(stats.First))
		fmt.Printf("Last:     %s (%s)\n", timeutil.FormatTimestampFull(stats.Last),
			timeutil.RelativeTime(stats.Last, time.Now()))
		fmt.Printf("Span:     %s\n", timeutil.FormatDuration(time.Duration(stats.Last-stats.First)))
	}

	ops := make([]string, 0, len(stats.ByOp))
	for op := range stats.ByOp {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Printf("  %-10s %d\n", op, stats.ByOp[op])
	}
}

// cmdSnapshot opens the configured tabs headlessly and prints the result.
func cmdSnapshot(logger *log.Logger) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	format := fs.String("format", "yaml", "Output format: yaml, json")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	quiet := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	model, err := tui.NewModel(tui.Options{Config: cfg, Logger: quiet})
	if err != nil {
		logger.Fatal("failed to open tabs", "err", err)
	}
	snap := model.Manager().Snapshot()

	switch *format {
	case "json":
		b, _ := json.MarshalIndent(snap, "", "  ")
		fmt.Println(string(b))
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			logger.Fatal("encoding snapshot", "err", err)
		}
		enc.Close()
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
		os.Exit(1)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
