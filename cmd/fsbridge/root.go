package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"fsbridge/internal/config"
	"fsbridge/internal/executor"
	"fsbridge/internal/exitcodes"
	"fsbridge/internal/fileops"
	"fsbridge/internal/gate"
	"fsbridge/internal/journal"
	"fsbridge/internal/logging"
	"fsbridge/internal/metrics"
	"fsbridge/internal/pathspec"
	"fsbridge/internal/report"
)

var (
	cfgFile    string
	force      bool
	dryRun     bool
	structured bool
	verbose    bool

	exitCode = exitcodes.Success

	exec   *executor.Executor
	logger *log.Logger
	jrnl   *journal.Journal
)

var rootCmd = &cobra.Command{
	Use:   "fsbridge",
	Short: "Safe file operations with confirmation gating and history",
	Long: `fsbridge runs everyday file operations (cat, ls, cp, mv, rm, touch)
behind a confirmation gate. Destructive operations require --force,
protected system paths are refused outright, and every operation is
recorded in a queryable journal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if exitCode == exitcodes.Success {
			exitCode = exitcodes.OperationFailed
		}
	}
}

func init() {
	cobra.OnInitialize(initApp)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/fsbridge/config.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&force, "force", "f", false, "Confirm destructive operations")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would happen without touching the filesystem")
	rootCmd.PersistentFlags().BoolVar(&structured, "structured", false, "Emit machine-readable key=value records")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Copy the operation log to stderr")
}

const defaultConfigPath = "/etc/fsbridge/config.yaml"

func initApp() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitcodes.InvalidConfig)
	}

	if verbose {
		logger = logging.NewVerbose(cfg.Logging.RotationDays)
	} else {
		logger = logging.New(cfg.Logging.RotationDays)
	}

	metrics.Init()
	if cfg.Prometheus.Port > 0 {
		metrics.StartServer(cfg.PrometheusAddress(), logger)
	}

	opts := []executor.Option{
		executor.WithGate(gate.New(cfg.AllowedRoots, cfg.ProtectedPaths)),
		executor.WithLogger(logger),
		executor.WithDryRun(dryRun),
		executor.WithOutput(os.Stdout),
	}

	// History is best effort: an unwritable journal degrades the run,
	// it does not abort it
	jrnl, err = journal.Open(cfg.JournalPath)
	if err != nil {
		logger.Printf("journal unavailable: %v", err)
	} else {
		opts = append(opts, executor.WithJournal(jrnl))
	}

	ops := fileops.New(fileops.OSFilesystem{})
	ops.CatBufferLimit = cfg.CatBufferLimit
	exec = executor.New(ops, opts...)
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return config.Load(defaultConfigPath)
	}
	return config.Default(), nil
}

// resolveArg turns a raw CLI argument into a resolved path
func resolveArg(raw string) (pathspec.PathSpec, error) {
	spec, err := pathspec.Resolve(raw)
	if err != nil {
		return spec, fmt.Errorf("invalid path %q: %w", raw, err)
	}
	return spec, nil
}

// runOp executes a request and renders its result. The process exit
// code reflects the outcome; the command itself never errors so cobra
// does not add usage noise to operational failures.
func runOp(req fileops.Request) {
	res := exec.Do(req)
	emit(res)

	switch res.Outcome {
	case fileops.OutcomeBlocked:
		exitCode = exitcodes.Blocked
	case fileops.OutcomeFailed:
		exitCode = exitcodes.OperationFailed
	}
}

func emit(res fileops.Result) {
	if structured {
		fmt.Println(report.Render(res, report.Structured))
		return
	}

	if res.Outcome != fileops.OutcomeSuccess {
		fmt.Fprintln(os.Stderr, report.Render(res, report.Human))
		return
	}

	switch res.Verb {
	case fileops.VerbCat:
		// Content already streamed; nothing to add
	case fileops.VerbLs:
		printEntries(res.Entries)
	case fileops.VerbStat:
		printInfo(res.Info)
	default:
		fmt.Println(report.Render(res, report.Human))
	}
}

func printEntries(entries []fileops.Entry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, e := range entries {
		name := e.Name
		if e.Kind == pathspec.Directory {
			name += "/"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Mode, report.FormatBytes(e.Size), e.ModTime.Format("2006-01-02 15:04"), name)
	}
	w.Flush()
}

func printInfo(info *fileops.Info) {
	if info == nil {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "Path:\t%s\n", info.Abs)
	fmt.Fprintf(w, "Type:\t%s\n", info.Kind)
	fmt.Fprintf(w, "Size:\t%s (%d bytes)\n", report.FormatBytes(info.Size), info.Size)
	fmt.Fprintf(w, "Mode:\t%s\n", info.Mode)
	fmt.Fprintf(w, "Modified:\t%s\n", info.ModTime.Format(time.RFC3339))
	if info.MIME != "" {
		fmt.Fprintf(w, "MIME:\t%s\n", info.MIME)
	}
	if info.TotalBytes > 0 {
		fmt.Fprintf(w, "Volume:\t%s free of %s\n",
			report.FormatBytes(info.FreeBytes), report.FormatBytes(info.TotalBytes))
	}
	w.Flush()
}
