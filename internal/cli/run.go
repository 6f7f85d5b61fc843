package cli

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"annobench/internal/config"
	"annobench/internal/report"
	"annobench/internal/runner"
	"annobench/internal/store"
	"annobench/internal/ui/live"
)

// Seams for tests.
var (
	runBenchmark    = runner.Run
	writeRunOutputs = runner.WriteRunOutputs
	buildReportHTML = report.BuildReportHTMLWithHistory
	startLiveUI     = func(stdout io.Writer, opts live.Options) runControllerHandle {
		return live.Start(stdout, opts)
	}
)

// runControllerHandle is the part of the live UI controller the run
// command needs.
type runControllerHandle interface {
	runner.RunObserver
	Close()
	Wait()
}

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", DefaultConfigPath, "Path to config file")
		agentOverride := fs.String("agent", "", "Run only this agent id")
		outputDir := fs.String("output-dir", "", "Override output directory")
		uiMode := fs.String("ui", "auto", "UI mode: auto|live|plain")
		verbose := fs.Bool("verbose", false, "Log per-pair progress as plain text")
		noColor := fs.Bool("no-color", false, "Disable ANSI styling")
		dbPath := fs.String("db", "", "Run database path (default: "+store.DefaultDBName+" under the output dir)")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		selectors, err := runner.ParseSelectors(fs.Args())
		if err != nil {
			fmt.Fprintf(stderr, "Invalid selectors: %v\n", err)
			return ExitUsage
		}

		decision, err := resolveUIMode(*uiMode, *verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		baseDir := config.BaseDirFromConfigPath(*configPath)
		resolvedOutput := *outputDir
		if resolvedOutput == "" {
			resolvedOutput = cfg.Workspace.OutputDir
		}
		if !filepath.IsAbs(resolvedOutput) {
			resolvedOutput = filepath.Join(baseDir, resolvedOutput)
		}

		// Every run keeps a plain-text event log for the output dir,
		// alongside whatever the terminal shows.
		var runLog bytes.Buffer
		observers := []runner.RunObserver{runner.NewVerboseObserver(&runLog, cfg.Run.Workers, true)}
		var controller runControllerHandle
		if decision.useLive {
			controller = startLiveUI(stdout, live.Options{NoColor: *noColor})
			observers = append(observers, controller)
		}
		if *verbose {
			observers = append(observers, runner.NewVerboseObserver(stdout, cfg.Run.Workers, *noColor))
		}

		params := runner.RunParams{
			BaseDir:       baseDir,
			OutputDir:     resolvedOutput,
			AgentOverride: *agentOverride,
			Selectors:     selectors,
			Observer:      runner.CombineObservers(observers...),
		}

		ctx := context.Background()
		results, err := runBenchmark(ctx, cfg, params)
		if controller != nil {
			controller.Close()
			controller.Wait()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}

		paths, err := writeRunOutputs(results, resolvedOutput)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to write outputs: %v\n", err)
			return ExitError
		}
		if err := os.WriteFile(filepath.Join(paths.LogsDir(), "run.log"), runLog.Bytes(), 0o644); err != nil {
			fmt.Fprintf(stderr, "Warning: failed to write run log: %v\n", err)
		}

		history, err := persistRun(ctx, resolvedOutput, *dbPath, results)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: failed to save results to the run database: %v\n", err)
		}

		html := buildReportHTML([]runner.Results{results}, history)
		if err := os.WriteFile(paths.ReportPath(), []byte(html), 0o644); err != nil {
			fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
			return ExitError
		}

		printRunSummary(stdout, results, paths)
		return ExitOK
	}
}

// persistRun appends results to the run database and returns the
// stored per-agent history for the report. An empty dbPath selects the
// default database under the output directory.
func persistRun(ctx context.Context, outputDir, dbPath string, results runner.Results) ([]store.AgentHistoryRow, error) {
	var (
		db  *sql.DB
		err error
	)
	if dbPath == "" {
		db, err = store.OpenDefault(outputDir)
	} else {
		db, err = store.Open(dbPath)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	if err := store.SaveResults(ctx, db, results); err != nil {
		return nil, err
	}
	return agentHistories(ctx, db, results.Metrics)
}

// agentHistories collects stored per-run summaries for every agent
// that produced metrics.
func agentHistories(ctx context.Context, db *sql.DB, metrics []runner.AgentMetrics) ([]store.AgentHistoryRow, error) {
	var history []store.AgentHistoryRow
	for _, m := range metrics {
		rows, err := store.AgentHistory(ctx, db, m.AgentName)
		if err != nil {
			return nil, err
		}
		history = append(history, rows...)
	}
	return history, nil
}

// printRunSummary prints completion lines and the per-agent table.
func printRunSummary(stdout io.Writer, results runner.Results, paths runner.OutputPaths) {
	fmt.Fprintf(stdout, "Run %s completed: %d records\n", results.RunID, len(results.Records))
	for _, metrics := range results.Metrics {
		fmt.Fprintf(stdout,
			"  %s: success %.2f%% compile %.2f%% analysis %.2f%% verification %.2f%% (units %d, mean attempts %.2f)\n",
			metrics.AgentName,
			metrics.SuccessRate,
			metrics.CompilePassRate,
			metrics.AnalysisPassRate,
			metrics.VerificationPassRate,
			metrics.UnitsEvaluated,
			metrics.MeanRetries,
		)
	}
	fmt.Fprintf(stdout, "Results: %s\n", paths.ResultsPath())
	fmt.Fprintf(stdout, "Report: %s\n", paths.ReportPath())
}
