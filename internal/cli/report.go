package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"annobench/internal/config"
	"annobench/internal/report"
	"annobench/internal/runner"
	"annobench/internal/store"
)

func runReport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", DefaultConfigPath, "Path to config file")
		inputDir := fs.String("input", "", "Directory containing runs (default: config output dir)")
		runRef := fs.String("run", "latest", "Run id, or latest")
		outputPath := fs.String("output", "", "Report output path")
		dbPath := fs.String("db", "", "Run database path (default: "+store.DefaultDBName+" under the input dir)")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		outputDir := *inputDir
		if outputDir == "" {
			cfg, err := config.Load(*configPath)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
				return ExitError
			}
			outputDir = cfg.Workspace.OutputDir
			if !filepath.IsAbs(outputDir) {
				outputDir = filepath.Join(config.BaseDirFromConfigPath(*configPath), outputDir)
			}
		}

		results, runDir, err := report.ResolveRun(outputDir, *runRef)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to resolve run: %v\n", err)
			return ExitError
		}

		history, err := loadStoredHistory(context.Background(), outputDir, *dbPath, results)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: failed to load agent history: %v\n", err)
		}

		html := buildReportHTML([]runner.Results{results}, history)
		reportPath := *outputPath
		if reportPath == "" {
			reportPath = filepath.Join(runDir, "report.html")
		}
		if err := os.WriteFile(reportPath, []byte(html), 0o644); err != nil {
			fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Report written to %s\n", reportPath)
		return ExitOK
	}
}

// loadStoredHistory reads per-agent history from the run database. A
// missing default database simply yields no history section.
func loadStoredHistory(ctx context.Context, outputDir, dbPath string, results runner.Results) ([]store.AgentHistoryRow, error) {
	if dbPath == "" {
		dbPath = filepath.Join(outputDir, store.DefaultDBName)
		if _, err := os.Stat(dbPath); err != nil {
			return nil, nil
		}
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return agentHistories(ctx, db, results.Metrics)
}
