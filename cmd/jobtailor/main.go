// Package main is the jobtailor CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jobtailor/jobtailor/internal/analytics"
	"github.com/jobtailor/jobtailor/internal/config"
	"github.com/jobtailor/jobtailor/internal/server"
	"github.com/jobtailor/jobtailor/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/jobtailor/config.yaml"

// loadConfig loads config from path. When path is the default, it first
// looks for config.yaml in the current directory (for development); if that
// exists it is used, so that "jobtailor server" from the project dir uses
// the project's config (including debug).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "analyze":
		runAnalyze()
	case "trends":
		runTrends()
	case "history":
		runHistory()
	case "version", "--version", "-v":
		fmt.Printf("jobtailor version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (adapter prompts, pipeline stages, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Orchestrator,
		components.Insights,
		components.Ledger,
		components.Storage,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	resumeID := fs.String("resume", "", "resume id")
	jobID := fs.String("job", "", "job description id")
	resumeFile := fs.String("resume-file", "", "create the resume from this text file first")
	jobFile := fs.String("job-file", "", "create the job description from this text file first")
	userID := fs.String("user", "cli", "owning user id for records created from files")
	_ = fs.Parse(os.Args[2:])

	if (*resumeID == "" && *resumeFile == "") || (*jobID == "" && *jobFile == "") {
		fmt.Println("analyze requires -resume or -resume-file, and -job or -job-file")
		fs.PrintDefaults()
		os.Exit(1)
	}

	ctx := context.Background()
	components, _, logger := mustComponents(ctx, *configPath)
	defer components.Close()
	defer logger.Sync()

	rid, err := resolveResume(ctx, components.Storage, *resumeID, *resumeFile, *userID)
	if err != nil {
		logger.Fatal("resume", zap.Error(err))
	}
	jid, err := resolveJob(ctx, components.Storage, *jobID, *jobFile, *userID)
	if err != nil {
		logger.Fatal("job", zap.Error(err))
	}

	out, err := components.Orchestrator.Analyze(ctx, rid, jid)
	if err != nil {
		logger.Fatal("analyze failed", zap.Error(err))
	}
	printJSON(map[string]interface{}{
		"resumeId": rid,
		"jobId":    jid,
		"analysis": out.Analysis,
	})
}

func runTrends() {
	fs := flag.NewFlagSet("trends", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	userID := fs.String("user", "", "user id")
	days := fs.Int("days", 0, "window length in days (default from config)")
	withInsights := fs.Bool("insights", false, "include generated insights (requires adapter credentials)")
	_ = fs.Parse(os.Args[2:])

	if *userID == "" {
		fmt.Println("trends requires -user")
		os.Exit(1)
	}

	ctx := context.Background()
	components, cfg, logger := mustComponents(ctx, *configPath)
	defer components.Close()
	defer logger.Sync()

	windowDays := cfg.Analytics.DefaultWindowDays
	if *days > 0 {
		windowDays = *days
	}
	end := time.Now().UTC()
	window := analytics.Window{Start: end.AddDate(0, 0, -windowDays), End: end}
	previous := analytics.PreviousWindow(window)

	current, err := components.Storage.ListApplications(ctx, *userID, window.Start, window.End)
	if err != nil {
		logger.Fatal("list applications failed", zap.Error(err))
	}
	prior, err := components.Storage.ListApplications(ctx, *userID, previous.Start, previous.End)
	if err != nil {
		logger.Fatal("list applications failed", zap.Error(err))
	}

	report := analytics.BuildReport(window, current, prior)
	if *withInsights {
		report.Insights = components.Insights.Generate(ctx, report.Metrics, current)
	}
	printJSON(report)
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("history requires a resume id")
		os.Exit(1)
	}
	resumeID := fs.Arg(0)

	ctx := context.Background()
	components, _, logger := mustComponents(ctx, *configPath)
	defer components.Close()
	defer logger.Sync()

	versions, err := components.Ledger.History(ctx, resumeID)
	if err != nil {
		logger.Fatal("history failed", zap.Error(err))
	}
	trajectory, err := components.Ledger.ScoreTrajectory(ctx, resumeID)
	if err != nil {
		logger.Fatal("history failed", zap.Error(err))
	}
	printJSON(map[string]interface{}{
		"resumeId":        resumeID,
		"versions":        versions,
		"scoreTrajectory": trajectory,
	})
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func printUsage() {
	fmt.Println(`jobtailor - resume matching, tailoring and trend aggregation

Usage:
  jobtailor server [flags]            Start the HTTP server
  jobtailor analyze [flags]           Score a resume against a job description
  jobtailor trends [flags]            Show application trends for a user
  jobtailor history [flags] <resume>  Show a resume lineage's version history
  jobtailor version                   Show version
  jobtailor help                      Show this help

Server Flags:
  --config string   Config file path (default: /usr/local/etc/jobtailor/config.yaml)
  --debug           Enable debug logging (adapter prompts, pipeline stages, etc.)

Analyze Flags:
  --resume string        Resume id
  --job string           Job description id
  --resume-file string   Create the resume from this text file first
  --job-file string      Create the job description from this text file first
  --user string          Owning user id for records created from files (default: cli)

Trends Flags:
  --user string   User id (required)
  --days int      Window length in days (default from config)
  --insights      Include generated insights (requires adapter credentials)`)
}
