package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tidymail/tidymail/internal/config"
	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/di"
	"github.com/tidymail/tidymail/internal/report"
	"github.com/tidymail/tidymail/internal/scheduler"
	"go.uber.org/zap"
)

var (
	once   = flag.Bool("once", false, "Run one triage pass immediately and exit")
	dryRun = flag.Bool("dry-run", false, "Force dry-run mode regardless of configuration")
)

func main() {
	flag.Parse()

	if *dryRun {
		// Viper picks this up through its env binding
		os.Setenv("TIDYMAIL_MODE_DRY_RUN", "true")
	}

	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	cfg *config.Config,
	service *core.TriageService,
	sender report.Sender,
	classifier core.Classifier,
	auditStore core.AuditStore,
) error {
	defer logger.Sync()

	mode := cfg.GetMode()
	reportCfg := cfg.GetReport()

	runner := func(now time.Time) {
		runReport := service.ProcessInbox(context.Background(), now)

		md := report.BuildMarkdown(runReport, mode.DryRun, mode.Action)
		path, err := report.Save(md, reportCfg.SaveDir, now.Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to save report", zap.Error(err))
		} else {
			logger.Info("Report written", zap.String("path", path))
		}

		subject := fmt.Sprintf("Inbox triage report %s", now.Format("2006-01-02"))
		if err := sender.Send(context.Background(), subject, md); err != nil {
			logger.Error("Failed to deliver report", zap.Error(err))
		}

		logger.Info("Run finished",
			zap.Int("processed", runReport.Processed()),
			zap.Int("errors", len(runReport.Errors)))
	}

	schedCfg := cfg.GetSchedule()

	if *once {
		if err := scheduler.RunOnce(schedCfg.Timezone, runner); err != nil {
			return err
		}
		closeResources(logger, classifier, auditStore)
		return nil
	}

	sched, err := scheduler.New(schedCfg.Time, schedCfg.Timezone, runner, logger)
	if err != nil {
		return err
	}
	sched.Start()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	sched.Stop()
	closeResources(logger, classifier, auditStore)

	logger.Info("Shutdown complete")
	return nil
}

// closeResources closes any injected dependencies that hold connections
func closeResources(logger *zap.Logger, classifier core.Classifier, auditStore core.AuditStore) {
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}
	if closer, ok := auditStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close audit store", zap.Error(err))
		}
	}
}
