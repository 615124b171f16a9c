package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lnwatch/phoenixd-dash/app/repository"
	"github.com/lnwatch/phoenixd-dash/config"
)

var workerMode bool

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete payment log records older than the retention window",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, deps, cleanup := mustCreateApp()
		defer cleanup()

		fn := func(ctx context.Context) error {
			return runPruneBatch(ctx, cfg, deps.paymentLogRepo)
		}

		if workerMode {
			runWorker("prune", cfg.Jobs.PruneInterval, fn)
			return
		}
		runJob("prune", func() error { return fn(context.Background()) })
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().BoolVar(&workerMode, "worker", false, "Run continuously using the configured interval")
}

func runPruneBatch(ctx context.Context, cfg *config.Config, repo *repository.PaymentLogRepository) error {
	cutoff := time.Now().UTC().Add(-cfg.Jobs.PruneRetention)

	var total int64
	for {
		deleted, err := repo.DeleteOlderThan(ctx, cutoff, cfg.Jobs.PruneBatchSize)
		if err != nil {
			return err
		}
		total += deleted
		if deleted < int64(cfg.Jobs.PruneBatchSize) {
			break
		}
	}

	logrus.WithField("deleted", total).Info("Pruned payment log")
	return nil
}

func runWorker(name string, interval time.Duration, fn func(ctx context.Context) error) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
