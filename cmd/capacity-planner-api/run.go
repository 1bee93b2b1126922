package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/kubev2v/capacity-planner/internal/api_server"
	"github.com/kubev2v/capacity-planner/internal/cache"
	"github.com/kubev2v/capacity-planner/internal/config"
	"github.com/kubev2v/capacity-planner/internal/events"
	"github.com/kubev2v/capacity-planner/internal/service"
	"github.com/kubev2v/capacity-planner/pkg/log"
	"github.com/kubev2v/capacity-planner/pkg/objectstore"
	"github.com/kubev2v/capacity-planner/pkg/version"
)

var (
	_ service.Uploader    = (*objectstore.MinioUploader)(nil)
	_ service.EventWriter = (*events.EventProducer)(nil)
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the capacity planner api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logLvl, err := log.ParseLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Infow("Starting API service", "version", version.Get().String())
		defer zap.S().Info("API service stopped")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		datasets := cache.New(cfg.Sizing.CacheSize)

		opts := []service.PlannerOption{}
		if cfg.ObjectStore.Enabled() {
			uploader, err := newUploader(ctx, cfg)
			if err != nil {
				zap.S().Fatalw("initializing object store", "error", err)
			}
			opts = append(opts, service.WithUploader(uploader))
			zap.S().Infow("publishing reports", "endpoint", cfg.ObjectStore.Endpoint, "bucket", cfg.ObjectStore.Bucket)
		}
		if cfg.Events.Enabled {
			producer := events.NewEventProducer(&events.StdoutWriter{}, events.WithOutputTopic(cfg.Events.Topic))
			defer func() { _ = producer.Close() }()
			opts = append(opts, service.WithEventWriter(producer))
		}
		planner := service.NewPlannerService(datasets, opts...)

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, planner, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("Error running server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener, datasets)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("failed to run metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newUploader(ctx context.Context, cfg *config.Config) (*objectstore.MinioUploader, error) {
	uploader, err := objectstore.NewMinioUploader(cfg.ObjectStore.MinioOpts()...)
	if err != nil {
		return nil, err
	}
	if err := uploader.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return uploader, nil
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
