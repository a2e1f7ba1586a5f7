package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quotelens/quotelens/internal/bootstrap"
	"github.com/quotelens/quotelens/internal/config"
	"github.com/quotelens/quotelens/internal/observability/logging"
	"github.com/quotelens/quotelens/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	extractTimeout := time.Duration(cfg.ExtractTimeoutSeconds) * time.Second

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentUploaded(ctx, func(handlerCtx context.Context, documentID string) error {
		extractCtx, cancel := context.WithTimeout(handlerCtx, extractTimeout)
		defer cancel()

		if doc, err := app.DocsUC.GetByID(extractCtx, documentID); err == nil {
			workerMetrics.ObserveQueueLag("worker", time.Since(doc.CreatedAt))
		}

		workerMetrics.StartExtraction()
		start := time.Now()
		extractErr := app.ExtractUC.ExtractByID(extractCtx, documentID)
		workerMetrics.FinishExtraction("worker", time.Since(start), extractErr)
		return extractErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
