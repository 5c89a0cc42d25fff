package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hris-payroll/internal/config"
	"hris-payroll/internal/events"
	"hris-payroll/internal/messaging/kafka/consumer"
	"hris-payroll/internal/payroll"
	"hris-payroll/internal/shared/connection"
	"hris-payroll/internal/storage"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer archives payslip PDFs for every payroll.generated event.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, logger)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var store storage.ObjectStore
	if cfg.Storage.Bucket != "" {
		if store, err = storage.NewS3Store(context.Background(), cfg.Storage); err != nil {
			return err
		}
	} else {
		logger.Warn("S3_BUCKET not set, payroll.generated events will be acknowledged without archiving")
	}

	payrollService := payroll.NewService(payrollDeps(sqlDB, gormDB, store), payrollConfig(cfg.Payroll), logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          events.PayrollGeneratedTopic,
		GroupID:        cfg.Kafka.ConsumerGroup + "-payslip-archive",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollGenerated(ctx, reader, payrollService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
