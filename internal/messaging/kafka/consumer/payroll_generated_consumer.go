package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"hris-payroll/internal/events"
	payrollerrors "hris-payroll/internal/payroll/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type PayslipArchiver interface {
	ArchivePeriod(ctx context.Context, periodID int64) (int, error)
}

// ConsumePayrollGenerated archives the PDFs of every period announced on the
// payroll.generated topic. Messages whose archive failed are left
// uncommitted.
func ConsumePayrollGenerated(
	ctx context.Context,
	reader MessageReader,
	archiver PayslipArchiver,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_generated")
	log.Info("payroll generated consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll generated consumer stopped")
				return
			}
			log.Error("fetch payroll generated message failed", zap.Error(err))
			continue
		}

		var event events.PayrollGeneratedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || event.PeriodID <= 0 {
			log.Error("decode payroll generated event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		n, err := archiver.ArchivePeriod(ctx, event.PeriodID)
		if err != nil {
			if errors.Is(err, payrollerrors.ErrArchiveDisabled) || errors.Is(err, payrollerrors.ErrPeriodNotFound) {
				log.Warn("payroll archive skipped",
					zap.Int64("period_id", event.PeriodID),
					zap.Error(err),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("archive payslips failed",
				zap.Int64("period_id", event.PeriodID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll generated message failed", zap.Error(err))
			continue
		}

		log.Info("payslips archived from payroll generated event",
			zap.Int64("period_id", event.PeriodID),
			zap.Int("count", n),
		)
	}
}
