package withdrawworker

import (
	"context"
	"log"
	"time"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
)

// Worker drives the payout pipeline. Each cycle claims a batch of queued
// withdrawals and pushes them on chain.
type Worker struct {
	enabled          bool
	pollInterval     time.Duration
	batchSize        int
	transferValidFor time.Duration
	processUseCase   portsin.ProcessWithdrawalsUseCase
	logger           *log.Logger
}

func NewWorker(
	enabled bool,
	pollInterval time.Duration,
	batchSize int,
	transferValidFor time.Duration,
	processUseCase portsin.ProcessWithdrawalsUseCase,
	logger *log.Logger,
) *Worker {
	return &Worker{
		enabled:          enabled,
		pollInterval:     pollInterval,
		batchSize:        batchSize,
		transferValidFor: transferValidFor,
		processUseCase:   processUseCase,
		logger:           logger,
	}
}

func (w *Worker) Enabled() bool {
	return w != nil && w.enabled
}

func (w *Worker) Start(ctx context.Context) {
	if w == nil || !w.enabled || w.processUseCase == nil {
		return
	}

	w.logf(
		"withdraw worker started poll_interval=%s batch_size=%d transfer_valid_for=%s",
		w.pollInterval,
		w.batchSize,
		w.transferValidFor,
	)

	w.runCycle(ctx)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logf("withdraw worker stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) {
	startedAt := time.Now().UTC()
	output, appErr := w.processUseCase.Execute(ctx, dto.ProcessWithdrawalsCommand{
		Now:              startedAt,
		BatchSize:        w.batchSize,
		TransferValidFor: w.transferValidFor,
	})
	if appErr != nil {
		w.logf(
			"withdraw cycle failed code=%s message=%s details=%v",
			appErr.Code,
			appErr.Message,
			appErr.Details,
		)
		return
	}

	if output.Claimed == 0 {
		return
	}

	w.logf(
		"withdraw cycle completed claimed=%d confirmed=%d retried=%d refunded=%d errors=%d latency_ms=%d",
		output.Claimed,
		output.Confirmed,
		output.Retried,
		output.Refunded,
		output.Errors,
		time.Since(startedAt).Milliseconds(),
	)
}

func (w *Worker) logf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Printf(format, args...)
}
