package withdrawworker

import (
	"context"
	"log"
	"time"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
)

// RecoveryWorker periodically returns stale PROCESSING withdrawals to the
// queue. It covers worker crashes between claim and settle.
type RecoveryWorker struct {
	enabled        bool
	pollInterval   time.Duration
	stuckCutoff    time.Duration
	recoverUseCase portsin.RecoverStuckWithdrawalsUseCase
	logger         *log.Logger
}

func NewRecoveryWorker(
	enabled bool,
	pollInterval time.Duration,
	stuckCutoff time.Duration,
	recoverUseCase portsin.RecoverStuckWithdrawalsUseCase,
	logger *log.Logger,
) *RecoveryWorker {
	return &RecoveryWorker{
		enabled:        enabled,
		pollInterval:   pollInterval,
		stuckCutoff:    stuckCutoff,
		recoverUseCase: recoverUseCase,
		logger:         logger,
	}
}

func (w *RecoveryWorker) Enabled() bool {
	return w != nil && w.enabled
}

func (w *RecoveryWorker) Start(ctx context.Context) {
	if w == nil || !w.enabled || w.recoverUseCase == nil {
		return
	}

	w.logf("withdraw recovery started poll_interval=%s stuck_cutoff=%s", w.pollInterval, w.stuckCutoff)

	w.runCycle(ctx)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logf("withdraw recovery stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *RecoveryWorker) runCycle(ctx context.Context) {
	output, appErr := w.recoverUseCase.Execute(ctx, dto.RecoverStuckWithdrawalsCommand{
		Now:         time.Now().UTC(),
		StuckCutoff: w.stuckCutoff,
	})
	if appErr != nil {
		w.logf("withdraw recovery cycle failed code=%s message=%s", appErr.Code, appErr.Message)
		return
	}

	if output.Recovered > 0 {
		w.logf("withdraw recovery cycle completed recovered=%d", output.Recovered)
	}
}

func (w *RecoveryWorker) logf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Printf(format, args...)
}
