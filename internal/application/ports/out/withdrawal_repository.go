package out

import (
	"context"
	"time"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type WithdrawalRepository interface {
	// CreateAndDebit inserts the withdrawal and debits the user's balance
	// in one transaction; an insufficient balance surfaces as a conflict.
	CreateAndDebit(ctx context.Context, command dto.CreateWithdrawalPersistenceCommand) (dto.WithdrawalResource, *apperrors.AppError)
	GetForUser(ctx context.Context, id, userID string) (dto.WithdrawalResource, *apperrors.AppError)
	ListForUser(ctx context.Context, userID string) ([]dto.WithdrawalResource, *apperrors.AppError)
	// ClaimBatch moves up to limit CREATED withdrawals to PROCESSING,
	// counting the attempt, and returns them. Concurrent workers never
	// claim the same row.
	ClaimBatch(ctx context.Context, now time.Time, limit int) ([]dto.ClaimedWithdrawal, *apperrors.AppError)
	MarkConfirmed(ctx context.Context, id, txHash string, now time.Time) (bool, *apperrors.AppError)
	// MarkRetry returns a PROCESSING withdrawal to CREATED so a later
	// pass picks it up again, recording the truncated error.
	MarkRetry(ctx context.Context, id, lastError string, now time.Time) (bool, *apperrors.AppError)
	// MarkFailedAndRefund terminates the withdrawal and returns the
	// debited amount to the user's balance, atomically.
	MarkFailedAndRefund(ctx context.Context, id, lastError string, now time.Time) (bool, *apperrors.AppError)
	// RecoverStuck returns PROCESSING withdrawals older than the cutoff
	// to CREATED and reports how many rows moved.
	RecoverStuck(ctx context.Context, stuckBefore, now time.Time) (int, *apperrors.AppError)
}
