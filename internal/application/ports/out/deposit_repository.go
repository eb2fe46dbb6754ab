package out

import (
	"context"
	"time"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type DepositRepository interface {
	Create(ctx context.Context, command dto.CreateDepositPersistenceCommand) (dto.DepositResource, *apperrors.AppError)
	GetForUser(ctx context.Context, id, userID string) (dto.DepositResource, *apperrors.AppError)
	ListForUser(ctx context.Context, userID string) ([]dto.DepositResource, *apperrors.AppError)
	// ListUsedTxHashes returns every chain transaction hash a confirmed
	// deposit has already consumed. The matcher skips those candidates.
	ListUsedTxHashes(ctx context.Context) ([]string, *apperrors.AppError)
	// ConfirmAndCredit marks a pending deposit confirmed with the matched
	// transaction hash and credits the user's balance, atomically. The
	// hash column is unique, so two deposits can never consume the same
	// chain transaction.
	ConfirmAndCredit(ctx context.Context, id, txHash string, now time.Time) (dto.DepositResource, *apperrors.AppError)
	Reject(ctx context.Context, id, reason string, now time.Time) (dto.DepositResource, *apperrors.AppError)
	// CreditManual records an operator credit as an already confirmed
	// deposit and moves the balance in the same transaction.
	CreditManual(ctx context.Context, command dto.CreateDepositPersistenceCommand, note string) (dto.DepositResource, *apperrors.AppError)
}
