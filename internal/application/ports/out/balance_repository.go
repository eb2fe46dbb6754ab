package out

import (
	"context"
	"time"

	"tonsettle/internal/application/dto"
	valueobjects "tonsettle/internal/domain/value_objects"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type BalanceRepository interface {
	// GetBalance returns the user's ledger row, creating a zero row on
	// first sight.
	GetBalance(ctx context.Context, userID string) (dto.BalanceResource, *apperrors.AppError)
	Credit(
		ctx context.Context,
		userID string,
		asset valueobjects.Asset,
		amountMinor int64,
		now time.Time,
	) *apperrors.AppError
	// Debit subtracts only when the column already holds at least the
	// amount; it reports false when the guard fails.
	Debit(
		ctx context.Context,
		userID string,
		asset valueobjects.Asset,
		amountMinor int64,
		now time.Time,
	) (bool, *apperrors.AppError)
}
