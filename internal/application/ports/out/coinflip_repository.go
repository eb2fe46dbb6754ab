package out

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type CoinflipRepository interface {
	// Settle debits the stake, records the round, and credits the payout
	// for a win, all in one transaction. An insufficient stake surfaces
	// as a conflict and records nothing.
	Settle(ctx context.Context, command dto.SettleCoinflipPersistenceCommand) (dto.CoinflipResource, *apperrors.AppError)
}
