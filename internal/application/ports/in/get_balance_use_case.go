package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type GetBalanceUseCase interface {
	Execute(ctx context.Context, query dto.GetBalanceQuery) (dto.GetBalanceOutput, *apperrors.AppError)
}
