package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type GetWithdrawalUseCase interface {
	Execute(ctx context.Context, query dto.GetWithdrawalQuery) (dto.WithdrawalResource, *apperrors.AppError)
}
