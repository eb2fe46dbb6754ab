package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type GetDepositUseCase interface {
	Execute(ctx context.Context, query dto.GetDepositQuery) (dto.DepositResource, *apperrors.AppError)
}
