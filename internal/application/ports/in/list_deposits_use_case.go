package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type ListDepositsUseCase interface {
	Execute(ctx context.Context, query dto.ListDepositsQuery) ([]dto.DepositResource, *apperrors.AppError)
}
