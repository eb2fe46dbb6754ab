package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type ListWithdrawalsUseCase interface {
	Execute(ctx context.Context, query dto.ListWithdrawalsQuery) ([]dto.WithdrawalResource, *apperrors.AppError)
}
