package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type RecoverStuckWithdrawalsUseCase interface {
	Execute(ctx context.Context, command dto.RecoverStuckWithdrawalsCommand) (dto.RecoverStuckWithdrawalsOutput, *apperrors.AppError)
}
