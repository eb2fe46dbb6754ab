package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type ProcessWithdrawalsUseCase interface {
	Execute(ctx context.Context, command dto.ProcessWithdrawalsCommand) (dto.ProcessWithdrawalsOutput, *apperrors.AppError)
}
