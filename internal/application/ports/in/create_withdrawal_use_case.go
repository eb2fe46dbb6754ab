package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type CreateWithdrawalUseCase interface {
	Execute(ctx context.Context, command dto.CreateWithdrawalCommand) (dto.CreateWithdrawalOutput, *apperrors.AppError)
}
