package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type VerifyDepositUseCase interface {
	Execute(ctx context.Context, command dto.VerifyDepositCommand) (dto.VerifyDepositOutput, *apperrors.AppError)
}
