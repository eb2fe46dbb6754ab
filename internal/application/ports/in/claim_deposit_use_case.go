package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type ClaimDepositUseCase interface {
	Execute(ctx context.Context, command dto.ClaimDepositCommand) (dto.ClaimDepositOutput, *apperrors.AppError)
}
