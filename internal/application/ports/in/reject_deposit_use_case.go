package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type RejectDepositUseCase interface {
	Execute(ctx context.Context, command dto.RejectDepositCommand) (dto.RejectDepositOutput, *apperrors.AppError)
}
