package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type PlayCoinflipUseCase interface {
	Execute(ctx context.Context, command dto.PlayCoinflipCommand) (dto.PlayCoinflipOutput, *apperrors.AppError)
}
