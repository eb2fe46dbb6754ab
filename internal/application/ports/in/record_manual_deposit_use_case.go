package in

import (
	"context"

	"tonsettle/internal/application/dto"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type RecordManualDepositUseCase interface {
	Execute(ctx context.Context, command dto.RecordManualDepositCommand) (dto.RecordManualDepositOutput, *apperrors.AppError)
}
