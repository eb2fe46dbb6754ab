package use_cases

import (
	"context"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
	portsout "tonsettle/internal/application/ports/out"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type recoverStuckWithdrawalsUseCase struct {
	repository portsout.WithdrawalRepository
}

// NewRecoverStuckWithdrawalsUseCase returns PROCESSING rows abandoned by a
// crashed worker to CREATED. The cutoff must be generous enough that no live
// worker still holds the row.
func NewRecoverStuckWithdrawalsUseCase(repository portsout.WithdrawalRepository) portsin.RecoverStuckWithdrawalsUseCase {
	return &recoverStuckWithdrawalsUseCase{
		repository: repository,
	}
}

func (u *recoverStuckWithdrawalsUseCase) Execute(ctx context.Context, command dto.RecoverStuckWithdrawalsCommand) (dto.RecoverStuckWithdrawalsOutput, *apperrors.AppError) {
	if command.StuckCutoff <= 0 {
		return dto.RecoverStuckWithdrawalsOutput{}, apperrors.NewValidation(
			"stuck_cutoff_invalid",
			"stuck cutoff must be greater than zero",
			nil,
		)
	}

	recovered, appErr := u.repository.RecoverStuck(ctx, command.Now.Add(-command.StuckCutoff), command.Now)
	if appErr != nil {
		return dto.RecoverStuckWithdrawalsOutput{}, appErr
	}

	return dto.RecoverStuckWithdrawalsOutput{Recovered: recovered}, nil
}
