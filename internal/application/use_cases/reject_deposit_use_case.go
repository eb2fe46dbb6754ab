package use_cases

import (
	"context"
	"strings"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
	portsout "tonsettle/internal/application/ports/out"
	valueobjects "tonsettle/internal/domain/value_objects"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

const defaultRejectReason = "rejected by user"

type rejectDepositUseCase struct {
	repository portsout.DepositRepository
	clock      Clock
}

func NewRejectDepositUseCase(repository portsout.DepositRepository, clock Clock) portsin.RejectDepositUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}

	return &rejectDepositUseCase{
		repository: repository,
		clock:      clock,
	}
}

func (u *rejectDepositUseCase) Execute(ctx context.Context, command dto.RejectDepositCommand) (dto.RejectDepositOutput, *apperrors.AppError) {
	id := strings.TrimSpace(command.ID)
	userID := strings.TrimSpace(command.UserID)
	if id == "" || userID == "" {
		return dto.RejectDepositOutput{}, apperrors.NewValidation(
			"deposit_lookup_invalid",
			"deposit id and user id are required",
			nil,
		)
	}

	deposit, appErr := u.repository.GetForUser(ctx, id, userID)
	if appErr != nil {
		return dto.RejectDepositOutput{}, appErr
	}
	if valueobjects.DepositStatus(deposit.Status).IsTerminal() {
		return dto.RejectDepositOutput{}, apperrors.NewConflict(
			"deposit_already_settled",
			"deposit is already in a terminal state",
			map[string]any{"deposit_id": deposit.ID, "status": deposit.Status},
		)
	}

	reason := strings.TrimSpace(command.Reason)
	if reason == "" {
		reason = defaultRejectReason
	}

	rejected, appErr := u.repository.Reject(ctx, deposit.ID, reason, u.clock.NowUTC())
	if appErr != nil {
		return dto.RejectDepositOutput{}, appErr
	}

	return dto.RejectDepositOutput{Resource: rejected}, nil
}
