package use_cases

import (
	"context"
	"strings"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
	portsout "tonsettle/internal/application/ports/out"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type getBalanceUseCase struct {
	repository portsout.BalanceRepository
}

func NewGetBalanceUseCase(repository portsout.BalanceRepository) portsin.GetBalanceUseCase {
	return &getBalanceUseCase{
		repository: repository,
	}
}

func (u *getBalanceUseCase) Execute(ctx context.Context, query dto.GetBalanceQuery) (dto.GetBalanceOutput, *apperrors.AppError) {
	userID := strings.TrimSpace(query.UserID)
	if userID == "" {
		return dto.GetBalanceOutput{}, apperrors.NewValidation(
			"user_id_required",
			"user id is required",
			nil,
		)
	}

	resource, appErr := u.repository.GetBalance(ctx, userID)
	if appErr != nil {
		return dto.GetBalanceOutput{}, appErr
	}

	return dto.GetBalanceOutput{Resource: resource}, nil
}
