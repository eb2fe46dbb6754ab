package use_cases

import (
	"context"
	"strings"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
	portsout "tonsettle/internal/application/ports/out"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type getDepositUseCase struct {
	repository portsout.DepositRepository
}

func NewGetDepositUseCase(repository portsout.DepositRepository) portsin.GetDepositUseCase {
	return &getDepositUseCase{
		repository: repository,
	}
}

func (u *getDepositUseCase) Execute(ctx context.Context, query dto.GetDepositQuery) (dto.DepositResource, *apperrors.AppError) {
	id := strings.TrimSpace(query.ID)
	userID := strings.TrimSpace(query.UserID)
	if id == "" || userID == "" {
		return dto.DepositResource{}, apperrors.NewValidation(
			"deposit_lookup_invalid",
			"deposit id and user id are required",
			nil,
		)
	}

	return u.repository.GetForUser(ctx, id, userID)
}

type listDepositsUseCase struct {
	repository portsout.DepositRepository
}

func NewListDepositsUseCase(repository portsout.DepositRepository) portsin.ListDepositsUseCase {
	return &listDepositsUseCase{
		repository: repository,
	}
}

func (u *listDepositsUseCase) Execute(ctx context.Context, query dto.ListDepositsQuery) ([]dto.DepositResource, *apperrors.AppError) {
	userID := strings.TrimSpace(query.UserID)
	if userID == "" {
		return nil, apperrors.NewValidation(
			"user_id_required",
			"user id is required",
			nil,
		)
	}

	return u.repository.ListForUser(ctx, userID)
}
