package use_cases

import (
	"context"
	"strings"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
	portsout "tonsettle/internal/application/ports/out"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type getWithdrawalUseCase struct {
	repository portsout.WithdrawalRepository
}

func NewGetWithdrawalUseCase(repository portsout.WithdrawalRepository) portsin.GetWithdrawalUseCase {
	return &getWithdrawalUseCase{
		repository: repository,
	}
}

func (u *getWithdrawalUseCase) Execute(ctx context.Context, query dto.GetWithdrawalQuery) (dto.WithdrawalResource, *apperrors.AppError) {
	id := strings.TrimSpace(query.ID)
	userID := strings.TrimSpace(query.UserID)
	if id == "" || userID == "" {
		return dto.WithdrawalResource{}, apperrors.NewValidation(
			"withdrawal_lookup_invalid",
			"withdrawal id and user id are required",
			nil,
		)
	}

	return u.repository.GetForUser(ctx, id, userID)
}

type listWithdrawalsUseCase struct {
	repository portsout.WithdrawalRepository
}

func NewListWithdrawalsUseCase(repository portsout.WithdrawalRepository) portsin.ListWithdrawalsUseCase {
	return &listWithdrawalsUseCase{
		repository: repository,
	}
}

func (u *listWithdrawalsUseCase) Execute(ctx context.Context, query dto.ListWithdrawalsQuery) ([]dto.WithdrawalResource, *apperrors.AppError) {
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
