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

type createWithdrawalUseCase struct {
	repository  portsout.WithdrawalRepository
	maxAttempts int
	clock       Clock
}

// NewCreateWithdrawalUseCase debits the user up front and enqueues a CREATED
// withdrawal for the payout worker. The debited amount comes back only
// through the refund path of a terminal failure.
func NewCreateWithdrawalUseCase(repository portsout.WithdrawalRepository, maxAttempts int, clock Clock) portsin.CreateWithdrawalUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	return &createWithdrawalUseCase{
		repository:  repository,
		maxAttempts: maxAttempts,
		clock:       clock,
	}
}

func (u *createWithdrawalUseCase) Execute(ctx context.Context, command dto.CreateWithdrawalCommand) (dto.CreateWithdrawalOutput, *apperrors.AppError) {
	userID := strings.TrimSpace(command.UserID)
	if userID == "" {
		return dto.CreateWithdrawalOutput{}, apperrors.NewValidation(
			"user_id_required",
			"user id is required",
			nil,
		)
	}

	asset, appErr := valueobjects.ParseAsset(command.Asset)
	if appErr != nil {
		return dto.CreateWithdrawalOutput{}, appErr
	}
	if command.AmountMinor <= 0 {
		return dto.CreateWithdrawalOutput{}, apperrors.NewValidation(
			"amount_invalid",
			"amount must be a positive integer in minor units",
			map[string]any{"amount_minor": command.AmountMinor},
		)
	}

	destination, appErr := valueobjects.NormalizeTONAddress(command.DestinationAddress)
	if appErr != nil {
		return dto.CreateWithdrawalOutput{}, appErr
	}

	resourceID, appErr := generateID("wd_")
	if appErr != nil {
		return dto.CreateWithdrawalOutput{}, appErr
	}

	resource, appErr := u.repository.CreateAndDebit(ctx, dto.CreateWithdrawalPersistenceCommand{
		ResourceID:         resourceID,
		UserID:             userID,
		Asset:              asset.String(),
		AmountMinor:        command.AmountMinor,
		DestinationAddress: destination,
		Status:             valueobjects.WithdrawalStatusCreated.String(),
		MaxAttempts:        u.maxAttempts,
		CreatedAt:          u.clock.NowUTC(),
	})
	if appErr != nil {
		return dto.CreateWithdrawalOutput{}, appErr
	}

	return dto.CreateWithdrawalOutput{Resource: resource}, nil
}
