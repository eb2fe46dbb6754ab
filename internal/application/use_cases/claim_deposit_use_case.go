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

type claimDepositUseCase struct {
	repository portsout.DepositRepository
	clock      Clock
}

// NewClaimDepositUseCase records a user's declaration of an incoming
// transfer. The claim stays PENDING until a verification pass finds the
// matching chain transaction.
func NewClaimDepositUseCase(repository portsout.DepositRepository, clock Clock) portsin.ClaimDepositUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}

	return &claimDepositUseCase{
		repository: repository,
		clock:      clock,
	}
}

func (u *claimDepositUseCase) Execute(ctx context.Context, command dto.ClaimDepositCommand) (dto.ClaimDepositOutput, *apperrors.AppError) {
	userID := strings.TrimSpace(command.UserID)
	if userID == "" {
		return dto.ClaimDepositOutput{}, apperrors.NewValidation(
			"user_id_required",
			"user id is required",
			nil,
		)
	}

	asset, appErr := valueobjects.ParseAsset(command.Asset)
	if appErr != nil {
		return dto.ClaimDepositOutput{}, appErr
	}

	if command.AmountMinor <= 0 {
		return dto.ClaimDepositOutput{}, apperrors.NewValidation(
			"amount_invalid",
			"amount must be a positive integer in minor units",
			map[string]any{"amount_minor": command.AmountMinor},
		)
	}

	// A sender address narrows the match to transfers from that account.
	// Claims without one match on amount alone.
	var senderAddress *string
	if trimmed := strings.TrimSpace(command.SenderAddress); trimmed != "" {
		normalized, appErr := valueobjects.NormalizeTONAddress(trimmed)
		if appErr != nil {
			return dto.ClaimDepositOutput{}, appErr
		}
		senderAddress = &normalized
	}

	resourceID, appErr := generateID("dep_")
	if appErr != nil {
		return dto.ClaimDepositOutput{}, appErr
	}

	resource, appErr := u.repository.Create(ctx, dto.CreateDepositPersistenceCommand{
		ResourceID:    resourceID,
		UserID:        userID,
		Asset:         asset.String(),
		AmountMinor:   command.AmountMinor,
		SenderAddress: senderAddress,
		Status:        valueobjects.DepositStatusPending.String(),
		CreatedAt:     u.clock.NowUTC(),
	})
	if appErr != nil {
		return dto.ClaimDepositOutput{}, appErr
	}

	return dto.ClaimDepositOutput{Resource: resource}, nil
}
