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

type recordManualDepositUseCase struct {
	repository portsout.DepositRepository
	clock      Clock
}

// NewRecordManualDepositUseCase credits a user without chain verification.
// It backs operator tooling for support adjustments and promotional grants.
func NewRecordManualDepositUseCase(repository portsout.DepositRepository, clock Clock) portsin.RecordManualDepositUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}

	return &recordManualDepositUseCase{
		repository: repository,
		clock:      clock,
	}
}

func (u *recordManualDepositUseCase) Execute(ctx context.Context, command dto.RecordManualDepositCommand) (dto.RecordManualDepositOutput, *apperrors.AppError) {
	userID := strings.TrimSpace(command.UserID)
	if userID == "" {
		return dto.RecordManualDepositOutput{}, apperrors.NewValidation(
			"user_id_required",
			"user id is required",
			nil,
		)
	}

	asset, appErr := valueobjects.ParseAsset(command.Asset)
	if appErr != nil {
		return dto.RecordManualDepositOutput{}, appErr
	}
	if command.AmountMinor <= 0 {
		return dto.RecordManualDepositOutput{}, apperrors.NewValidation(
			"amount_invalid",
			"amount must be a positive integer in minor units",
			map[string]any{"amount_minor": command.AmountMinor},
		)
	}

	resourceID, appErr := generateID("dep_")
	if appErr != nil {
		return dto.RecordManualDepositOutput{}, appErr
	}

	note := strings.TrimSpace(command.Note)
	if note == "" {
		note = "manual credit"
	}

	resource, appErr := u.repository.CreditManual(ctx, dto.CreateDepositPersistenceCommand{
		ResourceID:  resourceID,
		UserID:      userID,
		Asset:       asset.String(),
		AmountMinor: command.AmountMinor,
		Status:      valueobjects.DepositStatusConfirmed.String(),
		CreatedAt:   u.clock.NowUTC(),
	}, note)
	if appErr != nil {
		return dto.RecordManualDepositOutput{}, appErr
	}

	return dto.RecordManualDepositOutput{Resource: resource}, nil
}
