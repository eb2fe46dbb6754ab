package use_cases

import (
	"context"
	"crypto/rand"
	"strings"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
	portsout "tonsettle/internal/application/ports/out"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

const (
	CoinflipHeads = "heads"
	CoinflipTails = "tails"
)

// FlipFunc produces one fair outcome. Injected so tests can force a side.
type FlipFunc func() (string, *apperrors.AppError)

func cryptoFlip() (string, *apperrors.AppError) {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", apperrors.NewInternal(
			"coinflip_entropy_failed",
			"failed to read entropy for the flip",
			map[string]any{"error": err.Error()},
		)
	}

	if b[0]&1 == 0 {
		return CoinflipHeads, nil
	}
	return CoinflipTails, nil
}

type playCoinflipUseCase struct {
	repository portsout.CoinflipRepository
	flip       FlipFunc
	clock      Clock
}

// NewPlayCoinflipUseCase settles one wager: the stake leaves the balance
// before the flip and a win returns twice the stake, both inside the
// repository's transaction.
func NewPlayCoinflipUseCase(repository portsout.CoinflipRepository, flip FlipFunc, clock Clock) portsin.PlayCoinflipUseCase {
	if flip == nil {
		flip = cryptoFlip
	}
	if clock == nil {
		clock = NewSystemClock()
	}

	return &playCoinflipUseCase{
		repository: repository,
		flip:       flip,
		clock:      clock,
	}
}

func (u *playCoinflipUseCase) Execute(ctx context.Context, command dto.PlayCoinflipCommand) (dto.PlayCoinflipOutput, *apperrors.AppError) {
	userID := strings.TrimSpace(command.UserID)
	if userID == "" {
		return dto.PlayCoinflipOutput{}, apperrors.NewValidation(
			"user_id_required",
			"user id is required",
			nil,
		)
	}

	choice := strings.ToLower(strings.TrimSpace(command.Choice))
	if choice != CoinflipHeads && choice != CoinflipTails {
		return dto.PlayCoinflipOutput{}, apperrors.NewValidation(
			"coinflip_choice_invalid",
			"choice must be heads or tails",
			map[string]any{"choice": command.Choice},
		)
	}
	if command.StakeNano <= 0 {
		return dto.PlayCoinflipOutput{}, apperrors.NewValidation(
			"stake_invalid",
			"stake must be a positive amount in nanotons",
			map[string]any{"stake_nano": command.StakeNano},
		)
	}

	outcome, appErr := u.flip()
	if appErr != nil {
		return dto.PlayCoinflipOutput{}, appErr
	}

	won := outcome == choice
	payout := int64(0)
	if won {
		payout = 2 * command.StakeNano
	}

	resourceID, appErr := generateID("flip_")
	if appErr != nil {
		return dto.PlayCoinflipOutput{}, appErr
	}

	resource, appErr := u.repository.Settle(ctx, dto.SettleCoinflipPersistenceCommand{
		ResourceID: resourceID,
		UserID:     userID,
		StakeNano:  command.StakeNano,
		Choice:     choice,
		Outcome:    outcome,
		Won:        won,
		PayoutNano: payout,
		CreatedAt:  u.clock.NowUTC(),
	})
	if appErr != nil {
		return dto.PlayCoinflipOutput{}, appErr
	}

	return dto.PlayCoinflipOutput{Resource: resource}, nil
}
