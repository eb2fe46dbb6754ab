package use_cases

import (
	"context"
	"strings"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
	portsout "tonsettle/internal/application/ports/out"
	"tonsettle/internal/domain/policies"
	valueobjects "tonsettle/internal/domain/value_objects"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type VerifyDepositConfig struct {
	// DepositAddressRaw is the canonical inbound settlement account.
	DepositAddressRaw string
	// USDTJettonMaster scopes token-transfer lookups; empty disables USDT
	// verification.
	USDTJettonMaster string
	// LookbackLimit caps how many recent chain records one verification
	// pass inspects.
	LookbackLimit int
}

type verifyDepositUseCase struct {
	deposits portsout.DepositRepository
	chain    portsout.ChainReaderGateway
	config   VerifyDepositConfig
	clock    Clock
}

// NewVerifyDepositUseCase matches a pending claim against recent chain
// activity and credits the user on the first hit. Verification is
// idempotent: re-running it against a confirmed deposit replays the resource
// without touching the ledger.
func NewVerifyDepositUseCase(
	deposits portsout.DepositRepository,
	chain portsout.ChainReaderGateway,
	config VerifyDepositConfig,
	clock Clock,
) portsin.VerifyDepositUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}
	if config.LookbackLimit <= 0 {
		config.LookbackLimit = 50
	}

	return &verifyDepositUseCase{
		deposits: deposits,
		chain:    chain,
		config:   config,
		clock:    clock,
	}
}

func (u *verifyDepositUseCase) Execute(ctx context.Context, command dto.VerifyDepositCommand) (dto.VerifyDepositOutput, *apperrors.AppError) {
	id := strings.TrimSpace(command.ID)
	userID := strings.TrimSpace(command.UserID)
	if id == "" || userID == "" {
		return dto.VerifyDepositOutput{}, apperrors.NewValidation(
			"deposit_lookup_invalid",
			"deposit id and user id are required",
			nil,
		)
	}

	deposit, appErr := u.deposits.GetForUser(ctx, id, userID)
	if appErr != nil {
		return dto.VerifyDepositOutput{}, appErr
	}

	switch valueobjects.DepositStatus(deposit.Status) {
	case valueobjects.DepositStatusConfirmed:
		return dto.VerifyDepositOutput{Resource: deposit, Credited: false}, nil
	case valueobjects.DepositStatusRejected:
		return dto.VerifyDepositOutput{}, apperrors.NewConflict(
			"deposit_rejected",
			"deposit was rejected and can no longer be verified",
			map[string]any{"deposit_id": deposit.ID},
		)
	}

	usedHashes, appErr := u.deposits.ListUsedTxHashes(ctx)
	if appErr != nil {
		return dto.VerifyDepositOutput{}, appErr
	}
	used := make(map[string]struct{}, len(usedHashes))
	for _, hash := range usedHashes {
		used[hash] = struct{}{}
	}
	usedFunc := func(txHash string) bool {
		_, ok := used[txHash]
		return ok
	}

	expectedSource := ""
	if deposit.SenderAddress != nil {
		expectedSource = *deposit.SenderAddress
	}

	txHash, found, appErr := u.findMatch(ctx, deposit, expectedSource, usedFunc)
	if appErr != nil {
		return dto.VerifyDepositOutput{}, appErr
	}
	if !found {
		return dto.VerifyDepositOutput{Resource: deposit, Credited: false}, nil
	}

	confirmed, appErr := u.deposits.ConfirmAndCredit(ctx, deposit.ID, txHash, u.clock.NowUTC())
	if appErr != nil {
		// A concurrent verification winning the unique hash slot is a
		// lost race here, not a broken deposit.
		if appErr.Type == apperrors.TypeConflict {
			return dto.VerifyDepositOutput{Resource: deposit, Credited: false}, nil
		}
		return dto.VerifyDepositOutput{}, appErr
	}

	return dto.VerifyDepositOutput{Resource: confirmed, Credited: true}, nil
}

func (u *verifyDepositUseCase) findMatch(
	ctx context.Context,
	deposit dto.DepositResource,
	expectedSource string,
	used policies.TxHashUsedFunc,
) (string, bool, *apperrors.AppError) {
	switch valueobjects.Asset(deposit.Asset) {
	case valueobjects.AssetTON:
		candidates, appErr := u.chain.GetRecentTransactions(ctx, u.config.DepositAddressRaw, u.config.LookbackLimit)
		if appErr != nil {
			return "", false, appErr
		}
		hash, found := policies.MatchNativeDeposit(
			candidates,
			u.config.DepositAddressRaw,
			deposit.AmountMinor,
			expectedSource,
			used,
		)
		return hash, found, nil

	case valueobjects.AssetUSDT:
		// Without a jetton master there is no feed to match against; the
		// deposit stays pending until the operator configures one.
		if u.config.USDTJettonMaster == "" {
			return "", false, nil
		}
		transfers, appErr := u.chain.GetRecentJettonTransfers(ctx, u.config.DepositAddressRaw, u.config.USDTJettonMaster, u.config.LookbackLimit)
		if appErr != nil {
			return "", false, appErr
		}
		hash, found := policies.MatchTokenDeposit(transfers, deposit.AmountMinor, expectedSource, used)
		return hash, found, nil

	default:
		return "", false, apperrors.NewInternal(
			"deposit_asset_unknown",
			"deposit carries an unknown asset",
			map[string]any{"asset": deposit.Asset},
		)
	}
}
