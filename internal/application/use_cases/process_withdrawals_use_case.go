package use_cases

import (
	"context"
	"time"

	"tonsettle/internal/application/dto"
	portsin "tonsettle/internal/application/ports/in"
	portsout "tonsettle/internal/application/ports/out"
	valueobjects "tonsettle/internal/domain/value_objects"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

// maxStoredErrorLen bounds the error text persisted on a withdrawal row.
const maxStoredErrorLen = 500

type processWithdrawalsUseCase struct {
	withdrawals portsout.WithdrawalRepository
	chainReader portsout.ChainReaderGateway
	chainWriter portsout.ChainWriterGateway
	wallet      portsout.PayoutWalletGateway
}

// NewProcessWithdrawalsUseCase drives one payout pass: claim a batch of
// CREATED withdrawals, send each as a signed transfer, and settle the row.
// A failure returns the row to CREATED while attempts remain; exhausting the
// budget fails the withdrawal and refunds the user.
func NewProcessWithdrawalsUseCase(
	withdrawals portsout.WithdrawalRepository,
	chainReader portsout.ChainReaderGateway,
	chainWriter portsout.ChainWriterGateway,
	wallet portsout.PayoutWalletGateway,
) portsin.ProcessWithdrawalsUseCase {
	return &processWithdrawalsUseCase{
		withdrawals: withdrawals,
		chainReader: chainReader,
		chainWriter: chainWriter,
		wallet:      wallet,
	}
}

func (u *processWithdrawalsUseCase) Execute(ctx context.Context, command dto.ProcessWithdrawalsCommand) (dto.ProcessWithdrawalsOutput, *apperrors.AppError) {
	if command.BatchSize <= 0 {
		return dto.ProcessWithdrawalsOutput{}, apperrors.NewValidation(
			"batch_size_invalid",
			"batch size must be greater than zero",
			nil,
		)
	}
	if command.TransferValidFor <= 0 {
		return dto.ProcessWithdrawalsOutput{}, apperrors.NewValidation(
			"transfer_validity_invalid",
			"transfer validity window must be greater than zero",
			nil,
		)
	}

	claimed, appErr := u.withdrawals.ClaimBatch(ctx, command.Now, command.BatchSize)
	if appErr != nil {
		return dto.ProcessWithdrawalsOutput{}, appErr
	}

	output := dto.ProcessWithdrawalsOutput{Claimed: len(claimed)}
	for _, withdrawal := range claimed {
		sendErr := u.sendOne(ctx, withdrawal, command)
		if sendErr == nil {
			output.Confirmed++
			continue
		}

		if settleErr := u.settleFailure(ctx, withdrawal, sendErr, command.Now); settleErr != nil {
			output.Errors++
			continue
		}
		if withdrawal.Attempts >= withdrawal.MaxAttempts {
			output.Refunded++
		} else {
			output.Retried++
		}
	}

	return output, nil
}

// sendOne builds, signs, broadcasts, and confirms a single withdrawal.
// Seqno is read per transfer: a wallet accepts one external message per
// seqno, so two sends in one pass would collide on a cached value anyway.
func (u *processWithdrawalsUseCase) sendOne(ctx context.Context, withdrawal dto.ClaimedWithdrawal, command dto.ProcessWithdrawalsCommand) *apperrors.AppError {
	if valueobjects.Asset(withdrawal.Asset) != valueobjects.AssetTON {
		return apperrors.NewValidation(
			"withdrawal_asset_unsupported",
			"payouts are supported for TON only",
			map[string]any{"asset": withdrawal.Asset},
		)
	}

	if appErr := u.wallet.Ready(); appErr != nil {
		return appErr
	}

	seqno, appErr := u.chainReader.GetSeqno(ctx, u.wallet.WalletAddressRaw())
	if appErr != nil {
		return appErr
	}

	boc, appErr := u.wallet.BuildTransfer(
		seqno,
		withdrawal.DestinationAddress,
		withdrawal.AmountMinor,
		command.TransferValidFor,
		command.Now,
	)
	if appErr != nil {
		return appErr
	}

	txHash, appErr := u.chainWriter.SendBOC(ctx, boc)
	if appErr != nil {
		return appErr
	}

	moved, appErr := u.withdrawals.MarkConfirmed(ctx, withdrawal.ID, txHash, command.Now)
	if appErr != nil {
		return appErr
	}
	if !moved {
		return apperrors.NewConflict(
			"withdrawal_confirm_rejected",
			"withdrawal left PROCESSING before confirmation",
			map[string]any{"withdrawal_id": withdrawal.ID},
		)
	}
	return nil
}

// settleFailure decides between retry and terminal refund based on the
// attempt budget counted at claim time.
func (u *processWithdrawalsUseCase) settleFailure(ctx context.Context, withdrawal dto.ClaimedWithdrawal, cause *apperrors.AppError, now time.Time) *apperrors.AppError {
	lastError := truncateError(cause)

	if withdrawal.Attempts >= withdrawal.MaxAttempts {
		moved, appErr := u.withdrawals.MarkFailedAndRefund(ctx, withdrawal.ID, lastError, now)
		if appErr != nil {
			return appErr
		}
		if !moved {
			return apperrors.NewConflict(
				"withdrawal_refund_rejected",
				"withdrawal left PROCESSING before refund",
				map[string]any{"withdrawal_id": withdrawal.ID},
			)
		}
		return nil
	}

	moved, appErr := u.withdrawals.MarkRetry(ctx, withdrawal.ID, lastError, now)
	if appErr != nil {
		return appErr
	}
	if !moved {
		return apperrors.NewConflict(
			"withdrawal_retry_rejected",
			"withdrawal left PROCESSING before retry",
			map[string]any{"withdrawal_id": withdrawal.ID},
		)
	}
	return nil
}

func truncateError(cause *apperrors.AppError) string {
	text := cause.Code + ": " + cause.Message
	if len(text) > maxStoredErrorLen {
		text = text[:maxStoredErrorLen]
	}
	return text
}
