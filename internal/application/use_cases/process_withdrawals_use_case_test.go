//go:build !integration

package use_cases

import (
	"context"
	"strings"
	"testing"
	"time"

	"tonsettle/internal/application/dto"
	valueobjects "tonsettle/internal/domain/value_objects"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

func claimedTONWithdrawal(id string, attempts, maxAttempts int) dto.ClaimedWithdrawal {
	return dto.ClaimedWithdrawal{
		ID:                 id,
		UserID:             "user_1",
		Asset:              valueobjects.AssetTON.String(),
		AmountMinor:        3_000_000_000,
		DestinationAddress: "0:" + strings.Repeat("ee", 32),
		Attempts:           attempts,
		MaxAttempts:        maxAttempts,
	}
}

func processCommand() dto.ProcessWithdrawalsCommand {
	return dto.ProcessWithdrawalsCommand{
		Now:              time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		BatchSize:        10,
		TransferValidFor: 5 * time.Minute,
	}
}

func TestProcessWithdrawalsValidatesBatchSize(t *testing.T) {
	useCase := NewProcessWithdrawalsUseCase(&fakeWithdrawalRepository{}, &fakeChainReader{}, &fakeChainWriter{}, &fakePayoutWallet{})

	_, appErr := useCase.Execute(context.Background(), dto.ProcessWithdrawalsCommand{
		BatchSize:        0,
		TransferValidFor: time.Minute,
	})
	if appErr == nil || appErr.Code != "batch_size_invalid" {
		t.Fatalf("expected batch_size_invalid, got %+v", appErr)
	}
}

func TestProcessWithdrawalsConfirmsOnSuccessfulSend(t *testing.T) {
	repo := &fakeWithdrawalRepository{
		claimable: []dto.ClaimedWithdrawal{claimedTONWithdrawal("wd_1", 1, 3)},
	}
	writer := &fakeChainWriter{txHash: "tx_abc"}
	wallet := &fakePayoutWallet{addressRaw: "0:" + strings.Repeat("11", 32), boc: []byte{0xb5}}
	useCase := NewProcessWithdrawalsUseCase(repo, &fakeChainReader{seqno: 42}, writer, wallet)

	output, appErr := useCase.Execute(context.Background(), processCommand())
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Claimed != 1 || output.Confirmed != 1 {
		t.Fatalf("expected claimed=1 confirmed=1, got %+v", output)
	}
	if repo.confirmed["wd_1"] != "tx_abc" {
		t.Fatalf("expected tx_abc recorded, got %+v", repo.confirmed)
	}
	if len(wallet.builds) != 1 || wallet.builds[0] != 42 {
		t.Fatalf("expected one transfer at seqno 42, got %+v", wallet.builds)
	}
}

func TestProcessWithdrawalsRetriesWhileBudgetRemains(t *testing.T) {
	repo := &fakeWithdrawalRepository{
		claimable: []dto.ClaimedWithdrawal{claimedTONWithdrawal("wd_1", 1, 3)},
	}
	writer := &fakeChainWriter{
		sendErr: apperrors.NewUnavailable("chain_endpoint_unreachable", "send timed out", nil),
	}
	wallet := &fakePayoutWallet{addressRaw: "0:" + strings.Repeat("11", 32), boc: []byte{0xb5}}
	useCase := NewProcessWithdrawalsUseCase(repo, &fakeChainReader{}, writer, wallet)

	output, appErr := useCase.Execute(context.Background(), processCommand())
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Retried != 1 || output.Refunded != 0 {
		t.Fatalf("expected retried=1 refunded=0, got %+v", output)
	}
	if len(repo.retried) != 1 || repo.retried[0].id != "wd_1" {
		t.Fatalf("expected a retry for wd_1, got %+v", repo.retried)
	}
	if !strings.Contains(repo.retried[0].lastError, "chain_endpoint_unreachable") {
		t.Fatalf("expected the cause recorded, got %q", repo.retried[0].lastError)
	}
}

func TestProcessWithdrawalsRefundsAtMaxAttempts(t *testing.T) {
	repo := &fakeWithdrawalRepository{
		claimable: []dto.ClaimedWithdrawal{claimedTONWithdrawal("wd_1", 3, 3)},
	}
	writer := &fakeChainWriter{
		sendErr: apperrors.NewUnavailable("chain_endpoint_unreachable", "send timed out", nil),
	}
	wallet := &fakePayoutWallet{addressRaw: "0:" + strings.Repeat("11", 32), boc: []byte{0xb5}}
	useCase := NewProcessWithdrawalsUseCase(repo, &fakeChainReader{}, writer, wallet)

	output, appErr := useCase.Execute(context.Background(), processCommand())
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Refunded != 1 || output.Retried != 0 {
		t.Fatalf("expected refunded=1 retried=0, got %+v", output)
	}
	if len(repo.refunded) != 1 || repo.refunded[0].id != "wd_1" {
		t.Fatalf("expected a refund for wd_1, got %+v", repo.refunded)
	}
}

func TestProcessWithdrawalsFailsUnsupportedAsset(t *testing.T) {
	claimed := claimedTONWithdrawal("wd_1", 3, 3)
	claimed.Asset = valueobjects.AssetUSDT.String()
	repo := &fakeWithdrawalRepository{claimable: []dto.ClaimedWithdrawal{claimed}}
	useCase := NewProcessWithdrawalsUseCase(repo, &fakeChainReader{}, &fakeChainWriter{}, &fakePayoutWallet{})

	output, appErr := useCase.Execute(context.Background(), processCommand())
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Refunded != 1 {
		t.Fatalf("expected refunded=1, got %+v", output)
	}
	if !strings.Contains(repo.refunded[0].lastError, "withdrawal_asset_unsupported") {
		t.Fatalf("expected the asset failure recorded, got %q", repo.refunded[0].lastError)
	}
}

func TestProcessWithdrawalsRetriesWhenWalletNotReady(t *testing.T) {
	repo := &fakeWithdrawalRepository{
		claimable: []dto.ClaimedWithdrawal{claimedTONWithdrawal("wd_1", 1, 3)},
	}
	wallet := &fakePayoutWallet{
		readyErr: apperrors.NewUnavailable("payout_wallet_not_ready", "no key material loaded", nil),
	}
	useCase := NewProcessWithdrawalsUseCase(repo, &fakeChainReader{}, &fakeChainWriter{}, wallet)

	output, appErr := useCase.Execute(context.Background(), processCommand())
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.Retried != 1 {
		t.Fatalf("expected retried=1, got %+v", output)
	}
}

func TestProcessWithdrawalsTruncatesStoredError(t *testing.T) {
	repo := &fakeWithdrawalRepository{
		claimable: []dto.ClaimedWithdrawal{claimedTONWithdrawal("wd_1", 1, 3)},
	}
	writer := &fakeChainWriter{
		sendErr: apperrors.NewUnavailable("chain_endpoint_unreachable", strings.Repeat("x", 2000), nil),
	}
	wallet := &fakePayoutWallet{addressRaw: "0:" + strings.Repeat("11", 32), boc: []byte{0xb5}}
	useCase := NewProcessWithdrawalsUseCase(repo, &fakeChainReader{}, writer, wallet)

	if _, appErr := useCase.Execute(context.Background(), processCommand()); appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if len(repo.retried[0].lastError) != maxStoredErrorLen {
		t.Fatalf("expected the stored error capped at %d, got %d", maxStoredErrorLen, len(repo.retried[0].lastError))
	}
}
