//go:build !integration

package use_cases

import (
	"context"
	"time"

	"tonsettle/internal/application/dto"
	"tonsettle/internal/domain/entities"
	valueobjects "tonsettle/internal/domain/value_objects"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) NowUTC() time.Time {
	return c.now.UTC()
}

type fakeBalanceRepository struct {
	balance dto.BalanceResource
	getErr  *apperrors.AppError

	credits []ledgerMove
	debits  []ledgerMove
}

type ledgerMove struct {
	userID string
	asset  valueobjects.Asset
	amount int64
}

func (r *fakeBalanceRepository) GetBalance(_ context.Context, userID string) (dto.BalanceResource, *apperrors.AppError) {
	if r.getErr != nil {
		return dto.BalanceResource{}, r.getErr
	}
	balance := r.balance
	balance.UserID = userID
	return balance, nil
}

func (r *fakeBalanceRepository) Credit(_ context.Context, userID string, asset valueobjects.Asset, amountMinor int64, _ time.Time) *apperrors.AppError {
	r.credits = append(r.credits, ledgerMove{userID: userID, asset: asset, amount: amountMinor})
	return nil
}

func (r *fakeBalanceRepository) Debit(_ context.Context, userID string, asset valueobjects.Asset, amountMinor int64, _ time.Time) (bool, *apperrors.AppError) {
	r.debits = append(r.debits, ledgerMove{userID: userID, asset: asset, amount: amountMinor})
	return true, nil
}

type fakeDepositRepository struct {
	deposits     map[string]dto.DepositResource
	usedTxHashes []string

	created        []dto.CreateDepositPersistenceCommand
	confirmed      []string
	confirmedHash  map[string]string
	rejected       map[string]string
	manualCredits  []dto.CreateDepositPersistenceCommand
	confirmErr     *apperrors.AppError
	createErr      *apperrors.AppError
	listUsedErr    *apperrors.AppError
}

func (r *fakeDepositRepository) Create(_ context.Context, command dto.CreateDepositPersistenceCommand) (dto.DepositResource, *apperrors.AppError) {
	if r.createErr != nil {
		return dto.DepositResource{}, r.createErr
	}
	r.created = append(r.created, command)
	return dto.DepositResource{
		ID:            command.ResourceID,
		UserID:        command.UserID,
		Asset:         command.Asset,
		AmountMinor:   command.AmountMinor,
		SenderAddress: command.SenderAddress,
		Status:        command.Status,
		CreatedAt:     command.CreatedAt,
		UpdatedAt:     command.CreatedAt,
	}, nil
}

func (r *fakeDepositRepository) GetForUser(_ context.Context, id, userID string) (dto.DepositResource, *apperrors.AppError) {
	deposit, ok := r.deposits[id]
	if !ok || deposit.UserID != userID {
		return dto.DepositResource{}, apperrors.NewNotFound("deposit_not_found", "deposit does not exist", nil)
	}
	return deposit, nil
}

func (r *fakeDepositRepository) ListForUser(_ context.Context, userID string) ([]dto.DepositResource, *apperrors.AppError) {
	var out []dto.DepositResource
	for _, deposit := range r.deposits {
		if deposit.UserID == userID {
			out = append(out, deposit)
		}
	}
	return out, nil
}

func (r *fakeDepositRepository) ListUsedTxHashes(_ context.Context) ([]string, *apperrors.AppError) {
	if r.listUsedErr != nil {
		return nil, r.listUsedErr
	}
	return r.usedTxHashes, nil
}

func (r *fakeDepositRepository) ConfirmAndCredit(_ context.Context, id, txHash string, now time.Time) (dto.DepositResource, *apperrors.AppError) {
	if r.confirmErr != nil {
		return dto.DepositResource{}, r.confirmErr
	}
	r.confirmed = append(r.confirmed, id)
	if r.confirmedHash == nil {
		r.confirmedHash = map[string]string{}
	}
	r.confirmedHash[id] = txHash

	deposit := r.deposits[id]
	deposit.Status = valueobjects.DepositStatusConfirmed.String()
	deposit.TxHash = &txHash
	deposit.UpdatedAt = now
	deposit.ConfirmedAt = &now
	r.deposits[id] = deposit
	return deposit, nil
}

func (r *fakeDepositRepository) Reject(_ context.Context, id, reason string, now time.Time) (dto.DepositResource, *apperrors.AppError) {
	if r.rejected == nil {
		r.rejected = map[string]string{}
	}
	r.rejected[id] = reason

	deposit := r.deposits[id]
	deposit.Status = valueobjects.DepositStatusRejected.String()
	deposit.RejectReason = &reason
	deposit.UpdatedAt = now
	r.deposits[id] = deposit
	return deposit, nil
}

func (r *fakeDepositRepository) CreditManual(_ context.Context, command dto.CreateDepositPersistenceCommand, _ string) (dto.DepositResource, *apperrors.AppError) {
	r.manualCredits = append(r.manualCredits, command)
	return dto.DepositResource{
		ID:          command.ResourceID,
		UserID:      command.UserID,
		Asset:       command.Asset,
		AmountMinor: command.AmountMinor,
		Status:      command.Status,
		CreatedAt:   command.CreatedAt,
		UpdatedAt:   command.CreatedAt,
	}, nil
}

type retryUpdate struct {
	id        string
	lastError string
}

type fakeWithdrawalRepository struct {
	withdrawals map[string]dto.WithdrawalResource
	claimable   []dto.ClaimedWithdrawal

	createdCommands []dto.CreateWithdrawalPersistenceCommand
	createErr       *apperrors.AppError
	claimErr        *apperrors.AppError
	confirmed       map[string]string
	retried         []retryUpdate
	refunded        []retryUpdate
	recovered       int
	recoveredCalls  []time.Time
}

func (r *fakeWithdrawalRepository) CreateAndDebit(_ context.Context, command dto.CreateWithdrawalPersistenceCommand) (dto.WithdrawalResource, *apperrors.AppError) {
	if r.createErr != nil {
		return dto.WithdrawalResource{}, r.createErr
	}
	r.createdCommands = append(r.createdCommands, command)
	return dto.WithdrawalResource{
		ID:                 command.ResourceID,
		UserID:             command.UserID,
		Asset:              command.Asset,
		AmountMinor:        command.AmountMinor,
		DestinationAddress: command.DestinationAddress,
		Status:             command.Status,
		MaxAttempts:        command.MaxAttempts,
		CreatedAt:          command.CreatedAt,
		UpdatedAt:          command.CreatedAt,
	}, nil
}

func (r *fakeWithdrawalRepository) GetForUser(_ context.Context, id, userID string) (dto.WithdrawalResource, *apperrors.AppError) {
	withdrawal, ok := r.withdrawals[id]
	if !ok || withdrawal.UserID != userID {
		return dto.WithdrawalResource{}, apperrors.NewNotFound("withdrawal_not_found", "withdrawal does not exist", nil)
	}
	return withdrawal, nil
}

func (r *fakeWithdrawalRepository) ListForUser(_ context.Context, userID string) ([]dto.WithdrawalResource, *apperrors.AppError) {
	var out []dto.WithdrawalResource
	for _, withdrawal := range r.withdrawals {
		if withdrawal.UserID == userID {
			out = append(out, withdrawal)
		}
	}
	return out, nil
}

func (r *fakeWithdrawalRepository) ClaimBatch(_ context.Context, _ time.Time, limit int) ([]dto.ClaimedWithdrawal, *apperrors.AppError) {
	if r.claimErr != nil {
		return nil, r.claimErr
	}
	if len(r.claimable) > limit {
		return r.claimable[:limit], nil
	}
	return r.claimable, nil
}

func (r *fakeWithdrawalRepository) MarkConfirmed(_ context.Context, id, txHash string, _ time.Time) (bool, *apperrors.AppError) {
	if r.confirmed == nil {
		r.confirmed = map[string]string{}
	}
	r.confirmed[id] = txHash
	return true, nil
}

func (r *fakeWithdrawalRepository) MarkRetry(_ context.Context, id, lastError string, _ time.Time) (bool, *apperrors.AppError) {
	r.retried = append(r.retried, retryUpdate{id: id, lastError: lastError})
	return true, nil
}

func (r *fakeWithdrawalRepository) MarkFailedAndRefund(_ context.Context, id, lastError string, _ time.Time) (bool, *apperrors.AppError) {
	r.refunded = append(r.refunded, retryUpdate{id: id, lastError: lastError})
	return true, nil
}

func (r *fakeWithdrawalRepository) RecoverStuck(_ context.Context, stuckBefore, _ time.Time) (int, *apperrors.AppError) {
	r.recoveredCalls = append(r.recoveredCalls, stuckBefore)
	return r.recovered, nil
}

type fakeCoinflipRepository struct {
	settled   []dto.SettleCoinflipPersistenceCommand
	settleErr *apperrors.AppError
}

func (r *fakeCoinflipRepository) Settle(_ context.Context, command dto.SettleCoinflipPersistenceCommand) (dto.CoinflipResource, *apperrors.AppError) {
	if r.settleErr != nil {
		return dto.CoinflipResource{}, r.settleErr
	}
	r.settled = append(r.settled, command)
	return dto.CoinflipResource{
		ID:         command.ResourceID,
		UserID:     command.UserID,
		StakeNano:  command.StakeNano,
		Choice:     command.Choice,
		Outcome:    command.Outcome,
		Won:        command.Won,
		PayoutNano: command.PayoutNano,
		CreatedAt:  command.CreatedAt,
	}, nil
}

type fakeChainReader struct {
	transactions []entities.ChainTransaction
	transfers    []entities.JettonTransfer
	seqno        uint32
	readErr      *apperrors.AppError
	seqnoErr     *apperrors.AppError
}

func (g *fakeChainReader) GetRecentTransactions(_ context.Context, _ string, _ int) ([]entities.ChainTransaction, *apperrors.AppError) {
	if g.readErr != nil {
		return nil, g.readErr
	}
	return g.transactions, nil
}

func (g *fakeChainReader) GetRecentJettonTransfers(_ context.Context, _, _ string, _ int) ([]entities.JettonTransfer, *apperrors.AppError) {
	if g.readErr != nil {
		return nil, g.readErr
	}
	return g.transfers, nil
}

func (g *fakeChainReader) GetSeqno(_ context.Context, _ string) (uint32, *apperrors.AppError) {
	if g.seqnoErr != nil {
		return 0, g.seqnoErr
	}
	return g.seqno, nil
}

type fakeChainWriter struct {
	txHash  string
	sendErr *apperrors.AppError
	sent    [][]byte
}

func (g *fakeChainWriter) SendBOC(_ context.Context, boc []byte) (string, *apperrors.AppError) {
	if g.sendErr != nil {
		return "", g.sendErr
	}
	g.sent = append(g.sent, boc)
	return g.txHash, nil
}

type fakePayoutWallet struct {
	readyErr   *apperrors.AppError
	buildErr   *apperrors.AppError
	addressRaw string
	boc        []byte
	builds     []uint32
}

func (g *fakePayoutWallet) Ready() *apperrors.AppError {
	return g.readyErr
}

func (g *fakePayoutWallet) WalletAddressRaw() string {
	return g.addressRaw
}

func (g *fakePayoutWallet) BuildTransfer(seqno uint32, _ string, _ int64, _ time.Duration, _ time.Time) ([]byte, *apperrors.AppError) {
	if g.buildErr != nil {
		return nil, g.buildErr
	}
	g.builds = append(g.builds, seqno)
	return g.boc, nil
}
