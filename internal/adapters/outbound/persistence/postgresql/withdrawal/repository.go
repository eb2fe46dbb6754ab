package withdrawal

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"tonsettle/internal/application/dto"
	portsout "tonsettle/internal/application/ports/out"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type Repository struct {
	db *sql.DB
}

var _ portsout.WithdrawalRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const withdrawalColumns = `
id, user_id, asset, amount_minor, destination_address, status, attempts,
max_attempts, tx_hash, last_error, created_at, updated_at, processed_at
`

func scanWithdrawal(row interface{ Scan(...any) error }) (dto.WithdrawalResource, error) {
	resource := dto.WithdrawalResource{}
	err := row.Scan(
		&resource.ID,
		&resource.UserID,
		&resource.Asset,
		&resource.AmountMinor,
		&resource.DestinationAddress,
		&resource.Status,
		&resource.Attempts,
		&resource.MaxAttempts,
		&resource.TxHash,
		&resource.LastError,
		&resource.CreatedAt,
		&resource.UpdatedAt,
		&resource.ProcessedAt,
	)
	return resource, err
}

func (r *Repository) CreateAndDebit(ctx context.Context, command dto.CreateWithdrawalPersistenceCommand) (dto.WithdrawalResource, *apperrors.AppError) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return dto.WithdrawalResource{}, apperrors.NewInternal(
			"withdrawal_tx_begin_failed",
			"failed to start withdrawal transaction",
			map[string]any{"error": err.Error()},
		)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	column := "ton_nano"
	if command.Asset == "USDT" {
		column = "usdt_minor"
	}

	debitQuery := `
UPDATE app.balances
SET ` + column + ` = ` + column + ` - $2,
    updated_at = $3
WHERE user_id = $1
  AND ` + column + ` >= $2
`
	result, err := tx.ExecContext(ctx, debitQuery, command.UserID, command.AmountMinor, command.CreatedAt.UTC())
	if err != nil {
		return dto.WithdrawalResource{}, apperrors.NewInternal(
			"balance_debit_failed",
			"failed to debit balance for withdrawal",
			map[string]any{"error": err.Error()},
		)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dto.WithdrawalResource{}, apperrors.NewInternal(
			"balance_debit_failed",
			"failed to verify withdrawal debit",
			map[string]any{"error": err.Error()},
		)
	}
	if rowsAffected != 1 {
		return dto.WithdrawalResource{}, apperrors.NewConflict(
			"balance_insufficient",
			"balance does not cover the withdrawal amount",
			map[string]any{"amount_minor": command.AmountMinor},
		)
	}

	const insertQuery = `
INSERT INTO app.withdrawals (
  id, user_id, asset, amount_minor, destination_address, status,
  attempts, max_attempts, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $8)
RETURNING ` + withdrawalColumns

	resource, err := scanWithdrawal(tx.QueryRowContext(
		ctx,
		insertQuery,
		command.ResourceID,
		command.UserID,
		command.Asset,
		command.AmountMinor,
		command.DestinationAddress,
		command.Status,
		command.MaxAttempts,
		command.CreatedAt.UTC(),
	))
	if err != nil {
		return dto.WithdrawalResource{}, apperrors.NewInternal(
			"withdrawal_insert_failed",
			"failed to insert withdrawal",
			map[string]any{"error": err.Error()},
		)
	}

	if err := tx.Commit(); err != nil {
		return dto.WithdrawalResource{}, apperrors.NewInternal(
			"withdrawal_tx_commit_failed",
			"failed to commit withdrawal",
			map[string]any{"error": err.Error()},
		)
	}
	committed = true
	return resource, nil
}

func (r *Repository) GetForUser(ctx context.Context, id, userID string) (dto.WithdrawalResource, *apperrors.AppError) {
	const query = `
SELECT ` + withdrawalColumns + `
FROM app.withdrawals
WHERE id = $1 AND user_id = $2
`
	resource, err := scanWithdrawal(r.db.QueryRowContext(ctx, query, id, userID))
	if stderrors.Is(err, sql.ErrNoRows) {
		return dto.WithdrawalResource{}, apperrors.NewNotFound(
			"withdrawal_not_found",
			"withdrawal does not exist",
			map[string]any{"withdrawal_id": id},
		)
	}
	if err != nil {
		return dto.WithdrawalResource{}, apperrors.NewInternal(
			"withdrawal_query_failed",
			"failed to read withdrawal",
			map[string]any{"error": err.Error()},
		)
	}
	return resource, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]dto.WithdrawalResource, *apperrors.AppError) {
	const query = `
SELECT ` + withdrawalColumns + `
FROM app.withdrawals
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewInternal(
			"withdrawal_query_failed",
			"failed to list withdrawals",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	items := []dto.WithdrawalResource{}
	for rows.Next() {
		resource, err := scanWithdrawal(rows)
		if err != nil {
			return nil, apperrors.NewInternal(
				"withdrawal_query_failed",
				"failed to parse withdrawal row",
				map[string]any{"error": err.Error()},
			)
		}
		items = append(items, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"withdrawal_query_failed",
			"failed while iterating withdrawals",
			map[string]any{"error": err.Error()},
		)
	}
	return items, nil
}

// ClaimBatch is the only path from CREATED to PROCESSING. SKIP LOCKED keeps
// concurrent workers off each other's rows, and the attempt counter moves
// here so a crash after the claim still consumes budget.
func (r *Repository) ClaimBatch(ctx context.Context, now time.Time, limit int) ([]dto.ClaimedWithdrawal, *apperrors.AppError) {
	const query = `
WITH candidates AS (
  SELECT id
  FROM app.withdrawals
  WHERE status = 'CREATED'
  ORDER BY created_at ASC, id ASC
  LIMIT $2
  FOR UPDATE SKIP LOCKED
)
UPDATE app.withdrawals AS w
SET status = 'PROCESSING',
    attempts = w.attempts + 1,
    updated_at = $1
FROM candidates
WHERE w.id = candidates.id
RETURNING
  w.id,
  w.user_id,
  w.asset,
  w.amount_minor,
  w.destination_address,
  w.attempts,
  w.max_attempts
`
	rows, err := r.db.QueryContext(ctx, query, now.UTC(), limit)
	if err != nil {
		return nil, apperrors.NewInternal(
			"withdrawal_claim_failed",
			"failed to claim withdrawals",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	items := make([]dto.ClaimedWithdrawal, 0, limit)
	for rows.Next() {
		item := dto.ClaimedWithdrawal{}
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Asset,
			&item.AmountMinor,
			&item.DestinationAddress,
			&item.Attempts,
			&item.MaxAttempts,
		); err != nil {
			return nil, apperrors.NewInternal(
				"withdrawal_claim_failed",
				"failed to parse claimed withdrawal",
				map[string]any{"error": err.Error()},
			)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"withdrawal_claim_failed",
			"failed while iterating claimed withdrawals",
			map[string]any{"error": err.Error()},
		)
	}
	return items, nil
}

func (r *Repository) MarkConfirmed(ctx context.Context, id, txHash string, now time.Time) (bool, *apperrors.AppError) {
	const query = `
UPDATE app.withdrawals
SET status = 'CONFIRMED',
    tx_hash = $2,
    last_error = NULL,
    updated_at = $3,
    processed_at = $3
WHERE id = $1
  AND status = 'PROCESSING'
`
	return r.execRowsAffected(ctx, query, id, txHash, now.UTC())
}

func (r *Repository) MarkRetry(ctx context.Context, id, lastError string, now time.Time) (bool, *apperrors.AppError) {
	const query = `
UPDATE app.withdrawals
SET status = 'CREATED',
    last_error = $2,
    updated_at = $3
WHERE id = $1
  AND status = 'PROCESSING'
`
	return r.execRowsAffected(ctx, query, id, lastError, now.UTC())
}

func (r *Repository) MarkFailedAndRefund(ctx context.Context, id, lastError string, now time.Time) (bool, *apperrors.AppError) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return false, apperrors.NewInternal(
			"withdrawal_tx_begin_failed",
			"failed to start refund transaction",
			map[string]any{"error": err.Error()},
		)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const failQuery = `
UPDATE app.withdrawals
SET status = 'FAILED',
    last_error = $2,
    updated_at = $3,
    processed_at = $3
WHERE id = $1
  AND status = 'PROCESSING'
RETURNING user_id, asset, amount_minor
`
	var userID, asset string
	var amountMinor int64
	err = tx.QueryRowContext(ctx, failQuery, id, lastError, now.UTC()).Scan(&userID, &asset, &amountMinor)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternal(
			"withdrawal_fail_failed",
			"failed to fail withdrawal",
			map[string]any{"error": err.Error()},
		)
	}

	column := "ton_nano"
	if asset == "USDT" {
		column = "usdt_minor"
	}
	refundQuery := `
UPDATE app.balances
SET ` + column + ` = ` + column + ` + $2,
    updated_at = $3
WHERE user_id = $1
`
	if _, err := tx.ExecContext(ctx, refundQuery, userID, amountMinor, now.UTC()); err != nil {
		return false, apperrors.NewInternal(
			"balance_refund_failed",
			"failed to refund withdrawal amount",
			map[string]any{"error": err.Error()},
		)
	}

	if err := tx.Commit(); err != nil {
		return false, apperrors.NewInternal(
			"withdrawal_tx_commit_failed",
			"failed to commit refund",
			map[string]any{"error": err.Error()},
		)
	}
	committed = true
	return true, nil
}

func (r *Repository) RecoverStuck(ctx context.Context, stuckBefore, now time.Time) (int, *apperrors.AppError) {
	const query = `
UPDATE app.withdrawals
SET status = 'CREATED',
    last_error = 'recovered from stale PROCESSING state',
    updated_at = $2
WHERE status = 'PROCESSING'
  AND updated_at < $1
`
	result, err := r.db.ExecContext(ctx, query, stuckBefore.UTC(), now.UTC())
	if err != nil {
		return 0, apperrors.NewInternal(
			"withdrawal_recover_failed",
			"failed to recover stuck withdrawals",
			map[string]any{"error": err.Error()},
		)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternal(
			"withdrawal_recover_failed",
			"failed to verify recovery update",
			map[string]any{"error": err.Error()},
		)
	}
	return int(rowsAffected), nil
}

func (r *Repository) execRowsAffected(ctx context.Context, query string, args ...any) (bool, *apperrors.AppError) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternal(
			"withdrawal_update_failed",
			"failed to update withdrawal",
			map[string]any{"error": err.Error()},
		)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternal(
			"withdrawal_update_failed",
			"failed to verify withdrawal update",
			map[string]any{"error": err.Error()},
		)
	}
	return rowsAffected == 1, nil
}
