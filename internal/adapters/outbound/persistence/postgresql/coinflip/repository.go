package coinflip

import (
	"context"
	"database/sql"

	"tonsettle/internal/application/dto"
	portsout "tonsettle/internal/application/ports/out"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type Repository struct {
	db *sql.DB
}

var _ portsout.CoinflipRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Settle runs the whole round as one transaction: a guarded stake debit, the
// round record, and the payout credit for a win. No partial outcome can
// reach the ledger.
func (r *Repository) Settle(ctx context.Context, command dto.SettleCoinflipPersistenceCommand) (dto.CoinflipResource, *apperrors.AppError) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return dto.CoinflipResource{}, apperrors.NewInternal(
			"coinflip_tx_begin_failed",
			"failed to start coinflip transaction",
			map[string]any{"error": err.Error()},
		)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const debitQuery = `
UPDATE app.balances
SET ton_nano = ton_nano - $2,
    updated_at = $3
WHERE user_id = $1
  AND ton_nano >= $2
`
	result, err := tx.ExecContext(ctx, debitQuery, command.UserID, command.StakeNano, command.CreatedAt.UTC())
	if err != nil {
		return dto.CoinflipResource{}, apperrors.NewInternal(
			"balance_debit_failed",
			"failed to debit coinflip stake",
			map[string]any{"error": err.Error()},
		)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dto.CoinflipResource{}, apperrors.NewInternal(
			"balance_debit_failed",
			"failed to verify stake debit",
			map[string]any{"error": err.Error()},
		)
	}
	if rowsAffected != 1 {
		return dto.CoinflipResource{}, apperrors.NewConflict(
			"balance_insufficient",
			"balance does not cover the stake",
			map[string]any{"stake_nano": command.StakeNano},
		)
	}

	const insertQuery = `
INSERT INTO app.coinflip_rounds (
  id, user_id, stake_nano, choice, outcome, won, payout_nano, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, user_id, stake_nano, choice, outcome, won, payout_nano, created_at
`
	resource := dto.CoinflipResource{}
	err = tx.QueryRowContext(
		ctx,
		insertQuery,
		command.ResourceID,
		command.UserID,
		command.StakeNano,
		command.Choice,
		command.Outcome,
		command.Won,
		command.PayoutNano,
		command.CreatedAt.UTC(),
	).Scan(
		&resource.ID,
		&resource.UserID,
		&resource.StakeNano,
		&resource.Choice,
		&resource.Outcome,
		&resource.Won,
		&resource.PayoutNano,
		&resource.CreatedAt,
	)
	if err != nil {
		return dto.CoinflipResource{}, apperrors.NewInternal(
			"coinflip_insert_failed",
			"failed to record coinflip round",
			map[string]any{"error": err.Error()},
		)
	}

	if command.Won && command.PayoutNano > 0 {
		const creditQuery = `
UPDATE app.balances
SET ton_nano = ton_nano + $2,
    updated_at = $3
WHERE user_id = $1
`
		if _, err := tx.ExecContext(ctx, creditQuery, command.UserID, command.PayoutNano, command.CreatedAt.UTC()); err != nil {
			return dto.CoinflipResource{}, apperrors.NewInternal(
				"balance_credit_failed",
				"failed to credit coinflip payout",
				map[string]any{"error": err.Error()},
			)
		}
	}

	if err := tx.Commit(); err != nil {
		return dto.CoinflipResource{}, apperrors.NewInternal(
			"coinflip_tx_commit_failed",
			"failed to commit coinflip round",
			map[string]any{"error": err.Error()},
		)
	}
	committed = true
	return resource, nil
}
