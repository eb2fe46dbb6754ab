package balance

import (
	"context"
	"database/sql"
	"time"

	"tonsettle/internal/application/dto"
	portsout "tonsettle/internal/application/ports/out"
	valueobjects "tonsettle/internal/domain/value_objects"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

type Repository struct {
	db *sql.DB
}

var _ portsout.BalanceRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// assetColumn maps an asset to its ledger column. Column names come from
// this closed set only, never from request input.
func assetColumn(asset valueobjects.Asset) (string, *apperrors.AppError) {
	switch asset {
	case valueobjects.AssetTON:
		return "ton_nano", nil
	case valueobjects.AssetUSDT:
		return "usdt_minor", nil
	default:
		return "", apperrors.NewInternal(
			"balance_asset_unknown",
			"no ledger column for asset",
			map[string]any{"asset": asset.String()},
		)
	}
}

func (r *Repository) GetBalance(ctx context.Context, userID string) (dto.BalanceResource, *apperrors.AppError) {
	const insertQuery = `
INSERT INTO app.balances (user_id, ton_nano, usdt_minor, updated_at)
VALUES ($1, 0, 0, now())
ON CONFLICT (user_id) DO NOTHING
`
	if _, err := r.db.ExecContext(ctx, insertQuery, userID); err != nil {
		return dto.BalanceResource{}, apperrors.NewInternal(
			"balance_init_failed",
			"failed to initialize balance row",
			map[string]any{"error": err.Error()},
		)
	}

	const selectQuery = `
SELECT user_id, ton_nano, usdt_minor, updated_at
FROM app.balances
WHERE user_id = $1
`
	resource := dto.BalanceResource{}
	err := r.db.QueryRowContext(ctx, selectQuery, userID).Scan(
		&resource.UserID,
		&resource.TONNano,
		&resource.USDTMinor,
		&resource.UpdatedAt,
	)
	if err != nil {
		return dto.BalanceResource{}, apperrors.NewInternal(
			"balance_query_failed",
			"failed to read balance row",
			map[string]any{"error": err.Error()},
		)
	}

	return resource, nil
}

func (r *Repository) Credit(ctx context.Context, userID string, asset valueobjects.Asset, amountMinor int64, now time.Time) *apperrors.AppError {
	column, appErr := assetColumn(asset)
	if appErr != nil {
		return appErr
	}

	query := `
INSERT INTO app.balances (user_id, ` + column + `, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE
SET ` + column + ` = app.balances.` + column + ` + EXCLUDED.` + column + `,
    updated_at = EXCLUDED.updated_at
`
	if _, err := r.db.ExecContext(ctx, query, userID, amountMinor, now.UTC()); err != nil {
		return apperrors.NewInternal(
			"balance_credit_failed",
			"failed to credit balance",
			map[string]any{"error": err.Error()},
		)
	}
	return nil
}

func (r *Repository) Debit(ctx context.Context, userID string, asset valueobjects.Asset, amountMinor int64, now time.Time) (bool, *apperrors.AppError) {
	column, appErr := assetColumn(asset)
	if appErr != nil {
		return false, appErr
	}

	// The guard in the WHERE clause is the whole overdraft protection:
	// zero rows affected means the balance did not cover the amount.
	query := `
UPDATE app.balances
SET ` + column + ` = ` + column + ` - $2,
    updated_at = $3
WHERE user_id = $1
  AND ` + column + ` >= $2
`
	result, err := r.db.ExecContext(ctx, query, userID, amountMinor, now.UTC())
	if err != nil {
		return false, apperrors.NewInternal(
			"balance_debit_failed",
			"failed to debit balance",
			map[string]any{"error": err.Error()},
		)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternal(
			"balance_debit_failed",
			"failed to verify balance debit",
			map[string]any{"error": err.Error()},
		)
	}
	return rowsAffected == 1, nil
}
