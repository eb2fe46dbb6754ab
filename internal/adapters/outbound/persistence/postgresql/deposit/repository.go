package deposit

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"tonsettle/internal/application/dto"
	portsout "tonsettle/internal/application/ports/out"
	apperrors "tonsettle/internal/shared_kernel/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type Repository struct {
	db *sql.DB
}

var _ portsout.DepositRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const depositColumns = `
id, user_id, asset, amount_minor, sender_address, status, tx_hash,
reject_reason, created_at, updated_at, confirmed_at
`

func scanDeposit(row interface{ Scan(...any) error }) (dto.DepositResource, error) {
	resource := dto.DepositResource{}
	err := row.Scan(
		&resource.ID,
		&resource.UserID,
		&resource.Asset,
		&resource.AmountMinor,
		&resource.SenderAddress,
		&resource.Status,
		&resource.TxHash,
		&resource.RejectReason,
		&resource.CreatedAt,
		&resource.UpdatedAt,
		&resource.ConfirmedAt,
	)
	return resource, err
}

func (r *Repository) Create(ctx context.Context, command dto.CreateDepositPersistenceCommand) (dto.DepositResource, *apperrors.AppError) {
	const query = `
INSERT INTO app.deposits (
  id, user_id, asset, amount_minor, sender_address, status, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
RETURNING ` + depositColumns

	resource, err := scanDeposit(r.db.QueryRowContext(
		ctx,
		query,
		command.ResourceID,
		command.UserID,
		command.Asset,
		command.AmountMinor,
		command.SenderAddress,
		command.Status,
		command.CreatedAt.UTC(),
	))
	if err != nil {
		return dto.DepositResource{}, apperrors.NewInternal(
			"deposit_insert_failed",
			"failed to insert deposit",
			map[string]any{"error": err.Error()},
		)
	}
	return resource, nil
}

func (r *Repository) GetForUser(ctx context.Context, id, userID string) (dto.DepositResource, *apperrors.AppError) {
	const query = `
SELECT ` + depositColumns + `
FROM app.deposits
WHERE id = $1 AND user_id = $2
`
	resource, err := scanDeposit(r.db.QueryRowContext(ctx, query, id, userID))
	if stderrors.Is(err, sql.ErrNoRows) {
		return dto.DepositResource{}, apperrors.NewNotFound(
			"deposit_not_found",
			"deposit does not exist",
			map[string]any{"deposit_id": id},
		)
	}
	if err != nil {
		return dto.DepositResource{}, apperrors.NewInternal(
			"deposit_query_failed",
			"failed to read deposit",
			map[string]any{"error": err.Error()},
		)
	}
	return resource, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]dto.DepositResource, *apperrors.AppError) {
	const query = `
SELECT ` + depositColumns + `
FROM app.deposits
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewInternal(
			"deposit_query_failed",
			"failed to list deposits",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	items := []dto.DepositResource{}
	for rows.Next() {
		resource, err := scanDeposit(rows)
		if err != nil {
			return nil, apperrors.NewInternal(
				"deposit_query_failed",
				"failed to parse deposit row",
				map[string]any{"error": err.Error()},
			)
		}
		items = append(items, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"deposit_query_failed",
			"failed while iterating deposits",
			map[string]any{"error": err.Error()},
		)
	}
	return items, nil
}

func (r *Repository) ListUsedTxHashes(ctx context.Context) ([]string, *apperrors.AppError) {
	const query = `
SELECT tx_hash
FROM app.deposits
WHERE tx_hash IS NOT NULL
`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternal(
			"deposit_query_failed",
			"failed to list consumed transaction hashes",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	hashes := []string{}
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, apperrors.NewInternal(
				"deposit_query_failed",
				"failed to parse transaction hash row",
				map[string]any{"error": err.Error()},
			)
		}
		hashes = append(hashes, hash)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"deposit_query_failed",
			"failed while iterating transaction hashes",
			map[string]any{"error": err.Error()},
		)
	}
	return hashes, nil
}

// ConfirmAndCredit settles a pending deposit against its matched chain
// transaction. The UNIQUE index on tx_hash makes a second settlement with
// the same hash fail here with a conflict, whatever the matcher saw.
func (r *Repository) ConfirmAndCredit(ctx context.Context, id, txHash string, now time.Time) (dto.DepositResource, *apperrors.AppError) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return dto.DepositResource{}, apperrors.NewInternal(
			"deposit_tx_begin_failed",
			"failed to start deposit settlement transaction",
			map[string]any{"error": err.Error()},
		)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const confirmQuery = `
UPDATE app.deposits
SET status = 'CONFIRMED',
    tx_hash = $2,
    updated_at = $3,
    confirmed_at = $3
WHERE id = $1
  AND status = 'PENDING'
RETURNING ` + depositColumns

	resource, err := scanDeposit(tx.QueryRowContext(ctx, confirmQuery, id, txHash, now.UTC()))
	if stderrors.Is(err, sql.ErrNoRows) {
		return dto.DepositResource{}, apperrors.NewConflict(
			"deposit_not_pending",
			"deposit is not pending",
			map[string]any{"deposit_id": id},
		)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return dto.DepositResource{}, apperrors.NewConflict(
				"deposit_tx_hash_taken",
				"chain transaction already credited another deposit",
				map[string]any{"tx_hash": txHash},
			)
		}
		return dto.DepositResource{}, apperrors.NewInternal(
			"deposit_confirm_failed",
			"failed to confirm deposit",
			map[string]any{"error": err.Error()},
		)
	}

	if appErr := creditInTx(ctx, tx, resource.UserID, resource.Asset, resource.AmountMinor, now); appErr != nil {
		return dto.DepositResource{}, appErr
	}

	if err := tx.Commit(); err != nil {
		return dto.DepositResource{}, apperrors.NewInternal(
			"deposit_tx_commit_failed",
			"failed to commit deposit settlement",
			map[string]any{"error": err.Error()},
		)
	}
	committed = true
	return resource, nil
}

func (r *Repository) Reject(ctx context.Context, id, reason string, now time.Time) (dto.DepositResource, *apperrors.AppError) {
	const query = `
UPDATE app.deposits
SET status = 'REJECTED',
    reject_reason = $2,
    updated_at = $3
WHERE id = $1
  AND status = 'PENDING'
RETURNING ` + depositColumns

	resource, err := scanDeposit(r.db.QueryRowContext(ctx, query, id, reason, now.UTC()))
	if stderrors.Is(err, sql.ErrNoRows) {
		return dto.DepositResource{}, apperrors.NewConflict(
			"deposit_not_pending",
			"deposit is not pending",
			map[string]any{"deposit_id": id},
		)
	}
	if err != nil {
		return dto.DepositResource{}, apperrors.NewInternal(
			"deposit_reject_failed",
			"failed to reject deposit",
			map[string]any{"error": err.Error()},
		)
	}
	return resource, nil
}

func (r *Repository) CreditManual(ctx context.Context, command dto.CreateDepositPersistenceCommand, note string) (dto.DepositResource, *apperrors.AppError) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return dto.DepositResource{}, apperrors.NewInternal(
			"deposit_tx_begin_failed",
			"failed to start manual credit transaction",
			map[string]any{"error": err.Error()},
		)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const insertQuery = `
INSERT INTO app.deposits (
  id, user_id, asset, amount_minor, status, note, created_at, updated_at, confirmed_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $7)
RETURNING ` + depositColumns

	resource, err := scanDeposit(tx.QueryRowContext(
		ctx,
		insertQuery,
		command.ResourceID,
		command.UserID,
		command.Asset,
		command.AmountMinor,
		command.Status,
		note,
		command.CreatedAt.UTC(),
	))
	if err != nil {
		return dto.DepositResource{}, apperrors.NewInternal(
			"deposit_insert_failed",
			"failed to insert manual deposit",
			map[string]any{"error": err.Error()},
		)
	}

	if appErr := creditInTx(ctx, tx, command.UserID, command.Asset, command.AmountMinor, command.CreatedAt); appErr != nil {
		return dto.DepositResource{}, appErr
	}

	if err := tx.Commit(); err != nil {
		return dto.DepositResource{}, apperrors.NewInternal(
			"deposit_tx_commit_failed",
			"failed to commit manual credit",
			map[string]any{"error": err.Error()},
		)
	}
	committed = true
	return resource, nil
}

func creditInTx(ctx context.Context, tx *sql.Tx, userID, asset string, amountMinor int64, now time.Time) *apperrors.AppError {
	column := "ton_nano"
	if asset == "USDT" {
		column = "usdt_minor"
	}

	query := `
INSERT INTO app.balances (user_id, ` + column + `, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE
SET ` + column + ` = app.balances.` + column + ` + EXCLUDED.` + column + `,
    updated_at = EXCLUDED.updated_at
`
	if _, err := tx.ExecContext(ctx, query, userID, amountMinor, now.UTC()); err != nil {
		return apperrors.NewInternal(
			"balance_credit_failed",
			"failed to credit balance during settlement",
			map[string]any{"error": err.Error()},
		)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !stderrors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505"
}
