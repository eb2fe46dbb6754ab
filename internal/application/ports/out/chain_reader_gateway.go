package out

import (
	"context"

	"tonsettle/internal/domain/entities"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

// ChainReaderGateway reads settled chain state through an indexing endpoint.
type ChainReaderGateway interface {
	// GetRecentTransactions lists the newest transactions on an account,
	// newest first.
	GetRecentTransactions(ctx context.Context, addressRaw string, limit int) ([]entities.ChainTransaction, *apperrors.AppError)
	// GetRecentJettonTransfers lists the newest token transfers into an
	// owner account for one token master contract.
	GetRecentJettonTransfers(ctx context.Context, ownerRaw, jettonMaster string, limit int) ([]entities.JettonTransfer, *apperrors.AppError)
	// GetSeqno reads the wallet contract's current sequence counter. A
	// contract that is not deployed yet maps to an unavailable error.
	GetSeqno(ctx context.Context, addressRaw string) (uint32, *apperrors.AppError)
}
