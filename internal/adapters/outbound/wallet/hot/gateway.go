// Package hot exposes the in-process payout wallet. The signing key stays
// in memory for the lifetime of the worker and is loaded from the mnemonic
// at startup.
package hot

import (
	"time"

	"tonsettle/internal/application/ports/out"
	"tonsettle/internal/infrastructure/tonwallet"
	apperrors "tonsettle/internal/shared_kernel/errors"
)

var _ out.PayoutWalletGateway = (*Gateway)(nil)

// Gateway signs payout transfers with a wallet v4r2 key held in memory.
// A gateway without a signer answers every call with an unavailable error
// so the worker keeps withdrawals queued instead of failing them.
type Gateway struct {
	signer *tonwallet.Signer
}

// NewGateway builds a gateway from a mnemonic phrase. An empty mnemonic
// yields an unconfigured gateway, which is valid for read-only deployments.
// When addressRaw is non-empty it pins the wallet address instead of
// deriving it from the key.
func NewGateway(mnemonic, addressRaw string) (*Gateway, *apperrors.AppError) {
	if mnemonic == "" {
		return &Gateway{}, nil
	}

	privateKey, walletErr := tonwallet.KeyFromMnemonic(mnemonic)
	if walletErr != nil {
		return nil, mapWalletError(walletErr)
	}

	var signer *tonwallet.Signer
	if addressRaw != "" {
		signer, walletErr = tonwallet.NewSignerWithAddress(privateKey, addressRaw)
	} else {
		signer, walletErr = tonwallet.NewSigner(privateKey)
	}
	if walletErr != nil {
		return nil, mapWalletError(walletErr)
	}
	return &Gateway{signer: signer}, nil
}

func (g *Gateway) Ready() *apperrors.AppError {
	if g.signer == nil {
		return apperrors.NewUnavailable("payout_wallet_not_ready", "no key material loaded", nil)
	}
	return nil
}

func (g *Gateway) WalletAddressRaw() string {
	if g.signer == nil {
		return ""
	}
	return g.signer.AddressRaw()
}

func (g *Gateway) BuildTransfer(seqno uint32, destinationRaw string, amountNano int64, validFor time.Duration, now time.Time) ([]byte, *apperrors.AppError) {
	if appErr := g.Ready(); appErr != nil {
		return nil, appErr
	}
	boc, walletErr := g.signer.BuildSignedTransfer(seqno, destinationRaw, amountNano, validFor, now)
	if walletErr != nil {
		return nil, mapWalletError(walletErr)
	}
	return boc, nil
}

// mapWalletError lifts signing-layer failures into application errors.
// Bad inputs stay validation errors so the worker can fail the withdrawal
// instead of retrying a transfer that can never build.
func mapWalletError(walletErr *tonwallet.WalletError) *apperrors.AppError {
	details := map[string]any{"wallet_error_code": string(walletErr.Code)}
	switch walletErr.Code {
	case tonwallet.CodeBuildFailed:
		return apperrors.NewValidation("transfer_build_failed", walletErr.Message, details)
	case tonwallet.CodeInvalidMnemonic, tonwallet.CodeInvalidKeyMaterial:
		return apperrors.NewValidation("payout_wallet_key_invalid", walletErr.Message, details)
	default:
		return apperrors.NewInternal("payout_wallet_failure", walletErr.Message, details)
	}
}
